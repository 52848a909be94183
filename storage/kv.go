package storage

import (
	"sync"

	"go.etcd.io/bbolt"
)

// KV is the injected key-value capability behind the local persistence
// adapter. Implementations must treat failures as non-fatal: persistence is
// a best-effort cache, never the source of truth.
type KV interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
}

// BoltKV stores blobs in a single bbolt bucket.
type BoltKV struct {
	db *bbolt.DB
}

// NewBoltKV wraps an opened database from InitDB.
func NewBoltKV(db *bbolt.DB) *BoltKV {
	return &BoltKV{db: db}
}

func (s *BoltKV) Get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || value == nil {
		return nil, false
	}
	return value, true
}

func (s *BoltKV) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

func (s *BoltKV) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// MemoryKV is an in-process KV used by tests and by installations that run
// without durable storage.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

func (s *MemoryKV) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *MemoryKV) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
