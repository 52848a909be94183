package store

import (
	"sync"

	"tableau/models"
)

// LikesSlice owns the like relation: an unordered set of (post, user) pairs.
// Every successful mutation writes through to local storage.
type LikesSlice struct {
	deps *deps

	mu      sync.Mutex
	version uint64
	items   []models.Like
}

func newLikesSlice(d *deps) *LikesSlice {
	return &LikesSlice{
		deps:  d,
		items: d.local.LoadLikes(),
	}
}

func (s *LikesSlice) bump(op string) {
	s.version++
	s.deps.bus.publish(Event{Slice: "likes", Op: op, Version: s.version})
}

// Toggle inserts the pair if absent and removes it if present. Toggling
// twice returns the set to its original state; the set never holds the same
// pair twice.
func (s *LikesSlice) Toggle(postID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.items {
		if l.PostID == postID && l.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.deps.local.SaveLikes(s.items)
			s.bump("toggle")
			return
		}
	}
	s.items = append(s.items, models.Like{PostID: postID, UserID: userID})
	s.deps.local.SaveLikes(s.items)
	s.bump("toggle")
}

// Items returns a copy of the like-set.
func (s *LikesSlice) Items() []models.Like {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Like(nil), s.items...)
}

// Version returns the slice's mutation counter.
func (s *LikesSlice) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
