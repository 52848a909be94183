package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableau/models"
	"tableau/remote"
	"tableau/storage"
	"tableau/utils"
)

// fakeRemote scripts the remote collection for store tests. Each call pops
// the next queued response for its method; a nil gate resolves immediately,
// otherwise the call blocks until the gate channel is closed so tests can
// observe the optimistic mid-state.
type fakeRemote struct {
	mu    sync.Mutex
	gate  chan struct{}
	calls []string

	users          []models.RawUser
	usersCount     *int
	usersErr       error
	demandes       []models.RawRequest
	demandesCount  *int
	demandesErr    error
	created        models.RawRequest
	createErr      error
	updated        models.RawRequest
	updateErr      error
	deleteErr      error
	createdUser    models.RawUser
	createUserErr  error
	updatedUser    models.RawUser
	updateUserErr  error
	deleteUserErr  error
	lastPayload    any
	lastUpdateID   string
	lastListParams remote.ListParams
}

func (f *fakeRemote) wait() {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeRemote) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeRemote) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeRemote) FetchUsers(ctx context.Context, params remote.ListParams) ([]models.RawUser, *int, error) {
	f.record("FetchUsers")
	f.mu.Lock()
	f.lastListParams = params
	f.mu.Unlock()
	f.wait()
	return f.users, f.usersCount, f.usersErr
}

func (f *fakeRemote) CreateUser(ctx context.Context, payload any) (models.RawUser, error) {
	f.record("CreateUser")
	f.mu.Lock()
	f.lastPayload = payload
	f.mu.Unlock()
	f.wait()
	return f.createdUser, f.createUserErr
}

func (f *fakeRemote) FetchUser(ctx context.Context, id string) (models.RawUser, error) {
	f.record("FetchUser")
	f.wait()
	return models.RawUser{}, nil
}

func (f *fakeRemote) UpdateUser(ctx context.Context, id string, payload any) (models.RawUser, error) {
	f.record("UpdateUser")
	f.mu.Lock()
	f.lastUpdateID = id
	f.lastPayload = payload
	f.mu.Unlock()
	f.wait()
	return f.updatedUser, f.updateUserErr
}

func (f *fakeRemote) DeleteUser(ctx context.Context, id string) error {
	f.record("DeleteUser")
	f.wait()
	return f.deleteUserErr
}

func (f *fakeRemote) FetchDemandes(ctx context.Context, params remote.ListParams) ([]models.RawRequest, *int, error) {
	f.record("FetchDemandes")
	f.mu.Lock()
	f.lastListParams = params
	f.mu.Unlock()
	f.wait()
	return f.demandes, f.demandesCount, f.demandesErr
}

func (f *fakeRemote) CreateDemande(ctx context.Context, payload any) (models.RawRequest, error) {
	f.record("CreateDemande")
	f.mu.Lock()
	f.lastPayload = payload
	f.mu.Unlock()
	f.wait()
	return f.created, f.createErr
}

func (f *fakeRemote) UpdateDemande(ctx context.Context, id string, payload any) (models.RawRequest, error) {
	f.record("UpdateDemande")
	f.mu.Lock()
	f.lastUpdateID = id
	f.lastPayload = payload
	f.mu.Unlock()
	f.wait()
	return f.updated, f.updateErr
}

func (f *fakeRemote) DeleteDemande(ctx context.Context, id string) error {
	f.record("DeleteDemande")
	f.wait()
	return f.deleteErr
}

// newTestStore builds a store over the fake with a pinned clock and
// sequential ids.
func newTestStore(f *fakeRemote) *Store {
	var n int
	return New(Options{
		Remote: f,
		Local:  storage.NewLocal(storage.NewMemoryKV(), nil),
		Hasher: utils.SHA256Hasher{},
		Now:    func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
}
