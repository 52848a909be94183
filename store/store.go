// Package store holds the canonical entity collections behind the dashboard
// and applies every mutation to them. Remote records enter through the
// normalizer, consumers read copies, and selected slices write through to
// local durable storage.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tableau/models"
	"tableau/remote"
	"tableau/storage"
	"tableau/utils"
)

// LoadState is the lifecycle status of one logical operation on a slice.
type LoadState string

const (
	Idle      LoadState = "idle"
	Pending   LoadState = "pending"
	Succeeded LoadState = "succeeded"
	Failed    LoadState = "failed"
)

// Remote is the surface of the remote collection client the store depends
// on. *remote.Client satisfies it; tests substitute fakes.
type Remote interface {
	FetchUsers(ctx context.Context, params remote.ListParams) ([]models.RawUser, *int, error)
	CreateUser(ctx context.Context, payload any) (models.RawUser, error)
	FetchUser(ctx context.Context, id string) (models.RawUser, error)
	UpdateUser(ctx context.Context, id string, payload any) (models.RawUser, error)
	DeleteUser(ctx context.Context, id string) error
	FetchDemandes(ctx context.Context, params remote.ListParams) ([]models.RawRequest, *int, error)
	CreateDemande(ctx context.Context, payload any) (models.RawRequest, error)
	UpdateDemande(ctx context.Context, id string, payload any) (models.RawRequest, error)
	DeleteDemande(ctx context.Context, id string) error
}

// Options configure a Store. Remote is required; everything else has a
// sensible default so tests can construct a fresh store per case with only
// the pieces they care about.
type Options struct {
	Remote Remote
	Local  *storage.Local
	Hasher utils.Hasher
	Now    func() time.Time
	NewID  func() string
	Log    *utils.Logger
}

// deps are the injected capabilities shared by every slice.
type deps struct {
	remote Remote
	local  *storage.Local
	hasher utils.Hasher
	now    func() time.Time
	newID  func() string
	log    *utils.Logger
	bus    *EventBus
}

// Store owns the canonical collections. It is explicitly constructed, never
// an ambient singleton.
type Store struct {
	Auth     *AuthSlice
	Users    *UsersSlice
	Requests *RequestsSlice
	Likes    *LikesSlice
	Comments *CommentsSlice
	Settings *SettingsSlice

	Events *EventBus
}

// New builds a store, hydrating the persisted slices from local storage.
func New(opts Options) *Store {
	d := &deps{
		remote: opts.Remote,
		local:  opts.Local,
		hasher: opts.Hasher,
		now:    opts.Now,
		newID:  opts.NewID,
		log:    opts.Log,
		bus:    newEventBus(),
	}
	if d.local == nil {
		d.local = storage.NewLocal(storage.NewMemoryKV(), opts.Log)
	}
	if d.hasher == nil {
		d.hasher = utils.SHA256Hasher{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	if d.log == nil {
		d.log = utils.Log
	}

	return &Store{
		Auth:     newAuthSlice(d),
		Users:    newUsersSlice(d),
		Requests: newRequestsSlice(d),
		Likes:    newLikesSlice(d),
		Comments: newCommentsSlice(d),
		Settings: newSettingsSlice(d),
		Events:   d.bus,
	}
}

// nowISO returns the injected clock's current time as an ISO timestamp.
func (d *deps) nowISO() string {
	return d.now().UTC().Format(time.RFC3339)
}

// ListOptions select a page of a remote collection. Zero Page/Limit loads
// the full unpaginated collection.
type ListOptions struct {
	Page   int
	Limit  int
	Status string
}

func (o ListOptions) paginated() bool {
	return o.Page > 0 && o.Limit > 0
}
