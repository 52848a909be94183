package store

import (
	"context"
	"sync"

	"tableau/models"
	"tableau/remote"
	"tableau/utils"
)

// UsersSlice owns the user collection. Like requests, it keeps the
// unpaginated list and the admin browse page as independent projections.
type UsersSlice struct {
	deps *deps

	mu      sync.Mutex
	version uint64

	items      []models.User
	pagedItems []models.User

	currentPage int
	totalPages  int
	limit       int
	totalCount  *int

	loading     LoadState
	lastError   string
	pageLoading LoadState
	pageError   string
}

func newUsersSlice(d *deps) *UsersSlice {
	return &UsersSlice{
		deps:        d,
		currentPage: 1,
		totalPages:  1,
		limit:       10,
		loading:     Idle,
		pageLoading: Idle,
	}
}

func (s *UsersSlice) bump(op string) {
	s.version++
	s.deps.bus.publish(Event{Slice: "users", Op: op, Version: s.version})
}

// LoadAll refreshes the collection from the remote store; see
// RequestsSlice.LoadAll for the dual-projection behavior.
func (s *UsersSlice) LoadAll(ctx context.Context, opts ListOptions) error {
	paginated := opts.paginated()

	s.mu.Lock()
	if paginated {
		s.pageLoading = Pending
		s.pageError = ""
	} else {
		s.loading = Pending
		s.lastError = ""
	}
	s.bump("loadAll")
	s.mu.Unlock()

	rawList, count, err := s.deps.remote.FetchUsers(ctx, remote.ListParams{
		Page:  opts.Page,
		Limit: opts.Limit,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if paginated {
			s.pageLoading = Failed
			s.pageError = utils.RemoteMessage(err)
		} else {
			s.loading = Failed
			s.lastError = utils.RemoteMessage(err)
		}
		s.bump("loadAll")
		return err
	}

	list := make([]models.User, 0, len(rawList))
	for _, raw := range rawList {
		list = append(list, models.NormalizeUserAt(raw, s.deps.now()))
	}

	if paginated {
		s.pageLoading = Succeeded
		s.pagedItems = list
		s.currentPage = opts.Page
		s.totalPages = models.TotalPages(count, opts.Limit, opts.Page, len(list))
		s.limit = opts.Limit
		s.totalCount = count
	} else {
		s.loading = Succeeded
		s.items = list
	}
	s.bump("loadAll")
	return nil
}

// Update applies an admin profile edit optimistically: both projections are
// patched in place, then the remote record is replaced. A failed remote call
// restores the retained snapshots.
func (s *UsersSlice) Update(ctx context.Context, id string, patch models.UserPatch) error {
	s.mu.Lock()
	prevItem, hadItem := snapshotUser(s.items, id)
	prevPaged, hadPaged := snapshotUser(s.pagedItems, id)
	apply := func(u *models.User) { patch.Apply(u) }
	applyUser(s.items, id, apply)
	applyUser(s.pagedItems, id, apply)
	s.bump("update")
	s.mu.Unlock()

	raw, err := s.deps.remote.UpdateUser(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if hadItem {
			applyUser(s.items, prevItem.ID, func(u *models.User) { *u = prevItem })
		}
		if hadPaged {
			applyUser(s.pagedItems, prevPaged.ID, func(u *models.User) { *u = prevPaged })
		}
		s.lastError = utils.RemoteMessage(err)
		s.bump("update")
		return err
	}

	updated := models.NormalizeUserAt(raw, s.deps.now())
	replace := func(u *models.User) { *u = updated }
	applyUser(s.items, updated.ID, replace)
	applyUser(s.pagedItems, updated.ID, replace)
	s.bump("update")
	return nil
}

// Delete removes a user record. The local removal is optimistic; a hard
// delete needs no rollback payload, a failed remote call only records the
// error.
func (s *UsersSlice) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.items = removeUser(s.items, id)
	s.pagedItems = removeUser(s.pagedItems, id)
	s.bump("delete")
	s.mu.Unlock()

	if err := s.deps.remote.DeleteUser(ctx, id); err != nil {
		s.mu.Lock()
		s.lastError = utils.RemoteMessage(err)
		s.bump("delete")
		s.mu.Unlock()
		return err
	}
	return nil
}

// Set replaces the unpaginated collection.
func (s *UsersSlice) Set(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.User(nil), users...)
	s.bump("set")
}

// SetPage moves the admin browse to another page.
func (s *UsersSlice) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = models.ClampPage(page)
	s.bump("setPage")
}

// SetLimit changes the admin browse page size and resets to the first page.
func (s *UsersSlice) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = models.ClampLimit(limit)
	s.currentPage = 1
	s.bump("setLimit")
}

// Items returns a copy of the unpaginated collection.
func (s *UsersSlice) Items() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.items...)
}

// PagedItems returns a copy of the admin browse page.
func (s *UsersSlice) PagedItems() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.pagedItems...)
}

// PageInfo returns the admin browse pagination state.
func (s *UsersSlice) PageInfo() models.PageInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.PageInfo{
		CurrentPage: s.currentPage,
		TotalPages:  s.totalPages,
		Limit:       s.limit,
		TotalCount:  s.totalCount,
	}
}

// Loading reports the unpaginated load's lifecycle status.
func (s *UsersSlice) Loading() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the last recorded error.
func (s *UsersSlice) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// PageLoading reports the paged load's lifecycle status.
func (s *UsersSlice) PageLoading() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLoading
}

// PageError returns the last error recorded against the paged projection.
func (s *UsersSlice) PageError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageError
}

// Version returns the slice's mutation counter.
func (s *UsersSlice) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func indexUser(list []models.User, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func applyUser(list []models.User, id string, fn func(*models.User)) {
	if idx := indexUser(list, id); idx >= 0 {
		fn(&list[idx])
	}
}

func snapshotUser(list []models.User, id string) (models.User, bool) {
	if idx := indexUser(list, id); idx >= 0 {
		return list[idx], true
	}
	return models.User{}, false
}

func removeUser(list []models.User, id string) []models.User {
	out := list[:0]
	for _, u := range list {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}
