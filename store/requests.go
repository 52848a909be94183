package store

import (
	"context"
	"strings"
	"sync"

	"tableau/models"
	"tableau/remote"
	"tableau/utils"
)

// provisionalPrefix tags entities inserted optimistically before the server
// has assigned their real id. The suffix is the mutation's correlation id.
const provisionalPrefix = "tmp-"

// RequestsSlice owns the request collection. The same remote collection is
// consumed two ways at once — "my requests" as a full unpaginated list and
// the admin table as a filtered page — so the slice keeps two independent
// projections (items and pagedItems) with their own loading and error
// fields. Loading one never stomps the other.
type RequestsSlice struct {
	deps *deps

	mu      sync.Mutex
	version uint64

	items      []models.Request
	pagedItems []models.Request

	currentPage int
	totalPages  int
	limit       int
	filter      string
	totalCount  *int

	loading     LoadState
	lastError   string
	pageLoading LoadState
	pageError   string
	fetched     bool
}

func newRequestsSlice(d *deps) *RequestsSlice {
	return &RequestsSlice{
		deps:        d,
		currentPage: 1,
		totalPages:  1,
		limit:       10,
		filter:      string(models.StatusPending),
		loading:     Idle,
		pageLoading: Idle,
	}
}

// bump must be called with the lock held.
func (s *RequestsSlice) bump(op string) {
	s.version++
	s.deps.bus.publish(Event{Slice: "requests", Op: op, Version: s.version})
}

// AddRequestInput is the author-supplied content of a new request. Identity
// fields are copied from the authenticated user so the admin table can
// render the author without a join.
type AddRequestInput struct {
	UserID      string `json:"userId"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Pseudo      string `json:"pseudo"`
	Avatar      string `json:"avatar"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func validateAddRequest(input AddRequestInput) utils.ValidationErrors {
	var errs utils.ValidationErrors
	if strings.TrimSpace(input.Title) == "" {
		errs = append(errs, "title_required")
	}
	if strings.TrimSpace(input.Description) == "" {
		errs = append(errs, "description_required")
	}
	return errs
}

// LoadAll refreshes the collection from the remote store. Without paging
// options it replaces the unpaginated items; with Page and Limit set it
// replaces only the paged projection and recomputes the page math. A failed
// load records the error and leaves the existing collection untouched.
func (s *RequestsSlice) LoadAll(ctx context.Context, opts ListOptions) error {
	status := strings.ToUpper(strings.TrimSpace(opts.Status))
	if !models.ValidFilter(status) {
		status = ""
	}
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

	rawList, count, err := s.deps.remote.FetchDemandes(ctx, remote.ListParams{
		Page:   opts.Page,
		Limit:  opts.Limit,
		Status: status,
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

	list := make([]models.Request, 0, len(rawList))
	for _, raw := range rawList {
		list = append(list, models.NormalizeRequestAt(raw, s.deps.now()))
	}

	if paginated {
		s.pageLoading = Succeeded
		s.pagedItems = list
		s.currentPage = opts.Page
		s.totalPages = models.TotalPages(count, opts.Limit, opts.Page, len(list))
		s.limit = opts.Limit
		if status != "" {
			s.filter = status
		} else {
			s.filter = "ALL"
		}
		s.totalCount = count
	} else {
		s.loading = Succeeded
		s.items = list
		s.fetched = true
	}
	s.bump("loadAll")
	return nil
}

// Add creates a request optimistically: a provisional PENDING entity tagged
// with a correlation id appears in the collection before the remote call is
// issued. On success the canonical server record replaces it in place (or is
// re-inserted if a concurrent operation removed it meanwhile); on failure
// the provisional entity is removed and the slice error set.
func (s *RequestsSlice) Add(ctx context.Context, input AddRequestInput) error {
	if errs := validateAddRequest(input); len(errs) > 0 {
		return errs
	}

	now := s.deps.nowISO()
	corrID := provisionalPrefix + s.deps.newID()
	provisional := models.Request{
		ID:          corrID,
		UserID:      input.UserID,
		Nom:         input.Nom,
		Prenom:      input.Prenom,
		Pseudo:      input.Pseudo,
		Avatar:      input.Avatar,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.StatusPending,
		CreatedAt:   now,
	}

	s.mu.Lock()
	s.lastError = ""
	s.items = append([]models.Request{provisional}, s.items...)
	s.bump("create")
	s.mu.Unlock()

	body := map[string]any{
		"userId":      input.UserID,
		"nom":         input.Nom,
		"prenom":      input.Prenom,
		"pseudo":      input.Pseudo,
		"avatar":      input.Avatar,
		"title":       input.Title,
		"description": input.Description,
		"status":      string(models.StatusPending),
		"createdAt":   now,
		"approvedAt":  nil,
	}
	raw, err := s.deps.remote.CreateDemande(ctx, body)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.items = removeRequest(s.items, corrID)
		s.lastError = utils.RemoteMessage(err)
		s.bump("create")
		return err
	}

	created := models.NormalizeRequestAt(raw, s.deps.now())
	if idx := indexRequest(s.items, corrID); idx >= 0 {
		s.items[idx] = created
	} else {
		s.items = append([]models.Request{created}, s.items...)
	}
	s.bump("create")
	return nil
}

// Approve transitions a request to APPROVED, stamping approvedAt with the
// mutation time.
func (s *RequestsSlice) Approve(ctx context.Context, id string) error {
	now := s.deps.nowISO()
	return s.mutateStatus(ctx, id, models.StatusApproved, now, map[string]any{
		"status":     string(models.StatusApproved),
		"approvedAt": now,
	})
}

// Reject transitions a request to REJECTED and clears approvedAt.
func (s *RequestsSlice) Reject(ctx context.Context, id string) error {
	return s.mutateStatus(ctx, id, models.StatusRejected, "", map[string]any{
		"status":     string(models.StatusRejected),
		"approvedAt": nil,
	})
}

// mutateStatus flips a request's moderation state in place in both
// projections before the remote call resolves; the entity never disappears
// from view. The prior entity is retained so a failed remote call can
// restore it. When two mutations race on one id the later optimistic write
// wins locally and whichever remote response lands last supplies the final
// canonical state.
func (s *RequestsSlice) mutateStatus(ctx context.Context, id string, next models.Status, approvedAt string, patch map[string]any) error {
	s.mu.Lock()
	prevItem, hadItem := snapshotRequest(s.items, id)
	prevPaged, hadPaged := snapshotRequest(s.pagedItems, id)
	apply := func(r *models.Request) {
		r.Status = next
		r.ApprovedAt = approvedAt
	}
	applyRequest(s.items, id, apply)
	applyRequest(s.pagedItems, id, apply)
	s.bump("mutateStatus")
	s.mu.Unlock()

	raw, err := s.deps.remote.UpdateDemande(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// Roll back to the retained snapshot; the entity may have been
		// removed by a concurrent cancel, in which case there is nothing
		// to restore.
		if hadItem {
			restoreRequest(s.items, prevItem)
		}
		if hadPaged {
			restoreRequest(s.pagedItems, prevPaged)
		}
		s.lastError = utils.RemoteMessage(err)
		s.bump("mutateStatus")
		return err
	}

	updated := models.NormalizeRequestAt(raw, s.deps.now())
	replace := func(r *models.Request) { *r = updated }
	applyRequest(s.items, updated.ID, replace)
	applyRequest(s.pagedItems, updated.ID, replace)
	s.bump("mutateStatus")
	return nil
}

// Cancel hard-deletes a PENDING request. The local removal is immediate; if
// the target was still provisional there is nothing on the server yet and
// the remote call is skipped. A hard delete needs no rollback payload — a
// failed remote delete only records the error.
func (s *RequestsSlice) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	keepPending := func(list []models.Request) []models.Request {
		out := list[:0]
		for _, r := range list {
			if r.ID == id && r.Status == models.StatusPending {
				continue
			}
			out = append(out, r)
		}
		return out
	}
	s.items = keepPending(s.items)
	s.pagedItems = keepPending(s.pagedItems)
	s.bump("cancel")
	s.mu.Unlock()

	if strings.HasPrefix(id, provisionalPrefix) {
		return nil
	}

	if err := s.deps.remote.DeleteDemande(ctx, id); err != nil {
		s.mu.Lock()
		s.lastError = utils.RemoteMessage(err)
		s.bump("cancel")
		s.mu.Unlock()
		return err
	}
	return nil
}

// UpdateContent edits a request's title and description locally.
func (s *RequestsSlice) UpdateContent(id, title, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applyRequest(s.items, id, func(r *models.Request) {
		r.Title = title
		r.Description = description
	})
	s.bump("updateContent")
}

// ClearAll resets both projections and every lifecycle field.
func (s *RequestsSlice) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.pagedItems = nil
	s.loading = Idle
	s.lastError = ""
	s.pageLoading = Idle
	s.pageError = ""
	s.fetched = false
	s.bump("clear")
}

// SetPage moves the admin table to another page.
func (s *RequestsSlice) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = models.ClampPage(page)
	s.bump("setPage")
}

// SetLimit changes the admin table page size and resets to the first page.
func (s *RequestsSlice) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = models.ClampLimit(limit)
	s.currentPage = 1
	s.bump("setLimit")
}

// SetFilter changes the admin table status filter and resets to the first
// page. Unknown values fall back to ALL.
func (s *RequestsSlice) SetFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := strings.ToUpper(strings.TrimSpace(filter))
	if !models.ValidFilter(next) {
		next = "ALL"
	}
	s.filter = next
	s.currentPage = 1
	s.bump("setFilter")
}

// Items returns a copy of the unpaginated collection.
func (s *RequestsSlice) Items() []models.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Request(nil), s.items...)
}

// PagedItems returns a copy of the admin table page.
func (s *RequestsSlice) PagedItems() []models.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Request(nil), s.pagedItems...)
}

// PageInfo returns the admin table's pagination state.
func (s *RequestsSlice) PageInfo() models.PageInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.PageInfo{
		CurrentPage: s.currentPage,
		TotalPages:  s.totalPages,
		Limit:       s.limit,
		TotalCount:  s.totalCount,
	}
}

// Filter returns the active admin table status filter.
func (s *RequestsSlice) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Loading reports the unpaginated load's lifecycle status.
func (s *RequestsSlice) Loading() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the last error recorded against the unpaginated
// projection and the mutation operations.
func (s *RequestsSlice) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// PageLoading reports the paged load's lifecycle status.
func (s *RequestsSlice) PageLoading() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLoading
}

// PageError returns the last error recorded against the paged projection.
func (s *RequestsSlice) PageError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageError
}

// Fetched reports whether the unpaginated collection has loaded at least
// once.
func (s *RequestsSlice) Fetched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched
}

// Version returns the slice's mutation counter.
func (s *RequestsSlice) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func indexRequest(list []models.Request, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func removeRequest(list []models.Request, id string) []models.Request {
	out := list[:0]
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func applyRequest(list []models.Request, id string, fn func(*models.Request)) {
	if idx := indexRequest(list, id); idx >= 0 {
		fn(&list[idx])
	}
}

func snapshotRequest(list []models.Request, id string) (models.Request, bool) {
	if idx := indexRequest(list, id); idx >= 0 {
		return list[idx], true
	}
	return models.Request{}, false
}

func restoreRequest(list []models.Request, prev models.Request) {
	applyRequest(list, prev.ID, func(r *models.Request) { *r = prev })
}
