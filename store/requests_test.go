package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableau/models"
	"tableau/utils"
)

func intp(v int) *int { return &v }

func TestLoadAllUnpaginated(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{
		{ID: "1", Title: "A", Status: "en attente"},
		{ID: "2", Title: "B", Status: "APPROVED", CreatedAt: "2024-01-01T00:00:00Z"},
	}}
	st := newTestStore(f)

	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	items := st.Requests.Items()
	require.Len(t, items, 2)
	assert.Equal(t, models.StatusPending, items[0].Status)
	assert.Equal(t, models.StatusApproved, items[1].Status)
	assert.Equal(t, Succeeded, st.Requests.Loading())
	assert.True(t, st.Requests.Fetched())
	assert.Empty(t, st.Requests.PagedItems(), "paged projection untouched")
}

func TestLoadAllPaginatedSetsPageMath(t *testing.T) {
	f := &fakeRemote{
		demandes:      []models.RawRequest{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		demandesCount: intp(23),
	}
	st := newTestStore(f)

	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{Page: 2, Limit: 10, Status: "pending"}))

	info := st.Requests.PageInfo()
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, "PENDING", st.Requests.Filter())
	assert.Len(t, st.Requests.PagedItems(), 3)
	assert.Empty(t, st.Requests.Items(), "unpaginated projection untouched")
	assert.Equal(t, "PENDING", f.lastListParams.Status)
}

func TestLoadAllPaginatedInferredTotalPages(t *testing.T) {
	// A full page with no count header implies at least one more page.
	f := &fakeRemote{demandes: make([]models.RawRequest, 10)}
	st := newTestStore(f)

	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{Page: 3, Limit: 10}))
	assert.Equal(t, 4, st.Requests.PageInfo().TotalPages)
	assert.Equal(t, "ALL", st.Requests.Filter())
}

func TestLoadAllFailureKeepsCollection(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{{ID: "1"}}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	f.demandesErr = &utils.RemoteError{StatusCode: 500, Message: "boom"}
	require.Error(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	assert.Len(t, st.Requests.Items(), 1, "existing collection survives a failed refresh")
	assert.Equal(t, Failed, st.Requests.Loading())
	assert.Equal(t, "boom", st.Requests.LastError())
}

func TestAddOptimisticLifecycle(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeRemote{
		gate:    gate,
		created: models.RawRequest{ID: "srv-9", Title: "Hello", Status: "PENDING", CreatedAt: "2024-03-15T12:00:00Z"},
	}
	st := newTestStore(f)

	done := make(chan error, 1)
	go func() {
		done <- st.Requests.Add(context.Background(), AddRequestInput{
			UserID: "u1", Title: "Hello", Description: "World",
		})
	}()

	// While the remote call is in flight the provisional entity is visible.
	require.Eventually(t, func() bool {
		return len(st.Requests.Items()) == 1
	}, time.Second, time.Millisecond)

	items := st.Requests.Items()
	assert.True(t, strings.HasPrefix(items[0].ID, "tmp-"))
	assert.Equal(t, models.StatusPending, items[0].Status)
	assert.Equal(t, "Hello", items[0].Title)

	close(gate)
	require.NoError(t, <-done)

	items = st.Requests.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "srv-9", items[0].ID, "canonical record replaced the provisional one in place")
}

func TestAddFailureRemovesProvisional(t *testing.T) {
	f := &fakeRemote{createErr: &utils.RemoteError{StatusCode: 500, Message: "nope"}}
	st := newTestStore(f)

	err := st.Requests.Add(context.Background(), AddRequestInput{Title: "T", Description: "D"})
	require.Error(t, err)
	assert.Empty(t, st.Requests.Items())
	assert.Equal(t, "nope", st.Requests.LastError())
}

func TestAddValidation(t *testing.T) {
	f := &fakeRemote{}
	st := newTestStore(f)

	err := st.Requests.Add(context.Background(), AddRequestInput{Title: "  ", Description: ""})
	verrs, ok := utils.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, utils.ValidationErrors{"title_required", "description_required"}, verrs)
	assert.Zero(t, f.callCount("CreateDemande"), "validation failures never reach the remote")
}

func TestApproveStampsApprovedAt(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{{ID: "5", Title: "T", Status: "PENDING"}}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	f.updated = models.RawRequest{ID: "5", Title: "T", Status: "APPROVED", ApprovedAt: "2024-03-15T12:00:00Z"}
	require.NoError(t, st.Requests.Approve(context.Background(), "5"))

	items := st.Requests.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusApproved, items[0].Status)
	assert.Equal(t, "2024-03-15T12:00:00Z", items[0].ApprovedAt)

	payload, ok := f.lastPayload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "APPROVED", payload["status"])
	assert.Equal(t, "2024-03-15T12:00:00Z", payload["approvedAt"])
}

func TestRejectClearsApprovedAt(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{
		{ID: "5", Status: "APPROVED", ApprovedAt: "2024-01-01T00:00:00Z", CreatedAt: "2024-01-01T00:00:00Z"},
	}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	f.updated = models.RawRequest{ID: "5", Status: "REJECTED", CreatedAt: "2024-01-01T00:00:00Z"}
	require.NoError(t, st.Requests.Reject(context.Background(), "5"))

	items := st.Requests.Items()
	assert.Equal(t, models.StatusRejected, items[0].Status)
	assert.Empty(t, items[0].ApprovedAt)
}

func TestMutateStatusInPlaceWhilePending(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeRemote{demandes: []models.RawRequest{{ID: "5", Status: "PENDING"}}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	f.mu.Lock()
	f.gate = gate
	f.updated = models.RawRequest{ID: "5", Status: "APPROVED", ApprovedAt: "2024-03-15T12:00:00Z"}
	f.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- st.Requests.Approve(context.Background(), "5") }()

	// The entity flips in place before the remote resolves; it never leaves
	// the list.
	require.Eventually(t, func() bool {
		items := st.Requests.Items()
		return len(items) == 1 && items[0].Status == models.StatusApproved
	}, time.Second, time.Millisecond)

	close(gate)
	require.NoError(t, <-done)
	assert.Len(t, st.Requests.Items(), 1)
}

func TestMutateStatusRollbackOnFailure(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{{ID: "5", Status: "PENDING", CreatedAt: "2024-01-01T00:00:00Z"}}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	f.updateErr = &utils.RemoteError{StatusCode: 500, Message: "down"}
	require.Error(t, st.Requests.Approve(context.Background(), "5"))

	items := st.Requests.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusPending, items[0].Status, "failed approval restored the prior state")
	assert.Empty(t, items[0].ApprovedAt)
	assert.Equal(t, "down", st.Requests.LastError())
}

func TestApproveThenReject(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{{ID: "5", Status: "PENDING"}}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	f.updated = models.RawRequest{ID: "5", Status: "APPROVED", ApprovedAt: "2024-03-15T12:00:00Z"}
	require.NoError(t, st.Requests.Approve(context.Background(), "5"))

	f.updated = models.RawRequest{ID: "5", Status: "REJECTED"}
	require.NoError(t, st.Requests.Reject(context.Background(), "5"))

	items := st.Requests.Items()
	assert.Equal(t, models.StatusRejected, items[0].Status)
	assert.Empty(t, items[0].ApprovedAt)
}

func TestCancelProvisionalSkipsRemote(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeRemote{gate: gate, createErr: &utils.RemoteError{StatusCode: 500, Message: "late"}}
	st := newTestStore(f)

	done := make(chan error, 1)
	go func() {
		done <- st.Requests.Add(context.Background(), AddRequestInput{Title: "T", Description: "D"})
	}()
	require.Eventually(t, func() bool { return len(st.Requests.Items()) == 1 }, time.Second, time.Millisecond)

	id := st.Requests.Items()[0].ID
	require.NoError(t, st.Requests.Cancel(context.Background(), id))
	assert.Empty(t, st.Requests.Items())
	assert.Zero(t, f.callCount("DeleteDemande"), "a provisional entity has nothing to delete remotely")

	close(gate)
	<-done
}

func TestCancelOnlyRemovesPending(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{
		{ID: "5", Status: "APPROVED", CreatedAt: "2024-01-01T00:00:00Z"},
	}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	require.NoError(t, st.Requests.Cancel(context.Background(), "5"))
	assert.Len(t, st.Requests.Items(), 1, "non-pending entities are not cancellable")
}

func TestCancelRemoteFailureKeepsRemoval(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{{ID: "5", Status: "PENDING"}}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	f.deleteErr = &utils.RemoteError{StatusCode: 500, Message: "down"}
	require.Error(t, st.Requests.Cancel(context.Background(), "5"))

	assert.Empty(t, st.Requests.Items(), "a hard delete is not rolled back")
	assert.Equal(t, "down", st.Requests.LastError())
}

func TestUpdateContentAndClear(t *testing.T) {
	f := &fakeRemote{demandes: []models.RawRequest{{ID: "5", Title: "Old", Description: "Old"}}}
	st := newTestStore(f)
	require.NoError(t, st.Requests.LoadAll(context.Background(), ListOptions{}))

	st.Requests.UpdateContent("5", "New", "Fresh")
	items := st.Requests.Items()
	assert.Equal(t, "New", items[0].Title)
	assert.Equal(t, "Fresh", items[0].Description)

	st.Requests.ClearAll()
	assert.Empty(t, st.Requests.Items())
	assert.Equal(t, Idle, st.Requests.Loading())
	assert.False(t, st.Requests.Fetched())
}

func TestSetLimitResetsPageAndClamps(t *testing.T) {
	st := newTestStore(&fakeRemote{})

	st.Requests.SetPage(4)
	assert.Equal(t, 4, st.Requests.PageInfo().CurrentPage)

	st.Requests.SetLimit(25)
	info := st.Requests.PageInfo()
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 1, info.CurrentPage)

	st.Requests.SetLimit(5)
	assert.Equal(t, 5, st.Requests.PageInfo().Limit)

	st.Requests.SetFilter("nonsense")
	assert.Equal(t, "ALL", st.Requests.Filter())
	st.Requests.SetFilter("approved")
	assert.Equal(t, "APPROVED", st.Requests.Filter())
}
