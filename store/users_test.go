package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableau/models"
	"tableau/utils"
)

func TestUsersLoadAllDualProjections(t *testing.T) {
	f := &fakeRemote{users: []models.RawUser{{ID: "u1"}, {ID: "u2"}}}
	st := newTestStore(f)

	require.NoError(t, st.Users.LoadAll(context.Background(), ListOptions{}))
	assert.Len(t, st.Users.Items(), 2)
	assert.Empty(t, st.Users.PagedItems())

	f.users = []models.RawUser{{ID: "u3"}}
	f.usersCount = intp(11)
	require.NoError(t, st.Users.LoadAll(context.Background(), ListOptions{Page: 2, Limit: 10}))

	assert.Len(t, st.Users.Items(), 2, "unpaginated projection untouched by paged load")
	assert.Len(t, st.Users.PagedItems(), 1)
	info := st.Users.PageInfo()
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 2, info.TotalPages)
}

func TestUsersUpdateOptimisticRollback(t *testing.T) {
	f := &fakeRemote{users: []models.RawUser{{ID: "u1", Nom: "Doe"}}}
	st := newTestStore(f)
	require.NoError(t, st.Users.LoadAll(context.Background(), ListOptions{}))

	f.updateUserErr = &utils.RemoteError{StatusCode: 500, Message: "down"}
	nom := "Changed"
	err := st.Users.Update(context.Background(), "u1", models.UserPatch{Nom: &nom})
	require.Error(t, err)

	assert.Equal(t, "Doe", st.Users.Items()[0].Nom, "failed edit restored the snapshot")
	assert.Equal(t, "down", st.Users.LastError())
}

func TestUsersUpdateReplacesWithCanonical(t *testing.T) {
	f := &fakeRemote{users: []models.RawUser{{ID: "u1", Nom: "Doe"}}}
	st := newTestStore(f)
	require.NoError(t, st.Users.LoadAll(context.Background(), ListOptions{}))

	f.updatedUser = models.RawUser{ID: "u1", Nom: "Changed", Pays: "FR"}
	nom := "Changed"
	require.NoError(t, st.Users.Update(context.Background(), "u1", models.UserPatch{Nom: &nom}))

	u := st.Users.Items()[0]
	assert.Equal(t, "Changed", u.Nom)
	assert.Equal(t, "FR", u.Pays, "server record supplies fields the patch did not touch")
}

func TestUsersDeleteOptimistic(t *testing.T) {
	f := &fakeRemote{users: []models.RawUser{{ID: "u1"}, {ID: "u2"}}}
	st := newTestStore(f)
	require.NoError(t, st.Users.LoadAll(context.Background(), ListOptions{}))

	require.NoError(t, st.Users.Delete(context.Background(), "u1"))
	items := st.Users.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "u2", items[0].ID)

	// A failed remote delete keeps the removal and records the error.
	f.deleteUserErr = &utils.RemoteError{StatusCode: 500, Message: "down"}
	require.Error(t, st.Users.Delete(context.Background(), "u2"))
	assert.Empty(t, st.Users.Items())
	assert.Equal(t, "down", st.Users.LastError())
}
