package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableau/utils"
)

func TestFetchDemandesTotalCountHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demandes", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "PENDING", r.URL.Query().Get("status"))
		w.Header().Set("X-Total-Count", "47")
		w.Write([]byte(`[{"id": 1, "statut": "en attente"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	list, count, err := c.FetchDemandes(context.Background(), ListParams{Page: 2, Limit: 10, Status: "pending"})
	require.NoError(t, err)
	require.NotNil(t, count)
	assert.Equal(t, 47, *count)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID.String())
	assert.Equal(t, "en attente", list[0].ResolvedStatus())
}

func TestFetchDemandesNotFoundUnderFilterIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)

	list, count, err := c.FetchDemandes(context.Background(), ListParams{Page: 1, Limit: 10, Status: "REJECTED"})
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NotNil(t, count)
	assert.Zero(t, *count)

	// Without a filter the 404 is a real error.
	_, _, err = c.FetchDemandes(context.Background(), ListParams{})
	require.Error(t, err)
	var re *utils.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusNotFound, re.StatusCode)
}

func TestAllStatusMeansNoFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("status"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	_, _, err := c.FetchDemandes(context.Background(), ListParams{Page: 1, Limit: 10, Status: "ALL"})
	require.NoError(t, err)
}

func TestErrorMessageExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "pseudo already exists"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	_, err := c.CreateUser(context.Background(), map[string]any{"pseudo": "jdoe"})
	require.Error(t, err)
	var re *utils.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusConflict, re.StatusCode)
	assert.Equal(t, "pseudo already exists", re.Message)
}

func TestErrorMessageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	err := c.DeleteDemande(context.Background(), "7")
	require.Error(t, err)
	assert.Equal(t, "request failed with status code 500", utils.RemoteMessage(err))
}

func TestTransportErrorWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 0, nil)
	_, _, err := c.FetchUsers(context.Background(), ListParams{})
	require.Error(t, err)
	var re *utils.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Zero(t, re.StatusCode)
	assert.NotEmpty(t, re.Message)
}
