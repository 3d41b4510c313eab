package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
)

func TestListCanonsForIsCached(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/text-contents/7/canons", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			var req textcanon.SetCanonsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Empty(t, req.CanonIDs)
			w.Write([]byte(`{"names":[],"byCode":{}}`))
			return
		}
		w.Write([]byte(`{"names":["Orthodox","Catholic"],"byCode":{"orthodox":{"id":3,"code":"orthodox","name":"Orthodox","displayOrder":1},"catholic":{"id":2,"code":"catholic","name":"Catholic","displayOrder":2}}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL + "/")
	ctx := context.Background()

	refs, err := c.ListCanonsFor(ctx, 7)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "orthodox", refs[0].Code)
	assert.Equal(t, "catholic", refs[1].Code)

	_, err = c.ListCanonsFor(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	cleared, err := c.SetCanons(ctx, 7, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared)

	refs, err = c.ListCanonsFor(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, refs, "own writes replace the cached list")
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetByUnitKey(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources/KJV/books/GEN/units/1/1", func(w http.ResponseWriter, r *http.Request) {
		key := "KJV|GEN|1|1"
		json.NewEncoder(w).Encode(domain.TextContent{ID: 5, UnitKey: &key})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	content, err := c.GetByUnitKey(context.Background(), "KJV|GEN|1|1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), content.ID)

	_, err = c.GetByUnitKey(context.Background(), "KJV|GEN|1")
	assert.Error(t, err)
}

func TestAPIErrorMatchesDomainErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/text-contents", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"unit key KJV|GEN|1|1 already exists"}`))
	})
	mux.HandleFunc("/text-contents/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"text content not found"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	_, err := c.CreateTextContent(ctx, textcanon.TextContentRequest{})
	assert.True(t, errors.Is(err, domain.ErrKeyConflict))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "KJV|GEN|1|1")

	_, err = c.GetTextContent(ctx, 9)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrValidation))
}
