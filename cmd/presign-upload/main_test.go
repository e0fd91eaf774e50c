package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/presign-service/pkg/presign"
)

func TestRun(t *testing.T) {
	var uploaded []byte
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer storage.Close()

	var query map[string]string
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(presign.SignedPair{
			GetURL: storage.URL + "/get",
			PutURL: storage.URL + "/put",
		})
	}))
	defer service.Close()

	path := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))

	err := run(context.Background(), service.URL, "tmp/test", path, 120, true, 2, 1, false)
	require.NoError(t, err)

	assert.Equal(t, "0123456789", string(uploaded))
	assert.Equal(t, "tmp/test", query["key"])
	assert.Equal(t, "10", query["content-length"])
	assert.Equal(t, "120", query["expire"])
	assert.Equal(t, "true", query["force-download"])
	assert.Equal(t, "2", query["max-requests"])
}

func TestRun_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	err := run(context.Background(), "http://127.0.0.1:0", "k", path, 60, false, 0, 1, false)
	assert.ErrorContains(t, err, "outside")
}

func TestRun_MissingFile(t *testing.T) {
	err := run(context.Background(), "http://127.0.0.1:0", "k", filepath.Join(t.TempDir(), "nope"), 60, false, 0, 1, false)
	assert.ErrorContains(t, err, "failed to open file")
}
