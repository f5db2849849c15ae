package refdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/require"
)

func TestFetcher_DecodesBrotliAndSkipsExisting(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/data/")
		mu.Lock()
		requests = append(requests, name)
		mu.Unlock()
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		_, _ = bw.Write([]byte(`{"` + name + `": true}`))
		_ = bw.Close()
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ItemsFile), []byte("{}"), 0o644))

	written, err := Fetcher{BaseURL: srv.URL + "/data/"}.Fetch(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, written, len(Files)-1)
	mu.Lock()
	require.NotContains(t, requests, ItemsFile)
	mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(dir, PlanetsFile))
	require.NoError(t, err)
	require.JSONEq(t, `{"`+PlanetsFile+`": true}`, string(raw))
}

func TestFetcher_ReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetcher{BaseURL: srv.URL + "/"}.Fetch(context.Background(), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status: 404")
}
