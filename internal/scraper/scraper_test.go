package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

const articleDoc = `{
	"name": "Create a token",
	"summary": "Token creation.",
	"type": "article",
	"data": "# Create a token"
}`

func fastConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		DocsUUID:          "test-uuid",
		RetryDelay:        time.Millisecond,
		RequestsPerSecond: 10000,
	}
}

func TestFetchAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/toc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-uuid", r.URL.Query().Get("uuid"))
		fmt.Fprint(w, `[{"uri":"/docs/a.md","id":1},{"uri":"/docs/b.md","id":2}]`)
	})
	mux.HandleFunc("/api/nodes/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, articleDoc)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, err := New(fastConfig(server.URL))
	require.NoError(t, err)

	pages, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// Results keep catalog order regardless of completion order.
	assert.Equal(t, server.URL+"/docs/a.md", pages[0].URL)
	assert.Equal(t, server.URL+"/docs/b.md", pages[1].URL)

	assert.False(t, pages[0].Failed())
	assert.Equal(t, "Create a token", pages[0].Title)
	assert.Equal(t, domain.DocKindArticle, pages[0].Kind)
	assert.Contains(t, pages[0].Text, "Content: # Create a token")
}

func TestFetchAllRetriesTransientErrors(t *testing.T) {
	var attempts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/toc", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"uri":"/docs/flaky.md","id":1}]`)
	})
	mux.HandleFunc("/api/nodes/1/docs", func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, articleDoc)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, err := New(fastConfig(server.URL))
	require.NoError(t, err)

	pages, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.False(t, pages[0].Failed())
	assert.Equal(t, int32(3), attempts.Load())
}

func TestFetchAllRecordsFailedPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/toc", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"uri":"/docs/bad.md","id":1},{"uri":"/docs/good.md","id":2}]`)
	})
	mux.HandleFunc("/api/nodes/1/docs", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/nodes/2/docs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, articleDoc)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, err := New(fastConfig(server.URL))
	require.NoError(t, err)

	pages, err := s.FetchAll(context.Background())
	require.NoError(t, err, "one bad page must not fail the batch")
	require.Len(t, pages, 2)

	assert.True(t, pages[0].Failed())
	assert.Contains(t, pages[0].Err.Error(), "after 3 attempts")
	assert.False(t, pages[1].Failed())
}

func TestFetchAllCatalogErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	s, err := New(fastConfig(server.URL))
	require.NoError(t, err)

	_, err = s.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestFetchAllBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/toc", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"uri":"/1","id":1},{"uri":"/2","id":2},{"uri":"/3","id":3},
			{"uri":"/4","id":4},{"uri":"/5","id":5},{"uri":"/6","id":6}]`)
	})
	mux.HandleFunc("/api/nodes/", func(w http.ResponseWriter, _ *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		fmt.Fprint(w, articleDoc)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := fastConfig(server.URL)
	cfg.Concurrency = 2
	s, err := New(cfg)
	require.NoError(t, err)

	_, err = s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
