// Package scraper fetches documentation pages from the portal API with a
// bounded amount of concurrency and per-page retry.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/ingest"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure Scraper implements the interface.
var _ driven.CorpusFetcher = (*Scraper)(nil)

// Default configuration values.
const (
	DefaultCatalogPath       = "/api/toc"
	DefaultConcurrency       = 5
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 2 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultTimeout           = 30 * time.Second
)

// Config holds configuration for the scraper.
type Config struct {
	// BaseURL is the documentation portal root (required).
	BaseURL string

	// CatalogPath is the table-of-contents endpoint (default: /api/toc).
	CatalogPath string

	// DocsUUID is the portal project identifier sent with every request.
	DocsUUID string

	// Concurrency bounds the number of in-flight page requests (default: 5).
	Concurrency int

	// MaxRetries is the number of attempts per page (default: 3).
	MaxRetries int

	// RetryDelay is the base backoff; attempt n waits RetryDelay * 2^n
	// plus up to a second of jitter (default: 2s).
	RetryDelay time.Duration

	// RequestsPerSecond caps the request rate across all workers
	// (default: 10).
	RequestsPerSecond float64

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// catalogNode is one entry of the table-of-contents response.
type catalogNode struct {
	URI string `json:"uri"`
	ID  int    `json:"id"`
}

// Scraper fetches every catalogued page and renders it to plain text.
// Pages that still fail after retries come back as placeholder results
// carrying the error so the batch can continue.
type Scraper struct {
	client  *http.Client
	cfg     Config
	limiter *rate.Limiter
}

// New creates a scraper for the given portal.
func New(cfg Config) (*Scraper, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("scraper: base URL is required")
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = DefaultCatalogPath
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Scraper{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Concurrency),
	}, nil
}

// FetchAll implements driven.CorpusFetcher.
func (s *Scraper) FetchAll(ctx context.Context) ([]domain.FetchedPage, error) {
	nodes, err := s.fetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	logger.Info("Catalog lists %d pages", len(nodes))

	pages := make([]domain.FetchedPage, len(nodes))
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, node := range nodes {
		wg.Add(1)
		go func(i int, node catalogNode) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			pages[i] = s.fetchPage(ctx, node)
		}(i, node)
	}
	wg.Wait()

	return pages, nil
}

// fetchCatalog retrieves the list of documentation nodes.
func (s *Scraper) fetchCatalog(ctx context.Context) ([]catalogNode, error) {
	body, err := s.get(ctx, s.cfg.BaseURL+s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	var nodes []catalogNode
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return nodes, nil
}

// fetchPage retrieves and renders one page, retrying with exponential
// backoff. Failures are folded into the returned page, never propagated.
func (s *Scraper) fetchPage(ctx context.Context, node catalogNode) domain.FetchedPage {
	pageURL := s.cfg.BaseURL + node.URI
	docsURL := fmt.Sprintf("%s/api/nodes/%d/docs", s.cfg.BaseURL, node.ID)

	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			// Jitter avoids synchronised retries across workers.
			wait := s.cfg.RetryDelay*(1<<(attempt-1)) + time.Duration(rand.Int63n(int64(time.Second)))
			logger.Warn("Retrying %s in %s (%d/%d): %v", pageURL, wait, attempt+1, s.cfg.MaxRetries, lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return domain.FetchedPage{URL: pageURL, Err: ctx.Err()}
			}
		}

		body, err := s.get(ctx, docsURL)
		if err != nil {
			lastErr = err
			continue
		}

		var entry ingest.Entry
		if err := json.Unmarshal(body, &entry); err != nil {
			// A malformed payload won't improve on retry.
			return domain.FetchedPage{URL: pageURL, Err: fmt.Errorf("decode page: %w", err)}
		}

		text, err := ingest.RenderEntry(entry)
		if err != nil {
			return domain.FetchedPage{URL: pageURL, Err: fmt.Errorf("render page: %w", err)}
		}

		return domain.FetchedPage{
			URL:   pageURL,
			Title: entry.Name,
			Kind:  ingest.Kind(entry),
			Text:  text,
		}
	}

	logger.Warn("Giving up on %s after %d attempts: %v", pageURL, s.cfg.MaxRetries, lastErr)
	return domain.FetchedPage{
		URL: pageURL,
		Err: fmt.Errorf("after %d attempts: %w", s.cfg.MaxRetries, lastErr),
	}
}

// get performs a rate-limited GET and returns the response body.
func (s *Scraper) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.cfg.DocsUUID != "" {
		req.URL.RawQuery = url.Values{"uuid": {s.cfg.DocsUUID}}.Encode()
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("portal returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
