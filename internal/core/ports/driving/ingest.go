package driving

import "context"

// IngestService drives the scrape -> render -> chunk -> embed -> store
// flow for the documentation corpus.
type IngestService interface {
	// Ingest scrapes the configured documentation portal and indexes
	// every page. Per-page failures are recorded in the report and do
	// not abort the batch.
	Ingest(ctx context.Context) (*IngestReport, error)
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Pages is the number of pages fetched successfully.
	Pages int

	// Chunks is the number of chunks embedded and stored.
	Chunks int

	// Failed maps page URLs to the error that exhausted their retries.
	Failed map[string]error
}
