package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

type fakeIngest struct {
	report *driving.IngestReport
	err    error
	calls  int
}

func (f *fakeIngest) Ingest(_ context.Context) (*driving.IngestReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func TestIngestCmd_PrintsReport(t *testing.T) {
	ingest := &fakeIngest{report: &driving.IngestReport{Pages: 12, Chunks: 87}}
	withServices(t, Services{Ingest: ingest})

	out, err := execute(t, "ingest")

	require.NoError(t, err)
	assert.Equal(t, 1, ingest.calls)
	assert.Contains(t, out, "Indexed 12 pages (87 chunks).")
	assert.NotContains(t, out, "failed")
}

func TestIngestCmd_ListsFailedPages(t *testing.T) {
	ingest := &fakeIngest{report: &driving.IngestReport{
		Pages:  3,
		Chunks: 20,
		Failed: map[string]error{
			"https://docs.example/b": errors.New("after 3 attempts: status 503"),
			"https://docs.example/a": errors.New("after 3 attempts: status 500"),
		},
	}}
	withServices(t, Services{Ingest: ingest})

	out, err := execute(t, "ingest")

	require.NoError(t, err)
	assert.Contains(t, out, "2 pages failed:")
	// Sorted output.
	assert.Less(t, strings.Index(out, "https://docs.example/a"), strings.Index(out, "https://docs.example/b"))
}

func TestIngestCmd_PropagatesFatalError(t *testing.T) {
	withServices(t, Services{Ingest: &fakeIngest{err: domain.ErrEmbeddingUnavailable}})

	_, err := execute(t, "ingest")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngestCmd_FailsWithoutService(t *testing.T) {
	withServices(t, Services{})

	_, err := execute(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
