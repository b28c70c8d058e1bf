package filing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"findata/internal/record"
)

type fakeDownloader struct {
	docs map[string][]byte
	err  map[string]error
}

func (f *fakeDownloader) FilingDocument(ctx context.Context, filing record.SecFiling) ([]byte, error) {
	if err := f.err[filing.AccessionNumber]; err != nil {
		return nil, err
	}
	body, ok := f.docs[filing.AccessionNumber]
	if !ok {
		return nil, errors.New("no document")
	}
	return body, nil
}

type fakeStore struct {
	mu      sync.Mutex
	batches [][]record.SecFiling
	err     error
}

func (f *fakeStore) SaveFilings(ctx context.Context, filings []record.SecFiling) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]record.SecFiling, len(filings))
	copy(batch, filings)
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeStore) saved() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

type fakeSummarizer struct {
	err error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, filing record.SecFiling, sections map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("summary of %d sections", len(sections)), nil
}

const minimalDoc = `<html><body>
<div>Item 1. Business</div><p>Widgets.</p>
<div>Item 1A. Risk Factors</div><p>Failure.</p>
<div>Item 2. Properties</div><p>Plant.</p>
</body></html>`

func filingRefs(n int) ([]record.SecFiling, *fakeDownloader) {
	dl := &fakeDownloader{docs: map[string][]byte{}, err: map[string]error{}}
	refs := make([]record.SecFiling, n)
	for i := range refs {
		acc := fmt.Sprintf("0000000000-25-%06d", i+1)
		refs[i] = record.SecFiling{Symbol: "XYZ", FormType: "10-K", AccessionNumber: acc}
		dl.docs[acc] = []byte(minimalDoc)
	}
	return refs, dl
}

func TestWorkflow_ExtractsAndBatches(t *testing.T) {
	refs, dl := filingRefs(5)
	store := &fakeStore{}
	w, err := NewWorkflow(dl, store, WithBatchSize(2))
	require.NoError(t, err)

	report, err := w.Run(context.Background(), refs)
	require.NoError(t, err)
	require.Equal(t, 5, report.Processed)
	require.Equal(t, 0, report.Failed)
	require.NotEmpty(t, report.RunID)

	// 5 filings with batch size 2: two full batches plus the final flush.
	require.Len(t, store.batches, 3)
	require.Equal(t, 5, store.saved())

	first := store.batches[0][0]
	require.Contains(t, first.Sections[SectionBusiness], "Widgets.")
	require.Contains(t, first.Sections[SectionRiskFactors], "Failure.")
}

func TestWorkflow_SkipsFailedDownloads(t *testing.T) {
	refs, dl := filingRefs(3)
	dl.err[refs[1].AccessionNumber] = errors.New("404")
	store := &fakeStore{}
	w, err := NewWorkflow(dl, store)
	require.NoError(t, err)

	report, err := w.Run(context.Background(), refs)
	require.NoError(t, err)
	require.Equal(t, 2, report.Processed)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, 2, store.saved())
}

func TestWorkflow_SummaryAttached(t *testing.T) {
	refs, dl := filingRefs(1)
	store := &fakeStore{}
	w, err := NewWorkflow(dl, store, WithSummarizer(&fakeSummarizer{}))
	require.NoError(t, err)

	_, err = w.Run(context.Background(), refs)
	require.NoError(t, err)
	require.Equal(t, "summary of 2 sections", store.batches[0][0].Summary)
}

func TestWorkflow_SummarizerFailureIsNotFatal(t *testing.T) {
	refs, dl := filingRefs(1)
	store := &fakeStore{}
	w, err := NewWorkflow(dl, store, WithSummarizer(&fakeSummarizer{err: errors.New("quota")}))
	require.NoError(t, err)

	report, err := w.Run(context.Background(), refs)
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)
	require.Empty(t, store.batches[0][0].Summary)
	require.NotEmpty(t, store.batches[0][0].Sections)
}

func TestWorkflow_StoreErrorStopsRun(t *testing.T) {
	refs, dl := filingRefs(4)
	store := &fakeStore{err: errors.New("db down")}
	w, err := NewWorkflow(dl, store, WithBatchSize(2))
	require.NoError(t, err)

	_, err = w.Run(context.Background(), refs)
	require.ErrorContains(t, err, "db down")
}

func TestNewWorkflow_RequiresCollaborators(t *testing.T) {
	_, err := NewWorkflow(nil, &fakeStore{})
	require.Error(t, err)
	_, err = NewWorkflow(&fakeDownloader{}, nil)
	require.Error(t, err)
}
