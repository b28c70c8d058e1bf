package filing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"findata/internal/record"
)

// Downloader fetches the primary document behind a filing reference.
// The aggregate service satisfies it.
type Downloader interface {
	FilingDocument(ctx context.Context, filing record.SecFiling) ([]byte, error)
}

// Summarizer turns extracted sections into human-readable text. It is an
// external collaborator; implementations live outside this module.
type Summarizer interface {
	Summarize(ctx context.Context, filing record.SecFiling, sections map[string]string) (string, error)
}

// Store receives processed filings for persistence, keyed by accession
// number. Implementations live outside this module.
type Store interface {
	SaveFilings(ctx context.Context, filings []record.SecFiling) error
}

const defaultBatchSize = 20

// Workflow downloads filing documents, extracts their sections, runs the
// optional summarizer, and hands the enriched records to the store in
// fixed-size batches so memory stays bounded for large filing lists.
type Workflow struct {
	source    Downloader
	store     Store
	summarize Summarizer
	batchSize int
	log       zerolog.Logger
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

func WithSummarizer(s Summarizer) WorkflowOption {
	return func(w *Workflow) { w.summarize = s }
}

func WithBatchSize(n int) WorkflowOption {
	return func(w *Workflow) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithWorkflowLogger(log zerolog.Logger) WorkflowOption {
	return func(w *Workflow) { w.log = log }
}

// NewWorkflow builds a workflow over the given document source and store.
func NewWorkflow(source Downloader, store Store, options ...WorkflowOption) (*Workflow, error) {
	if source == nil {
		return nil, fmt.Errorf("workflow: nil document source")
	}
	if store == nil {
		return nil, fmt.Errorf("workflow: nil store")
	}
	w := &Workflow{
		source:    source,
		store:     store,
		batchSize: defaultBatchSize,
		log:       zerolog.Nop(),
	}
	for _, option := range options {
		option(w)
	}
	return w, nil
}

// Report summarizes one workflow run.
type Report struct {
	RunID     string
	Processed int
	Failed    int
	Elapsed   time.Duration
}

// Run processes the filings in order. A filing whose download or
// extraction fails is counted and skipped; the run keeps going. The
// returned error is non-nil only when the store rejects a batch or the
// context ends, since either leaves the run incomplete.
func (w *Workflow) Run(ctx context.Context, filings []record.SecFiling) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString()}
	log := w.log.With().Str("run_id", report.RunID).Logger()
	log.Info().Int("filings", len(filings)).Msg("filing run started")

	batch := make([]record.SecFiling, 0, w.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.store.SaveFilings(ctx, batch); err != nil {
			return fmt.Errorf("run %s: store batch: %w", report.RunID, err)
		}
		batch = batch[:0]
		return nil
	}

	for _, filing := range filings {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run %s: %w", report.RunID, err)
		}
		processed, err := w.process(ctx, filing)
		if err != nil {
			report.Failed++
			log.Warn().Err(err).Str("accession", filing.AccessionNumber).Msg("filing skipped")
			continue
		}
		report.Processed++
		batch = append(batch, processed)
		if len(batch) == w.batchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}

	report.Elapsed = time.Since(start)
	log.Info().Int("processed", report.Processed).Int("failed", report.Failed).
		Dur("elapsed", report.Elapsed).Msg("filing run finished")
	return report, nil
}

func (w *Workflow) process(ctx context.Context, filing record.SecFiling) (record.SecFiling, error) {
	body, err := w.source.FilingDocument(ctx, filing)
	if err != nil {
		return filing, err
	}
	text, err := DocumentText(body)
	if err != nil {
		return filing, fmt.Errorf("parse document: %w", err)
	}

	filing.Sections = ExtractAll(text)
	if len(filing.Sections) == 0 {
		return filing, fmt.Errorf("no recognizable sections in %s", filing.AccessionNumber)
	}

	if w.summarize != nil {
		summary, err := w.summarize.Summarize(ctx, filing, filing.Sections)
		if err != nil {
			// Summaries are an enrichment; the extracted filing is
			// still worth keeping.
			w.log.Warn().Err(err).Str("accession", filing.AccessionNumber).Msg("summarization failed")
		} else {
			filing.Summary = summary
		}
	}
	return filing, nil
}
