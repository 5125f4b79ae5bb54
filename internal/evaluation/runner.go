package evaluation

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/he-be/mansion-poem/internal/domain"
)

// RecordSource supplies the ordered batch of records to evaluate.
type RecordSource interface {
	LoadEligibleRecords(ctx context.Context) ([]domain.GenerationRecord, error)
}

// Judge scores one evaluation prompt.
type Judge interface {
	Evaluate(ctx context.Context, prompt string) (domain.Verdict, error)
}

// Runner drives the batch: load records, build a prompt per record,
// collect a verdict per record. A failed oracle call never aborts the
// batch; the sentinel verdict stands in for the missing score and the
// failure is logged against the record's identifier.
type Runner struct {
	source      RecordSource
	judge       Judge
	logger      *slog.Logger
	concurrency int
}

// NewRunner assembles a runner. Concurrency bounds the number of
// in-flight oracle calls; 1 reproduces the strictly sequential
// behavior of the original batch job.
func NewRunner(source RecordSource, judge Judge, logger *slog.Logger, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		source:      source,
		judge:       judge,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run evaluates every eligible record and returns the scored pairs in
// the record source's order, regardless of completion order. The only
// error it returns is a record-source failure; per-record oracle
// failures are absorbed into sentinel verdicts.
func (r *Runner) Run(ctx context.Context) ([]ScoredRecord, error) {
	records, err := r.source.LoadEligibleRecords(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Info("loaded eligible records", "count", len(records))
	if len(records) == 0 {
		return nil, nil
	}

	// Results land at their record's index, so each goroutine writes a
	// distinct slot and the output keeps the source ordering.
	scored := make([]ScoredRecord, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			r.logger.Info("evaluating record",
				"index", i+1, "total", len(records),
				"model", rec.LLMModel, "id", rec.ID)

			prompt := BuildPrompt(rec.SelectedCards, rec.Poem)

			verdict, err := r.judge.Evaluate(gctx, prompt)
			if err != nil {
				r.logger.Error("oracle evaluation failed", "id", rec.ID, "error", err)
				verdict = domain.SentinelVerdict(err)
			}

			scored[i] = ScoredRecord{Record: rec, Verdict: verdict}
			r.logger.Info("record scored", "id", rec.ID, "score", verdict.TotalScore)
			return nil
		})
	}

	// Evaluation failures are folded into sentinel verdicts above, so
	// the group never carries an error out.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scored, nil
}
