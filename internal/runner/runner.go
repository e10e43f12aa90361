// Package runner dispatches a batch of questions across a bounded
// worker pool with per-worker rate pacing, bounded retry on rate-limit
// failures, and per-question failure isolation.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"financeqa/internal/domain"
	"financeqa/internal/eval"
)

// Answerer produces a draft for one question. The returned error is
// retryable only when it wraps domain.ErrModelRateLimited.
type Answerer interface {
	Answer(ctx context.Context, q domain.Question) (domain.AnswerDraft, domain.QuestionType, error)
}

// Options tunes the pool. Zero values fall back to the defaults below.
type Options struct {
	Workers     int           // pool size
	Delay       time.Duration // per-worker pause since its previous model call
	MaxAttempts int           // retry cap per question, including the first try
	RetryBase   time.Duration // first backoff delay, doubled per attempt
	RetryCap    time.Duration // backoff ceiling
	Logger      *slog.Logger
}

// Runner owns the pool configuration. The answerer and evaluator are
// shared read-only across workers.
type Runner struct {
	answerer  Answerer
	evaluator *eval.Evaluator
	opts      Options
}

// New creates a runner, filling option defaults.
func New(answerer Answerer, evaluator *eval.Evaluator, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = time.Second
	}
	if opts.RetryCap <= 0 {
		opts.RetryCap = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{answerer: answerer, evaluator: evaluator, opts: opts}
}

// Run processes every question and returns exactly one outcome per
// input, in completion order. One question's failure never aborts the
// batch; only ctx cancellation stops it early, and questions not
// finished by then come back SKIPPED.
func (r *Runner) Run(ctx context.Context, questions []domain.Question) []domain.RunOutcome {
	jobs := make(chan domain.Question, len(questions))
	for _, q := range questions {
		jobs <- q
	}
	close(jobs)

	outcomes := make(chan domain.RunOutcome, len(questions))
	var done atomic.Int64
	total := len(questions)

	var g errgroup.Group
	for w := 0; w < r.opts.Workers; w++ {
		g.Go(func() error {
			var lastCall time.Time
			for q := range jobs {
				var out domain.RunOutcome
				if ctx.Err() != nil {
					out = skipped(q)
				} else {
					out = r.process(ctx, q, &lastCall)
				}
				outcomes <- out
				if n := done.Add(1); n%10 == 0 || n == int64(total) {
					r.opts.Logger.Info("progress", "done", n, "total", total)
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-question outcomes
	close(outcomes)

	results := make([]domain.RunOutcome, 0, total)
	for out := range outcomes {
		results = append(results, out)
	}
	return results
}

// process runs the bounded retry loop for one question. lastCall is
// the worker's pacing state.
func (r *Runner) process(ctx context.Context, q domain.Question, lastCall *time.Time) domain.RunOutcome {
	backoff := r.opts.RetryBase
	for attempt := 1; ; attempt++ {
		if !r.pace(ctx, *lastCall) {
			return skipped(q)
		}
		*lastCall = time.Now()

		draft, qtype, err := r.answerer.Answer(ctx, q)
		if err == nil {
			return r.evaluate(q, qtype, draft)
		}
		if ctx.Err() != nil {
			return skipped(q)
		}
		if !errors.Is(err, domain.ErrModelRateLimited) {
			return domain.RunOutcome{
				Question:  q,
				Type:      qtype,
				Status:    domain.StatusFailed,
				ErrorKind: domain.ErrKindModelHardFailure,
				Error:     err.Error(),
			}
		}
		if attempt >= r.opts.MaxAttempts {
			// Exhausted retries: FAILED, never silently scored incorrect.
			return domain.RunOutcome{
				Question:  q,
				Type:      qtype,
				Status:    domain.StatusFailed,
				ErrorKind: domain.ErrKindModelRateLimited,
				Error:     err.Error(),
			}
		}
		r.opts.Logger.Warn("rate limited, backing off",
			"question", q.ID, "attempt", attempt, "delay", backoff)
		if !sleep(ctx, backoff) {
			return skipped(q)
		}
		backoff *= 2
		if backoff > r.opts.RetryCap {
			backoff = r.opts.RetryCap
		}
	}
}

func (r *Runner) evaluate(q domain.Question, qtype domain.QuestionType, draft domain.AnswerDraft) domain.RunOutcome {
	evaluation := r.evaluator.Evaluate(draft, q)
	out := domain.RunOutcome{
		Question:   q,
		Type:       qtype,
		Status:     domain.StatusOK,
		Draft:      &draft,
		Evaluation: &evaluation,
	}
	switch {
	case evaluation.ExpectedNumeric && !evaluation.PredictedNumeric:
		out.ErrorKind = domain.ErrKindAnswerUnparsable
	case qtype != domain.BasicTactical && !draft.UsedRAG:
		out.ErrorKind = domain.ErrKindRetrievalEmpty
	}
	return out
}

// pace enforces the per-worker delay since that worker's previous
// model call. Returns false when ctx is canceled while waiting.
func (r *Runner) pace(ctx context.Context, lastCall time.Time) bool {
	if r.opts.Delay <= 0 || lastCall.IsZero() {
		return ctx.Err() == nil
	}
	wait := r.opts.Delay - time.Since(lastCall)
	if wait <= 0 {
		return ctx.Err() == nil
	}
	return sleep(ctx, wait)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func skipped(q domain.Question) domain.RunOutcome {
	return domain.RunOutcome{
		Question:  q,
		Status:    domain.StatusSkipped,
		ErrorKind: domain.ErrKindCanceled,
		Error:     "canceled before completion",
	}
}
