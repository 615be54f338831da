package job

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"trend-herald/internal/compose"
	"trend-herald/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type TrendingFetcher interface {
	FetchTrending(ctx context.Context) ([]*domain.CoinSnapshot, error)
}

type ThreadPublisher interface {
	PublishThread(ctx context.Context, thread domain.Thread) ([]domain.PublishResult, error)
}

type ThreadRecorder interface {
	SaveThread(ctx context.Context, symbols []string, thread domain.Thread, results []domain.PublishResult, complete bool) error
}

type FailureNotifier interface {
	NotifyFailure(stage string, err error)
}

// CycleRunner drives the fetch → compose → publish pipeline: once
// immediately on Start, then on a fixed interval. Errors at any stage end
// the cycle, they never stop the schedule.
type CycleRunner struct {
	tracer    trace.Tracer
	trending  TrendingFetcher
	publisher ThreadPublisher
	recorder  ThreadRecorder  // optional
	notifier  FailureNotifier // optional
	interval  time.Duration

	running atomic.Bool
}

func NewCycleRunner(tracer trace.Tracer, trending TrendingFetcher, publisher ThreadPublisher, intervalHours int) *CycleRunner {
	if intervalHours <= 0 {
		intervalHours = 6
	}
	return &CycleRunner{
		tracer:    tracer,
		trending:  trending,
		publisher: publisher,
		interval:  time.Duration(intervalHours) * time.Hour,
	}
}

// WithRecorder enables publish-history persistence.
func (r *CycleRunner) WithRecorder(recorder ThreadRecorder) *CycleRunner {
	r.recorder = recorder
	return r
}

// WithNotifier enables operator failure alerts.
func (r *CycleRunner) WithNotifier(notifier FailureNotifier) *CycleRunner {
	r.notifier = notifier
	return r
}

// Start runs one cycle immediately, then repeats on the configured interval
// until ctx is cancelled.
func (r *CycleRunner) Start(ctx context.Context) {
	log.Println("Cycle runner starting...")
	r.RunCycle(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cycle runner stopped")
			return
		case <-ticker.C:
			log.Println("Running scheduled cycle...")
			r.RunCycle(ctx)
		}
	}
}

// RunCycle executes one pipeline pass. A trigger arriving while a cycle is
// still in flight is skipped, never queued or run concurrently.
func (r *CycleRunner) RunCycle(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		log.Println("Previous cycle still running, skipping trigger")
		return
	}
	defer r.running.Store(false)

	ctx, span := r.tracer.Start(ctx, "cycle-runner.run-cycle")
	defer span.End()

	log.Println("Fetching trending data...")
	coins, err := r.trending.FetchTrending(ctx)
	if err != nil {
		log.Printf("Cycle aborted: %v", err)
		r.notifyFailure("fetch", err)
		return
	}
	if len(coins) == 0 {
		log.Println("No trending data available, skipping cycle")
		return
	}

	thread, err := compose.Compose(coins)
	if err != nil {
		log.Printf("Cycle aborted: %v", err)
		r.notifyFailure("compose", err)
		return
	}

	log.Println("Posting thread...")
	results, err := r.publisher.PublishThread(ctx, thread)
	complete := err == nil
	if err != nil {
		log.Printf("Publish failed after %d of %d posts: %v", len(results), len(thread), err)
		r.notifyFailure("publish", err)
	} else {
		log.Printf("Thread posted successfully (%d posts)", len(results))
	}

	if r.recorder != nil && len(results) > 0 {
		symbols := make([]string, 0, len(coins))
		for _, c := range coins {
			symbols = append(symbols, c.Symbol)
		}
		if err := r.recorder.SaveThread(ctx, symbols, thread, results, complete); err != nil {
			log.Printf("Failed to record published thread: %v", err)
		}
	}
}

func (r *CycleRunner) notifyFailure(stage string, err error) {
	if r.notifier != nil {
		r.notifier.NotifyFailure(stage, err)
	}
}
