package download

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/quasar/mclaunch/internal/mcerrors"
	"github.com/quasar/mclaunch/internal/progress"
)

// Job is a named batch of Downloadables driven at bounded concurrency with
// per-item retries.
type Job struct {
	Name           string
	Client         *http.Client
	Concurrency    int // default 16
	Retries        int // default 5: Download calls per item (each Download also retries internally)
	Reporter       progress.Reporter
	Items          []Downloadable
	IgnoreFailures bool

	startedAt time.Time
}

// NewJob builds a Job with default concurrency and a discarding reporter.
func NewJob(name string, client *http.Client, items []Downloadable) *Job {
	return &Job{
		Name:        name,
		Client:      client,
		Concurrency: 16,
		Retries:     5,
		Reporter:    progress.Empty{},
		Items:       items,
	}
}

// Start drives the job to completion: records a start time, wires every
// item's monitor to the aggregator, and runs a bounded-concurrency pool
// over Items. Returns JobFailedError if any item failed permanently and
// IgnoreFailures is false.
func (j *Job) Start(ctx context.Context) error {
	j.startedAt = time.Now()
	if len(j.Items) == 0 {
		j.Reporter.Done()
		return nil
	}

	concurrency := j.Concurrency
	if concurrency <= 0 {
		concurrency = 16
	}

	agg := newAggregator(j.Items, j.Reporter)
	for _, it := range j.Items {
		it.Monitor().SetOnChange(agg.onChange)
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures int

	for _, it := range j.Items {
		it := it
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := j.downloadWithRetry(ctx, it); err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
			}
			// Whatever happened, force the monitor to its total so the
			// aggregator doesn't stall on a permanently failed item.
			it.Monitor().Finish()
		}()
	}
	wg.Wait()
	agg.stop()

	if failures > 0 && !j.IgnoreFailures {
		return &mcerrors.JobFailedError{Name: j.Name, Failures: failures}
	}
	return nil
}

// downloadWithRetry retries an item's Download up to j.Retries times with
// the same client; backoff between attempts is the client's business.
func (j *Job) downloadWithRetry(ctx context.Context, it Downloadable) error {
	retries := j.Retries
	if retries <= 0 {
		retries = 5
	}
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := it.Download(ctx, j.Client); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// aggregator fans in every item monitor's onChange into a single reporter
// stream, picking the most-recently-started incomplete item as "displayed"
// to avoid flicker between concurrently running downloads.
type aggregator struct {
	items    []Downloadable
	reporter progress.Reporter
	mu       sync.Mutex
	stopped  bool
	doneOnce sync.Once
}

func newAggregator(items []Downloadable, reporter progress.Reporter) *aggregator {
	// Totals are recomputed live in onChange; Setup just announces the
	// operation with a zero total.
	var total int64
	reporter.Setup("starting", &total)
	return &aggregator{items: items, reporter: reporter}
}

func (a *aggregator) onChange() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}

	var sumCurrent, sumTotal int64
	var displayed Downloadable
	var displayedStart time.Time
	allDone := true

	for _, it := range a.items {
		snap := it.Monitor().Snapshot()
		sumCurrent += snap.Current
		sumTotal += snap.Total
		if !snap.Done {
			allDone = false
		}
		if snap.Started && !snap.Done {
			if displayed == nil || snap.StartedAt.After(displayedStart) {
				displayed = it
				displayedStart = snap.StartedAt
			}
		}
	}

	a.reporter.Total(sumTotal)
	a.reporter.Progress(sumCurrent)
	if displayed != nil {
		a.reporter.Status(displayed.StatusLabel())
	}
	if allDone {
		a.doneOnce.Do(a.reporter.Done)
		// Done is the final reporter call: later monitor changes (the
		// forced Finish in Start) emit nothing.
		a.stopped = true
	}
}

func (a *aggregator) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doneOnce.Do(a.reporter.Done)
	a.stopped = true
}
