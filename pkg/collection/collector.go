// Package collection implements the asynchronous collection workflow:
// submit a job, poll its progress until it is ready, fetch the snapshot.
//
// The workflow is exposed in two shapes. Initiate and Check never block for
// longer than one provider round trip, so a memoryless caller can hand the
// snapshot id back as often as it likes. Run blocks through a bounded poll loop.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/scout/internal/logging"
	"github.com/aretw0/scout/pkg/adapters/memory"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/observability"
	"github.com/aretw0/scout/pkg/ports"
)

// Defaults for the poll loop.
const (
	DefaultInterval = 10 * time.Second
	DefaultAttempts = 30
)

// Provider is an asynchronous dataset provider.
type Provider interface {
	Trigger(ctx context.Context, req domain.CollectionRequest) (string, error)
	Progress(ctx context.Context, snapshotID string) (*domain.Progress, error)
	Snapshot(ctx context.Context, snapshotID string) ([]byte, error)
}

// Result is the outcome of a Check: the job and, once ready, the raw snapshot.
type Result struct {
	Job      domain.CollectionJob
	Snapshot []byte
}

// Ready reports whether the snapshot has been fetched.
func (r *Result) Ready() bool {
	return r.Job.Status == domain.JobReady
}

// Collector runs collection jobs against one provider.
type Collector struct {
	provider Provider
	tracker  ports.JobTracker
	interval time.Duration
	attempts int
	metrics  *observability.Metrics
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Collector.
type Option func(*Collector)

// WithTracker replaces the in-memory job tracker.
func WithTracker(t ports.JobTracker) Option {
	return func(c *Collector) {
		c.tracker = t
	}
}

// WithPolling sets the poll interval and attempt budget used by Await and Run.
func WithPolling(interval time.Duration, attempts int) Option {
	return func(c *Collector) {
		if interval >= 0 {
			c.interval = interval
		}
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// WithMetrics records every progress probe in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Collector) {
		c.metrics = m
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// NewCollector creates a collector.
func NewCollector(p Provider, opts ...Option) *Collector {
	c := &Collector{
		provider: p,
		tracker:  memory.NewTracker(),
		interval: DefaultInterval,
		attempts: DefaultAttempts,
		logger:   logging.NewNop(),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tracker exposes the job tracker for status queries.
func (c *Collector) Tracker() ports.JobTracker {
	return c.tracker
}

// Initiate submits a collection and returns immediately with its handle.
// A trigger response without a snapshot id is fatal.
func (c *Collector) Initiate(ctx context.Context, req domain.CollectionRequest) (*domain.CollectionJob, error) {
	if len(req.Inputs) == 0 {
		return nil, fmt.Errorf("collection needs at least one input: %w", domain.ErrInvalidRequest)
	}

	id, err := c.provider.Trigger(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("trigger %s collection: %w", req.Kind, err)
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("trigger %s collection: provider returned no snapshot id", req.Kind)
	}

	now := c.now()
	job := domain.CollectionJob{
		SnapshotID:  id,
		Kind:        req.Kind,
		Status:      domain.JobSubmitted,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	c.record(ctx, job)
	c.logger.Info("collection submitted", "snapshot_id", id, "kind", req.Kind, "inputs", len(req.Inputs))
	return &job, nil
}

// Check probes a job once. It is safe to call repeatedly: it never restarts
// the collection. Ready jobs skip the probe and only refetch the snapshot;
// jobs already in Error fail without contacting the provider.
func (c *Collector) Check(ctx context.Context, snapshotID string) (*Result, error) {
	job := c.lookup(ctx, snapshotID)
	if job.Status.Terminal() {
		return c.settle(ctx, job)
	}

	job, err := c.probe(ctx, job)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return c.settle(ctx, job)
	}
	return &Result{Job: job}, nil
}

// Await polls a submitted job until it is ready, fails or exhausts the attempt budget.
// The snapshot is fetched only when the job becomes ready.
func (c *Collector) Await(ctx context.Context, snapshotID string) (*Result, error) {
	job := c.lookup(ctx, snapshotID)
	if job.Status.Terminal() {
		res, err := c.settle(ctx, job)
		if err != nil || res.Ready() {
			return res, err
		}
		job = res.Job
	}

	for attempt := 1; attempt <= c.attempts; attempt++ {
		var err error
		job, err = c.probe(ctx, job)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			res, err := c.settle(ctx, job)
			if err != nil || res.Ready() {
				return res, err
			}
			job = res.Job
		}

		if attempt < c.attempts {
			if err := c.sleep(ctx, c.interval); err != nil {
				return nil, fmt.Errorf("waiting for snapshot %s: %w", snapshotID, err)
			}
		}
	}

	job.Status = domain.JobTimedOut
	job.UpdatedAt = c.now()
	c.record(ctx, job)
	c.logger.Warn("collection timed out", "snapshot_id", snapshotID, "attempts", job.Attempts)
	return nil, fmt.Errorf("snapshot %s not ready after %d attempts: %w", snapshotID, c.attempts, domain.ErrTimeout)
}

// Run submits a collection and blocks until its snapshot is available.
func (c *Collector) Run(ctx context.Context, req domain.CollectionRequest) (*Result, error) {
	job, err := c.Initiate(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Await(ctx, job.SnapshotID)
}

func (c *Collector) probe(ctx context.Context, job domain.CollectionJob) (domain.CollectionJob, error) {
	progress, err := c.provider.Progress(ctx, job.SnapshotID)
	if err != nil {
		return job, fmt.Errorf("progress of snapshot %s: %w", job.SnapshotID, err)
	}
	status := strings.ToLower(strings.TrimSpace(progress.Status))
	c.metrics.ObservePoll(status)

	job.Attempts++
	job.UpdatedAt = c.now()
	job.Detail = string(progress.Raw)
	switch status {
	case "ready":
		job.Status = domain.JobReady
	case "error", "failed":
		job.Status = domain.JobError
	default:
		job.Status = domain.JobPolling
	}
	c.record(ctx, job)
	c.logger.Debug("collection progress", "snapshot_id", job.SnapshotID, "status", status, "attempt", job.Attempts)
	return job, nil
}

// settle finishes a job in a terminal status: Error fails, Ready fetches.
// A refused download leaves the job Polling and the result not ready.
func (c *Collector) settle(ctx context.Context, job domain.CollectionJob) (*Result, error) {
	if job.Status == domain.JobError {
		return nil, failure(job)
	}
	return c.fetch(ctx, job)
}

func (c *Collector) fetch(ctx context.Context, job domain.CollectionJob) (*Result, error) {
	body, err := c.provider.Snapshot(ctx, job.SnapshotID)
	if errors.Is(err, domain.ErrSnapshotNotReady) {
		// Progress ran ahead of the download; back to polling.
		job.Status = domain.JobPolling
		job.UpdatedAt = c.now()
		c.record(ctx, job)
		c.logger.Debug("snapshot not ready for download", "snapshot_id", job.SnapshotID)
		return &Result{Job: job}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot %s: %w", job.SnapshotID, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", job.SnapshotID, domain.ErrEmptySnapshot)
	}
	return &Result{Job: job, Snapshot: body}, nil
}

// lookup returns the tracked job or a fresh Polling record for handles this
// process has never seen (restarts, other replicas).
func (c *Collector) lookup(ctx context.Context, snapshotID string) domain.CollectionJob {
	job, err := c.tracker.Get(ctx, snapshotID)
	if err == nil {
		return job
	}
	if !errors.Is(err, domain.ErrJobNotFound) {
		c.logger.Warn("job tracker lookup failed", "snapshot_id", snapshotID, "error", err)
	}
	return domain.CollectionJob{SnapshotID: snapshotID, Status: domain.JobPolling, UpdatedAt: c.now()}
}

func (c *Collector) record(ctx context.Context, job domain.CollectionJob) {
	if err := c.tracker.Put(ctx, job); err != nil {
		c.logger.Warn("job tracker update failed", "snapshot_id", job.SnapshotID, "error", err)
	}
}

func failure(job domain.CollectionJob) error {
	return fmt.Errorf("snapshot %s: %w: %s", job.SnapshotID, domain.ErrCollectionFailed, job.Detail)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
