package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/scout/pkg/domain"
)

// Tracker implements ports.JobTracker in memory.
// Safe for concurrent use.
type Tracker struct {
	data map[string]domain.CollectionJob
	mu   sync.RWMutex
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		data: make(map[string]domain.CollectionJob),
	}
}

// Put stores the job by value so callers cannot mutate tracked state.
func (t *Tracker) Put(ctx context.Context, job domain.CollectionJob) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[job.SnapshotID] = job
	return nil
}

// Get returns the job for a snapshot id.
func (t *Tracker) Get(ctx context.Context, snapshotID string) (domain.CollectionJob, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.data[snapshotID]
	if !ok {
		return domain.CollectionJob{}, domain.ErrJobNotFound
	}
	return job, nil
}

// List returns tracked jobs, oldest submission first.
func (t *Tracker) List(ctx context.Context) ([]domain.CollectionJob, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	jobs := make([]domain.CollectionJob, 0, len(t.data))
	for _, job := range t.data {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].SubmittedAt.Equal(jobs[j].SubmittedAt) {
			return jobs[i].SnapshotID < jobs[j].SnapshotID
		}
		return jobs[i].SubmittedAt.Before(jobs[j].SubmittedAt)
	})
	return jobs, nil
}
