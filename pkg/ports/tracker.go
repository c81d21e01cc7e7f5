package ports

import (
	"context"

	"github.com/aretw0/scout/pkg/domain"
)

// JobTracker records the collection jobs this process has seen.
// Jobs are never persisted across restarts; callers must cope with unknown handles.
type JobTracker interface {
	// Put stores or replaces the job keyed by its snapshot id.
	Put(ctx context.Context, job domain.CollectionJob) error

	// Get returns the job for a snapshot id.
	// Returns domain.ErrJobNotFound if the id is unknown.
	Get(ctx context.Context, snapshotID string) (domain.CollectionJob, error)

	// List returns every tracked job.
	List(ctx context.Context) ([]domain.CollectionJob, error)
}
