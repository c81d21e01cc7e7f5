package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Contract(t *testing.T) {
	ports.RunJobTrackerContract(t, NewTracker())
}

func TestTracker_ListOrder(t *testing.T) {
	tracker := NewTracker()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, tracker.Put(ctx, domain.CollectionJob{SnapshotID: "s_2", SubmittedAt: base.Add(time.Minute)}))
	require.NoError(t, tracker.Put(ctx, domain.CollectionJob{SnapshotID: "s_1", SubmittedAt: base}))

	jobs, err := tracker.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "s_1", jobs[0].SnapshotID)
	assert.Equal(t, "s_2", jobs[1].SnapshotID)
}

func TestTracker_Concurrent(t *testing.T) {
	tracker := NewTracker()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tracker.Put(ctx, domain.CollectionJob{SnapshotID: "s_shared", Status: domain.JobPolling})
			_, _ = tracker.Get(ctx, "s_shared")
		}()
	}
	wg.Wait()

	job, err := tracker.Get(ctx, "s_shared")
	require.NoError(t, err)
	assert.Equal(t, domain.JobPolling, job.Status)
}
