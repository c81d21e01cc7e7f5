package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/scout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCacheContract runs a suite of tests to verify that a Cache implementation
// adheres to the defined interface contract.
func RunCacheContract(t *testing.T, cache Cache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, []byte(`{"name":"Acme"}`), time.Minute)
		require.NoError(t, err, "Set should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.JSONEq(t, `{"name":"Acme"}`, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, []byte("v2"), 0))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, []byte("x"), time.Minute))
		require.NoError(t, cache.Delete(ctx, key), "Delete should not return error")

		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should miss")

		assert.NoError(t, cache.Delete(ctx, key), "Deleting twice is allowed")
	})
}

// RunJobTrackerContract verifies that a JobTracker implementation honors the contract.
func RunJobTrackerContract(t *testing.T, tracker JobTracker) {
	ctx := context.Background()
	submitted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Put and Get", func(t *testing.T) {
		job := domain.CollectionJob{SnapshotID: "s_contract", Kind: domain.DatasetCompanies, Status: domain.JobSubmitted, SubmittedAt: submitted}
		require.NoError(t, tracker.Put(ctx, job))

		got, err := tracker.Get(ctx, "s_contract")
		require.NoError(t, err)
		assert.Equal(t, domain.JobSubmitted, got.Status)
		assert.True(t, submitted.Equal(got.SubmittedAt))
	})

	t.Run("Replace", func(t *testing.T) {
		job := domain.CollectionJob{SnapshotID: "s_contract", Kind: domain.DatasetCompanies, Status: domain.JobReady, SubmittedAt: submitted, Attempts: 3}
		require.NoError(t, tracker.Put(ctx, job))

		got, err := tracker.Get(ctx, "s_contract")
		require.NoError(t, err)
		assert.Equal(t, domain.JobReady, got.Status)
		assert.Equal(t, 3, got.Attempts)
	})

	t.Run("Get Unknown", func(t *testing.T) {
		_, err := tracker.Get(ctx, "s_unknown")
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, tracker.Put(ctx, domain.CollectionJob{SnapshotID: "s_other", Status: domain.JobPolling}))

		jobs, err := tracker.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(jobs))
		for _, j := range jobs {
			ids = append(ids, j.SnapshotID)
		}
		assert.Contains(t, ids, "s_contract")
		assert.Contains(t, ids, "s_other")
	})
}
