package domain

import "errors"

// ErrInvalidRequest is returned when caller input or the provider rejects a request as malformed.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound is returned when a provider has no data for the requested identifier.
var ErrNotFound = errors.New("not found")

// ErrInsufficientCredits is returned when the provider account has run out of credits.
// It is terminal and never retried.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrMissingCredential is returned before any network call when a provider has no API key configured.
var ErrMissingCredential = errors.New("missing provider credential")

// ErrTimeout is returned when a collection does not complete within its poll budget.
var ErrTimeout = errors.New("collection timed out")

// ErrCollectionFailed is returned when the provider reports a collection as failed.
var ErrCollectionFailed = errors.New("collection failed")

// ErrEmptySnapshot is returned when a ready snapshot comes back with no body at all.
var ErrEmptySnapshot = errors.New("empty snapshot response")

// ErrSnapshotNotReady is returned when the snapshot download is refused
// because the provider is still assembling it.
var ErrSnapshotNotReady = errors.New("snapshot not ready")

// ErrJobNotFound is returned when a snapshot id is not known to the job tracker.
var ErrJobNotFound = errors.New("collection job not found")

// ErrCacheMiss is returned by caches when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")
