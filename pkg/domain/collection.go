package domain

import "time"

// JobStatus is the lifecycle position of a CollectionJob.
type JobStatus string

const (
	JobSubmitted JobStatus = "submitted"
	JobPolling   JobStatus = "processing"
	JobReady     JobStatus = "ready"
	JobError     JobStatus = "error"
	JobTimedOut  JobStatus = "timed_out"
)

// Terminal reports whether no further polling can change the status.
// A timed-out job is not terminal: the provider may still finish it.
func (s JobStatus) Terminal() bool {
	return s == JobReady || s == JobError
}

// Dataset kinds known to the collection workflow.
const (
	DatasetCompanies = "companies"
	DatasetPosts     = "posts"
	DatasetJobs      = "jobs"
)

// CollectionRequest describes what to collect.
// Params are extra provider query parameters (e.g. discovery mode).
type CollectionRequest struct {
	Kind   string            `json:"kind"`
	Inputs []map[string]any  `json:"inputs"`
	Params map[string]string `json:"params,omitempty"`
}

// CollectionJob is the caller-visible handle of an asynchronous collection.
// SnapshotID never changes once assigned.
type CollectionJob struct {
	SnapshotID  string    `json:"snapshot_id"`
	Kind        string    `json:"kind,omitempty"`
	Status      JobStatus `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Attempts    int       `json:"attempts"`
	// Detail holds the raw provider progress payload of the last probe.
	Detail string `json:"detail,omitempty"`
}

// Progress is one provider progress probe.
type Progress struct {
	Status string
	Raw    []byte
}
