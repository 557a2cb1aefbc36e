package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus tracks an ingest job through its lifecycle.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is one uploaded document moving through the pipeline. Mutators
// take the lock; readers go through Snapshot.
type Job struct {
	mu sync.Mutex

	id        string
	filename  string
	status    JobStatus
	err       string
	sections  []string
	createdAt time.Time
	updatedAt time.Time
}

// ID returns the job identifier.
func (j *Job) ID() string {
	return j.id
}

// SetStatus moves the job to status.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.updatedAt = time.Now()
}

// Fail marks the job failed with its cause.
func (j *Job) Fail(cause error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = JobFailed
	j.err = cause.Error()
	j.updatedAt = time.Now()
}

// Complete marks the job done, listing the section types found.
func (j *Job) Complete(sections []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = JobCompleted
	j.sections = sections
	j.updatedAt = time.Now()
}

// Snapshot is a point-in-time copy of a job, safe to serialize.
type Snapshot struct {
	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	Sections  []string  `json:"sections,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a copy of the job's current state.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Snapshot{
		ID:        j.id,
		Filename:  j.filename,
		Status:    j.status,
		Error:     j.err,
		Sections:  append([]string(nil), j.sections...),
		CreatedAt: j.createdAt,
		UpdatedAt: j.updatedAt,
	}
}

// JobStore tracks ingest jobs in memory. Finished jobs fall out after
// the TTL; ingest sweeps opportunistically.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

// NewJobStore creates a store that keeps finished jobs for ttl.
func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

// Create registers a new queued job for an uploaded file.
func (s *JobStore) Create(filename string) *Job {
	now := time.Now()
	job := &Job{
		id:        uuid.NewString(),
		filename:  filename,
		status:    JobQueued,
		createdAt: now,
		updatedAt: now,
	}
	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()
	return job
}

// Get returns the job with the given id, or nil.
func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup drops finished jobs whose last update is older than the TTL.
func (s *JobStore) Cleanup() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		snap := job.Snapshot()
		if snap.Status != JobCompleted && snap.Status != JobFailed {
			continue
		}
		if snap.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
