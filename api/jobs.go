package api

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	pdfPkg "pdf_image_extractor/pdf"
)

// Job status values reported to the progress endpoint.
const (
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// Job tracks one extraction run: its progress while running and its results
// once finished. All job state is held here and passed by reference, never in
// package globals.
type Job struct {
	ID          string
	Status      string
	CurrentPage int
	TotalPages  int
	Error       string
	Stats       *pdfPkg.Stats
	Images      []pdfPkg.ExtractedImage
	Optimized   []string
	OutputDir   string
	CreatedAt   time.Time
}

// Store keeps extraction jobs keyed by ID. The extraction run updates a job
// from its background goroutine while the progress endpoint reads it, so all
// access goes through the mutex.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	ttl  time.Duration
}

// NewStore creates a job store. Finished jobs and their output directories
// are removed ttl after completion.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

// Create registers a new running job with its own output directory under
// outputRoot.
func (s *Store) Create(outputRoot string) *Job {
	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobRunning,
		CreatedAt: time.Now(),
	}
	job.OutputDir = filepath.Join(outputRoot, job.ID)

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return job
}

// Snapshot returns a copy of the job's current state.
func (s *Store) Snapshot(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	snap := *job
	snap.Images = append([]pdfPkg.ExtractedImage(nil), job.Images...)
	snap.Optimized = append([]string(nil), job.Optimized...)
	return snap, true
}

// SetProgress records that currentPage of totalPages has been processed.
func (s *Store) SetProgress(id string, currentPage, totalPages int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[id]; ok {
		job.CurrentPage = currentPage
		job.TotalPages = totalPages
	}
}

// Complete marks the job done and attaches its results, scheduling cleanup
// after the store's TTL.
func (s *Store) Complete(id string, images []pdfPkg.ExtractedImage, stats *pdfPkg.Stats, optimized []string) {
	s.mu.Lock()
	if job, ok := s.jobs[id]; ok {
		job.Status = JobDone
		job.Images = images
		job.Stats = stats
		job.Optimized = optimized
	}
	s.mu.Unlock()

	s.scheduleCleanup(id)
}

// Fail marks the job failed with the given reason and schedules cleanup.
func (s *Store) Fail(id, reason string) {
	s.mu.Lock()
	if job, ok := s.jobs[id]; ok {
		job.Status = JobFailed
		job.Error = reason
	}
	s.mu.Unlock()

	s.scheduleCleanup(id)
}

// Remove drops the job and deletes its output directory.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	if ok && job.OutputDir != "" {
		if err := os.RemoveAll(job.OutputDir); err != nil {
			log.Warn().Err(err).Str("job_id", id).Msg("failed to remove job output directory")
		}
	}
}

// scheduleCleanup removes the job after the TTL so downloads stay available
// for a while after extraction finishes.
func (s *Store) scheduleCleanup(id string) {
	if s.ttl <= 0 {
		return
	}
	time.AfterFunc(s.ttl, func() { s.Remove(id) })
}
