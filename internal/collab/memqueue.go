package collab

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemQueue is an in-memory JobQueue. It is the only concrete JobQueue this
// module ships; a persistent, cross-process queue is an external
// collaborator out of this module's scope.
type MemQueue struct {
	mu   sync.Mutex
	jobs map[string]*memJob
}

type memJob struct {
	info   JobInfo
	cancel context.CancelFunc
}

// NewMemQueue builds an empty in-memory JobQueue.
func NewMemQueue() *MemQueue {
	return &MemQueue{jobs: make(map[string]*memJob)}
}

// Enqueue runs fn in a new goroutine immediately and tracks its status.
func (q *MemQueue) Enqueue(fn func(ctx context.Context) (any, error), opts JobOptions) (string, error) {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	job := &memJob{info: JobInfo{Status: JobQueued}, cancel: cancel}
	q.mu.Lock()
	q.jobs[id] = job
	q.mu.Unlock()

	go func() {
		q.setStatus(id, JobStarted, nil, nil)
		result, err := fn(ctx)
		if ctx.Err() != nil {
			q.setStatus(id, JobCanceled, nil, ctx.Err())
			return
		}
		if err != nil {
			q.setStatus(id, JobFailed, nil, err)
			return
		}
		q.setStatus(id, JobFinished, result, nil)
	}()

	return id, nil
}

func (q *MemQueue) setStatus(id string, status JobStatus, result any, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return
	}
	job.info = JobInfo{Status: status, Result: result, Err: err}
}

// GetStatus returns the current status snapshot for jobID.
func (q *MemQueue) GetStatus(jobID string) (JobInfo, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[jobID]
	if !ok {
		return JobInfo{}, false
	}
	return job.info, true
}

// Cancel requests cancellation of a running job.
func (q *MemQueue) Cancel(jobID string) bool {
	q.mu.Lock()
	job, ok := q.jobs[jobID]
	q.mu.Unlock()
	if !ok {
		return false
	}
	job.cancel()
	return true
}

// MemScheduler is an in-memory Scheduler that fires deferred work via
// time.AfterFunc. Like MemQueue, it stands in for the external cron-like
// scheduler collaborator for local runs and tests.
type MemScheduler struct {
	mu   sync.Mutex
	jobs map[string]*scheduledEntry
}

type scheduledEntry struct {
	job   ScheduledJob
	timer *time.Timer
}

// NewMemScheduler builds an empty in-memory Scheduler.
func NewMemScheduler() *MemScheduler {
	return &MemScheduler{jobs: make(map[string]*scheduledEntry)}
}

// Schedule fires fn once at the given time.
func (s *MemScheduler) Schedule(at time.Time, fn func(ctx context.Context) (any, error), meta map[string]string) (string, error) {
	id := uuid.NewString()
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	entry := &scheduledEntry{job: ScheduledJob{ID: id, At: at, Meta: meta}}
	entry.timer = time.AfterFunc(delay, func() {
		_, _ = fn(context.Background())
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.jobs[id] = entry
	s.mu.Unlock()

	return id, nil
}

// Cancel stops a pending scheduled job before it fires.
func (s *MemScheduler) Cancel(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.jobs[jobID]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.jobs, jobID)
	return true
}

// ListJobs returns every pending scheduled job.
func (s *MemScheduler) ListJobs() []ScheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ScheduledJob, 0, len(s.jobs))
	for _, entry := range s.jobs {
		out = append(out, entry.job)
	}
	return out
}
