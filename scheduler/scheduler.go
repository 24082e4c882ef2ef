// Package scheduler fires persisted one-shot jobs at or after their
// scheduled time. Jobs survive process restarts in a sqlite-backed store;
// execution is best effort, with no dedup and no retry.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultInterval = time.Second

// HandlerFunc executes one job. Returned errors are logged and the job is
// not re-queued.
type HandlerFunc func(ctx context.Context, payload []byte) error

// JobScheduler is the narrow port request handlers depend on. Schedule
// registers a job and returns once it is durably stored; it never waits for
// the job to run.
type JobScheduler interface {
	Schedule(ctx context.Context, kind string, payload interface{}, fireAt time.Time) error
}

type Scheduler struct {
	store    *Store
	interval time.Duration

	mu       sync.RWMutex
	handlers map[string]HandlerFunc

	stop chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func New(store *Store, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		store:    store,
		interval: interval,
		handlers: make(map[string]HandlerFunc),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Handle registers the handler for a job kind. Must be called before Start.
func (s *Scheduler) Handle(kind string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[kind] = fn
}

// Schedule persists a job for execution at or after fireAt. A store failure
// is returned to the caller: a silently dropped job would leave the system
// promising a reply it will never deliver.
func (s *Scheduler) Schedule(ctx context.Context, kind string, payload interface{}, fireAt time.Time) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode job payload: %w", err)
	}

	job := Job{
		ID:      uuid.New().String(),
		Kind:    kind,
		Payload: body,
		FireAt:  fireAt,
	}
	if err := s.store.Add(ctx, job); err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", kind, err)
	}

	log.Printf("Scheduled %s job %s for %s", kind, job.ID, fireAt.Format(time.RFC3339))
	return nil
}

// Start launches the polling loop. Jobs already overdue in the store (for
// example, scheduled before a restart) fire on the first tick.
func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.fireDue()
		}
	}
}

func (s *Scheduler) fireDue() {
	ctx := context.Background()
	jobs, err := s.store.ClaimDue(ctx, time.Now())
	if err != nil {
		log.Printf("Failed to claim due jobs: %v", err)
		return
	}

	for _, job := range jobs {
		s.mu.RLock()
		fn, ok := s.handlers[job.Kind]
		s.mu.RUnlock()
		if !ok {
			log.Printf("No handler registered for %s job %s, dropping", job.Kind, job.ID)
			continue
		}

		s.wg.Add(1)
		go func(job Job, fn HandlerFunc) {
			defer s.wg.Done()
			if err := fn(context.Background(), job.Payload); err != nil {
				log.Printf("Job %s (%s) failed: %v", job.ID, job.Kind, err)
			}
		}(job, fn)
	}
}

// Stop halts the polling loop and waits for in-flight jobs to finish.
// Unclaimed jobs stay in the store for the next start.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	s.wg.Wait()
}
