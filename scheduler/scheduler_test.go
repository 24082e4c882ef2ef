package scheduler

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

type recorder struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (r *recorder) handle(_ context.Context, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func TestSchedulerFiresDueJob(t *testing.T) {
	store := openTestStore(t)
	sched := New(store, 10*time.Millisecond)

	rec := &recorder{}
	sched.Handle("greet", rec.handle)
	sched.Start()
	defer sched.Stop()

	// Zero delay: due immediately, fires on the next tick
	err := sched.Schedule(context.Background(), "greet", map[string]string{"name": "ada"}, time.Now())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.payloads[0], &payload))
	assert.Equal(t, "ada", payload["name"])

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSchedulerDoesNotFireEarly(t *testing.T) {
	store := openTestStore(t)
	sched := New(store, 10*time.Millisecond)

	rec := &recorder{}
	sched.Handle("later", rec.handle)
	sched.Start()
	defer sched.Stop()

	err := sched.Schedule(context.Background(), "later", nil, time.Now().Add(time.Hour))
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, rec.count())

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestSchedulerJobSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "jobs.db")

	// First process schedules and dies before the job is due
	store, err := OpenStore(context.Background(), dsn)
	require.NoError(t, err)
	sched := New(store, 10*time.Millisecond)
	require.NoError(t, sched.Schedule(context.Background(), "revive", map[string]int{"n": 7}, time.Now()))
	require.NoError(t, store.Close())

	// Second process picks the overdue job up on its first tick
	store2, err := OpenStore(context.Background(), dsn)
	require.NoError(t, err)
	defer store2.Close()

	rec := &recorder{}
	sched2 := New(store2, 10*time.Millisecond)
	sched2.Handle("revive", rec.handle)
	sched2.Start()
	defer sched2.Stop()

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerDuplicateJobsBothFire(t *testing.T) {
	store := openTestStore(t)
	sched := New(store, 10*time.Millisecond)

	rec := &recorder{}
	sched.Handle("dup", rec.handle)
	sched.Start()
	defer sched.Stop()

	payload := map[string]uint{"post_id": 1, "parent_id": 2}
	require.NoError(t, sched.Schedule(context.Background(), "dup", payload, time.Now()))
	require.NoError(t, sched.Schedule(context.Background(), "dup", payload, time.Now()))

	require.Eventually(t, func() bool { return rec.count() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerUnknownKindIsDropped(t *testing.T) {
	store := openTestStore(t)
	sched := New(store, 10*time.Millisecond)
	sched.Start()
	defer sched.Stop()

	require.NoError(t, sched.Schedule(context.Background(), "nobody-home", nil, time.Now()))

	// The job is claimed and dropped, not retried forever
	require.Eventually(t, func() bool {
		pending, err := store.Pending(context.Background())
		return err == nil && pending == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerStopDrainsInFlightJobs(t *testing.T) {
	store := openTestStore(t)
	sched := New(store, 10*time.Millisecond)

	started := make(chan struct{})
	finished := make(chan struct{})
	sched.Handle("slow", func(_ context.Context, _ []byte) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		close(finished)
		return nil
	})
	sched.Start()

	require.NoError(t, sched.Schedule(context.Background(), "slow", nil, time.Now()))

	<-started
	sched.Stop()

	select {
	case <-finished:
	default:
		t.Fatal("Stop returned before the in-flight job finished")
	}
}

func TestStoreClaimDueReturnsOldestFirst(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.Add(context.Background(), Job{ID: "b", Kind: "k", FireAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Add(context.Background(), Job{ID: "a", Kind: "k", FireAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Add(context.Background(), Job{ID: "c", Kind: "k", FireAt: now.Add(time.Hour)}))

	jobs, err := store.ClaimDue(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "b", jobs[1].ID)

	// Future job is untouched, claimed ones are gone
	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	jobs, err = store.ClaimDue(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
