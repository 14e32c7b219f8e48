package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/yaad/internal/storage"
)

const fireTimeout = 30 * time.Second

// TaskReader provides the fire-time view of tasks. The read is a single
// query so existence and completion are observed together.
type TaskReader interface {
	GetTask(id string) (storage.Task, error)
	ListTasks() ([]storage.Task, error)
}

// Announcer renders a spoken alert.
type Announcer interface {
	Announce(ctx context.Context, text string)
}

// Notifier requests a system notification, best effort.
type Notifier interface {
	Notify(ctx context.Context, title, body string)
}

// Scheduler owns one cancellable one-shot timer per task id. A timer is
// Pending until it fires or is cancelled; both are terminal. Timers are
// process-local: Restore re-derives them from the task store after a
// restart.
type Scheduler struct {
	tasks     TaskReader
	announcer Announcer
	notifier  Notifier
	logger    *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	now    func() time.Time
}

// NewScheduler creates a Scheduler with no pending timers.
func NewScheduler(tasks TaskReader, announcer Announcer, notifier Notifier) *Scheduler {
	return &Scheduler{
		tasks:     tasks,
		announcer: announcer,
		notifier:  notifier,
		logger:    slog.Default(),
		timers:    make(map[string]*time.Timer),
		now:       time.Now,
	}
}

// Schedule arranges a reminder for the task at due. A non-positive delay
// fires immediately. Scheduling again for the same id replaces the
// pending timer, keeping at most one per task.
func (s *Scheduler) Schedule(taskID string, due time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[taskID]; ok {
		t.Stop()
	}

	delay := due.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.timers[taskID] = time.AfterFunc(delay, func() { s.fire(taskID) })
}

// Cancel retires the pending timer for taskID, if any. Callers must
// invoke it whenever a task is deleted or completed before its reminder
// fires.
func (s *Scheduler) Cancel(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[taskID]; ok {
		t.Stop()
		delete(s.timers, taskID)
	}
}

// Restore re-arms reminders for incomplete, future-dated tasks. Called
// once at startup; previously scheduled timers do not survive a restart.
func (s *Scheduler) Restore() (int, error) {
	tasks, err := s.tasks.ListTasks()
	if err != nil {
		return 0, err
	}

	n := 0
	now := s.now()
	for _, t := range tasks {
		if t.Completed || !t.DueTime.After(now) {
			continue
		}
		s.Schedule(t.ID, t.DueTime)
		n++
	}
	return n, nil
}

// Stop cancels every pending timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// fire runs on the timer goroutine. The task state is re-read at fire
// time: a task deleted or completed after scheduling must not announce,
// even if Cancel was missed.
func (s *Scheduler) fire(taskID string) {
	s.mu.Lock()
	delete(s.timers, taskID)
	s.mu.Unlock()

	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("reading task at fire time", "task_id", taskID, "error", err)
		}
		return
	}
	if task.Completed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.announcer.Announce(gCtx, "रिमाइंडर: "+task.Text)
		return nil
	})
	g.Go(func() error {
		s.notifier.Notify(gCtx, "कार्य रिमाइंडर", task.Text)
		return nil
	})
	g.Wait()
}

// pending reports the number of timers not yet fired or cancelled.
func (s *Scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
