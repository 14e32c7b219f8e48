package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/yaad/internal/intent"
	"github.com/kalambet/yaad/internal/storage"
)

// TaskStore persists tasks created from utterances.
type TaskStore interface {
	AddTask(storage.Task) error
}

// ItemStore persists and looks up placed items.
type ItemStore interface {
	AddItem(storage.Item) error
	SearchItem(term string) (storage.Item, error)
}

// Announcer renders a confirmation or answer as speech.
type Announcer interface {
	Announce(ctx context.Context, text string)
}

// Scheduler arranges task reminders.
type Scheduler interface {
	Schedule(taskID string, due time.Time)
}

// Result reports what one utterance produced.
type Result struct {
	Kind intent.Kind

	// Duplicate is set when the utterance matched the immediately
	// preceding one and was dropped unprocessed.
	Duplicate bool

	Task  *storage.Task // created task, if any
	Item  *storage.Item // created item, if any
	Found *storage.Item // query hit, if any

	// Announced is the spoken confirmation or answer, empty on silent
	// outcomes.
	Announced string
}

// Dispatcher turns classified utterances into effects: store writes,
// reminder scheduling, and announcements. Nothing here returns an error
// to the caller; unprocessable input degrades to silence.
type Dispatcher struct {
	classifier *intent.Classifier
	tasks      TaskStore
	items      ItemStore
	announcer  Announcer
	scheduler  Scheduler
	logger     *slog.Logger

	mu   sync.Mutex
	last string
	now  func() time.Time
}

// NewDispatcher wires a Dispatcher from its collaborators.
func NewDispatcher(classifier *intent.Classifier, tasks TaskStore, items ItemStore, announcer Announcer, scheduler Scheduler) *Dispatcher {
	return &Dispatcher{
		classifier: classifier,
		tasks:      tasks,
		items:      items,
		announcer:  announcer,
		scheduler:  scheduler,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// Process handles one final transcript. Transcript delivery can overlap,
// so an utterance identical to the immediately preceding one is dropped
// to avoid double-processing.
func (d *Dispatcher) Process(ctx context.Context, text string) Result {
	d.mu.Lock()
	if text == d.last {
		d.mu.Unlock()
		return Result{Duplicate: true}
	}
	d.last = text
	d.mu.Unlock()

	in := d.classifier.Classify(text)
	switch in.Kind {
	case intent.KindTask:
		return d.addTask(ctx, in)
	case intent.KindStoreItem:
		return d.storeItem(ctx, in)
	case intent.KindFindItem:
		return d.findItem(ctx, in)
	default:
		return Result{Kind: intent.KindNone}
	}
}

func (d *Dispatcher) addTask(ctx context.Context, in intent.Intent) Result {
	now := d.now()
	task := storage.Task{
		ID:        uuid.New().String(),
		Text:      in.TaskText,
		DueTime:   in.DueTime,
		CreatedAt: now,
	}
	if err := d.tasks.AddTask(task); err != nil {
		d.logger.Warn("storing task", "error", err)
		return Result{Kind: in.Kind}
	}

	if task.DueTime.After(now) {
		d.scheduler.Schedule(task.ID, task.DueTime)
	}

	phrase := "कार्य जोड़ा गया: " + task.Text
	d.announcer.Announce(ctx, phrase)
	return Result{Kind: in.Kind, Task: &task, Announced: phrase}
}

// storeItem aborts silently when no object name could be isolated:
// storing a garbage record from a partial match is worse than storing
// nothing. An unspecified location is fine, a missing name is not.
func (d *Dispatcher) storeItem(ctx context.Context, in intent.Intent) Result {
	if in.ItemName == "" {
		return Result{Kind: in.Kind}
	}

	item := storage.Item{
		ID:        uuid.New().String(),
		Name:      in.ItemName,
		Location:  in.Location,
		CreatedAt: d.now(),
	}
	if err := d.items.AddItem(item); err != nil {
		d.logger.Warn("storing item", "error", err)
		return Result{Kind: in.Kind}
	}

	phrase := fmt.Sprintf("याद रखा गया: %s %s में है", item.Name, item.Location)
	d.announcer.Announce(ctx, phrase)
	return Result{Kind: in.Kind, Item: &item, Announced: phrase}
}

func (d *Dispatcher) findItem(ctx context.Context, in intent.Intent) Result {
	found, err := d.items.SearchItem(in.Subject)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			d.logger.Warn("searching items", "error", err)
			return Result{Kind: in.Kind}
		}
		phrase := in.Subject + " नहीं मिला"
		d.announcer.Announce(ctx, phrase)
		return Result{Kind: in.Kind, Announced: phrase}
	}

	phrase := fmt.Sprintf("%s %s में है", found.Name, found.Location)
	d.announcer.Announce(ctx, phrase)
	return Result{Kind: in.Kind, Found: &found, Announced: phrase}
}
