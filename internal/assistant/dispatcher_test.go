package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kalambet/yaad/internal/intent"
	"github.com/kalambet/yaad/internal/storage"
)

type mockAnnouncer struct {
	texts []string
}

func (m *mockAnnouncer) Announce(_ context.Context, text string) {
	m.texts = append(m.texts, text)
}

type mockScheduler struct {
	scheduled map[string]time.Time
}

func (m *mockScheduler) Schedule(taskID string, due time.Time) {
	if m.scheduled == nil {
		m.scheduled = make(map[string]time.Time)
	}
	m.scheduled[taskID] = due
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *storage.Store, *mockAnnouncer, *mockScheduler) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:): %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ann := &mockAnnouncer{}
	sched := &mockScheduler{}
	d := NewDispatcher(intent.NewClassifier(), store, store, ann, sched)
	return d, store, ann, sched
}

func TestProcess_Task(t *testing.T) {
	d, store, ann, sched := newTestDispatcher(t)

	res := d.Process(context.Background(), "दूध खरीदना कल करना है")
	if res.Kind != intent.KindTask {
		t.Fatalf("Kind = %v, want KindTask", res.Kind)
	}
	if res.Task == nil {
		t.Fatal("no task created")
	}

	tasks, err := store.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("stored %d tasks, want 1", len(tasks))
	}
	if tasks[0].Completed {
		t.Error("new task marked completed")
	}

	// "कल" puts the due time in the future, so a reminder is arranged.
	if _, ok := sched.scheduled[res.Task.ID]; !ok {
		t.Error("reminder not scheduled for future-dated task")
	}

	if len(ann.texts) != 1 || !strings.Contains(ann.texts[0], "कार्य जोड़ा गया") {
		t.Errorf("announcements = %q", ann.texts)
	}
}

// Store-then-query round trip: the answer names both the object and the
// place.
func TestProcess_StoreThenFind(t *testing.T) {
	d, _, ann, _ := newTestDispatcher(t)

	res := d.Process(context.Background(), "मैंने चार्जर अलमारी में रखा")
	if res.Kind != intent.KindStoreItem || res.Item == nil {
		t.Fatalf("store result = %+v", res)
	}

	res = d.Process(context.Background(), "चार्जर कहाँ है")
	if res.Kind != intent.KindFindItem {
		t.Fatalf("Kind = %v, want KindFindItem", res.Kind)
	}
	if res.Found == nil {
		t.Fatal("item not found")
	}

	answer := ann.texts[len(ann.texts)-1]
	if !strings.Contains(answer, "चार्जर") || !strings.Contains(answer, "अलमारी") {
		t.Errorf("answer = %q, want it to name both object and place", answer)
	}
}

// A placement clause with no recognizable object must not create a
// record or speak.
func TestProcess_StoreItemUnresolvedName(t *testing.T) {
	d, store, ann, _ := newTestDispatcher(t)

	res := d.Process(context.Background(), "सामान अलमारी में रखा")
	if res.Kind != intent.KindStoreItem {
		t.Fatalf("Kind = %v, want KindStoreItem", res.Kind)
	}
	if res.Item != nil {
		t.Error("item created from unresolved name")
	}

	items, err := store.ListItems()
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("stored %d items, want 0", len(items))
	}
	if len(ann.texts) != 0 {
		t.Errorf("announcements = %q, want none", ann.texts)
	}
}

func TestProcess_FindMiss(t *testing.T) {
	d, _, ann, _ := newTestDispatcher(t)

	res := d.Process(context.Background(), "चश्मा कहाँ है")
	if res.Kind != intent.KindFindItem || res.Found != nil {
		t.Fatalf("result = %+v", res)
	}
	if len(ann.texts) != 1 || !strings.Contains(ann.texts[0], "नहीं मिला") {
		t.Errorf("announcements = %q", ann.texts)
	}
}

// Identical consecutive utterances are processed at most once.
func TestProcess_DuplicateDelivery(t *testing.T) {
	d, store, ann, _ := newTestDispatcher(t)

	const text = "मैंने चाबी अलमारी में रखा"
	first := d.Process(context.Background(), text)
	if first.Duplicate {
		t.Fatal("first delivery flagged duplicate")
	}
	second := d.Process(context.Background(), text)
	if !second.Duplicate {
		t.Error("repeated delivery not flagged duplicate")
	}

	items, err := store.ListItems()
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("stored %d items, want 1", len(items))
	}
	if len(ann.texts) != 1 {
		t.Errorf("announced %d times, want 1", len(ann.texts))
	}

	// A different utterance in between re-opens the guard.
	d.Process(context.Background(), "नमस्ते")
	res := d.Process(context.Background(), text)
	if res.Duplicate {
		t.Error("non-consecutive repeat treated as duplicate")
	}
}

func TestProcess_None(t *testing.T) {
	d, store, ann, sched := newTestDispatcher(t)

	res := d.Process(context.Background(), "आज मौसम अच्छा")
	if res.Kind != intent.KindNone {
		t.Fatalf("Kind = %v, want KindNone", res.Kind)
	}

	tasks, _ := store.ListTasks()
	items, _ := store.ListItems()
	if len(tasks) != 0 || len(items) != 0 || len(ann.texts) != 0 || len(sched.scheduled) != 0 {
		t.Error("unrecognized utterance caused side effects")
	}
}
