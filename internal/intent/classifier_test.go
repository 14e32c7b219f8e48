package intent

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 15, 30, 0, 0, time.Local)
}

func newTestClassifier() *Classifier {
	c := NewClassifier()
	c.now = fixedNow
	return c
}

func TestClassify_TaskFamily(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"tomorrow with verb", "दूध खरीदना कल करना है"},
		{"today with verb", "बिजली का काम आज करना है"},
		{"remember prefix", "याद रखना मम्मी को फोन करना"},
		{"english reminder prefix", "reminder to call the bank"},
		{"clock time", "मीटिंग 5 बजे करना है"},
		{"medicine phrase", "दवाई लेना मत भूलना"},
		{"bill phrase", "बिजली का bill जमा करना"},
		{"report phrase", "प्रेजेंटेशन भेजना जरूरी है"},
	}
	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Kind != KindTask {
				t.Fatalf("Classify(%q).Kind = %v, want KindTask", tt.text, got.Kind)
			}
			if got.TaskText == "" {
				t.Error("TaskText is empty, want matched phrase")
			}
			if got.DueTime.IsZero() {
				t.Error("DueTime is zero, want a computed timestamp")
			}
		})
	}
}

func TestClassify_StoreFamily(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("मैंने चार्जर अलमारी में रखा")
	if got.Kind != KindStoreItem {
		t.Fatalf("Kind = %v, want KindStoreItem", got.Kind)
	}
	if got.ItemName != "चार्जर" {
		t.Errorf("ItemName = %q, want %q", got.ItemName, "चार्जर")
	}
	if got.Location != "अलमारी" {
		t.Errorf("Location = %q, want %q", got.Location, "अलमारी")
	}

	got = c.Classify("I kept the wallet in the drawer")
	if got.Kind != KindStoreItem {
		t.Fatalf("Kind = %v, want KindStoreItem", got.Kind)
	}
	if got.ItemName != "wallet" {
		t.Errorf("ItemName = %q, want %q", got.ItemName, "wallet")
	}
	if got.Location != "drawer" {
		t.Errorf("Location = %q, want %q", got.Location, "drawer")
	}
}

func TestClassify_QueryFamily(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("चार्जर कहाँ है")
	if got.Kind != KindFindItem {
		t.Fatalf("Kind = %v, want KindFindItem", got.Kind)
	}
	if got.Subject != "चार्जर" {
		t.Errorf("Subject = %q, want %q", got.Subject, "चार्जर")
	}

	// Subject outside the known vocabulary falls back to marker stripping.
	got = c.Classify("रिमोट कहाँ है")
	if got.Kind != KindFindItem {
		t.Fatalf("Kind = %v, want KindFindItem", got.Kind)
	}
	if got.Subject != "रिमोट" {
		t.Errorf("Subject = %q, want %q", got.Subject, "रिमोट")
	}
}

// An utterance carrying both task wording and a placement clause must
// resolve as a task: the task family is tried first and short-circuits
// the rest of the cascade.
func TestClassify_FamilyPrecedence(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("दवाई लेना है और मैंने चार्जर अलमारी में रखा")
	if got.Kind != KindTask {
		t.Fatalf("Kind = %v, want KindTask (task family has priority)", got.Kind)
	}
	if got.ItemName != "" || got.Location != "" {
		t.Errorf("item fields populated on a task intent: name=%q location=%q", got.ItemName, got.Location)
	}
}

func TestClassify_None(t *testing.T) {
	c := newTestClassifier()

	for _, text := range []string{"", "नमस्ते दोस्त", "आज मौसम अच्छा"} {
		got := c.Classify(text)
		if got.Kind != KindNone {
			t.Errorf("Classify(%q).Kind = %v, want KindNone", text, got.Kind)
		}
	}
}

// The task text is the matched phrase, and its due time comes from cues
// inside that phrase only.
func TestClassify_TaskTextIsMatchedPhrase(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("मीटिंग के लिए रिपोर्ट 3 बजे भेजना है")
	if got.Kind != KindTask {
		t.Fatalf("Kind = %v, want KindTask", got.Kind)
	}
	want := time.Date(2025, 3, 14, 3, 0, 0, 0, time.Local)
	if !got.DueTime.Equal(want) {
		t.Errorf("DueTime = %v, want %v", got.DueTime, want)
	}
}
