package intent

import "time"

// Kind identifies what an utterance asks the assistant to do.
type Kind int

const (
	// KindNone means no spoken pattern matched; the utterance is ignored.
	KindNone Kind = iota
	// KindTask adds a task with a reminder at DueTime.
	KindTask
	// KindStoreItem records that an object was placed somewhere.
	KindStoreItem
	// KindFindItem asks where a previously stored object is.
	KindFindItem
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindStoreItem:
		return "store_item"
	case KindFindItem:
		return "find_item"
	default:
		return "none"
	}
}

// Intent is the classified meaning of a single utterance. Exactly one
// Intent is produced per utterance; only the fields for its Kind are set.
type Intent struct {
	Kind Kind

	// Task fields.
	TaskText string
	DueTime  time.Time

	// Item placement fields. ItemName is empty when no object could be
	// isolated from the utterance; Location falls back to
	// LocationUnspecified rather than empty.
	ItemName string
	Location string

	// Query field: what the user is looking for.
	Subject string
}
