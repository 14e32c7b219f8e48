package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Task is one spoken task with the reminder time derived from the
// utterance.
type Task struct {
	ID        string
	Text      string
	DueTime   time.Time
	Completed bool
	CreatedAt time.Time
}

// Item records where an object was last said to be placed.
type Item struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}
