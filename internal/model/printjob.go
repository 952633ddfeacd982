package model

import "time"

// PrintJob records a print document written by the client.
type PrintJob struct {
	ID        string    `db:"id"`
	Path      string    `db:"path"`
	Summary   string    `db:"summary"`
	TodoCount int       `db:"todo_count"`
	CreatedAt time.Time `db:"created_at"`
}
