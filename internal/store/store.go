package store

import (
	"context"

	"github.com/nhle/todo-client/internal/model"
)

// Ledger is the client's local bookkeeping. It never holds todos: the
// backend stays the only source of truth for them.
type Ledger interface {
	// === Delivered notifications ===

	IsDelivered(ctx context.Context, notificationID int64) (bool, error)
	MarkDelivered(ctx context.Context, notificationID, userID int64) error

	// === Print jobs ===

	CreatePrintJob(ctx context.Context, job model.PrintJob) error
	GetPrintJobs(ctx context.Context, limit int) ([]model.PrintJob, error)
}
