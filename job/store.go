package job

import (
	"context"
	"time"
)

// Record is the last reported status of one job instance.
type Record struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Attempt uint32 `json:"attempt"`
	// Retry is set when a failed attempt will be redelivered.
	Retry     bool      `json:"retry,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusStore persists job status reports.
type StatusStore interface {
	// SetStatus stores rec, replacing any earlier record with the same ID.
	SetStatus(ctx context.Context, rec *Record) error

	// GetStatus returns the record for a job ID, or batch.ErrJobNotFound.
	GetStatus(ctx context.Context, jobID string) (*Record, error)

	// DeleteStatus removes the record for a job ID. Deleting a missing
	// record is not an error.
	DeleteStatus(ctx context.Context, jobID string) error
}
