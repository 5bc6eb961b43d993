// Package store defines the aggregate persistence interface for job status
// reports. Backends: Redis and Memory.
package store

import (
	"context"

	"github.com/xraph/batch/job"
)

// Store is the persistence interface a status backend implements.
type Store interface {
	job.StatusStore

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases resources owned by the store.
	Close() error
}
