// Package store defines the aggregate persistence interface.
//
// The job package defines the [job.StatusStore] contract; [Store] adds the
// lifecycle methods a backend needs:
//
//	type Store interface {
//	    job.StatusStore
//
//	    Ping(ctx context.Context) error
//	    Close() error
//	}
//
// # Available Backends
//
//   - store/memory — in-memory store for development and testing
//   - store/redis — Redis Hashes with optional TTL for finished jobs
//
// # Usage
//
//	import "github.com/xraph/batch/store/redis"
//
//	s := redis.New(client, redis.WithTTL(24*time.Hour))
//	exec := worker.NewExecutor(registry, worker.WithStore(s))
package store
