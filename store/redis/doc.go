// Package redis implements store.Store on Redis. Each job status record is
// a Redis Hash under batch:status:{id}; a Set indexes the stored IDs.
// Records can be given a TTL so finished jobs expire on their own.
//
// The caller owns the Redis client lifecycle:
//
//	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	s := redis.New(client, redis.WithTTL(24*time.Hour))
//	if err := s.Ping(ctx); err != nil { ... }
package redis
