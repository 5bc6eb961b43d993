package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xraph/batch"
	"github.com/xraph/batch/job"
)

// SetStatus writes rec as a Hash, replacing earlier fields. Terminal
// records get the configured TTL; non-terminal ones never expire so a
// running job cannot vanish.
func (s *Store) SetStatus(ctx context.Context, rec *job.Record) error {
	fields, err := recordToMap(rec)
	if err != nil {
		return err
	}
	key := statusKey(rec.ID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.SAdd(ctx, statusIDsKey, rec.ID)
	if s.ttl > 0 && rec.Status.IsTerminal() {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("batch/redis: set status: %w", err)
	}

	s.logger.Debug("job status stored",
		slog.String("job_id", rec.ID),
		slog.String("status", rec.Status.String()),
	)
	return nil
}

// GetStatus reads the record for jobID.
func (s *Store) GetStatus(ctx context.Context, jobID string) (*job.Record, error) {
	vals, err := s.client.HGetAll(ctx, statusKey(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("batch/redis: get status: %w", err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: %s", batch.ErrJobNotFound, jobID)
	}
	return mapToRecord(vals)
}

// DeleteStatus removes the record for jobID.
func (s *Store) DeleteStatus(ctx context.Context, jobID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, statusKey(jobID))
	pipe.SRem(ctx, statusIDsKey, jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("batch/redis: delete status: %w", err)
	}
	return nil
}

// StatusIDs returns the IDs of every record written through this store,
// including ones whose Hash has since expired.
func (s *Store) StatusIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, statusIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("batch/redis: list status ids: %w", err)
	}
	return ids, nil
}

func recordToMap(rec *job.Record) (map[string]any, error) {
	status, err := rec.Status.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("batch/redis: encode status: %w", err)
	}
	return map[string]any{
		"id":         rec.ID,
		"name":       rec.Name,
		"status":     string(status),
		"attempt":    strconv.FormatUint(uint64(rec.Attempt), 10),
		"retry":      strconv.FormatBool(rec.Retry),
		"error":      rec.Error,
		"updated_at": rec.UpdatedAt.Format(time.RFC3339Nano),
	}, nil
}

func mapToRecord(m map[string]string) (*job.Record, error) {
	status, err := job.ParseStatus(m["status"])
	if err != nil {
		return nil, fmt.Errorf("batch/redis: parse status: %w", err)
	}

	attempt, _ := strconv.ParseUint(m["attempt"], 10, 32)         //nolint:errcheck // best-effort parse from trusted Redis data
	retry, _ := strconv.ParseBool(m["retry"])                     //nolint:errcheck // best-effort parse from trusted Redis data
	updatedAt, _ := time.Parse(time.RFC3339Nano, m["updated_at"]) //nolint:errcheck // best-effort parse from trusted Redis data

	return &job.Record{
		ID:        m["id"],
		Name:      m["name"],
		Status:    status,
		Attempt:   uint32(attempt),
		Retry:     retry,
		Error:     m["error"],
		UpdatedAt: updatedAt,
	}, nil
}
