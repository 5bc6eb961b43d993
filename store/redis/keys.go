package redis

// Redis key naming conventions for batch data.
// All keys are prefixed with "batch:" to avoid collisions.

const keyPrefix = "batch:"

// statusKey returns the Hash key for a job status record: batch:status:{id}
func statusKey(id string) string { return keyPrefix + "status:" + id }

// statusIDsKey is the Set tracking stored job IDs for enumeration.
const statusIDsKey = keyPrefix + "status_ids"
