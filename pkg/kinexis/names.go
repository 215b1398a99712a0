package kinexis

import "strings"

// StreamName returns the entity stream name for entityName, lower-cased:
// "wb:stream:entity:<entity>" (spec.md §3).
func StreamName(entityName string) string {
	return "wb:stream:entity:" + strings.ToLower(entityName)
}

// DLQStreamName returns the dead-letter stream name for entityName.
func DLQStreamName(entityName string) string {
	return StreamName(entityName) + ":dlq"
}

// GroupName returns the consumer group name for a bound target named
// targetName: "<target>_group".
func GroupName(targetName string) string {
	return strings.ToLower(targetName) + "_group"
}

// ConsumerName returns the consumer name for the (entity, target) pair:
// "<entity>_<target>_consumer".
func ConsumerName(entityName, targetName string) string {
	return strings.ToLower(entityName) + "_" + strings.ToLower(targetName) + "_consumer"
}

// RetryCounterKey returns the retry-counter key for a stream entry id on
// an entity's stream: "<stream>:<entry-id>".
func RetryCounterKey(entityName, entryID string) string {
	return StreamName(entityName) + ":" + entryID
}

// CacheKey returns the cache key for id under prefix: "<prefix>:<id>".
func CacheKey(prefix, id string) string {
	return prefix + ":" + id
}
