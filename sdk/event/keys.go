package event

// EventDataKey defines standard keys used in event data
type EventDataKey string

const (
	// Common data keys
	KeyError   EventDataKey = "error"
	KeyMessage EventDataKey = "message"
	KeyStatus  EventDataKey = "status"
	KeyCount   EventDataKey = "count"

	// Task specific keys
	KeyTaskID  EventDataKey = "task_id"
	KeyBatchID EventDataKey = "batch_id"
	KeyToken   EventDataKey = "token"

	// Solve progress keys
	KeyAttempts       EventDataKey = "attempts"
	KeySolved         EventDataKey = "solved"
	KeyChallengeIndex EventDataKey = "challenge_index"
	KeyNonce          EventDataKey = "nonce"
	KeyDigest         EventDataKey = "digest"
	KeyDifficulty     EventDataKey = "difficulty"
	KeyElapsedSeconds EventDataKey = "elapsed_seconds"

	// Completion keys
	KeyPayload       EventDataKey = "payload"
	KeyThroughputHPS EventDataKey = "throughput_h_s"
)
