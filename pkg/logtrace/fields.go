package logtrace

// Fields is a type alias for structured log fields
type Fields map[string]interface{}

// WithFields returns a copy of base with extra fields merged in.
func WithFields(base Fields, extra Fields) Fields {
	fields := Fields{}
	for key, value := range base {
		fields[key] = value
	}
	for key, value := range extra {
		fields[key] = value
	}
	return fields
}

const (
	FieldCorrelationID  = "correlation_id"
	FieldModule         = "module"
	FieldMethod         = "method"
	FieldError          = "error"
	FieldStatus         = "status"
	FieldStackTrace     = "stack_trace"
	FieldTaskID         = "task_id"
	FieldBatchID        = "batch_id"
	FieldToken          = "token"
	FieldChallengeCount = "challenge_count"
	FieldChallengeIndex = "challenge_index"
	FieldSaltLength     = "salt_length"
	FieldDifficulty     = "difficulty"
	FieldWorkers        = "workers"
	FieldNonce          = "nonce"
	FieldAttempts       = "attempts"
	FieldElapsedMS      = "elapsed_ms"
	FieldDigestHex      = "digest_hex"
)
