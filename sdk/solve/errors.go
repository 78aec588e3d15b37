package solve

import "github.com/capforge/capsolve/pkg/errors"

var (
	// ErrNegativeCount rejects a batch shape with a negative challenge
	// count before a task is created for it.
	ErrNegativeCount = errors.New("challenge count must not be negative")

	// ErrInvalidSaltLength rejects a non-empty batch whose salts would
	// have zero or negative length.
	ErrInvalidSaltLength = errors.New("salt length must be positive")

	// ErrNegativeDifficulty rejects a negative leading-zero requirement.
	ErrNegativeDifficulty = errors.New("difficulty must not be negative")

	// ErrTaskNotFound is returned when waiting on an unknown task ID.
	ErrTaskNotFound = errors.New("task not found")
)
