package shardbench

import "errors"

var (
	// ErrInvalidConfig is returned when Config.Validate rejects a value.
	ErrInvalidConfig = errors.New("shardbench: invalid config")

	// ErrUnknownStrategy is returned for a strategy name with no Store behind it.
	ErrUnknownStrategy = errors.New("shardbench: unknown strategy")

	// ErrSizeMismatch is returned when a workload finishes with a different
	// number of keys than its writers produced.
	ErrSizeMismatch = errors.New("shardbench: final map size mismatch")
)
