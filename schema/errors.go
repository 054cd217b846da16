package schema

import "errors"

// Error taxonomy shared by the engine packages. Callers should match with
// errors.Is since errors are always returned wrapped with context.
var (
	// ErrInvalidConfiguration marks configuration rejected at setup time,
	// such as a decay factor outside (0, 1]. Never silently clamped.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument marks a bad per-call argument, such as a ranking
	// limit below 1 or a non-monotonic timestamp sequence for an item.
	ErrInvalidArgument = errors.New("invalid argument")
)
