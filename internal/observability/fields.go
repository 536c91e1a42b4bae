package observability

import "go.uber.org/zap"

// Field helpers re-exported so callers don't import zap directly.
//
//nolint:gochecknoglobals // Aliases, not mutable state
var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Error    = zap.Error
	Any      = zap.Any
)
