// Package planerr defines the error kinds from §7: the handful of sentinel
// conditions that can arise while building or recalculating a dive plan.
// Every computational error bubbles out of build()/calculate() as a result
// value (never a panic); callers distinguish kinds with errors.Is, not
// string matching.
package planerr

import "errors"

// Sentinel errors, one per §7 error kind. Package-level functions wrap
// these with fmt.Errorf("...: %w", Err...) to attach context.
var (
	// ErrInvalidGasMix: o2+he > 100, negative, or PpO2 > limit at surface.
	// Severity: reject.
	ErrInvalidGasMix = errors.New("invalid gas mix")

	// ErrNoGasForDepth: no active gas with MOD >= required depth.
	// Severity: reject.
	ErrNoGasForDepth = errors.New("no gas available for depth")

	// ErrNoSetpointConfigured: CC mode with empty setpoint list and no
	// fallback configured. Severity: warn + fallback.
	ErrNoSetpointConfigured = errors.New("no setpoint configured")

	// ErrPlanUnplannable: ascent cannot reduce the ceiling within
	// max-stop minutes. Severity: fatal, surfaced to caller.
	ErrPlanUnplannable = errors.New("dive plan unplannable")

	// ErrIO: persistence failure. Severity: surfaced to caller, never
	// mutates in-memory state.
	ErrIO = errors.New("persistence I/O error")

	// ErrCancelled: a planner service was cancelled via its token.
	// Severity: caller must treat the plan as unchanged.
	ErrCancelled = errors.New("planner service cancelled")
)

// Kind identifies which of the §7 error categories an error belongs to, for
// callers that want to branch on kind rather than just log the message.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidGasMix
	KindNoGasForDepth
	KindNoSetpointConfigured
	KindPlanUnplannable
	KindIO
	KindCancelled
)

// KindOf classifies err against the sentinels above using errors.Is, so
// wrapped errors (fmt.Errorf("...: %w", ...)) still classify correctly.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidGasMix):
		return KindInvalidGasMix
	case errors.Is(err, ErrNoGasForDepth):
		return KindNoGasForDepth
	case errors.Is(err, ErrNoSetpointConfigured):
		return KindNoSetpointConfigured
	case errors.Is(err, ErrPlanUnplannable):
		return KindPlanUnplannable
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	default:
		return KindNone
	}
}
