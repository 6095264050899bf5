package deoeph

import "errors"

// Sentinel errors shared across the ephemeris, integrator and mission-
// planning packages (spec.md §7). Per the propagation policy, OutOfRange
// and PositionLookupFailed are recovered from silently by callers (falling
// back to Kepler motion or a zeroed gravity source). The table-format errors
// surface at load time as hard refusals; ErrLambertNonConvergence is
// returned by the Lambert solver.
var (
	// ErrOutOfRange is returned by an ephemeris table when queried outside
	// its coverage window.
	ErrOutOfRange = errors.New("deoeph: time outside ephemeris table coverage")
	// ErrBadMagic means the table file's magic bytes did not match.
	ErrBadMagic = errors.New("deoeph: bad ephemeris table magic")
	// ErrUnsupportedVersion means the table file's version field is not 1.
	ErrUnsupportedVersion = errors.New("deoeph: unsupported ephemeris table version")
	// ErrBodyIDMismatch means the table's body ID does not match what the
	// caller expected to load.
	ErrBodyIDMismatch = errors.New("deoeph: ephemeris table body ID mismatch")
	// ErrEmptyTable means a table was loaded with zero samples.
	ErrEmptyTable = errors.New("deoeph: ephemeris table has no samples")
	// ErrInvalidStepSize means a table's step_seconds was <= 0 or non-finite.
	ErrInvalidStepSize = errors.New("deoeph: ephemeris table has invalid step size")
	// ErrLambertNonConvergence is returned by the Lambert solver when no
	// transfer is found within its iteration budget.
	ErrLambertNonConvergence = errors.New("deoeph: lambert solver did not converge")
)
