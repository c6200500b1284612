package fortuna

import "errors"

var (
	// ErrNotReady is returned by RandomWords when the accumulated entropy
	// does not yet satisfy the requested paranoia level. Callers may retry
	// after adding more entropy or after the "seeded" event fires.
	ErrNotReady = errors.New("fortuna: generator is not ready (not enough entropy)")

	// ErrInvalidInput indicates an entropy submission whose payload is not
	// one of Word, Words or Text. Adapters are expected to validate at the
	// boundary, so seeing this error means a bug in the caller.
	ErrInvalidInput = errors.New("fortuna: unsupported entropy data type")

	// ErrParanoiaOutOfRange indicates a paranoia index outside [0, 10].
	ErrParanoiaOutOfRange = errors.New("fortuna: paranoia level out of range")
)
