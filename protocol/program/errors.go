package program

import "errors"

// Every failure is terminal for the current operation: the enclosing atomic
// unit is discarded and the specific kind reported to the caller, so callers
// can tell "never existed", "wrong address", "too large" and "wrong
// collaborator" apart.
var (
	ErrUninitializedAccount = errors.New("account not initialized yet")
	ErrInvalidPDA           = errors.New("derived address does not equal address passed in")
	ErrInvalidDataLength    = errors.New("input data exceeds max length")
	ErrIncorrectAccount     = errors.New("accounts are not the same")
	ErrMissingSignature     = errors.New("missing required signature")
	ErrIllegalOwner         = errors.New("account is owned by another program")
	ErrAlreadyInitialized   = errors.New("account already initialized")
)
