package domain

import "errors"

// Authorization failures surface to the HTTP caller and are never fatal to
// the process. Cycle-level failures are logged and end the cycle only.
var (
	ErrStateMismatch   = errors.New("authorization state mismatch")
	ErrMissingVerifier = errors.New("no code verifier for pending authorization")
	ErrExchangeFailed  = errors.New("authorization code exchange failed")
	ErrTransientFetch  = errors.New("trending fetch failed")
	ErrThreadTooLong   = errors.New("composed post exceeds platform limit")
)
