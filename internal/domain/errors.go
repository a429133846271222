package domain

import "errors"

var (
	// ErrAuth means the marketplace rejected the presented credential.
	// The caller gets one forced re-authentication before this becomes
	// fatal.
	ErrAuth = errors.New("credential rejected")

	// ErrLoginFailed means re-authentication itself failed (wrong
	// account credentials, locked account). Not transient, not retried.
	ErrLoginFailed = errors.New("login failed")

	// ErrRateLimited means the marketplace throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient covers network faults, timeouts and 5xx responses.
	ErrTransient = errors.New("transient marketplace error")

	// ErrInvalidEvent means the configured event id does not exist.
	ErrInvalidEvent = errors.New("event not found")
)
