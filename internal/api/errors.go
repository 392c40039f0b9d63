package api

import "errors"

// The archive wraps every response in a success/error envelope and degrades
// under rapid-fire requests, so callers need to tell the failure modes apart:
// all three are retried locally, but only up to the configured budget.
var (
	// ErrTransport marks a network-level failure reaching the archive.
	ErrTransport = errors.New("archive transport failure")
	// ErrDecode marks a payload that could not be interpreted.
	ErrDecode = errors.New("archive returned an undecodable payload")
	// ErrRejected marks an explicit "success": false envelope.
	ErrRejected = errors.New("archive rejected the query")
)
