package domain

import "errors"

var (
	// ErrNoRelevantContent is reported when every bucket is empty after thresholds.
	ErrNoRelevantContent = errors.New("no relevant content")
	// ErrCompleterNotConfigured means curation was requested without a completion service.
	ErrCompleterNotConfigured = errors.New("completion service is not configured")
	// ErrMissingCredentials marks a completion client built without an API key.
	ErrMissingCredentials = errors.New("missing completion service credentials")
	// ErrInvalidItem marks candidates violating the title/url/id invariants.
	ErrInvalidItem = errors.New("invalid candidate item")
)
