package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrInvalid reports that collection finished but some fields still
	// carry validation errors, so the form refused to submit.
	ErrInvalid = errors.New("prompt: form has invalid fields")
)
