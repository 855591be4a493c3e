package contents

import "errors"

var (
	// ErrNotFound indicates the content record does not exist.
	ErrNotFound = errors.New("content not found")
	// ErrInvalidInput indicates missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyProcessing rejects a reprocess while a run is recorded as active.
	ErrAlreadyProcessing = errors.New("content is already processing")
	// ErrNotCancellable rejects cancel on a record that is not pending or processing.
	ErrNotCancellable = errors.New("content is not pending or processing")
)
