package eeg

import "errors"

// Sentinel error kinds shared by the loaders. Wrapped errors carry the
// offending path and original cause; callers match with errors.Is.
var (
	// ErrNotFound marks a requested file, directory, or subject that is
	// absent from the dataset.
	ErrNotFound = errors.New("not found")
	// ErrNoPayload marks a container that opened fine but holds no
	// 2-dimensional array to serve as the payload.
	ErrNoPayload = errors.New("no payload array found")
	// ErrEmptyTable marks a tabular file with no data rows.
	ErrEmptyTable = errors.New("no data rows")
	// ErrChannelMismatch marks tables that cannot be concatenated because
	// their channel columns differ.
	ErrChannelMismatch = errors.New("channel columns differ")
)
