package systemview

import "errors"

var (
	// ErrNilHost is returned by New when no host is given.
	ErrNilHost = errors.New("systemview: nil host")

	// ErrClosed is returned by WaitFont after Close.
	ErrClosed = errors.New("systemview: view closed")

	// ErrNoFont is returned by WaitFont when no font load is in progress
	// and none has succeeded.
	ErrNoFont = errors.New("systemview: no font")
)
