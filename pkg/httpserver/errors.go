package httpserver

import "errors"

var (
	ErrStart          = errors.New("failed to start health server")
	ErrShutdown       = errors.New("failed to shutdown health server gracefully")
	ErrAlreadyRunning = errors.New("health server already running")
)
