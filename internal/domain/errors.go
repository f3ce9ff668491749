package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the expense server is unreachable
	ErrServerOffline = errors.New("expense server is unreachable")

	// ErrAuthFailed indicates authentication failed
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrNotReady indicates the server answered but is still starting up
	ErrNotReady = errors.New("expense server is not ready")

	// ErrExpenseNotFound indicates the requested expense does not exist
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrSessionNotFound indicates the sync session is gone on the server
	ErrSessionNotFound = errors.New("sync session not found")

	// ErrStreamClosed indicates the progress stream was closed locally
	ErrStreamClosed = errors.New("progress stream is closed")
)
