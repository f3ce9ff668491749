package domain

import "context"

// ProgressStream is a live feed of sync events for one session.
// Events arrive in server order; the consumer renders whatever arrives
// last and never reorders or buffers.
type ProgressStream interface {
	// Next blocks until the next event arrives. It returns an error
	// when the stream ends, is closed, or the payload cannot be read.
	Next() (SyncEvent, error)

	// Close releases the stream. Safe to call more than once and
	// safe to call while Next is blocked.
	Close() error
}

// StreamOpener dials the progress stream for a session
type StreamOpener interface {
	OpenProgress(ctx context.Context, sessionID int64) (ProgressStream, error)
}
