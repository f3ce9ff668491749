package domain

// SyncStatus is the lifecycle state the server reports for a sync run
// or for a single account inside one.
type SyncStatus string

const (
	SyncPending    SyncStatus = "pending"
	SyncProcessing SyncStatus = "processing"
	SyncCompleted  SyncStatus = "completed"
	SyncFailed     SyncStatus = "failed"
)

// Finished reports whether the status is terminal
func (s SyncStatus) Finished() bool {
	return s == SyncCompleted || s == SyncFailed
}

// SyncSession describes a server-side sync run
type SyncSession struct {
	ID        int64 // 0 means the server reported no session
	Active    bool  // false once the run has finished or was never started
	Status    SyncStatus
	Percent   int
	Processed int
	Detected  int
	Accounts  []AccountProgress
}

// Subscribable reports whether a live progress stream can be opened
// for this session. Inactive or absent sessions are a normal state,
// not an error.
func (s SyncSession) Subscribable() bool {
	return s.Active && s.ID != 0
}

// AccountProgress is the per-account slice of a sync run
type AccountProgress struct {
	AccountID int64
	Name      string
	Email     string
	Status    SyncStatus
	Processed int // Emails scanned so far
	Total     int // Emails matched by the search window
	Detected  int // Expenses extracted so far
	Percent   int
}

// Progress stream event types. The server may introduce new types at
// any time; consumers treat unrecognized values as EventInitialStatus.
const (
	EventInitialStatus  = "initial_status"
	EventProgressUpdate = "progress_update"
	EventAccountUpdate  = "account_update"
	EventCompleted      = "completed"
	EventFailed         = "failed"
)

// SyncEvent is one message from the live progress stream. Only the
// fields relevant to the event type carry meaning; numeric fields the
// server omitted are zero.
type SyncEvent struct {
	Type      string
	Percent   int
	Processed int
	Detected  int
	Total     int
	AccountID int64
	Status    SyncStatus // Empty when the server sent no status
	Error     string     // Populated on EventFailed, may still be empty
	Accounts  []AccountProgress
}
