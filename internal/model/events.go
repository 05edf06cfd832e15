package model

// EventKind discriminates push events delivered by the backend
type EventKind string

const (
	EventProgress  EventKind = "progress_update"
	EventComplete  EventKind = "download_complete"
	EventError     EventKind = "download_error"
	EventCancelled EventKind = "download_cancelled"
)

// Event is a push event correlated to a download session
type Event interface {
	Kind() EventKind
	SessionID() string
}

// ProgressEvent reports download progress for a session
type ProgressEvent struct {
	Session    string  `json:"session_id"`
	Progress   float64 `json:"progress"`
	Status     string  `json:"status"`
	Speed      string  `json:"speed,omitempty"`
	ETA        string  `json:"eta,omitempty"`
	FileSize   string  `json:"file_size,omitempty"`
	Downloaded string  `json:"downloaded,omitempty"`
	Filename   string  `json:"filename,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func (e ProgressEvent) Kind() EventKind   { return EventProgress }
func (e ProgressEvent) SessionID() string { return e.Session }

// CompleteEvent reports that the backend has the finished file ready
type CompleteEvent struct {
	Session  string `json:"session_id"`
	Filename string `json:"filename"`
}

func (e CompleteEvent) Kind() EventKind   { return EventComplete }
func (e CompleteEvent) SessionID() string { return e.Session }

// ErrorEvent reports a failed download
type ErrorEvent struct {
	Session string `json:"session_id"`
	Error   string `json:"error"`
}

func (e ErrorEvent) Kind() EventKind   { return EventError }
func (e ErrorEvent) SessionID() string { return e.Session }

// CancelledEvent reports that the backend stopped a download on request
type CancelledEvent struct {
	Session string `json:"session_id"`
}

func (e CancelledEvent) Kind() EventKind   { return EventCancelled }
func (e CancelledEvent) SessionID() string { return e.Session }
