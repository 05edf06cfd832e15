package model

// WorkflowState represents where the analyze/download workflow currently is
type WorkflowState string

const (
	// StateIdle means nothing is being analyzed or downloaded
	StateIdle WorkflowState = "Idle"

	// StateAnalyzing means a metadata request is in flight
	StateAnalyzing WorkflowState = "Analyzing"

	// StateReady means metadata is rendered and a download can be started
	StateReady WorkflowState = "Ready"

	// StateDownloading means a download session is tracked and progress is expected
	StateDownloading WorkflowState = "Downloading"

	// StateCompleted means the tracked session finished and its file save was triggered
	StateCompleted WorkflowState = "Completed"

	// StateError means the tracked session failed
	StateError WorkflowState = "Error"

	// StateCancelled means the backend confirmed cancellation of the tracked session
	StateCancelled WorkflowState = "Cancelled"
)

// String returns the string representation of WorkflowState
func (ws WorkflowState) String() string {
	return string(ws)
}

// IsActive returns true while a request or a download is in flight
func (ws WorkflowState) IsActive() bool {
	return ws == StateAnalyzing || ws == StateDownloading
}

// IsFinished returns true for the terminal download states (completed, error, cancelled)
func (ws WorkflowState) IsFinished() bool {
	return ws == StateCompleted || ws == StateError || ws == StateCancelled
}

// TaskStatus represents the status of a local file save task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusSaving means the file is being fetched from the backend
	TaskStatusSaving TaskStatus = "Saving"

	// TaskStatusStopped means the task was stopped by user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the file was written successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusSaving
}

// IsFinished returns true if the task is in a finished state (completed, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}
