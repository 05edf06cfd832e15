package model

import (
	"strings"
	"time"
)

// SaveTask represents fetching a finished file from the backend to local disk
type SaveTask struct {
	ID         string
	SessionID  string
	Filename   string // filename announced by the backend
	Status     TaskStatus
	Written    int64  // bytes written so far
	Total      int64  // content length, 0 if unknown
	LastError  string // last error message if any
	OutputPath string // path to the saved file
	StartedAt  time.Time
	FinishedAt time.Time
}

// Percent returns the save progress as 0-100, or -1 when the size is unknown
func (st *SaveTask) Percent() int {
	if st.Total <= 0 {
		return -1
	}
	p := int(st.Written * 100 / st.Total)
	if p > 100 {
		p = 100
	}
	return p
}

// GetDisplayTitle returns filename, the output path's base name, or the session id
func (st *SaveTask) GetDisplayTitle() string {
	if st.Filename != "" {
		return st.Filename
	}

	if st.OutputPath != "" {
		// Support both / and \ separators
		parts := strings.FieldsFunc(st.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	return st.SessionID
}

// HistoryEntry is a completed download remembered on this machine
type HistoryEntry struct {
	SessionID   string     `json:"session_id"`
	URL         string     `json:"url"`
	Kind        OutputKind `json:"kind"`
	Quality     string     `json:"quality"`
	Title       string     `json:"title,omitempty"`
	Filename    string     `json:"filename"`
	SavedPath   string     `json:"saved_path,omitempty"`
	CompletedAt time.Time  `json:"completed_at"`
}
