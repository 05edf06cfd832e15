package model

import "time"

// NoticeLevel selects notice styling and its default lifetime
type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeSuccess NoticeLevel = "success"
)

// Default notice lifetimes
const (
	ErrorNoticeTTL   = 9 * time.Second
	SuccessNoticeTTL = 6 * time.Second
)

// Notice is a transient message shown in a notice area. Showing a notice
// replaces the one currently displayed.
type Notice struct {
	Level    NoticeLevel
	Title    string
	Text     string
	Lines    []string
	Link     string
	LinkText string
	TTL      time.Duration
}

// ErrorNotice returns an error notice with the default lifetime
func ErrorNotice(text string) Notice {
	return Notice{Level: NoticeError, Text: text, TTL: ErrorNoticeTTL}
}

// SuccessNotice returns a success notice with the default lifetime
func SuccessNotice(text string) Notice {
	return Notice{Level: NoticeSuccess, Text: text, TTL: SuccessNoticeTTL}
}

// Lifetime returns TTL, or the level default when unset
func (n Notice) Lifetime() time.Duration {
	if n.TTL > 0 {
		return n.TTL
	}
	if n.Level == NoticeSuccess {
		return SuccessNoticeTTL
	}
	return ErrorNoticeTTL
}

// IsError reports whether the notice is an error
func (n Notice) IsError() bool {
	return n.Level != NoticeSuccess
}

// SaveRequest asks for the finished file of a session to be stored locally
type SaveRequest struct {
	SessionID string
	Filename  string
	SourceURL string
	Kind      OutputKind
	Quality   string
	Title     string
}
