package api

import "github.com/ytget/eliot-client/internal/model"

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ContactRequest is the body of POST /contact. Privacy carries the checkbox
// value the web form posted ("on" when accepted).
type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Privacy  string `json:"privacy,omitempty"`
}

// ChangePasswordRequest is the body of POST /admin/change_password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// InfoRequest is the body of POST /get_video_info
type InfoRequest struct {
	URL        string `json:"url"`
	CookieFile string `json:"cookie_file,omitempty"`
}

// StartRequest is the body of POST /start_download
type StartRequest struct {
	URL        string           `json:"url"`
	Format     model.OutputKind `json:"format"`
	Quality    string           `json:"quality"`
	CookieFile string           `json:"cookie_file,omitempty"`
}

// Message statuses accepted by the admin inbox
const (
	StatusRead   = "read"
	StatusUnread = "unread"
)

// BypassStatus describes backend capabilities for restricted content
type BypassStatus struct {
	CookiesAvailable bool                `json:"cookies_available"`
	AvailableCookies []model.CookieEntry `json:"available_cookies"`
	FFmpegAvailable  bool                `json:"ffmpeg_available"`
	Notes            []string            `json:"notes"`
}

// envelope is the union of every JSON reply shape
type envelope struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Error     string            `json:"error"`
	Errors    map[string]string `json:"errors"`
	Redirect  string            `json:"redirect"`
	SessionID string            `json:"session_id"`
	Filename  string            `json:"filename"`
	Info      *model.MediaInfo  `json:"info"`
}
