// Package session drives the analyze/download workflow of one client window:
// it owns the selected output kind and quality, the last analysis result and
// the download being tracked, and renders every change through a View.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
)

// Labels and messages
const (
	LabelAnalyze   = "Analyze"
	LabelAnalyzing = "Analyzing…"
	LabelStart     = "Start Download"
	LabelStarting  = "Starting…"

	StatusInitializing = "Initializing…"
	StatusCompleted    = "Completed"
	StatusUnknown      = "…"
	BestQualityLabel   = "Best Quality"

	MsgEmptyURL         = "Please paste a valid URL."
	MsgNetwork          = "Network error. Please try again."
	MsgStartFailed      = "Failed to start download."
	MsgAnalyzeFailed    = "Could not analyze this URL."
	MsgDownloadFailed   = "Download failed: "
	MsgCancelled        = "Download cancelled"
	MsgReady            = "Download ready:"
	MsgSaveLink         = "Click to save"
	MsgAutoCookie       = "Auto-selected available cookies for this platform. You can change this in the dropdown above."
	MsgCookieRecommends = " Recommendation: Upload cookies from your logged-in browser session for full access."
)

// Timings
const (
	ResetDelay     = 2800 * time.Millisecond
	ReadyNoticeTTL = 12 * time.Second
	HelpNoticeTTL  = 15 * time.Second
)

var (
	// ErrEmptyURL is returned when analyze or start is asked for a blank URL
	ErrEmptyURL = errors.New("empty url")
	// ErrBusy is returned when start is asked while a download is tracked
	ErrBusy = errors.New("a download is already in progress")
)

// Backend is the subset of the HTTP client the workflow needs
type Backend interface {
	GetVideoInfo(ctx context.Context, req api.InfoRequest) (*model.MediaInfo, error)
	StartDownload(ctx context.Context, req api.StartRequest) (string, error)
	CancelDownload(ctx context.Context, sessionID string) error
	DownloadURL(sessionID string) string
}

// Preferences exposes the cookie support flag
type Preferences interface {
	CookieSupport() bool
}

// CookieSelector is the cookie selection control shared with cookie management
type CookieSelector interface {
	Selected() string
	// Names lists the selectable cookie names without the "No cookies" entry.
	Names() []string
	Select(name string)
}

// Saver stores the finished file of a session locally
type Saver interface {
	Save(req model.SaveRequest)
}

// AfterFunc schedules f after d and returns a function that cancels it
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Option configures a Session
type Option func(*Session)

// WithAfterFunc replaces the timer used for the post-completion reset
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Session) { s.afterFunc = fn }
}

// WithSaver sets the local saver invoked on completion
func WithSaver(saver Saver) Option {
	return func(s *Session) { s.saver = saver }
}

// WithCookies sets the cookie selection control
func WithCookies(c CookieSelector) Option {
	return func(s *Session) { s.cookies = c }
}

// Session is the explicit state of one workflow. All mutation happens under mu.
type Session struct {
	backend   Backend
	view      View
	prefs     Preferences
	cookies   CookieSelector
	saver     Saver
	afterFunc AfterFunc

	mu         sync.Mutex
	state      model.WorkflowState
	kind       model.OutputKind
	quality    string
	info       *model.MediaInfo
	currentID  string
	currentReq api.StartRequest
	readout    Readout
	stopReset  func() bool
	starting   bool
	early      []model.Event
}

// New creates a session in the Idle state
func New(backend Backend, view View, prefs Preferences, opts ...Option) *Session {
	s := &Session{
		backend:   backend,
		view:      view,
		prefs:     prefs,
		afterFunc: realAfterFunc,
		state:     model.StateIdle,
		kind:      model.KindVideo,
		quality:   model.DefaultQuality,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current workflow state
func (s *Session) State() model.WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentID returns the tracked download session id, "" when none
func (s *Session) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Kind returns the selected output kind
func (s *Session) Kind() model.OutputKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// Quality returns the selected quality token
func (s *Session) Quality() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quality
}

// Info returns the last analysis result
func (s *Session) Info() *model.MediaInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// cookieFile returns the cookie to send, "" unless support is on and one is selected
func (s *Session) cookieFile() string {
	if s.cookies == nil || s.prefs == nil || !s.prefs.CookieSupport() {
		return ""
	}
	return s.cookies.Selected()
}
