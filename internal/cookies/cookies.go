// Package cookies manages browser cookie files on the backend: picking a
// local text file, uploading it, listing and deleting uploaded files, and the
// selection control used by analyze and download requests.
package cookies

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
)

// Labels and messages
const (
	LabelChooseFile = "Choose or Drop Cookie File"
	LabelSelected   = "Selected: "
	LabelUpload     = "Upload Cookies"
	LabelUploading  = "Uploading..."
	LabelNoCookies  = "No cookies"

	MsgNotText       = "Please select a .txt file"
	MsgNoFile        = "Please select a cookie file"
	MsgUploadFailed  = "Upload failed: "
	MsgDeleteFailed  = "Delete failed: "
	MsgDeletePrompt  = "Delete cookie file %q?"
	MsgUploadRefused = "Upload failed"
	MsgDeleteRefused = "Delete failed"
)

// TextExt is the only accepted cookie file extension
const TextExt = ".txt"

var (
	// ErrNotText is returned for a file without the .txt extension
	ErrNotText = errors.New("cookie file must be a .txt file")
	// ErrNoFile is returned by Upload when nothing is selected
	ErrNoFile = errors.New("no cookie file selected")
)

// File is a local cookie file chosen by the user
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type localFile string

func (f localFile) Name() string                 { return filepath.Base(string(f)) }
func (f localFile) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// LocalFile wraps a path on disk as a File
func LocalFile(path string) File {
	return localFile(path)
}

// SelectOption is one entry of the cookie selection control
type SelectOption struct {
	Value string
	Label string
}

// View renders the cookie section
type View interface {
	SetSectionVisible(visible bool)
	SetFileLabel(label string)
	SetUploadControl(enabled bool, label string)
	ShowNotice(n model.Notice)
	// RenderList shows the management list; uploaded entries get a delete action.
	RenderList(entries []model.CookieEntry)
	RenderSelect(options []SelectOption, selected string)
}

// Backend is the subset of the HTTP client used for cookies
type Backend interface {
	ListCookies(ctx context.Context) ([]model.CookieEntry, error)
	UploadCookies(ctx context.Context, filename string, content io.Reader) (string, error)
	DeleteCookies(ctx context.Context, name string) (string, error)
}

// Confirmer asks the user a yes/no question and blocks for the answer
type Confirmer func(prompt string) bool

// Manager holds the cookie section state
type Manager struct {
	backend Backend
	view    View

	mu       sync.Mutex
	file     File
	entries  []model.CookieEntry
	selected string
}

// NewManager creates a cookie manager
func NewManager(backend Backend, view View) *Manager {
	return &Manager{backend: backend, view: view}
}

// IsTextFile reports whether name has the .txt extension, ignoring case
func IsTextFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), TextExt)
}

// SelectFile sets the file to upload. A nil file clears the selection; a
// non-text file is rejected and the previous selection kept.
func (m *Manager) SelectFile(f File) error {
	if f == nil {
		m.ClearFile()
		return nil
	}
	if !IsTextFile(f.Name()) {
		m.view.ShowNotice(model.ErrorNotice(MsgNotText))
		return ErrNotText
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.file = f
	m.view.SetFileLabel(LabelSelected + f.Name())
	m.view.SetUploadControl(true, LabelUpload)
	return nil
}

// ClearFile drops the pending file selection
func (m *Manager) ClearFile() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearFileLocked()
}

func (m *Manager) clearFileLocked() {
	m.file = nil
	m.view.SetFileLabel(LabelChooseFile)
	m.view.SetUploadControl(false, LabelUpload)
}

// PendingFile returns the selected local file, nil when none
func (m *Manager) PendingFile() File {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file
}

// Upload sends the selected file and refreshes the list on success
func (m *Manager) Upload(ctx context.Context) error {
	m.mu.Lock()
	f := m.file
	if f == nil {
		m.mu.Unlock()
		m.view.ShowNotice(model.ErrorNotice(MsgNoFile))
		return ErrNoFile
	}
	m.view.SetUploadControl(false, LabelUploading)
	m.mu.Unlock()

	msg, err := m.upload(ctx, f)

	m.mu.Lock()
	if err != nil {
		if appErr, ok := api.AsAppError(err); ok {
			m.view.ShowNotice(model.ErrorNotice(orDefault(appErr.Message, MsgUploadRefused)))
		} else {
			m.view.ShowNotice(model.ErrorNotice(MsgUploadFailed + err.Error()))
		}
		m.view.SetUploadControl(m.file != nil, LabelUpload)
		m.mu.Unlock()
		return err
	}
	m.view.ShowNotice(model.SuccessNotice(msg))
	m.clearFileLocked()
	m.mu.Unlock()

	log.Info().Str("file", f.Name()).Msg("[cookies] uploaded")
	_ = m.Refresh(ctx)
	return nil
}

func (m *Manager) upload(ctx context.Context, f File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer rc.Close()
	return m.backend.UploadCookies(ctx, f.Name(), rc)
}

// Refresh re-fetches the cookie list and re-renders both views. A failure is
// logged only.
func (m *Manager) Refresh(ctx context.Context) error {
	entries, err := m.backend.ListCookies(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("[cookies] failed to load cookies")
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	if !m.hasLocked(m.selected) {
		m.selected = ""
	}
	m.view.RenderList(entries)
	m.view.RenderSelect(m.optionsLocked(), m.selected)
	return nil
}

// Delete removes an uploaded cookie file after the user confirms
func (m *Manager) Delete(ctx context.Context, name string, confirm Confirmer) error {
	if confirm != nil && !confirm(fmt.Sprintf(MsgDeletePrompt, name)) {
		return nil
	}

	msg, err := m.backend.DeleteCookies(ctx, name)
	if err != nil {
		if appErr, ok := api.AsAppError(err); ok {
			m.view.ShowNotice(model.ErrorNotice(orDefault(appErr.Message, MsgDeleteRefused)))
		} else {
			m.view.ShowNotice(model.ErrorNotice(MsgDeleteFailed + err.Error()))
		}
		return err
	}
	m.view.ShowNotice(model.SuccessNotice(msg))
	_ = m.Refresh(ctx)
	return nil
}

// ApplySupport shows or hides the cookie section; enabling fetches the list
func (m *Manager) ApplySupport(ctx context.Context, enabled bool) {
	m.view.SetSectionVisible(enabled)
	if enabled {
		_ = m.Refresh(ctx)
	}
}

// Entries returns the last fetched cookie list
func (m *Manager) Entries() []model.CookieEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CookieEntry(nil), m.entries...)
}

// Selected returns the cookie chosen in the selection control, "" for none
func (m *Manager) Selected() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Names lists the selectable cookie names in list order
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.Name)
	}
	return names
}

// Select chooses a cookie; unknown names select "No cookies"
func (m *Manager) Select(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasLocked(name) {
		name = ""
	}
	if name == m.selected {
		return
	}
	m.selected = name
	m.view.RenderSelect(m.optionsLocked(), m.selected)
}

func (m *Manager) hasLocked(name string) bool {
	if name == "" {
		return false
	}
	for _, e := range m.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (m *Manager) optionsLocked() []SelectOption {
	opts := make([]SelectOption, 0, len(m.entries)+1)
	opts = append(opts, SelectOption{Value: "", Label: LabelNoCookies})
	for _, e := range m.entries {
		opts = append(opts, SelectOption{Value: e.Name, Label: e.Label()})
	}
	return opts
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
