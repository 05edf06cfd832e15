package config

import (
	"strings"
	"sync"

	"github.com/ytget/eliot-client/internal/platform"
)

// Preferences is the string key-value store behind Settings. fyne.Preferences
// satisfies it on the desktop and store.Prefs does headless.
type Preferences interface {
	StringWithFallback(key, fallback string) string
	SetString(key, value string)
}

// Settings keys. The first two keep the names the web pages used in
// localStorage so values mean the same thing everywhere.
const (
	KeyTheme              = "theme"
	KeyCookieSupport      = "cookieSupport"
	KeyServerURL          = "server_url"
	KeyDownloadDir        = "download_directory"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Stored values
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ValueTrue  = "true"
	ValueFalse = "false"
)

// Default values
const (
	DefaultServerURL          = "http://127.0.0.1:5000"
	DefaultFallbackDir        = "/tmp/downloads"
	DefaultAutoRevealComplete = false
)

// Settings manages client preferences
type Settings struct {
	prefs Preferences
}

// MemoryPreferences keeps preferences for the life of the process only
type MemoryPreferences struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryPreferences returns an empty in-process preference map
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{values: make(map[string]string)}
}

// StringWithFallback implements Preferences
func (m *MemoryPreferences) StringWithFallback(key, fallback string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v
	}
	return fallback
}

// SetString implements Preferences
func (m *MemoryPreferences) SetString(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// NewSettings creates a new settings manager
func NewSettings(prefs Preferences) *Settings {
	return &Settings{prefs: prefs}
}

// DarkMode reports whether the dark theme is active. Anything other than the
// exact value "light" means dark.
func (s *Settings) DarkMode() bool {
	return s.prefs.StringWithFallback(KeyTheme, ThemeDark) != ThemeLight
}

// SetDarkMode persists the theme choice
func (s *Settings) SetDarkMode(dark bool) {
	if dark {
		s.prefs.SetString(KeyTheme, ThemeDark)
		return
	}
	s.prefs.SetString(KeyTheme, ThemeLight)
}

// ToggleDarkMode flips and persists the theme, returning the new value
func (s *Settings) ToggleDarkMode() bool {
	dark := !s.DarkMode()
	s.SetDarkMode(dark)
	return dark
}

// CookieSupport reports whether cookie support is enabled. Only the exact
// value "true" enables it.
func (s *Settings) CookieSupport() bool {
	return s.prefs.StringWithFallback(KeyCookieSupport, ValueFalse) == ValueTrue
}

// SetCookieSupport persists the cookie support flag
func (s *Settings) SetCookieSupport(enabled bool) {
	s.prefs.SetString(KeyCookieSupport, boolString(enabled))
}

// ToggleCookieSupport flips and persists cookie support, returning the new value
func (s *Settings) ToggleCookieSupport() bool {
	enabled := !s.CookieSupport()
	s.SetCookieSupport(enabled)
	return enabled
}

// GetServerURL returns the backend base URL without a trailing slash
func (s *Settings) GetServerURL() string {
	u := strings.TrimSpace(s.prefs.StringWithFallback(KeyServerURL, ""))
	if u == "" {
		return DefaultServerURL
	}
	return strings.TrimRight(u, "/")
}

// SetServerURL sets the backend base URL
func (s *Settings) SetServerURL(u string) {
	s.prefs.SetString(KeyServerURL, strings.TrimRight(strings.TrimSpace(u), "/"))
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.prefs.StringWithFallback(KeyDownloadDir, "")
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = DefaultFallbackDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.prefs.SetString(KeyDownloadDir, dir)
}

// GetAutoRevealOnComplete returns whether to reveal saved files in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.prefs.StringWithFallback(KeyAutoRevealComplete, boolString(DefaultAutoRevealComplete)) == ValueTrue
}

// SetAutoRevealOnComplete sets whether to reveal saved files in the file manager
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.prefs.SetString(KeyAutoRevealComplete, boolString(autoReveal))
}

// Apply copies non-empty file/env values over the stored preferences
func (s *Settings) Apply(f File) {
	if f.Server != "" {
		s.SetServerURL(f.Server)
	}
	if f.DownloadDir != "" {
		s.SetDownloadDirectory(f.DownloadDir)
	}
	if f.Theme == ThemeDark || f.Theme == ThemeLight {
		s.prefs.SetString(KeyTheme, f.Theme)
	}
	if f.CookieSupport != nil {
		s.SetCookieSupport(*f.CookieSupport)
	}
}

func boolString(b bool) string {
	if b {
		return ValueTrue
	}
	return ValueFalse
}
