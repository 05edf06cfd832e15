package model

import "strings"

// OutputKind is the kind of file the backend should produce
type OutputKind string

const (
	KindVideo OutputKind = "video"
	KindAudio OutputKind = "audio"
	KindPhoto OutputKind = "photo"
)

// DefaultQuality is the quality token selected until the user picks another one
const DefaultQuality = "best"

// OutputKinds lists the kinds offered by the format selector, default first
func OutputKinds() []OutputKind {
	return []OutputKind{KindVideo, KindAudio, KindPhoto}
}

// ParseOutputKind maps a selector value to an OutputKind, falling back to video
func ParseOutputKind(s string) OutputKind {
	switch OutputKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindAudio:
		return KindAudio
	case KindPhoto:
		return KindPhoto
	default:
		return KindVideo
	}
}

// Platform banner levels reported by the backend
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
)

// PlatformInfo describes backend-side requirements for the analyzed URL's host
type PlatformInfo struct {
	Level           string `json:"level"`
	Message         string `json:"message"`
	RequiresCookies bool   `json:"requires_cookies"`
}

// Format is one selectable quality of an analyzed media item
type Format struct {
	FormatID string `json:"format_id,omitempty"`
	Quality  string `json:"quality"`
	Ext      string `json:"ext"`
	FileSize string `json:"filesize,omitempty"`
}

// Label returns the quality grid caption, e.g. "720p (mp4)"
func (f Format) Label() string {
	return f.Quality + " (" + f.Ext + ")"
}

// MediaInfo is the metadata returned by the analyze endpoint
type MediaInfo struct {
	Title        string        `json:"title"`
	Uploader     string        `json:"uploader"`
	Duration     *float64      `json:"duration"` // seconds, nil if unknown
	Description  string        `json:"description,omitempty"`
	Thumbnail    string        `json:"thumbnail,omitempty"`
	Formats      []Format      `json:"formats,omitempty"`
	PlatformInfo *PlatformInfo `json:"platform_info,omitempty"`
}

// CookieEntry is a cookie file known to the backend
type CookieEntry struct {
	Name       string `json:"name"`
	Uploaded   bool   `json:"uploaded"`
	UploadTime string `json:"upload_time,omitempty"`
}

// Label returns the display name; server-provided defaults are marked as such
func (c CookieEntry) Label() string {
	if !c.Uploaded {
		return c.Name + " (Default)"
	}
	return c.Name
}
