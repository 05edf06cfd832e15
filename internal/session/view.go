package session

import "github.com/ytget/eliot-client/internal/model"

// Control identifies a button driven by the workflow
type Control string

const (
	ControlAnalyze Control = "analyze"
	ControlStart   Control = "start"
)

// InfoView is the rendered metadata of an analyzed URL
type InfoView struct {
	Title       string
	Uploader    string
	Duration    string
	Description string
	Thumbnail   string
}

// PlatformBanner is the host-specific banner above the metadata
type PlatformBanner struct {
	Level   string
	Message string
}

// QualityOption is one entry of the quality grid
type QualityOption struct {
	Value    string
	Label    string
	Selected bool
}

// Readout is the progress panel content
type Readout struct {
	Percent    float64 // bar width, 0..100
	Status     string
	Progress   string
	Speed      string
	ETA        string
	Size       string
	Downloaded string
}

// View is what the workflow renders into. Implementations must be safe to
// call from any goroutine.
type View interface {
	SetControl(c Control, enabled bool, label string)
	ShowNotice(n model.Notice)
	ClearNotices()
	SetInfoVisible(visible bool)
	RenderInfo(info InfoView)
	// RenderPlatform shows the banner; nil hides it.
	RenderPlatform(b *PlatformBanner)
	// RenderQualities fills the quality grid; an empty slice hides it.
	RenderQualities(opts []QualityOption)
	SetProgressVisible(visible bool)
	SetStartVisible(visible bool)
	SetProgress(r Readout)
}

// InitialReadout is shown right after a download starts
func InitialReadout() Readout {
	return Readout{
		Percent:    0,
		Status:     StatusInitializing,
		Progress:   model.FormatPercent(0),
		Speed:      model.DashPlaceholder,
		ETA:        model.DashPlaceholder,
		Size:       model.DashPlaceholder,
		Downloaded: model.DashPlaceholder,
	}
}
