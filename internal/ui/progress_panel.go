package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/eliot-client/internal/session"
)

// ProgressPanel shows the tracked download: a bar plus status, percent,
// speed, ETA, size and downloaded readouts.
type ProgressPanel struct {
	widget.BaseWidget

	bar        *widget.ProgressBar
	status     *widget.Label
	progress   *widget.Label
	speed      *widget.Label
	eta        *widget.Label
	size       *widget.Label
	downloaded *widget.Label
	cancelBtn  *widget.Button

	readout session.Readout
}

// NewProgressPanel creates a progress panel; onCancel runs when the cancel
// button is pressed.
func NewProgressPanel(onCancel func()) *ProgressPanel {
	p := &ProgressPanel{
		bar:        widget.NewProgressBar(),
		status:     widget.NewLabel(""),
		progress:   widget.NewLabel(""),
		speed:      widget.NewLabel(""),
		eta:        widget.NewLabel(""),
		size:       widget.NewLabel(""),
		downloaded: widget.NewLabel(""),
		cancelBtn:  widget.NewButton("Cancel", onCancel),
	}
	p.bar.Max = 100
	p.bar.TextFormatter = func() string { return p.readout.Progress }
	p.status.TextStyle = fyne.TextStyle{Bold: true}
	p.cancelBtn.Importance = widget.DangerImportance
	p.ExtendBaseWidget(p)
	p.SetReadout(session.InitialReadout())
	return p
}

// SetReadout replaces every readout. Call on the Fyne main goroutine.
func (p *ProgressPanel) SetReadout(r session.Readout) {
	p.readout = r
	p.status.SetText(r.Status)
	p.progress.SetText(r.Progress)
	p.speed.SetText(r.Speed)
	p.eta.SetText(r.ETA)
	p.size.SetText(r.Size)
	p.downloaded.SetText(r.Downloaded)
	p.bar.SetValue(r.Percent)
}

// Readout returns what the panel currently shows
func (p *ProgressPanel) Readout() session.Readout {
	return p.readout
}

// CreateRenderer creates the widget renderer
func (p *ProgressPanel) CreateRenderer() fyne.WidgetRenderer {
	grid := container.New(layout.NewFormLayout(),
		widget.NewLabel("Speed"), p.speed,
		widget.NewLabel("ETA"), p.eta,
		widget.NewLabel("Size"), p.size,
		widget.NewLabel("Downloaded"), p.downloaded,
	)
	content := container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewHBox(p.progress, p.cancelBtn), p.status),
		p.bar,
		grid,
	)
	return widget.NewSimpleRenderer(content)
}
