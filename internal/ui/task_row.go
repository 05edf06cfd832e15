package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/eliot-client/internal/model"
)

// File size formatting constants
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// formatFileSize formats file size in bytes to human readable format
func formatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

// TaskRow is a compact row for one saved file
type TaskRow struct {
	widget.BaseWidget

	task *model.SaveTask

	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	sizeLabel     *widget.Label

	stopBtn   *widget.Button
	revealBtn *widget.Button // reveal in file manager
	openBtn   *widget.Button // open with default app
	copyBtn   *widget.Button

	onStop     func(taskID string)
	onReveal   func(filePath string)
	onOpen     func(filePath string)
	onCopyPath func(filePath string)
}

// NewTaskRow creates a new task row widget
func NewTaskRow(task *model.SaveTask) *TaskRow {
	if task == nil {
		task = &model.SaveTask{Status: model.TaskStatusPending}
	}
	tr := &TaskRow{task: task}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(
	onStop func(taskID string),
	onReveal func(filePath string),
	onOpen func(filePath string),
	onCopyPath func(filePath string),
) {
	tr.onStop = onStop
	tr.onReveal = onReveal
	tr.onOpen = onOpen
	tr.onCopyPath = onCopyPath
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task *model.SaveTask) {
	if task == nil {
		return
	}
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.Alignment = fyne.TextAlignTrailing
	tr.sizeLabel = widget.NewLabel("")
	tr.sizeLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tr.stopBtn = widget.NewButton(IconStop, func() {
		if tr.onStop != nil {
			tr.onStop(tr.task.ID)
		}
	})
	tr.revealBtn = widget.NewButton(IconFolder, func() {
		if tr.onReveal != nil && tr.task.OutputPath != "" {
			tr.onReveal(tr.task.OutputPath)
		}
	})
	tr.openBtn = widget.NewButton(IconPlay, func() {
		if tr.onOpen != nil && tr.task.OutputPath != "" {
			tr.onOpen(tr.task.OutputPath)
		}
	})
	tr.copyBtn = widget.NewButton(IconCopy, func() {
		if tr.onCopyPath != nil && tr.task.OutputPath != "" {
			tr.onCopyPath(tr.task.OutputPath)
		}
	})
	for _, b := range []*widget.Button{tr.stopBtn, tr.revealBtn, tr.openBtn, tr.copyBtn} {
		b.Importance = widget.MediumImportance
	}
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	t := tr.task
	tr.titleLabel.SetText(t.GetDisplayTitle())

	switch t.Status {
	case model.TaskStatusError:
		tr.statusLabel.Importance = widget.DangerImportance
		tr.statusLabel.SetText(IconError + " " + t.Status.String())
	case model.TaskStatusCompleted:
		tr.statusLabel.Importance = widget.SuccessImportance
		tr.statusLabel.SetText(t.Status.String())
	case model.TaskStatusSaving:
		tr.statusLabel.Importance = widget.HighImportance
		tr.statusLabel.SetText(IconPlay + " " + t.Status.String())
	case model.TaskStatusPending:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(IconPending + " " + t.Status.String())
	case model.TaskStatusStopped:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(IconStop + " " + t.Status.String())
	default:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(t.Status.String())
	}

	switch p := t.Percent(); {
	case t.Status == model.TaskStatusCompleted:
		tr.progressLabel.SetText("")
	case p >= 0:
		tr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, p))
	default:
		tr.progressLabel.SetText("")
	}

	size := formatFileSize(t.Written)
	if t.Total > 0 && t.Status != model.TaskStatusCompleted {
		size += " / " + formatFileSize(t.Total)
	}
	if t.Status == model.TaskStatusError && t.LastError != "" {
		size = t.LastError
	}
	tr.sizeLabel.SetText(size)

	tr.updateButtons()
}

// updateButtons updates button states based on task status
func (tr *TaskRow) updateButtons() {
	if tr.task.Status.IsFinished() {
		tr.stopBtn.Disable()
	} else {
		tr.stopBtn.Enable()
	}

	if tr.task.Status == model.TaskStatusCompleted && tr.task.OutputPath != "" {
		tr.revealBtn.Enable()
		tr.openBtn.Enable()
		tr.copyBtn.Enable()
	} else {
		tr.revealBtn.Disable()
		tr.openBtn.Disable()
		tr.copyBtn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewVBox(
		fixedWidth(StatusLabelWidth, tr.statusLabel),
		fixedWidth(PercentLabelWidth, tr.progressLabel),
	)
	actions := container.NewHBox(tr.stopBtn, tr.revealBtn, tr.openBtn, tr.copyBtn)
	right := container.NewBorder(nil, nil, nil, actions, info)
	left := container.NewVBox(tr.titleLabel, tr.sizeLabel)

	content := container.NewVBox(
		container.NewBorder(nil, nil, nil, right, left),
		widget.NewSeparator(),
	)
	return widget.NewSimpleRenderer(content)
}
