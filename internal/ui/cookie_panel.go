package ui

import (
	"context"
	"io"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/eliot-client/internal/cookies"
	"github.com/ytget/eliot-client/internal/model"
)

// CookiePanel is the cookie section of the download tab. It implements
// cookies.View.
type CookiePanel struct {
	ctx          context.Context
	window       fyne.Window
	manager      *cookies.Manager
	localization *Localization
	notices      *NoticeArea
	confirm      cookies.Confirmer

	box       *fyne.Container
	fileLabel *widget.Label
	chooseBtn *widget.Button
	uploadBtn *widget.Button
	selector  *widget.Select
	listBox   *fyne.Container

	mu      sync.Mutex
	options []cookies.SelectOption
}

// NewCookiePanel creates a hidden cookie section
func NewCookiePanel(window fyne.Window, l *Localization, notices *NoticeArea, confirm cookies.Confirmer) *CookiePanel {
	p := &CookiePanel{window: window, localization: l, notices: notices, confirm: confirm}

	p.fileLabel = widget.NewLabel(cookies.LabelChooseFile)
	p.chooseBtn = widget.NewButton(IconCookie+" "+cookies.LabelChooseFile, p.onChoose)
	p.uploadBtn = widget.NewButton(cookies.LabelUpload, p.onUpload)
	p.uploadBtn.Importance = widget.HighImportance
	p.uploadBtn.Disable()

	p.selector = widget.NewSelect([]string{cookies.LabelNoCookies}, p.onSelect)
	p.selector.SetSelectedIndex(0)
	p.listBox = container.NewVBox()

	p.box = container.NewVBox(
		widget.NewLabelWithStyle(l.GetText(KeyCookies), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.selector,
		container.NewBorder(nil, nil, p.chooseBtn, p.uploadBtn, p.fileLabel),
		p.listBox,
	)
	p.box.Hide()
	return p
}

// Bind connects the panel to its manager
func (p *CookiePanel) Bind(ctx context.Context, m *cookies.Manager) {
	p.ctx = ctx
	p.manager = m
}

// Container returns the widget tree to place in a layout
func (p *CookiePanel) Container() *fyne.Container {
	return p.box
}

func (p *CookiePanel) onChoose() {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		f := uriFile{uri: rc.URI()}
		_ = rc.Close()
		go func() { _ = p.manager.SelectFile(f) }()
	}, p.window)
}

func (p *CookiePanel) onUpload() {
	go func() { _ = p.manager.Upload(p.ctx) }()
}

func (p *CookiePanel) onSelect(label string) {
	p.mu.Lock()
	value := ""
	for _, o := range p.options {
		if o.Label == label {
			value = o.Value
			break
		}
	}
	p.mu.Unlock()
	if p.manager != nil {
		go p.manager.Select(value)
	}
}

// SetSectionVisible implements cookies.View
func (p *CookiePanel) SetSectionVisible(visible bool) {
	fyne.Do(func() { setVisible(p.box, visible) })
}

// SetFileLabel implements cookies.View
func (p *CookiePanel) SetFileLabel(label string) {
	fyne.Do(func() { p.fileLabel.SetText(label) })
}

// SetUploadControl implements cookies.View
func (p *CookiePanel) SetUploadControl(enabled bool, label string) {
	fyne.Do(func() {
		p.uploadBtn.SetText(label)
		if enabled {
			p.uploadBtn.Enable()
		} else {
			p.uploadBtn.Disable()
		}
	})
}

// ShowNotice implements cookies.View
func (p *CookiePanel) ShowNotice(n model.Notice) {
	p.notices.ShowNotice(n)
}

// RenderList implements cookies.View
func (p *CookiePanel) RenderList(entries []model.CookieEntry) {
	fyne.Do(func() {
		rows := make([]fyne.CanvasObject, 0, len(entries))
		for _, e := range entries {
			name := e.Name
			del := widget.NewButton(IconDelete, func() {
				go func() { _ = p.manager.Delete(p.ctx, name, p.confirm) }()
			})
			del.Importance = widget.DangerImportance
			rows = append(rows, container.NewBorder(nil, nil, nil, del, widget.NewLabel(e.Label())))
		}
		p.listBox.Objects = rows
		p.listBox.Refresh()
	})
}

// RenderSelect implements cookies.View
func (p *CookiePanel) RenderSelect(options []cookies.SelectOption, selected string) {
	p.mu.Lock()
	p.options = append([]cookies.SelectOption(nil), options...)
	p.mu.Unlock()

	labels := make([]string, 0, len(options))
	current := cookies.LabelNoCookies
	for _, o := range options {
		labels = append(labels, o.Label)
		if o.Value == selected {
			current = o.Label
		}
	}
	fyne.Do(func() {
		p.selector.Options = labels
		p.selector.Selected = current
		p.selector.Refresh()
	})
}

// uriFile adapts a picked or dropped URI to cookies.File
type uriFile struct {
	uri fyne.URI
}

func (f uriFile) Name() string { return f.uri.Name() }

func (f uriFile) Open() (io.ReadCloser, error) {
	return storage.Reader(f.uri)
}
