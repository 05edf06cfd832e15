package ui

import (
	"net/url"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/model"
)

// NoticeArea is the single message slot under a form or the URL row. A new
// notice replaces the previous one and hides itself after its lifetime.
type NoticeArea struct {
	box *fyne.Container

	mu    sync.Mutex
	gen   int
	timer *time.Timer
	shown *model.Notice
	base  *url.URL
}

// NewNoticeArea creates a hidden notice area. Relative links resolve
// against base when it is set.
func NewNoticeArea(base *url.URL) *NoticeArea {
	n := &NoticeArea{box: container.NewVBox(), base: base}
	n.box.Hide()
	return n
}

// Container returns the widget tree to place in a layout
func (n *NoticeArea) Container() *fyne.Container {
	return n.box
}

// Current returns the notice on screen, nil when hidden
func (n *NoticeArea) Current() *model.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shown
}

// ShowNotice replaces the current notice
func (n *NoticeArea) ShowNotice(notice model.Notice) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	shown := notice
	n.shown = &shown
	n.timer = time.AfterFunc(notice.Lifetime(), func() { n.expire(gen) })
	n.mu.Unlock()

	objects := n.render(notice)
	fyne.Do(func() { n.paint(gen, objects) })
}

// paint shows objects unless a newer notice or a clear came after gen
func (n *NoticeArea) paint(gen int, objects []fyne.CanvasObject) {
	if !n.isCurrent(gen) {
		return
	}
	n.box.Objects = objects
	n.box.Show()
	n.box.Refresh()
}

func (n *NoticeArea) isCurrent(gen int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return gen == n.gen
}

// ClearNotices hides the current notice
func (n *NoticeArea) ClearNotices() {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.shown = nil
	n.mu.Unlock()

	fyne.Do(func() { n.hide(gen) })
}

func (n *NoticeArea) expire(gen int) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.shown = nil
	n.timer = nil
	n.mu.Unlock()

	fyne.Do(func() { n.hide(gen) })
}

func (n *NoticeArea) hide(gen int) {
	if !n.isCurrent(gen) {
		return
	}
	n.box.Objects = nil
	n.box.Hide()
	n.box.Refresh()
}

func (n *NoticeArea) render(notice model.Notice) []fyne.CanvasObject {
	importance := widget.SuccessImportance
	if notice.IsError() {
		importance = widget.DangerImportance
	}

	var objects []fyne.CanvasObject
	if notice.Title != "" {
		title := widget.NewLabel(notice.Title)
		title.TextStyle = fyne.TextStyle{Bold: true}
		title.Importance = importance
		objects = append(objects, title)
	}
	if notice.Text != "" {
		text := widget.NewLabel(notice.Text)
		text.Wrapping = fyne.TextWrapWord
		text.Importance = importance
		objects = append(objects, text)
	}
	for _, line := range notice.Lines {
		l := widget.NewLabel(IconBullet + line)
		l.Wrapping = fyne.TextWrapWord
		objects = append(objects, l)
	}
	if notice.Link != "" {
		if u := n.resolve(notice.Link); u != nil {
			text := notice.LinkText
			if text == "" {
				text = notice.Link
			}
			objects = append(objects, widget.NewHyperlink(text, u))
		}
	}

	closeBtn := widget.NewButton(IconClose, n.ClearNotices)
	closeBtn.Importance = widget.LowImportance
	return []fyne.CanvasObject{
		container.NewBorder(nil, nil, nil, container.NewVBox(closeBtn), container.NewVBox(objects...)),
	}
}

func (n *NoticeArea) resolve(link string) *url.URL {
	u, err := url.Parse(link)
	if err != nil {
		log.Warn().Err(err).Str("link", link).Msg("[ui] bad notice link")
		return nil
	}
	if n.base != nil {
		u = n.base.ResolveReference(u)
	}
	return u
}
