package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/model"
)

// HistoryDateFormat is how completion times show in the History tab
const HistoryDateFormat = "2006-01-02 15:04"

// HistoryTab lists downloads completed on this machine, newest first
type HistoryTab struct {
	store        HistoryStore
	localization *Localization
	onReveal     func(path string)

	mu      sync.Mutex
	entries []model.HistoryEntry

	list      *widget.List
	empty     *widget.Label
	container *fyne.Container
}

// NewHistoryTab creates the History tab. A nil store shows an empty list.
func NewHistoryTab(store HistoryStore, l *Localization, onReveal func(string)) *HistoryTab {
	h := &HistoryTab{store: store, localization: l, onReveal: onReveal}

	h.empty = widget.NewLabel(l.GetText(KeyNoHistory))
	h.list = widget.NewList(h.length, h.createItem, h.updateItem)

	clearBtn := widget.NewButton(l.GetText(KeyClear), h.Clear)
	refreshBtn := widget.NewButton(l.GetText(KeyRefresh), h.Reload)
	if store == nil {
		clearBtn.Disable()
		refreshBtn.Disable()
	}

	h.container = container.NewBorder(
		container.NewHBox(refreshBtn, clearBtn), nil, nil, nil,
		container.NewStack(h.list, h.empty),
	)
	return h
}

// Container returns the tab content
func (h *HistoryTab) Container() fyne.CanvasObject {
	return h.container
}

// Entries returns the entries currently shown
func (h *HistoryTab) Entries() []model.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.HistoryEntry(nil), h.entries...)
}

// Reload reads the history again. It runs on the Fyne main goroutine.
func (h *HistoryTab) Reload() {
	if h == nil || h.store == nil {
		return
	}
	entries, err := h.store.History(HistoryLimit)
	if err != nil {
		log.Error().Err(err).Msg("[ui] load history")
		return
	}
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	setVisible(h.empty, len(entries) == 0)
	h.list.Refresh()
}

// Clear forgets every entry
func (h *HistoryTab) Clear() {
	if h.store == nil {
		return
	}
	if err := h.store.ClearHistory(); err != nil {
		log.Error().Err(err).Msg("[ui] clear history")
		return
	}
	h.Reload()
}

func (h *HistoryTab) length() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *HistoryTab) createItem() fyne.CanvasObject {
	title := widget.NewLabel("")
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Truncation = fyne.TextTruncateEllipsis
	meta := widget.NewLabel("")
	reveal := widget.NewButton(IconFolder, nil)
	reveal.Importance = widget.LowImportance
	return container.NewBorder(nil, nil, nil, reveal, container.NewVBox(title, meta))
}

func (h *HistoryTab) updateItem(id widget.ListItemID, obj fyne.CanvasObject) {
	h.mu.Lock()
	if id >= len(h.entries) {
		h.mu.Unlock()
		return
	}
	e := h.entries[id]
	h.mu.Unlock()

	row := obj.(*fyne.Container)
	texts := row.Objects[0].(*fyne.Container)
	reveal := row.Objects[1].(*widget.Button)

	title := e.Title
	if title == "" {
		title = e.Filename
	}
	texts.Objects[0].(*widget.Label).SetText(title)
	meta := model.Capitalize(string(e.Kind))
	if e.Quality != "" {
		meta += MiddleDotSeparator + e.Quality
	}
	meta += MiddleDotSeparator + e.CompletedAt.Local().Format(HistoryDateFormat)
	texts.Objects[1].(*widget.Label).SetText(meta)

	if e.SavedPath == "" {
		reveal.Disable()
		reveal.OnTapped = nil
		return
	}
	path := e.SavedPath
	reveal.Enable()
	reveal.OnTapped = func() {
		if h.onReveal != nil {
			h.onReveal(path)
		}
	}
}
