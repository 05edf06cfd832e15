package ui

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/session"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatFileSize(tt.in); got != tt.want {
			t.Errorf("formatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompactThemeVariant(t *testing.T) {
	dark := NewCompactTheme(true).(*CompactTheme)
	light := NewCompactTheme(false).(*CompactTheme)

	assert.Equal(t, theme.VariantDark, dark.Variant())
	assert.Equal(t, theme.VariantLight, light.Variant())
	assert.NotEqual(t,
		dark.Color(theme.ColorNameBackground, theme.VariantLight),
		light.Color(theme.ColorNameBackground, theme.VariantLight),
		"forced variant wins over the OS variant")
}

func TestLocalizationFallsBackToKey(t *testing.T) {
	l := NewLocalization()
	assert.Equal(t, "Settings", l.GetText(KeySettings))
	assert.Equal(t, "no_such_key", l.GetText("no_such_key"))
}

func TestNoticeAreaShowAndClear(t *testing.T) {
	test.NewApp()
	n := NewNoticeArea(nil)
	require.False(t, n.Container().Visible())

	n.ShowNotice(model.Notice{
		Level: model.NoticeError,
		Title: "Login required",
		Text:  "This site needs cookies",
		Lines: []string{"one", "two"},
		TTL:   time.Minute,
	})
	require.NotNil(t, n.Current())
	assert.Equal(t, "Login required", n.Current().Title)
	assert.True(t, n.Container().Visible())
	assert.Len(t, n.Container().Objects, 1)

	n.ClearNotices()
	assert.Nil(t, n.Current())
	assert.False(t, n.Container().Visible())
}

func TestNoticeAreaReplacesAndExpires(t *testing.T) {
	test.NewApp()
	n := NewNoticeArea(nil)

	n.ShowNotice(model.Notice{Level: model.NoticeError, Text: "first", TTL: 20 * time.Millisecond})
	n.ShowNotice(model.Notice{Level: model.NoticeSuccess, Text: "second", TTL: time.Minute})

	// the first timer must not hide the second notice
	time.Sleep(60 * time.Millisecond)
	require.NotNil(t, n.Current())
	assert.Equal(t, "second", n.Current().Text)

	n.ShowNotice(model.Notice{Level: model.NoticeSuccess, Text: "third", TTL: 20 * time.Millisecond})
	assert.Eventually(t, func() bool { return n.Current() == nil }, time.Second, 10*time.Millisecond)
}

func TestNoticeAreaSkipsStalePaint(t *testing.T) {
	test.NewApp()
	n := NewNoticeArea(nil)

	first := model.Notice{Level: model.NoticeError, Text: "first", TTL: time.Minute}
	n.ShowNotice(first)
	n.mu.Lock()
	stale := n.gen
	n.mu.Unlock()
	n.ShowNotice(model.Notice{Level: model.NoticeSuccess, Text: "second", TTL: time.Minute})
	require.Len(t, n.Container().Objects, 1)
	second := n.Container().Objects[0]

	// a render queued by the first call lands after the second one
	n.paint(stale, n.render(first))
	require.Len(t, n.Container().Objects, 1)
	assert.Same(t, second, n.Container().Objects[0])
	assert.Equal(t, "second", n.Current().Text)

	// so does a hide queued before a newer notice
	n.hide(stale)
	assert.True(t, n.Container().Visible())
}

func TestNoticeAreaResolvesLinks(t *testing.T) {
	base, _ := url.Parse("http://127.0.0.1:5000")
	n := NewNoticeArea(base)

	assert.Equal(t, "http://127.0.0.1:5000/login", n.resolve("/login").String())
	assert.Equal(t, "https://example.com/x", n.resolve("https://example.com/x").String())
	assert.Equal(t, "/login", NewNoticeArea(nil).resolve("/login").String())
}

func TestProgressPanelReadout(t *testing.T) {
	test.NewApp()
	p := NewProgressPanel(nil)
	assert.Equal(t, session.InitialReadout(), p.Readout())

	r := session.Readout{
		Percent:    42,
		Status:     "Downloading",
		Progress:   "42%",
		Speed:      "1.2 MB/s",
		ETA:        "00:10",
		Size:       "10 MB",
		Downloaded: "4.2 MB",
	}
	p.SetReadout(r)

	assert.Equal(t, r, p.Readout())
	assert.Equal(t, 42.0, p.bar.Value)
	assert.Equal(t, "42%", p.progress.Text)
	assert.Equal(t, "1.2 MB/s", p.speed.Text)
	assert.Equal(t, "42%", p.bar.TextFormatter())
}

func TestProgressPanelCancel(t *testing.T) {
	test.NewApp()
	cancelled := false
	p := NewProgressPanel(func() { cancelled = true })
	test.Tap(p.cancelBtn)
	assert.True(t, cancelled)
}

func TestTaskRowButtons(t *testing.T) {
	test.NewApp()

	row := NewTaskRow(&model.SaveTask{ID: "t1", Status: model.TaskStatusSaving, Written: 512, Total: 1024})
	var stopped, revealed string
	row.SetCallbacks(
		func(id string) { stopped = id },
		func(path string) { revealed = path },
		nil, nil,
	)

	assert.False(t, row.stopBtn.Disabled())
	assert.True(t, row.revealBtn.Disabled())
	assert.Equal(t, "50%", row.progressLabel.Text)

	test.Tap(row.stopBtn)
	assert.Equal(t, "t1", stopped)

	row.UpdateTask(&model.SaveTask{
		ID:         "t1",
		Status:     model.TaskStatusCompleted,
		Filename:   "a.mp4",
		OutputPath: "/tmp/a.mp4",
		Written:    1024,
		Total:      1024,
	})
	assert.True(t, row.stopBtn.Disabled())
	assert.False(t, row.revealBtn.Disabled())
	assert.False(t, row.openBtn.Disabled())
	assert.Equal(t, "a.mp4", row.titleLabel.Text)

	test.Tap(row.revealBtn)
	assert.Equal(t, "/tmp/a.mp4", revealed)
}

func TestTaskRowError(t *testing.T) {
	test.NewApp()
	row := NewTaskRow(&model.SaveTask{Status: model.TaskStatusError, LastError: "disk full", SessionID: "s1"})
	assert.Equal(t, "disk full", row.sizeLabel.Text)
	assert.Equal(t, widget.DangerImportance, row.statusLabel.Importance)
	assert.Equal(t, "s1", row.titleLabel.Text)
}

func TestFormatBypassStatus(t *testing.T) {
	l := NewLocalization()
	got := formatBypassStatus(l, true, []model.CookieEntry{{Name: "yt", Uploaded: true}}, []string{"note"})

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "FFmpeg: available", lines[0])
	assert.Equal(t, "Cookies: available", lines[1])
	assert.Equal(t, IconBullet+"yt", lines[2])
	assert.Equal(t, IconBullet+"note", lines[3])

	got = formatBypassStatus(l, false, nil, nil)
	assert.Equal(t, "FFmpeg: not available\nCookies: not available", got)
}

type fakeHistoryStore struct {
	entries []model.HistoryEntry
	err     error
	cleared bool
}

func (f *fakeHistoryStore) History(limit int) ([]model.HistoryEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeHistoryStore) ClearHistory() error {
	f.cleared = true
	f.entries = nil
	return nil
}

func TestHistoryTab(t *testing.T) {
	test.NewApp()
	store := &fakeHistoryStore{entries: []model.HistoryEntry{
		{SessionID: "s2", Title: "Second", Kind: model.KindVideo, SavedPath: "/tmp/b.mp4"},
		{SessionID: "s1", Filename: "a.mp3", Kind: model.KindAudio},
	}}
	var revealed string
	h := NewHistoryTab(store, NewLocalization(), func(p string) { revealed = p })

	h.Reload()
	require.Len(t, h.Entries(), 2)
	assert.False(t, h.empty.Visible())

	item := h.createItem().(*fyne.Container)
	h.updateItem(0, item)
	reveal := item.Objects[1].(*widget.Button)
	test.Tap(reveal)
	assert.Equal(t, "/tmp/b.mp4", revealed)

	h.updateItem(1, item)
	assert.True(t, reveal.Disabled(), "entries without a saved path cannot be revealed")

	h.Clear()
	assert.True(t, store.cleared)
	assert.Empty(t, h.Entries())
	assert.True(t, h.empty.Visible())
}

func TestHistoryTabKeepsEntriesOnError(t *testing.T) {
	test.NewApp()
	store := &fakeHistoryStore{entries: []model.HistoryEntry{{SessionID: "s1"}}}
	h := NewHistoryTab(store, NewLocalization(), nil)
	h.Reload()

	store.err = errors.New("closed")
	h.Reload()
	assert.Len(t, h.Entries(), 1)
}

func TestHistoryTabNilStore(t *testing.T) {
	test.NewApp()
	h := NewHistoryTab(nil, NewLocalization(), nil)
	h.Reload()
	h.Clear()
	assert.Empty(t, h.Entries())

	var nilTab *HistoryTab
	nilTab.Reload()
}
