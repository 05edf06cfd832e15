package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/ytget/eliot-client/internal/cookies"
	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/session"
)

// consoleView renders the workflow and the cookie section as terminal text.
// It implements session.View and cookies.View.
type consoleView struct {
	out io.Writer

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	notices []model.Notice
	info    session.InfoView
	quals   []session.QualityOption
	cookies []model.CookieEntry
}

func newConsoleView(out io.Writer) *consoleView {
	return &consoleView{out: out}
}

func (v *consoleView) printf(format string, args ...any) {
	if v.bar != nil {
		// keep the bar on its own line
		_ = v.bar.Clear()
	}
	fmt.Fprintf(v.out, format, args...)
}

// SetControl implements session.View
func (v *consoleView) SetControl(session.Control, bool, string) {}

// ShowNotice implements session.View and cookies.View
func (v *consoleView) ShowNotice(n model.Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, n)

	prefix := "ok"
	if n.IsError() {
		prefix = "error"
	}
	var b strings.Builder
	if n.Title != "" {
		fmt.Fprintf(&b, "%s: %s\n", prefix, n.Title)
		if n.Text != "" {
			fmt.Fprintf(&b, "  %s\n", n.Text)
		}
	} else {
		fmt.Fprintf(&b, "%s: %s\n", prefix, n.Text)
	}
	for _, l := range n.Lines {
		fmt.Fprintf(&b, "  - %s\n", l)
	}
	if n.Link != "" {
		fmt.Fprintf(&b, "  %s: %s\n", orText(n.LinkText, "link"), n.Link)
	}
	v.printf("%s", b.String())
}

// ClearNotices implements session.View
func (v *consoleView) ClearNotices() {}

// SetInfoVisible implements session.View
func (v *consoleView) SetInfoVisible(bool) {}

// RenderInfo implements session.View
func (v *consoleView) RenderInfo(info session.InfoView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.info = info
}

// RenderPlatform implements session.View
func (v *consoleView) RenderPlatform(b *session.PlatformBanner) {
	if b == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printf("[%s] %s\n", b.Level, b.Message)
}

// RenderQualities implements session.View
func (v *consoleView) RenderQualities(opts []session.QualityOption) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quals = opts
}

// SetProgressVisible implements session.View
func (v *consoleView) SetProgressVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if visible && v.bar == nil {
		v.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(v.out),
			progressbar.OptionSetDescription(session.StatusInitializing),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		return
	}
	if !visible && v.bar != nil {
		_ = v.bar.Finish()
		fmt.Fprintln(v.out)
		v.bar = nil
	}
}

// SetStartVisible implements session.View
func (v *consoleView) SetStartVisible(bool) {}

// SetProgress implements session.View
func (v *consoleView) SetProgress(r session.Readout) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bar == nil {
		return
	}
	v.bar.Describe(fmt.Sprintf("%-12s %s  %s  eta %s", r.Status, r.Downloaded, r.Speed, r.ETA))
	_ = v.bar.Set(int(r.Percent))
}

// SetSectionVisible implements cookies.View
func (v *consoleView) SetSectionVisible(bool) {}

// SetFileLabel implements cookies.View
func (v *consoleView) SetFileLabel(string) {}

// SetUploadControl implements cookies.View
func (v *consoleView) SetUploadControl(bool, string) {}

// RenderList implements cookies.View
func (v *consoleView) RenderList(entries []model.CookieEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cookies = entries
}

// RenderSelect implements cookies.View
func (v *consoleView) RenderSelect([]cookies.SelectOption, string) {}

// Notices returns every notice shown so far
func (v *consoleView) Notices() []model.Notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Notice(nil), v.notices...)
}

// lastError returns the text of the most recent error notice
func (v *consoleView) lastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := len(v.notices) - 1; i >= 0; i-- {
		if v.notices[i].IsError() {
			return v.notices[i].Text
		}
	}
	return ""
}

func orText(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
