package session

import (
	"context"
	"sync"
	"time"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
)

type controlState struct {
	enabled bool
	label   string
}

type fakeView struct {
	mu              sync.Mutex
	controls        map[Control]controlState
	notices         []model.Notice
	clears          int
	infoVisible     bool
	info            *InfoView
	banner          *PlatformBanner
	qualities       []QualityOption
	progressVisible bool
	startVisible    bool
	readout         Readout
	calls           int
}

func newFakeView() *fakeView {
	return &fakeView{controls: map[Control]controlState{}, startVisible: true}
}

func (v *fakeView) touch() { v.calls++ }

func (v *fakeView) SetControl(c Control, enabled bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.controls[c] = controlState{enabled, label}
}

func (v *fakeView) ShowNotice(n model.Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.notices = append(v.notices, n)
}

func (v *fakeView) ClearNotices() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.clears++
}

func (v *fakeView) SetInfoVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.infoVisible = visible
}

func (v *fakeView) RenderInfo(info InfoView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.info = &info
}

func (v *fakeView) RenderPlatform(b *PlatformBanner) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.banner = b
}

func (v *fakeView) RenderQualities(opts []QualityOption) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.qualities = opts
}

func (v *fakeView) SetProgressVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.progressVisible = visible
}

func (v *fakeView) SetStartVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.startVisible = visible
}

func (v *fakeView) SetProgress(r Readout) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.readout = r
}

func (v *fakeView) lastNotice() model.Notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.notices) == 0 {
		return model.Notice{}
	}
	return v.notices[len(v.notices)-1]
}

func (v *fakeView) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

type fakeBackend struct {
	info      *model.MediaInfo
	infoErr   error
	sessionID string
	startErr  error
	cancelErr error
	onStart   func() // runs while the start request is in flight

	infoReqs  []api.InfoRequest
	startReqs []api.StartRequest
	cancelled []string
}

func (b *fakeBackend) GetVideoInfo(_ context.Context, req api.InfoRequest) (*model.MediaInfo, error) {
	b.infoReqs = append(b.infoReqs, req)
	return b.info, b.infoErr
}

func (b *fakeBackend) StartDownload(_ context.Context, req api.StartRequest) (string, error) {
	b.startReqs = append(b.startReqs, req)
	if b.onStart != nil {
		b.onStart()
	}
	return b.sessionID, b.startErr
}

func (b *fakeBackend) CancelDownload(_ context.Context, id string) error {
	b.cancelled = append(b.cancelled, id)
	return b.cancelErr
}

func (b *fakeBackend) DownloadURL(id string) string {
	return "http://backend/download_file/" + id
}

type fakePrefs struct{ cookies bool }

func (p *fakePrefs) CookieSupport() bool { return p.cookies }

type fakeCookies struct {
	names    []string
	selected string
}

func (c *fakeCookies) Selected() string   { return c.selected }
func (c *fakeCookies) Names() []string    { return c.names }
func (c *fakeCookies) Select(name string) { c.selected = name }

type fakeSaver struct {
	saved []model.SaveRequest
}

func (s *fakeSaver) Save(req model.SaveRequest) { s.saved = append(s.saved, req) }

// fakeClock records scheduled callbacks; Fire runs them outside any lock.
type fakeClock struct {
	mu      sync.Mutex
	pending []scheduled
}

type scheduled struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := len(c.pending)
	c.pending = append(c.pending, scheduled{d: d, f: f})
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		was := !c.pending[idx].stopped
		c.pending[idx].stopped = true
		return was
	}
}

func (c *fakeClock) Fire() {
	c.mu.Lock()
	var run []func()
	for i := range c.pending {
		if !c.pending[i].stopped {
			c.pending[i].stopped = true
			run = append(run, c.pending[i].f)
		}
	}
	c.mu.Unlock()
	for _, f := range run {
		f()
	}
}

func (c *fakeClock) delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, 0, len(c.pending))
	for _, p := range c.pending {
		out = append(out, p.d)
	}
	return out
}
