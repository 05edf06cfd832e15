package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
)

// Analyze fetches metadata for rawURL and renders it. Failures are rendered
// as notices and also returned.
func (s *Session) Analyze(ctx context.Context, rawURL string) (*model.MediaInfo, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		s.view.ShowNotice(model.ErrorNotice(MsgEmptyURL))
		return nil, ErrEmptyURL
	}

	s.mu.Lock()
	s.view.SetControl(ControlAnalyze, false, LabelAnalyzing)
	s.view.SetInfoVisible(false)
	s.view.ClearNotices()
	if s.currentID == "" {
		s.setStateLocked(model.StateAnalyzing)
	}
	req := api.InfoRequest{URL: url, CookieFile: s.cookieFile()}
	s.mu.Unlock()

	info, err := s.backend.GetVideoInfo(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.view.SetControl(ControlAnalyze, true, LabelAnalyze)

	if err != nil {
		if s.currentID == "" {
			s.setStateLocked(model.StateIdle)
		}
		if appErr, ok := api.AsAppError(err); ok {
			msg := appErr.Message
			if msg == "" {
				msg = MsgAnalyzeFailed
			}
			s.view.ShowNotice(PlatformHelp(msg, url, s.prefs != nil && s.prefs.CookieSupport()))
		} else {
			log.Warn().Err(err).Str("url", url).Msg("[session] analyze failed")
			s.view.ShowNotice(model.ErrorNotice(MsgNetwork))
		}
		return nil, err
	}

	s.info = info
	s.renderInfoLocked()
	s.view.SetInfoVisible(true)
	if s.currentID == "" {
		s.setStateLocked(model.StateReady)
	}
	return info, nil
}

// SetFormat changes the output kind and re-renders the last analysis
func (s *Session) SetFormat(kind model.OutputKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = kind
	if s.info != nil {
		s.renderInfoLocked()
	}
}

// SelectQuality records the quality token chosen in the grid
func (s *Session) SelectQuality(quality string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quality == "" {
		quality = model.DefaultQuality
	}
	s.quality = quality
	if s.info != nil && s.gridVisibleLocked() {
		s.view.RenderQualities(s.qualityOptionsLocked())
	}
}

// Start asks the backend to download rawURL with the current kind and quality
// and begins tracking the returned session id.
func (s *Session) Start(ctx context.Context, rawURL string) (string, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		s.view.ShowNotice(model.ErrorNotice(MsgEmptyURL))
		return "", ErrEmptyURL
	}

	s.mu.Lock()
	if s.currentID != "" {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.view.SetControl(ControlStart, false, LabelStarting)
	s.view.ClearNotices()
	req := api.StartRequest{
		URL:        url,
		Format:     s.kind,
		Quality:    s.quality,
		CookieFile: s.cookieFile(),
	}
	s.starting = true
	s.mu.Unlock()

	id, err := s.backend.StartDownload(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.view.SetControl(ControlStart, true, LabelStart)
	s.starting = false

	if err != nil {
		s.early = nil
		if appErr, ok := api.AsAppError(err); ok {
			msg := appErr.Message
			if msg == "" {
				msg = MsgStartFailed
			}
			s.view.ShowNotice(model.ErrorNotice(msg))
		} else {
			log.Warn().Err(err).Str("url", url).Msg("[session] start failed")
			s.view.ShowNotice(model.ErrorNotice(MsgNetwork))
		}
		return "", err
	}

	if s.stopReset != nil {
		s.stopReset()
		s.stopReset = nil
	}
	s.currentID = id
	s.currentReq = req
	s.setStateLocked(model.StateDownloading)
	s.view.SetProgressVisible(true)
	s.view.SetStartVisible(false)
	s.readout = InitialReadout()
	s.view.SetProgress(s.readout)
	log.Info().Str("session_id", id).Str("format", string(req.Format)).Str("quality", req.Quality).Msg("[session] download started")
	s.replayEarlyLocked()
	return id, nil
}

// Cancel asks the backend to stop the tracked download. Local state is left
// alone; the outcome arrives as a push event.
func (s *Session) Cancel(ctx context.Context) error {
	id := s.CurrentID()
	if id == "" {
		return nil
	}
	if err := s.backend.CancelDownload(ctx, id); err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("[session] cancel error")
		return err
	}
	return nil
}

func (s *Session) setStateLocked(next model.WorkflowState) {
	if s.state == next {
		return
	}
	log.Debug().Str("from", s.state.String()).Str("to", next.String()).Msg("[session] state")
	s.state = next
}

func (s *Session) gridVisibleLocked() bool {
	return s.kind == model.KindVideo && s.info != nil && len(s.info.Formats) > 0
}

func (s *Session) qualityOptionsLocked() []QualityOption {
	opts := make([]QualityOption, 0, len(s.info.Formats)+1)
	opts = append(opts, QualityOption{
		Value:    model.DefaultQuality,
		Label:    BestQualityLabel,
		Selected: s.quality == model.DefaultQuality,
	})
	for _, f := range s.info.Formats {
		opts = append(opts, QualityOption{
			Value:    f.Quality,
			Label:    f.Label(),
			Selected: s.quality == f.Quality,
		})
	}
	return opts
}

// renderInfoLocked renders s.info. A freshly rendered grid starts at "best",
// so the tracked quality is reset to match it.
func (s *Session) renderInfoLocked() {
	info := s.info

	if pi := info.PlatformInfo; pi != nil {
		msg := pi.Message
		if pi.RequiresCookies && pi.Level == model.LevelWarning {
			msg += MsgCookieRecommends
		}
		s.view.RenderPlatform(&PlatformBanner{Level: pi.Level, Message: msg})

		if pi.RequiresCookies && s.cookies != nil {
			names := s.cookies.Names()
			if len(names) > 0 && s.cookies.Selected() == "" && s.prefs != nil && s.prefs.CookieSupport() {
				s.cookies.Select(names[0])
				s.view.ShowNotice(model.SuccessNotice(MsgAutoCookie))
			}
		}
	} else {
		s.view.RenderPlatform(nil)
	}

	s.view.RenderInfo(InfoView{
		Title:       model.OrDash(info.Title),
		Uploader:    model.OrDash(info.Uploader),
		Duration:    model.FormatDuration(info.Duration),
		Description: info.Description,
		Thumbnail:   info.Thumbnail,
	})

	s.quality = model.DefaultQuality
	if s.gridVisibleLocked() {
		s.view.RenderQualities(s.qualityOptionsLocked())
	} else {
		s.view.RenderQualities(nil)
	}
}

// resetLocked stops tracking the current download and restores the start control
func (s *Session) resetLocked() {
	if s.stopReset != nil {
		s.stopReset()
		s.stopReset = nil
	}
	s.currentID = ""
	s.currentReq = api.StartRequest{}
	s.setStateLocked(model.StateIdle)
	s.view.SetProgressVisible(false)
	s.view.SetStartVisible(true)
	s.view.SetControl(ControlStart, true, LabelStart)
}
