package session

import (
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/model"
)

// MaxEarlyEvents bounds the events kept while a start request is in flight
const MaxEarlyEvents = 64

// HandleEvent applies a push event. Events for any session other than the
// tracked one are dropped without visible change. While a start request is
// in flight events are kept, and the ones for the returned id are applied
// once it is known.
func (s *Session) HandleEvent(ev model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" && s.starting && ev.SessionID() != "" {
		if len(s.early) < MaxEarlyEvents {
			s.early = append(s.early, ev)
		}
		return
	}
	if s.currentID == "" || ev.SessionID() != s.currentID {
		log.Debug().Str("kind", string(ev.Kind())).Str("session_id", ev.SessionID()).Msg("[session] ignore event")
		return
	}
	s.applyLocked(ev)
}

// replayEarlyLocked applies the kept events of the now tracked session
func (s *Session) replayEarlyLocked() {
	early := s.early
	s.early = nil
	for _, ev := range early {
		if s.currentID == "" || ev.SessionID() != s.currentID {
			continue
		}
		s.applyLocked(ev)
	}
}

func (s *Session) applyLocked(ev model.Event) {
	switch e := ev.(type) {
	case model.ProgressEvent:
		s.onProgressLocked(e)
	case model.CompleteEvent:
		s.onCompleteLocked(e)
	case model.ErrorEvent:
		log.Warn().Str("session_id", e.Session).Str("error", e.Error).Msg("[session] download error")
		s.setStateLocked(model.StateError)
		s.view.ShowNotice(model.ErrorNotice(MsgDownloadFailed + e.Error))
		s.resetLocked()
	case model.CancelledEvent:
		log.Info().Str("session_id", e.Session).Msg("[session] download cancelled")
		s.setStateLocked(model.StateCancelled)
		s.view.ShowNotice(model.SuccessNotice(MsgCancelled))
		s.resetLocked()
	}
}

func (s *Session) onProgressLocked(e model.ProgressEvent) {
	status := e.Status
	if status == "" {
		status = StatusUnknown
	}
	s.readout = Readout{
		Percent:    clampPercent(e.Progress),
		Status:     model.Capitalize(status),
		Progress:   model.FormatPercent(e.Progress),
		Speed:      model.OrDash(e.Speed),
		ETA:        model.OrDash(e.ETA),
		Size:       model.OrDash(e.FileSize),
		Downloaded: model.OrDash(e.Downloaded),
	}
	s.view.SetProgress(s.readout)

	if e.Error != "" {
		s.setStateLocked(model.StateError)
		s.view.ShowNotice(model.ErrorNotice(MsgDownloadFailed + e.Error))
		s.resetLocked()
	}
}

func (s *Session) onCompleteLocked(e model.CompleteEvent) {
	id := s.currentID
	s.setStateLocked(model.StateCompleted)

	s.readout.Status = StatusCompleted
	s.readout.Percent = 100
	s.readout.Progress = model.FormatPercent(100)
	s.view.SetProgress(s.readout)

	s.view.ShowNotice(model.Notice{
		Level:    model.NoticeSuccess,
		Text:     MsgReady,
		Link:     s.backend.DownloadURL(id),
		LinkText: MsgSaveLink,
		TTL:      ReadyNoticeTTL,
	})

	if s.saver != nil {
		title := ""
		if s.info != nil {
			title = s.info.Title
		}
		s.saver.Save(model.SaveRequest{
			SessionID: id,
			Filename:  e.Filename,
			SourceURL: s.currentReq.URL,
			Kind:      s.currentReq.Format,
			Quality:   s.currentReq.Quality,
			Title:     title,
		})
	}

	s.stopReset = s.afterFunc(ResetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.currentID != id {
			return
		}
		s.stopReset = nil
		s.resetLocked()
	})
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
