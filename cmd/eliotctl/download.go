package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ytget/eliot-client/internal/cookies"
	"github.com/ytget/eliot-client/internal/download"
	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/platform"
	"github.com/ytget/eliot-client/internal/push"
	"github.com/ytget/eliot-client/internal/session"
)

// ConnectTimeout bounds the wait for the push channel before starting
const ConnectTimeout = 10 * time.Second

// CancelGrace is how long an interrupted download waits for the server to
// confirm the cancel
const CancelGrace = 5 * time.Second

// ErrCancelled is returned when the server confirms a cancel
var ErrCancelled = errors.New("download cancelled")

// tracker turns push events and save updates for one session into a result.
// Updates that arrive before the session id is known are kept and replayed.
type tracker struct {
	mu     sync.Mutex
	id     string
	save   bool
	events []model.Event
	tasks  []*model.SaveTask
	result chan error
	once   sync.Once
}

func newTracker(save bool) *tracker {
	return &tracker{save: save, result: make(chan error, 1)}
}

func (t *tracker) track(id string) {
	t.mu.Lock()
	t.id = id
	events, tasks := t.events, t.tasks
	t.events, t.tasks = nil, nil
	t.mu.Unlock()

	for _, ev := range events {
		t.onEvent(ev)
	}
	for _, task := range tasks {
		t.onSave(task)
	}
}

func (t *tracker) finish(err error) {
	t.once.Do(func() { t.result <- err })
}

// onEvent runs after the session has applied ev
func (t *tracker) onEvent(ev model.Event) {
	t.mu.Lock()
	id := t.id
	if id == "" {
		t.events = append(t.events, ev)
	}
	t.mu.Unlock()
	if id == "" || ev.SessionID() != id {
		return
	}
	switch e := ev.(type) {
	case model.ProgressEvent:
		if e.Error != "" {
			t.finish(fmt.Errorf("download failed: %s", e.Error))
		}
	case model.CompleteEvent:
		if !t.save {
			t.finish(nil)
		}
	case model.ErrorEvent:
		t.finish(fmt.Errorf("download failed: %s", e.Error))
	case model.CancelledEvent:
		t.finish(ErrCancelled)
	}
}

// onSave reports the local save of the tracked session
func (t *tracker) onSave(task *model.SaveTask) {
	t.mu.Lock()
	id := t.id
	if id == "" {
		t.tasks = append(t.tasks, task)
	}
	t.mu.Unlock()
	if id == "" || task.SessionID != id {
		return
	}
	switch task.Status {
	case model.TaskStatusCompleted:
		t.finish(nil)
	case model.TaskStatusError:
		t.finish(fmt.Errorf("save file: %s", task.LastError))
	case model.TaskStatusStopped:
		t.finish(ErrCancelled)
	}
}

func newDownloadCmd() *cobra.Command {
	var (
		kind       string
		quality    string
		cookieName string
		outDir     string
		noSave     bool
	)
	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download a URL on the server and save the result locally",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = e.settings.GetDownloadDirectory()
			}
			if !noSave {
				if err := platform.CreateDirectoryIfNotExists(outDir); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}

			view := newConsoleView(cmd.OutOrStdout())
			mgr := cookies.NewManager(e.client, view)
			if err := selectCookies(e, mgr, cookieName); err != nil {
				return err
			}

			tr := newTracker(!noSave)
			opts := []session.Option{session.WithCookies(mgr)}
			var saver *download.Service
			if !noSave {
				var saveOpts []download.Option
				if e.store != nil {
					saveOpts = append(saveOpts, download.WithHistory(e.store))
				}
				saver = download.NewService(e.client, outDir, 1, saveOpts...)
				saver.SetUpdateCallback(tr.onSave)
				opts = append(opts, session.WithSaver(saver))
			}
			sess := session.New(e.client, view, e.settings, opts...)

			// The push channel outlives an interrupt so the cancel can be confirmed
			pushCtx, stopPush := context.WithCancel(context.Background())
			defer stopPush()
			if err := connectPush(e.ctx, pushCtx, e.settings.GetServerURL(), push.HandlerFunc(func(ev model.Event) {
				sess.HandleEvent(ev)
				tr.onEvent(ev)
			}), tr); err != nil {
				return err
			}

			sess.SetFormat(k)
			if _, err := sess.Analyze(e.ctx, args[0]); err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			sess.SelectQuality(quality)

			id, err := sess.Start(e.ctx, args[0])
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			tr.track(id)
			log.Debug().Str("session_id", id).Msg("[eliotctl] tracking")

			select {
			case err := <-tr.result:
				if err == nil && saver != nil {
					if task := savedTask(saver, id); task != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", task.OutputPath)
					}
				}
				return err
			case <-e.ctx.Done():
				return interrupt(sess, saver, tr)
			}
		}),
	}
	f := cmd.Flags()
	f.StringVarP(&kind, "format", "f", string(model.KindVideo), kindUsage)
	f.StringVarP(&quality, "quality", "q", model.DefaultQuality, "quality token, e.g. best, 720p, 320")
	f.StringVar(&cookieName, "cookies", "", "cookie file on the server to use")
	f.StringVarP(&outDir, "output", "o", "", "directory for the saved file (default: download directory setting)")
	f.BoolVar(&noSave, "no-save", false, "leave the file on the server and print its link")
	return cmd
}

// connectPush starts listening and waits for the namespace connect so no
// event of the coming download is missed
func connectPush(ctx, listenCtx context.Context, serverURL string, h push.Handler, tr *tracker) error {
	connected := make(chan struct{})
	var once sync.Once
	pc, err := push.NewClient(serverURL, push.WithOnConnect(func() {
		once.Do(func() { close(connected) })
	}))
	if err != nil {
		return fmt.Errorf("create push client: %w", err)
	}

	listenErr := make(chan error, 1)
	go func() {
		err := pc.Listen(listenCtx, h)
		if listenCtx.Err() == nil {
			tr.finish(fmt.Errorf("push channel: %w", err))
		}
		listenErr <- err
	}()

	select {
	case <-connected:
		return nil
	case err := <-listenErr:
		return fmt.Errorf("connect push channel: %w", err)
	case <-time.After(ConnectTimeout):
		return fmt.Errorf("connect push channel: timed out after %s", ConnectTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// interrupt stops local saves, asks the server to cancel and waits briefly
// for the outcome
func interrupt(sess *session.Session, saver *download.Service, tr *tracker) error {
	if saver != nil {
		for _, t := range saver.GetAllTasks() {
			if !t.Status.IsFinished() {
				_ = saver.StopTask(t.ID)
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), CancelGrace)
	defer cancel()
	if err := sess.Cancel(ctx); err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	select {
	case err := <-tr.result:
		return err
	case <-ctx.Done():
		return ErrCancelled
	}
}

func savedTask(saver *download.Service, sessionID string) *model.SaveTask {
	for _, t := range saver.GetAllTasks() {
		if t.SessionID == sessionID && t.Status == model.TaskStatusCompleted {
			return t
		}
	}
	return nil
}
