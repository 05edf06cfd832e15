package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/session"
	"github.com/ytget/eliot-client/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// execute runs the root command against srv with a fresh data dir
func execute(t *testing.T, srv *httptest.Server, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeIn(t, t.TempDir(), srv, stdin, args...)
}

func executeIn(t *testing.T, dataDir string, srv *httptest.Server, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--server", srv.URL, "--data-dir", dataDir, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseKind(t *testing.T) {
	k, err := parseKind("AUDIO")
	require.NoError(t, err)
	assert.Equal(t, model.KindAudio, k)

	_, err = parseKind("gif")
	assert.Error(t, err)
}

func TestTrackerFinishesOnEvents(t *testing.T) {
	tests := []struct {
		name    string
		save    bool
		event   model.Event
		wantErr error
		done    bool
	}{
		{"complete without save", false, model.CompleteEvent{Session: "X", Filename: "a.mp4"}, nil, true},
		{"complete with save waits", true, model.CompleteEvent{Session: "X", Filename: "a.mp4"}, nil, false},
		{"cancelled", true, model.CancelledEvent{Session: "X"}, ErrCancelled, true},
		{"other session", false, model.CancelledEvent{Session: "Y"}, nil, false},
		{"plain progress", false, model.ProgressEvent{Session: "X", Progress: 10}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(tt.save)
			tr.track("X")
			tr.onEvent(tt.event)
			select {
			case err := <-tr.result:
				require.True(t, tt.done, "unexpected result %v", err)
				assert.Equal(t, tt.wantErr, err)
			default:
				assert.False(t, tt.done, "expected a result")
			}
		})
	}
}

func TestTrackerErrorEvents(t *testing.T) {
	tr := newTracker(false)
	tr.track("X")
	tr.onEvent(model.ErrorEvent{Session: "X", Error: "boom"})
	err := <-tr.result
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	tr = newTracker(false)
	tr.track("X")
	tr.onEvent(model.ProgressEvent{Session: "X", Error: "disk"})
	err = <-tr.result
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk")
}

func TestTrackerReplaysEarlyUpdates(t *testing.T) {
	tr := newTracker(true)
	tr.onEvent(model.CompleteEvent{Session: "X"})
	tr.onSave(&model.SaveTask{SessionID: "X", Status: model.TaskStatusCompleted})

	select {
	case <-tr.result:
		t.Fatal("result before the session is tracked")
	default:
	}

	tr.track("X")
	assert.NoError(t, <-tr.result)
}

func TestTrackerSaveFailure(t *testing.T) {
	tr := newTracker(true)
	tr.track("X")
	tr.onSave(&model.SaveTask{SessionID: "X", Status: model.TaskStatusSaving})
	tr.onSave(&model.SaveTask{SessionID: "X", Status: model.TaskStatusError, LastError: "disk full"})
	err := <-tr.result
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestConsoleViewNotices(t *testing.T) {
	var out bytes.Buffer
	v := newConsoleView(&out)
	v.ShowNotice(model.Notice{
		Level: model.NoticeError,
		Title: "Login required",
		Text:  "Upload cookies",
		Lines: []string{"export cookies.txt"},
	})
	v.ShowNotice(model.Notice{Level: model.NoticeSuccess, Text: "Ready", Link: "http://x/download_file/1", LinkText: "Save"})

	s := out.String()
	assert.Contains(t, s, "error: Login required\n  Upload cookies\n  - export cookies.txt\n")
	assert.Contains(t, s, "ok: Ready\n  Save: http://x/download_file/1\n")
	assert.Equal(t, "Upload cookies", v.lastError())
	assert.Len(t, v.Notices(), 2)
}

func TestConsoleViewProgress(t *testing.T) {
	var out bytes.Buffer
	v := newConsoleView(&out)

	v.SetProgress(session.InitialReadout())
	assert.Empty(t, out.String(), "no bar before the download starts")

	v.SetProgressVisible(true)
	v.SetProgress(session.Readout{Percent: 42, Status: "Downloading", Downloaded: "4 MB", Speed: "1 MB/s", ETA: "00:06"})
	v.SetProgressVisible(false)
	assert.Contains(t, out.String(), "Downloading")
	assert.Nil(t, v.bar)
}

func TestPromptConfirmer(t *testing.T) {
	var out bytes.Buffer
	confirm := promptConfirmer(strings.NewReader("y\nno\n"), &out)
	assert.True(t, confirm("Delete a?"))
	assert.False(t, confirm("Delete b?"))
	assert.False(t, confirm("Delete c?"), "EOF means no")
	assert.Contains(t, out.String(), "Delete a? [y/N] ")
}

func TestReadSecretFromPipe(t *testing.T) {
	var out bytes.Buffer
	pw, err := readSecret(strings.NewReader("hunter2\r\n"), &out, "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
	assert.Equal(t, "Password: ", out.String())
}

func TestInfoCommand(t *testing.T) {
	r := chi.NewRouter()
	r.Post(api.PathVideoInfo, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"info": map[string]any{
				"title":    "Clip",
				"uploader": "Someone",
				"duration": 125,
				"formats":  []map[string]any{{"quality": "720p", "ext": "mp4"}},
			},
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	out, err := execute(t, srv, "", "info", "https://vimeo.com/1")
	require.NoError(t, err)
	assert.Contains(t, out, "Clip\n")
	assert.Contains(t, out, "uploader: Someone")
	assert.Contains(t, out, "qualities:")
	assert.Contains(t, out, "720p")
}

func TestInfoCommandServerError(t *testing.T) {
	r := chi.NewRouter()
	r.Post(api.PathVideoInfo, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Unsupported URL"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	out, err := execute(t, srv, "", "info", "https://nowhere.example/x")
	require.Error(t, err)
	assert.Contains(t, out, "Unsupported URL")
}

func TestInfoCommandRejectsKind(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()

	_, err := execute(t, srv, "", "info", "--format", "gif", "https://vimeo.com/1")
	assert.Error(t, err)
}

func TestStatusCommand(t *testing.T) {
	r := chi.NewRouter()
	r.Get(api.PathBypassStatus, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"cookies_available": true,
			"available_cookies": []map[string]any{{"name": "yt", "uploaded": true}},
			"ffmpeg_available":  false,
			"notes":             []string{"use cookies for login-gated sites"},
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	out, err := execute(t, srv, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "ffmpeg:  not available")
	assert.Contains(t, out, "cookies: available")
	assert.Contains(t, out, "  - yt\n")
	assert.Contains(t, out, "note: use cookies for login-gated sites")
}

func TestContactCommandValidatesLocally(t *testing.T) {
	called := false
	r := chi.NewRouter()
	r.Post(api.PathContact, func(w http.ResponseWriter, r *http.Request) { called = true })
	srv := httptest.NewServer(r)
	defer srv.Close()

	out, err := execute(t, srv, "", "contact",
		"--name", "Ann", "--email", "ann@example.com", "--subject", "Hi",
		"--message", "short", "--accept-privacy")
	require.Error(t, err)
	assert.False(t, called, "invalid form must not be sent")
	assert.Contains(t, out, "message")
}

func TestCookiesDeleteDeclined(t *testing.T) {
	deleted := false
	r := chi.NewRouter()
	r.Delete("/delete_cookies/{name}", func(w http.ResponseWriter, r *http.Request) { deleted = true })
	r.Post("/delete_cookies/{name}", func(w http.ResponseWriter, r *http.Request) { deleted = true })
	srv := httptest.NewServer(r)
	defer srv.Close()

	out, err := execute(t, srv, "n\n", "cookies", "delete", "yt")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Contains(t, out, "[y/N]")
}

func TestHistoryCommandEmpty(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()

	out, err := execute(t, srv, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED  KIND  QUALITY  TITLE  PATH\n", out)
}

func TestConnectPushTimesOutOnDeadServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx := t.Context()
	tr := newTracker(false)
	start := time.Now()
	err := connectPush(ctx, ctx, srv.URL, nil, tr)
	require.Error(t, err)
	assert.Less(t, time.Since(start), ConnectTimeout)
	assert.False(t, errors.Is(err, ErrCancelled))
}

func TestLockedStore(t *testing.T) {
	r := chi.NewRouter()
	r.Get(api.PathBypassStatus, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ffmpeg_available": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	dataDir := t.TempDir()
	held, err := store.Open(filepath.Join(dataDir, StateDir))
	require.NoError(t, err)
	defer held.Close()

	out, err := executeIn(t, dataDir, srv, "", "status")
	require.NoError(t, err, "status does not need local state")
	assert.Contains(t, out, "ffmpeg:  available")

	_, err = executeIn(t, dataDir, srv, "", "history")
	assert.ErrorIs(t, err, store.ErrLocked)
}

func TestDesktopStateDoesNotBlockCLI(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()

	dataDir := t.TempDir()
	desktop, err := store.Open(filepath.Join(dataDir, "desktop"))
	require.NoError(t, err)
	defer desktop.Close()

	_, err = executeIn(t, dataDir, srv, "", "history")
	assert.NoError(t, err)
}
