package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/platform"
)

// ProgressInterval is the minimum time between progress notifications
const ProgressInterval = 250 * time.Millisecond

// partSuffix marks a file that is still being written
const partSuffix = ".part"

// Service handles save operations
type Service struct {
	fetcher Fetcher
	history History

	tasks       map[string]*model.SaveTask
	requests    map[string]model.SaveRequest
	cancels     map[string]context.CancelFunc
	scheduled   map[string]bool
	targets     map[string]bool // paths reserved by saves in flight
	order       []string
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	downloadDir string
	autoReveal  bool
	reveal      func(path string) error
	onUpdate    func(*model.SaveTask) // callback for UI updates
}

// Option configures a Service
type Option func(*Service)

// WithHistory records every completed save
func WithHistory(h History) Option {
	return func(s *Service) { s.history = h }
}

// WithRevealFunc replaces the file manager reveal used for auto-reveal
func WithRevealFunc(f func(path string) error) Option {
	return func(s *Service) { s.reveal = f }
}

// NewService creates a new save service
func NewService(fetcher Fetcher, downloadDir string, maxParallel int, opts ...Option) *Service {
	if maxParallel < 1 {
		maxParallel = 1
	}
	s := &Service{
		fetcher:     fetcher,
		tasks:       make(map[string]*model.SaveTask),
		requests:    make(map[string]model.SaveRequest),
		cancels:     make(map[string]context.CancelFunc),
		scheduled:   make(map[string]bool),
		targets:     make(map[string]bool),
		maxParallel: maxParallel,
		downloadDir: downloadDir,
		reveal:      platform.OpenFileInManager,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.SaveTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// SetMaxParallel sets the maximum number of parallel saves
func (s *Service) SetMaxParallel(max int) {
	if max < 1 {
		max = 1
	}
	s.tasksMutex.Lock()
	s.maxParallel = max
	s.tasksMutex.Unlock()
	s.startNextPendingTask()
}

// SetDownloadDirectory sets the download directory for new tasks
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.downloadDir = dir
}

// SetAutoReveal enables revealing saved files in the file manager
func (s *Service) SetAutoReveal(enabled bool) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.autoReveal = enabled
}

// Save queues the finished file of a session. Errors are logged; the task
// carries them for the UI.
func (s *Service) Save(req model.SaveRequest) {
	if _, err := s.AddTask(req); err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("[save] not queued")
	}
}

// AddTask adds a new save task
func (s *Service) AddTask(req model.SaveRequest) (*model.SaveTask, error) {
	if req.SessionID == "" {
		return nil, errors.New("session id is empty")
	}

	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	// Check for duplicate sessions
	for _, task := range s.tasks {
		if task.SessionID == req.SessionID && !task.Status.IsFinished() {
			return nil, fmt.Errorf("task already exists for session: %s", req.SessionID)
		}
	}

	task := &model.SaveTask{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Filename:  req.Filename,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}

	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	s.requests[task.ID] = req

	// Try to start task if we have capacity
	if s.activeCount < s.maxParallel {
		s.activeCount++
		s.scheduled[task.ID] = true
		go s.startTask(task)
	}

	return task, nil
}

// GetTask returns a copy of a task by ID
func (s *Service) GetTask(id string) (*model.SaveTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	cp := *task
	return &cp, true
}

// GetAllTasks returns copies of all tasks in the order they were added
func (s *Service) GetAllTasks() []*model.SaveTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.SaveTask, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.tasks[id]
		tasks = append(tasks, &cp)
	}
	return tasks
}

// StopTask stops a pending or running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task not found: %s", id)
	}
	if task.Status.IsFinished() {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is not active: %s", task.Status)
	}

	if task.Status == model.TaskStatusSaving {
		// The task goroutine reports the final status
		if cancel, ok := s.cancels[id]; ok {
			cancel()
		}
		s.tasksMutex.Unlock()
		return nil
	}

	task.Status = model.TaskStatusStopped
	task.FinishedAt = time.Now()
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(&snapshot)
	return nil
}

// RemoveTask forgets a finished task
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}
	if !task.Status.IsFinished() {
		return fmt.Errorf("task is still active: %s", task.Status)
	}

	delete(s.tasks, id)
	delete(s.requests, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// startTask saves a task. The caller has already counted it as active.
func (s *Service) startTask(task *model.SaveTask) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.tasksMutex.Lock()
	if task.Status != model.TaskStatusPending {
		// Stopped while queued
		s.activeCount--
		delete(s.scheduled, task.ID)
		s.tasksMutex.Unlock()
		s.startNextPendingTask()
		return
	}
	task.Status = model.TaskStatusSaving
	s.cancels[task.ID] = cancel
	req := s.requests[task.ID]
	dir := s.downloadDir
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(&snapshot)

	defer func() {
		s.tasksMutex.Lock()
		s.activeCount--
		delete(s.cancels, task.ID)
		delete(s.scheduled, task.ID)
		s.tasksMutex.Unlock()

		// Try to start next pending task
		s.startNextPendingTask()
	}()

	outputPath, err := s.saveFile(ctx, task, dir)

	finishedAt := time.Now()
	if err == nil {
		s.tasksMutex.RLock()
		snapshot = *task
		autoReveal := s.autoReveal
		s.tasksMutex.RUnlock()
		snapshot.OutputPath = outputPath
		snapshot.FinishedAt = finishedAt

		log.Info().Str("task_id", task.ID).Str("path", outputPath).Int64("bytes", snapshot.Written).Msg("[save] completed")
		s.recordHistory(req, &snapshot)
		if autoReveal {
			if rerr := s.reveal(outputPath); rerr != nil {
				log.Warn().Err(rerr).Str("path", outputPath).Msg("[save] reveal failed")
			}
		}
	} else {
		log.Error().Err(err).Str("task_id", task.ID).Str("session_id", task.SessionID).Msg("[save] failed")
	}

	s.tasksMutex.Lock()
	switch {
	case err != nil && errors.Is(ctx.Err(), context.Canceled):
		task.Status = model.TaskStatusStopped
	case err != nil:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	default:
		task.Status = model.TaskStatusCompleted
		task.OutputPath = outputPath
	}
	task.FinishedAt = finishedAt
	snapshot = *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(&snapshot)
}

// saveFile streams the session file into dir and returns the final path
func (s *Service) saveFile(ctx context.Context, task *model.SaveTask, dir string) (string, error) {
	fd, err := s.fetcher.DownloadFile(ctx, task.SessionID)
	if err != nil {
		return "", err
	}
	defer fd.Body.Close()

	name := task.Filename
	if name == "" {
		name = fd.Filename
	}
	if name == "" {
		name = task.SessionID
	}

	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}

	s.tasksMutex.Lock()
	target, err := platform.UniquePathFunc(dir, name, func(p string) bool { return s.targets[p] })
	if err != nil {
		s.tasksMutex.Unlock()
		return "", err
	}
	s.targets[target] = true
	if task.Filename == "" {
		task.Filename = platform.SanitizeFilename(name)
	}
	if fd.Size > 0 {
		task.Total = fd.Size
	}
	s.tasksMutex.Unlock()
	defer func() {
		s.tasksMutex.Lock()
		delete(s.targets, target)
		s.tasksMutex.Unlock()
	}()

	part := target + partSuffix
	f, err := os.Create(part)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", part, err)
	}

	pw := &progressWriter{service: s, task: task}
	_, err = io.Copy(f, io.TeeReader(fd.Body, pw))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("write %s: %w", target, err)
	}

	if err := os.Rename(part, target); err != nil {
		_ = os.Remove(part)
		return "", fmt.Errorf("rename %s: %w", part, err)
	}
	return target, nil
}

func (s *Service) recordHistory(req model.SaveRequest, task *model.SaveTask) {
	if s.history == nil {
		return
	}
	entry := model.HistoryEntry{
		SessionID:   task.SessionID,
		URL:         req.SourceURL,
		Kind:        req.Kind,
		Quality:     req.Quality,
		Title:       req.Title,
		Filename:    task.Filename,
		SavedPath:   task.OutputPath,
		CompletedAt: task.FinishedAt,
	}
	if err := s.history.AppendHistory(entry); err != nil {
		log.Warn().Err(err).Str("session_id", task.SessionID).Msg("[save] history not recorded")
	}
}

// startNextPendingTask starts the oldest pending task if we have capacity
func (s *Service) startNextPendingTask() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, id := range s.order {
		if s.activeCount >= s.maxParallel {
			return
		}
		task := s.tasks[id]
		if task.Status == model.TaskStatusPending && !s.scheduled[id] {
			s.activeCount++
			s.scheduled[id] = true
			go s.startTask(task)
		}
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.SaveTask) {
	s.tasksMutex.RLock()
	cb := s.onUpdate
	s.tasksMutex.RUnlock()
	if cb != nil {
		cb(task)
	}
}

// progressWriter counts bytes written and reports at most every ProgressInterval
type progressWriter struct {
	service  *Service
	task     *model.SaveTask
	lastSent time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	s := pw.service
	s.tasksMutex.Lock()
	pw.task.Written += int64(len(p))
	snapshot := *pw.task
	s.tasksMutex.Unlock()

	if now := time.Now(); now.Sub(pw.lastSent) >= ProgressInterval {
		pw.lastSent = now
		s.notifyUpdate(&snapshot)
	}
	return len(p), nil
}
