package download

import (
	"context"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
)

// Saver defines the interface for the save service.
type Saver interface {
	SetUpdateCallback(func(*model.SaveTask))
	Save(req model.SaveRequest)
	AddTask(req model.SaveRequest) (*model.SaveTask, error)
	GetTask(id string) (*model.SaveTask, bool)
	GetAllTasks() []*model.SaveTask
	StopTask(id string) error
	RemoveTask(id string) error

	// SetMaxParallel sets the maximum number of files fetched at once
	SetMaxParallel(max int)

	// SetDownloadDirectory sets the directory files are saved into
	SetDownloadDirectory(dir string)

	// SetAutoReveal reveals each saved file in the file manager when enabled
	SetAutoReveal(enabled bool)
}

// Fetcher opens the finished file of a backend session
type Fetcher interface {
	DownloadFile(ctx context.Context, sessionID string) (*api.FileDownload, error)
}

// History records completed saves
type History interface {
	AppendHistory(e model.HistoryEntry) error
}
