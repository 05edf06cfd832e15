package main

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/config"
	"github.com/ytget/eliot-client/internal/download"
	"github.com/ytget/eliot-client/internal/platform"
	"github.com/ytget/eliot-client/internal/push"
	"github.com/ytget/eliot-client/internal/store"
	"github.com/ytget/eliot-client/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.eliot"
	AppName = "Eliot"

	WindowWidth  = 800
	WindowHeight = 640

	// MaxParallelSaves bounds concurrent file fetches from the backend
	MaxParallelSaves = 2

	// StateDir is the store directory under the data dir; eliotctl uses its own
	StateDir = "desktop"
)

var flags config.Flags

var rootCmd = &cobra.Command{
	Use:     "eliot",
	Short:   "Desktop client for the Eliot media download service",
	Version: version,
	RunE:    runDesktop,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flags.Server, "server", "", "backend base URL (overrides stored setting)")
	f.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.DataDir, "data-dir", "", "directory for local state (default: user config dir)")
	f.StringVar(&flags.ConfigPath, "config", "", "TOML config file (default: <data-dir>/eliot.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute eliot command")
	}
}

func runDesktop(cmd *cobra.Command, args []string) error {
	file, err := flags.Resolve()
	if err != nil {
		return err
	}
	if err := config.SetupLogger(file.LogLevel); err != nil {
		return err
	}
	log.Info().Str("version", version).Msg("[main] starting")

	myApp := app.NewWithID(AppID)
	if icon, err := ui.LoadLogoResource(); err == nil {
		myApp.SetIcon(icon)
	}

	settings := config.NewSettings(myApp.Preferences())
	settings.Apply(file)
	myApp.Settings().SetTheme(ui.NewCompactTheme(settings.DarkMode()))

	client, err := api.New(settings.GetServerURL())
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	var history ui.HistoryStore
	saverOpts := []download.Option{}
	st, err := store.Open(filepath.Join(file.DataDir, StateDir))
	if err != nil {
		log.Warn().Err(err).Msg("[main] history disabled")
	} else {
		defer st.Close()
		history = st
		saverOpts = append(saverOpts, download.WithHistory(st))
	}

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		log.Warn().Err(err).Str("dir", downloadsDir).Msg("[main] failed to ensure downloads dir")
	}
	saver := download.NewService(client, downloadsDir, MaxParallelSaves, saverOpts...)
	saver.SetAutoReveal(settings.GetAutoRevealOnComplete())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	root := ui.NewRootUI(ctx, myApp, myWindow, ui.Deps{
		Client:   client,
		Settings: settings,
		Saver:    saver,
		History:  history,
	})

	pushClient, err := push.NewClient(settings.GetServerURL())
	if err != nil {
		return fmt.Errorf("create push client: %w", err)
	}
	// Run logs every drop and re-dials until the window closes
	go func() { _ = pushClient.Run(ctx, push.HandlerFunc(root.Session().HandleEvent)) }()

	myWindow.ShowAndRun()
	return nil
}
