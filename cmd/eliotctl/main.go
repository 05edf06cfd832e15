// Command eliotctl drives the media download service from a terminal: it
// analyzes URLs, runs downloads with live progress, manages cookie files and
// lists local history.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/config"
	"github.com/ytget/eliot-client/internal/store"
)

var version = "dev"

// StateDir is the store directory under the data dir. The desktop app keeps
// its own, so both can run at once.
const StateDir = "cli"

var flags config.Flags

var rootCmd = &cobra.Command{
	Use:           "eliotctl",
	Short:         "Command-line client for the Eliot media download service",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flags.Server, "server", "", "backend base URL (overrides stored setting)")
	f.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.DataDir, "data-dir", "", "directory for local state (default: user config dir)")
	f.StringVar(&flags.ConfigPath, "config", "", "TOML config file (default: <data-dir>/eliot.toml)")

	rootCmd.AddCommand(
		newInfoCmd(),
		newDownloadCmd(),
		newCookiesCmd(),
		newHistoryCmd(),
		newStatusCmd(),
		newLoginCmd(),
		newContactCmd(),
		newSettingsCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute eliotctl command")
	}
}

// env is what every subcommand runs against. store is nil when another
// eliotctl holds it and the command can do without.
type env struct {
	ctx      context.Context
	store    *store.Store
	settings *config.Settings
	client   *api.Client
}

// setup resolves configuration, opens local state and builds the client.
// The returned cleanup closes the store and releases the signal handler.
// Without needStore a locked store falls back to in-process settings.
func setup(cmd *cobra.Command, needStore bool) (*env, func(), error) {
	file, err := flags.Resolve()
	if err != nil {
		return nil, nil, err
	}
	if err := config.SetupLogger(file.LogLevel); err != nil {
		return nil, nil, err
	}

	var prefs config.Preferences
	st, err := store.Open(filepath.Join(file.DataDir, StateDir))
	switch {
	case err == nil:
		prefs = st.Prefs()
	case errors.Is(err, store.ErrLocked) && !needStore:
		log.Warn().Err(err).Msg("[eliotctl] stored settings unavailable, using defaults")
		st = nil
		prefs = config.NewMemoryPreferences()
	default:
		return nil, nil, err
	}
	settings := config.NewSettings(prefs)
	settings.Apply(file)

	client, err := api.New(settings.GetServerURL())
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("create api client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	cleanup := func() {
		stop()
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("[eliotctl] close store")
		}
	}
	return &env{ctx: ctx, store: st, settings: settings, client: client}, cleanup, nil
}

type runFunc func(e *env, cmd *cobra.Command, args []string) error

// run wraps a subcommand body with setup and cleanup
func run(fn runFunc) func(*cobra.Command, []string) error {
	return wrap(false, fn)
}

// runStore is run for commands that read or write local state
func runStore(fn runFunc) func(*cobra.Command, []string) error {
	return wrap(true, fn)
}

func wrap(needStore bool, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := setup(cmd, needStore)
		if err != nil {
			return err
		}
		defer cleanup()
		return fn(e, cmd, args)
	}
}
