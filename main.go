package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/sessionctl/internal/config"
	"github.com/llehouerou/sessionctl/internal/console"
	"github.com/llehouerou/sessionctl/internal/engine"
	"github.com/llehouerou/sessionctl/internal/engine/audio"
	"github.com/llehouerou/sessionctl/internal/engine/sim"
	"github.com/llehouerou/sessionctl/internal/errmsg"
	"github.com/llehouerou/sessionctl/internal/history"
	applog "github.com/llehouerou/sessionctl/internal/log"
	"github.com/llehouerou/sessionctl/internal/orientation"
	"github.com/llehouerou/sessionctl/internal/session"
	"github.com/llehouerou/sessionctl/internal/stderr"
	"github.com/llehouerou/sessionctl/internal/trust"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(files []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logFile, err := openLogFile()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logFile.Close()
	applog.Configure(applog.Config{Level: cfg.LogLevel(), Output: logFile})
	logger := applog.WithComponent("main")

	// Audio backends write to fd 2 and would tear the console layout.
	capture, err := stderr.Start(func(line string) {
		logger.Warn().Str("source", "stderr").Msg(line)
	})
	if err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer capture.Stop()

	// Closed after the session so its final Unload is recorded.
	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	sensor := orientation.NewManualSensor(true)
	surface := console.NewSurface()
	sess, err := session.New(session.Options{
		Factory: engine.Switch{
			Audio: audio.NewFactory(applog.WithComponent("audio")),
			Video: sim.Factory{},
		},
		Trust:            trust.NewProbe(cfg.Trust.ProbePaths),
		Sensor:           sensor,
		Surface:          surface,
		ProgressInterval: cfg.ProgressInterval(),
		AutoFullscreen:   cfg.Session.AutoFullscreen,
		EnableControls:   cfg.Session.EnableControls,
	})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer sess.Close()

	opts := console.Options{
		Session:        sess,
		Sensor:         sensor,
		Surface:        surface,
		Catalog:        append(console.FromFiles(files), console.DemoCatalog()...),
		AutoFullscreen: cfg.Session.AutoFullscreen,
		EnableControls: cfg.Session.EnableControls,
	}
	if store != nil {
		rec := history.NewRecorder(store, sess, true, applog.WithComponent("history"))
		sess.Listen(rec.Listen)
		opts.History = store
	}

	p := tea.NewProgram(console.New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}

// openHistory returns nil when history is disabled or cannot be opened.
func openHistory(cfg *config.Config, logger zerolog.Logger) *history.Store {
	if !cfg.HistoryEnabled() {
		return nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		logger.Warn().Msg(errmsg.Format(errmsg.OpHistoryOpen, err))
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		logger.Warn().Str("path", path).Msg(errmsg.Format(errmsg.OpHistoryOpen, err))
		return nil
	}
	return store
}

func openLogFile() (*os.File, error) {
	path, err := xdg.StateFile(filepath.Join("sessionctl", "sessionctl.log"))
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
