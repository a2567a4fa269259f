// tasks keeps a persisted task list: add a task, mark it completed, remove
// it. The list is saved in full after every change.
//
// Usage:
//
//	tasks [flags] add <title...>
//	tasks [flags] ls
//	tasks [flags] done <index>
//	tasks [flags] rm <index>
//	tasks [flags] ui
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/Makepad-fr/tasks/internal/cli"
	"github.com/Makepad-fr/tasks/internal/config"
	"github.com/Makepad-fr/tasks/internal/exitcode"
	"github.com/Makepad-fr/tasks/internal/logging"
	"github.com/Makepad-fr/tasks/internal/store"
	"github.com/Makepad-fr/tasks/internal/store/jsonstore"
	"github.com/Makepad-fr/tasks/internal/store/sqlitestore"
	"github.com/Makepad-fr/tasks/internal/tasklist"
	"github.com/Makepad-fr/tasks/internal/tui"
	"github.com/Makepad-fr/tasks/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		backend    string
		dataPath   string
		theme      string
		color      string
		logLevel   string
		group      bool
	)

	// Root flags (apply to every subcommand). Parsing stops at the
	// subcommand so titles like "-1 call back" stay intact.
	flagSet := pflag.NewFlagSet("tasks", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", "", "YAML config file")
	flagSet.StringVar(&backend, "backend", "", "storage backend: file or sqlite")
	flagSet.StringVar(&dataPath, "data", "", "data directory (file) or database path (sqlite)")
	flagSet.StringVar(&theme, "theme", "", "classic, neon or mono")
	flagSet.StringVar(&color, "color", "", "auto, always or never")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flagSet.BoolVar(&group, "group", true, "group ls output by to do / completed")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cli.PrintHelp(stdout)
			return exitcode.Success
		}
		ui.Fail(stderr, err.Error())
		return exitcode.Usage
	}
	if help, _ := flagSet.GetBool("help"); help {
		cli.PrintHelp(stdout)
		return exitcode.Success
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		ui.Fail(stderr, "config: "+err.Error())
		return exitcode.Failure
	}
	if flagSet.Changed("backend") {
		cfg.Storage.Backend = backend
	}
	if flagSet.Changed("data") {
		cfg.Storage.Path = config.ExpandPath(dataPath)
	}
	if flagSet.Changed("theme") {
		cfg.UI.Theme = theme
	}
	if flagSet.Changed("color") {
		cfg.UI.Color = color
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flagSet.Changed("group") {
		cfg.UI.Group = group
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail(stderr, "config: "+err.Error())
		return exitcode.Usage
	}
	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorMode(cfg.UI.Color)

	rest := flagSet.Args()
	if len(rest) == 0 || isHelp(rest[0]) {
		return cli.Run(rest, cli.Env{Out: stdout, ErrOut: stderr})
	}

	logger, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		ui.Fail(stderr, "log: "+err.Error())
		return exitcode.Failure
	}
	defer closer.Close()

	// The TUI owns the terminal, so its records go to the status line (and
	// the log file, if configured) instead of stderr.
	var tuiHandler *tui.LogHandler
	if rest[0] == "ui" {
		level, _ := config.ParseLevel(cfg.Log.Level)
		tuiHandler = tui.NewLogHandler(max(level, slog.LevelWarn))
		if cfg.Log.File != "" {
			logger = slog.New(logging.Tee(logger.Handler(), tuiHandler))
		} else {
			logger = slog.New(tuiHandler)
		}
	}
	if cfg.Source != "" {
		logger.Debug("config loaded", "source", cfg.Source)
	}

	kv, err := openKV(cfg, logger)
	if err != nil {
		ui.Fail(stderr, "open: "+err.Error())
		return exitcode.Failure
	}
	defer kv.Close()

	s, err := tasklist.Open(kv, tasklist.WithLogger(logger))
	if err != nil {
		ui.Fail(stderr, "load: "+err.Error())
		return exitcode.Failure
	}

	return cli.Run(rest, cli.Env{
		Store:       s,
		Out:         stdout,
		ErrOut:      stderr,
		Group:       cfg.UI.Group,
		Interactive: func() error { return tui.Run(s, tuiHandler) },
	})
}

func openKV(cfg *config.Config, logger *slog.Logger) (store.KV, error) {
	switch cfg.Storage.Backend {
	case store.BackendSQLite:
		return sqlitestore.Open(sqlitestore.Config{Path: cfg.DataPath(), Logger: logger})
	case store.BackendFile:
		s, err := jsonstore.Open(cfg.DataPath())
		if err != nil {
			return nil, err
		}
		logger.Debug("storage opened", "backend", store.BackendFile, "dir", s.Dir())
		return s, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Storage.Backend)
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}
