package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/config"
	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/history"
	"github.com/harrison/speckit/internal/logger"
	"github.com/harrison/speckit/internal/research"
	"github.com/harrison/speckit/internal/workflow"
)

// appOptions selects which resources a command needs opened.
type appOptions struct {
	fileLog bool      // write a run log under cfg.LogDir
	history bool      // open the SQLite archive unless research.history_db is empty
	memory  bool      // keep documents in memory instead of on disk
	logOut  io.Writer // console log destination; defaults to the command's stdout
}

// app bundles the resources shared by the speckit subcommands.
type app struct {
	root    string
	cfg     *config.Config
	store   docstore.Store
	log     *logger.MultiLogger
	fileLog *logger.FileLogger
	archive *history.Store
}

// loadApp resolves the project root, loads and validates configuration
// (file, then persistent flags) and opens the resources opts asks for.
// Callers must Close the returned app.
func loadApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	root, err := config.FindProjectRoot(".")
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.ConfigPath(root)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	cfg.MergeWithFlags(
		changedString(cmd, "name"),
		changedString(cmd, "output-dir"),
		changedString(cmd, "format"),
		changedString(cmd, "agent"),
		changedString(cmd, "log-level"),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{root: root, cfg: cfg}

	if opts.memory {
		a.store = docstore.NewMemoryStore()
	} else {
		fs, err := docstore.NewFSStore(config.ResolvePath(root, cfg.Project.OutputDirectory))
		if err != nil {
			return nil, err
		}
		a.store = fs
	}

	logOut := opts.logOut
	if logOut == nil {
		logOut = cmd.OutOrStdout()
	}
	console := logger.NewConsoleLogger(logOut, cfg.LogLevel)

	if opts.fileLog {
		fl, err := logger.NewFileLoggerWithDirAndLevel(config.ResolvePath(root, cfg.LogDir), cfg.LogLevel)
		if err != nil {
			console.LogWarn(fmt.Sprintf("File logging disabled: %v", err))
		} else {
			a.fileLog = fl
		}
	}
	if a.fileLog != nil {
		a.log = logger.NewMultiLogger(console, a.fileLog)
	} else {
		a.log = logger.NewMultiLogger(console)
	}

	if opts.history && cfg.Research.HistoryDB != "" {
		archive, err := history.NewStore(config.ResolvePath(root, cfg.Research.HistoryDB))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		a.archive = archive
	}

	return a, nil
}

// Close releases the file logger and the archive.
func (a *app) Close() {
	if a.fileLog != nil {
		a.fileLog.Close()
	}
	if a.archive != nil {
		a.archive.Close()
	}
}

// engine builds a workflow engine over the app's store, archiving reports
// when the history store is open.
func (a *app) engine() *workflow.Engine {
	var opts []workflow.Option
	if a.archive != nil {
		opts = append(opts, workflow.WithRecorder(a.archive))
	}
	return workflow.NewEngine(a.cfg.Project, a.store, a.log, opts...)
}

// orchestrator builds a research orchestrator from the research settings.
// A missing credential is reported once and puts it in mock mode; so does
// mock.
func (a *app) orchestrator(mock bool, extra ...research.Option) *research.Orchestrator {
	rc := a.cfg.Research
	var key string
	if !mock {
		key = rc.ResolveAPIKey(a.root)
		if key == "" {
			a.log.LogWarn(fmt.Sprintf("%s is not set; research will use mock responses", rc.APIKeyEnv))
		}
	}

	var opts []research.Option
	if a.archive != nil {
		opts = append(opts, research.WithRecorder(a.archive))
	}
	opts = append(opts, extra...)
	return research.NewOrchestrator(research.Options{
		APIKey:  key,
		BaseURL: rc.BaseURL,
		Timeout: rc.Timeout,
		Pause:   rc.Pause,
	}, a.log, opts...)
}

// ensureHome creates the .speckit directory under the project root.
func (a *app) ensureHome() error {
	if err := os.MkdirAll(filepath.Join(a.root, config.HomeDirName), 0755); err != nil {
		return fmt.Errorf("create %s: %w", config.HomeDirName, err)
	}
	return nil
}

// changedString returns the flag's value only when the user set it.
func changedString(cmd *cobra.Command, name string) *string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v := f.Value.String()
	return &v
}
