package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/habsync/internal/events"
	"github.com/desertthunder/habsync/internal/formatter"
	"github.com/desertthunder/habsync/internal/repositories"
	"github.com/desertthunder/habsync/internal/services"
	"github.com/desertthunder/habsync/internal/shared"
	"github.com/desertthunder/habsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	service    services.Service
	gate       *services.Gate
	hub        *events.Hub
	engine     *tasks.NoteEngine
	db         *sql.DB
	history    *repositories.SyncRunRepository
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Service    services.Service
	Gate       *services.Gate
	Hub        *events.Hub
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Hub == nil {
		opts.Hub = events.NewHub()
	}

	var historyRepo *repositories.SyncRunRepository
	var recorder tasks.HistoryRecorder
	if opts.DB != nil {
		historyRepo = repositories.NewSyncRunRepository(opts.DB)
		recorder = repositories.NewHistory(historyRepo)
	}

	engine := tasks.NewNoteEngine(tasks.NoteEngineOpts{
		Service: opts.Service,
		Hub:     opts.Hub,
		Folder:  opts.Config.Notes.Folder,
		Settings: formatter.Settings{
			Indent: opts.Config.Notes.Indent,
			Tag:    opts.Config.Notes.Tag,
		},
		History: recorder,
		Logger:  opts.Logger,
	})

	return &Runner{
		config:     opts.Config,
		service:    opts.Service,
		gate:       opts.Gate,
		hub:        opts.Hub,
		engine:     engine,
		db:         opts.DB,
		history:    historyRepo,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when a command redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, syncCommand, tasksCommand, statusCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
