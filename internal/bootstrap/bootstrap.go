package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	cataloginadapter "pmdrill/internal/modules/catalog/adapter/in"
	catalogoutadapter "pmdrill/internal/modules/catalog/adapter/out"
	catalogin "pmdrill/internal/modules/catalog/port/in"
	catalogservice "pmdrill/internal/modules/catalog/service"
	catalogusecase "pmdrill/internal/modules/catalog/usecase"
	coachinadapter "pmdrill/internal/modules/coach/adapter/in"
	coachoutadapter "pmdrill/internal/modules/coach/adapter/out"
	coachin "pmdrill/internal/modules/coach/port/in"
	coachservice "pmdrill/internal/modules/coach/service"
	coachusecase "pmdrill/internal/modules/coach/usecase"
	historyinadapter "pmdrill/internal/modules/history/adapter/in"
	historyoutadapter "pmdrill/internal/modules/history/adapter/out"
	historydto "pmdrill/internal/modules/history/dto"
	historyin "pmdrill/internal/modules/history/port/in"
	historyout "pmdrill/internal/modules/history/port/out"
	historyservice "pmdrill/internal/modules/history/service"
	historyusecase "pmdrill/internal/modules/history/usecase"
	interviewinadapter "pmdrill/internal/modules/interview/adapter/in"
	interviewoutadapter "pmdrill/internal/modules/interview/adapter/out"
	interviewin "pmdrill/internal/modules/interview/port/in"
	interviewservice "pmdrill/internal/modules/interview/service"
	interviewusecase "pmdrill/internal/modules/interview/usecase"
	"pmdrill/internal/platform/clock"
	"pmdrill/internal/platform/config"
	"pmdrill/internal/platform/id"
	"pmdrill/internal/platform/logging"
	uiapp "pmdrill/internal/ui/app"
)

const defaultCatalogFile = "catalog.yaml"

type App struct {
	CatalogCLI   cataloginadapter.CLIHandler
	InterviewCLI interviewinadapter.CLIHandler
	HistoryCLI   historyinadapter.CLIHandler
	CoachCLI     coachinadapter.CLIHandler

	// CatalogWatcher reloads the catalog when the user catalog file changes.
	CatalogWatcher *catalogoutadapter.Watcher
	Logger         hclog.Logger

	cfg         config.Config
	catalogPath string
	catalog     catalogin.Usecase
	interview   interviewin.Usecase
	history     historyin.Usecase
	coach       coachin.Usecase
	closers     []io.Closer
}

// New wires every module against the data directory in cfg. Log output
// goes to cfg.LogPath; callers must Close the returned App.
func New(cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	logger, logFile, err := logging.NewFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{Logger: logger, cfg: cfg, closers: []io.Closer{logFile}}
	if err := app.wire(); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire() error {
	cfg := a.cfg
	clk := clock.SystemClock{}
	ids := id.UUID{}

	catalogPath := cfg.CatalogPath
	if catalogPath == "" {
		catalogPath = filepath.Join(cfg.DataDir, defaultCatalogFile)
	}
	questionSource := catalogoutadapter.NewYAMLQuestionSource(catalogPath)
	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(questionSource, a.Logger), questionSource)
	watcher, err := catalogoutadapter.NewWatcher(catalogPath, func(ctx context.Context) error {
		_, err := catalogUC.Reload(ctx)
		return err
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("new catalog watcher: %w", err)
	}

	projector, err := historyoutadapter.NewSQLiteHistoryProjector(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("new history projector: %w", err)
	}
	a.closers = append(a.closers, projector)
	historyUC := historyusecase.NewInteractor(
		historyservice.NewHistoryService(historyoutadapter.NewFileHistoryStore(cfg.HistoryPath, a.Logger), projector, a.Logger),
		map[historydto.ExportTarget]historyout.ExportSink{
			historydto.TargetFile:      historyoutadapter.NewFileExportSink(cfg.ExportDir),
			historydto.TargetClipboard: historyoutadapter.NewClipboardExportSink(),
		},
	)

	sessionSvc := interviewservice.NewSessionService(
		clk,
		ids,
		interviewoutadapter.NewFileActiveSessionStore(cfg.ActiveSession, a.Logger),
		interviewoutadapter.NewHistoryArchiver(historyUC),
		cfg.MaxDuration,
		a.Logger,
	)
	interviewUC := interviewusecase.NewInteractor(sessionSvc, catalogUC, nil)

	coachSvc, err := coachservice.NewCoachService(
		coachoutadapter.NewFileManifestStore(cfg.PluginsDir),
		coachoutadapter.NewGRPCHost(a.Logger),
		cfg.CoachPlugin,
		cfg.CoachCacheSize,
		a.Logger,
	)
	if err != nil {
		return fmt.Errorf("new coach service: %w", err)
	}
	coachUC := coachusecase.NewInteractor(coachSvc)

	a.catalog, a.interview, a.history, a.coach = catalogUC, interviewUC, historyUC, coachUC
	a.catalogPath = catalogPath
	a.CatalogWatcher = watcher
	a.CatalogCLI = cataloginadapter.NewCLIHandler(catalogUC)
	a.InterviewCLI = interviewinadapter.NewCLIHandler(interviewUC)
	a.HistoryCLI = historyinadapter.NewCLIHandler(historyUC)
	a.CoachCLI = coachinadapter.NewCLIHandler(coachUC)
	return nil
}

func (a *App) Config() config.Config {
	return a.cfg
}

// CatalogPath is the user catalog merged over the built-in questions.
func (a *App) CatalogPath() string {
	return a.catalogPath
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.interview, app.history, app.catalog, app.coach, uiapp.Options{
		QuestionCount: app.cfg.QuestionCount,
		Randomize:     app.cfg.Randomize,
		MaxDuration:   app.cfg.MaxDuration,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := app.CatalogWatcher.Run(ctx); err != nil {
			app.Logger.Warn("catalog watcher stopped", "error", err)
		}
	}()
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
