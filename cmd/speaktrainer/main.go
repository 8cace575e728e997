package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/speaktrainer/internal/catalog"
	"github.com/alexanderramin/speaktrainer/internal/cli"
	"github.com/alexanderramin/speaktrainer/internal/config"
	"github.com/alexanderramin/speaktrainer/internal/dataset"
	"github.com/alexanderramin/speaktrainer/internal/db"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/export"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/alexanderramin/speaktrainer/internal/repository"
	"github.com/alexanderramin/speaktrainer/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.LogUseCases {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// The dataset record lives in SQLite unless a Redis server is configured.
	var kv repository.KVStore = repository.NewSQLiteKVStore(database)
	if cfg.RedisURL != "" {
		rs, err := repository.NewRedisKVStore(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rs.Close()
		kv = rs
	}

	seed, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return err
	}

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	datasets := loadDatasets(ctx, kv, seed, logger, observers...)

	recordings := service.NewRecordingService(
		repository.NewSQLiteRecordingRepo(database),
		export.NewWriter(cfg.ExportDir),
		db.NewSQLiteUnitOfWork(database),
		observers...,
	)

	app := &cli.App{
		Datasets:    datasets,
		Imports:     service.NewImportService(datasets, observers...),
		Recordings:  recordings,
		Capturer:    recorder.NewExecCapturer(recorder.ParseCommand(cfg.CaptureCommand)),
		Recognizers: recorder.NewRecognizerFactory(recorder.ParseCommand(cfg.STTCommand)),
		Lang:        cfg.Lang,
		STTEnabled:  cfg.STTEnabled,
	}

	// Detect interactive terminal for the bare entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// loadDatasets builds the dataset service and loads the working dataset.
// A failed write-back is logged; the loaded dataset stays in use.
func loadDatasets(ctx context.Context, kv repository.KVStore, seed domain.Dataset, logger *slog.Logger, observers ...service.UseCaseObserver) service.DatasetService {
	store := dataset.NewStore(kv, dataset.CurrentVersion, logger)
	datasets := service.NewDatasetService(store, seed, observers...)
	if _, err := datasets.Load(ctx); err != nil {
		logger.WarnContext(ctx, "dataset_save_failed", "key", store.Key(), "error", err.Error())
	}
	return datasets
}

// loadCatalog reads seed documents from dir, or the bundled catalog when dir
// is empty.
func loadCatalog(dir string) (domain.Dataset, error) {
	if dir == "" {
		return catalog.Bundled()
	}
	ds, err := catalog.Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", dir, err)
	}
	return ds, nil
}
