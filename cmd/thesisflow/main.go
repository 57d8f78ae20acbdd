package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"thesisflow/internal/cli"
	"thesisflow/internal/repository"
	"thesisflow/internal/service"
	"thesisflow/pkg/config"
	"thesisflow/pkg/logger"
	"thesisflow/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := pflag.String("data-dir", "", "directory holding the JSON collections (overrides DATA_DIR)")
	documentsDir := pflag.String("documents-dir", "", "directory for copied thesis artifacts (overrides DOCUMENTS_DIR)")
	exportsDir := pflag.String("exports-dir", "", "directory for search exports (overrides EXPORTS_DIR)")
	logLevel := pflag.String("log-level", "", "log level (overrides LOG_LEVEL)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	if *documentsDir != "" {
		cfg.Storage.DocumentsDir = *documentsDir
	}
	if *exportsDir != "" {
		cfg.Storage.ExportsDir = *exportsDir
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	documents, err := storage.NewLocalStorage(cfg.Storage.DocumentsDir)
	if err != nil {
		return fmt.Errorf("prepare document storage: %w", err)
	}
	exports, err := storage.NewLocalStorage(cfg.Storage.ExportsDir)
	if err != nil {
		return fmt.Errorf("prepare export storage: %w", err)
	}

	courses := repository.NewCourseRepository(cfg.Storage.DataDir)
	enrollments := repository.NewEnrollmentRepository(cfg.Storage.DataDir)
	defenses := repository.NewDefenseRepository(cfg.Storage.DataDir)
	theses := repository.NewThesisRepository(cfg.Storage.DataDir)
	users := repository.NewUserRepository(cfg.Storage.DataDir)

	validate := validator.New()
	ledger := service.NewCapacityLedger(courses, users, log)

	app := cli.NewApp(
		service.NewAuthService(users, cfg.Auth.BcryptCost, log),
		service.NewEnrollmentService(enrollments, courses, ledger, log),
		service.NewDefenseService(defenses, enrollments, users, ledger, documents, validate, log),
		service.NewGradingService(defenses, theses, ledger, log),
		service.NewArchiveService(theses, users, exports, log),
		documents,
		cli.NewConsole(os.Stdin, os.Stdout),
		log,
	)

	log.Info("starting thesisflow",
		zap.String("env", cfg.Env),
		zap.String("data_dir", cfg.Storage.DataDir))
	return app.Run()
}
