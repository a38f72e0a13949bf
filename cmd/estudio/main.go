package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/estudio/internal/cli"
	"github.com/alexanderramin/estudio/internal/config"
	"github.com/alexanderramin/estudio/internal/db"
	"github.com/alexanderramin/estudio/internal/intelligence"
	"github.com/alexanderramin/estudio/internal/llm"
	"github.com/alexanderramin/estudio/internal/logging"
	"github.com/alexanderramin/estudio/internal/metrics"
	"github.com/alexanderramin/estudio/internal/repository"
	"github.com/alexanderramin/estudio/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("ESTUDIO_CONFIG"))
	if err != nil {
		return err
	}

	// The studio owns the terminal, so its log goes to a file.
	logFile := cfg.Log.File
	if logFile == "" && runsStudio(os.Args[1:]) {
		home, err := config.Home()
		if err != nil {
			return err
		}
		logFile = filepath.Join(home, "estudio.log")
	}
	logger, closeLog, err := logging.Init(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	calendarRepo := repository.NewSQLiteCalendarRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	tokens := service.NewTokenManager(cfg.JWTSecret(), cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	m := metrics.New()

	llmCfg := cfg.LLMSettings()
	observers := llm.MultiObserver{m}
	if llmCfg.LogCalls {
		observers = append(observers, llm.NewLogObserver(logger))
	}
	client, err := llm.NewClient(llmCfg, observers)
	if err != nil {
		logger.Warn("llm client unavailable, using fallbacks", "err", err)
		client = llm.DisabledClient{}
	}

	exportDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("finding working directory: %w", err)
	}

	app := &cli.App{
		Auth:     service.NewAuthService(userRepo, uow, tokens, logger),
		Admin:    service.NewAdminService(userRepo, uow),
		Calendar: service.NewCalendarService(calendarRepo, uow, service.NewLogUseCaseObserver(logger)),
		Collaborator: intelligence.NewCollaborator(client,
			intelligence.WithLogger(logger),
			intelligence.WithRecorder(m)),
		Session:     service.NewSessionFile(cfg.Auth.SessionFile),
		LLM:         client,
		LLMConfig:   llmCfg,
		Metrics:     m,
		Logger:      logger,
		ServerAddr:  cfg.Server.Addr,
		CORSOrigins: cfg.Server.CORSOrigins,
		ExportDir:   exportDir,
	}

	// Detect interactive terminal for the studio entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// runsStudio reports whether args invoke the full-screen studio.
func runsStudio(args []string) bool {
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			continue
		}
		return a == "plan" || a == "studio"
	}
	return false
}
