package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/database"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
	applogger "github.com/fbomateus/gestao-tcc/pkg/logger"
)

func main() {
	configPath := os.Getenv("TCC_CONFIG")

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	// a CLI escreve no terminal; o log fica só para erros
	cfg.Log.Format = "console"
	cfg.Log.Level = "warn"
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao iniciar log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("falha ao conectar no banco", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao obter sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	repo := repository.NewRepository(db)
	cli := commandLine{
		users:   service.NewUserService(cfg, repo, logger),
		migrate: func() error { return database.RunMigrations(sqlDB, logger) },
		out:     os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.run(ctx, os.Args); err != nil {
		switch {
		case err == errHelp, err == flag.ErrHelp:
		default:
			if fe, ok := apperrors.AsFieldErrors(err); ok {
				for field, msg := range fe {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
				}
			} else {
				fmt.Fprintf(os.Stderr, "erro: %v\n", err)
			}
		}
		stop()
		os.Exit(1)
	}
}
