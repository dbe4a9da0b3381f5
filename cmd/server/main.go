package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/api/handler"
	"github.com/fbomateus/gestao-tcc/internal/api/middleware"
	"github.com/fbomateus/gestao-tcc/internal/api/router"
	"github.com/fbomateus/gestao-tcc/internal/notify"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/database"
	"github.com/fbomateus/gestao-tcc/pkg/jwt"
	applogger "github.com/fbomateus/gestao-tcc/pkg/logger"
	"github.com/fbomateus/gestao-tcc/pkg/redis"
	"github.com/fbomateus/gestao-tcc/pkg/storage"
	"github.com/fbomateus/gestao-tcc/pkg/validation"
)

func main() {
	// 1. configuração
	cfg, err := config.Load(os.Getenv("TCC_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	// 2. log
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao iniciar log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("iniciando aplicação",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Server.Timezone),
	)

	// 3. validação (traduções pt_BR no binding do gin)
	if err := validation.Init(); err != nil {
		logger.Fatal("falha ao registrar validações", zap.Error(err))
	}

	// 4. banco + migrações
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("falha ao conectar no banco", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao obter sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("falha nas migrações", zap.Error(err))
	}

	// 5. Redis (opcional: sem ele, logout e rate limit viram no-op)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis indisponível, blacklist de tokens e rate limit desativados", zap.Error(err))
		rdb = nil
	}
	var tokens service.TokenStore
	if rdb != nil {
		tokens = rdb
	}

	// 6. arquivos das entregas
	store, err := storage.NewLocal(cfg.Storage.Dir)
	if err != nil {
		logger.Fatal("falha ao preparar armazenamento", zap.Error(err), zap.String("dir", cfg.Storage.Dir))
	}

	// 7. notificações em tempo real
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := notify.NewHub(logger)
	go hub.Run(ctx)

	// 8. injeção: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(service.Deps{
		Config:   cfg,
		Repo:     repo,
		JWT:      jwtMgr,
		Tokens:   tokens,
		Store:    store,
		Notifier: hub,
		Logger:   logger,
	})
	ws := handler.NewWSHandler(hub, middleware.OriginAllowed(cfg.Server.CORS.AllowOrigins), logger)
	h := handler.NewHandler(svc, ws)

	// 9. rotas
	engine := router.Setup(cfg, h, jwtMgr, rdb, db, logger)

	// 10. servidor HTTP com desligamento gracioso
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute, // uploads de até storage.max_file_size
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("servidor HTTP no ar", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("servidor HTTP falhou", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("sinal de desligamento recebido, encerrando")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("falha ao encerrar servidor", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("falha ao fechar banco", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("servidor encerrado")
}
