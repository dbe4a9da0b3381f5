package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/api/handler"
	"github.com/fbomateus/gestao-tcc/internal/api/middleware"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/pkg/jwt"
	"github.com/fbomateus/gestao-tcc/pkg/redis"
)

// folga para os campos do formulário além do arquivo
const multipartOverhead = 1 << 20

// jsonBodyLimit limite das demais rotas com corpo
const jsonBodyLimit = 1 << 20

// Setup monta o engine gin com middlewares e rotas.
// rdb e db podem ser nil: sem Redis não há blacklist nem rate limit,
// sem banco o /health não faz ping.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// interfaces nil de verdade quando não há Redis
	var (
		blacklist middleware.Blacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── middlewares globais ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", health(db))

	jsonLimit := middleware.BodyLimit(jsonBodyLimit)
	uploadLimit := middleware.BodyLimit(cfg.Storage.MaxFileSize + multipartOverhead)

	v1 := r.Group("/api/v1")
	{
		// autenticação (pública)
		auth := v1.Group("/auth", jsonLimit)
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login",
				middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger),
				h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			authorized.GET("/dashboard", h.Dashboard.GetDashboard)

			// usuários
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(model.TipoAdmin), h.User.ListUsers)
				users.POST("", middleware.RoleAuth(model.TipoAdmin), jsonLimit, h.User.CreateUser)
				users.GET("/:id", h.User.GetUser) // ADMIN ou o próprio (serviço)
				users.PUT("/:id", middleware.RoleAuth(model.TipoAdmin), jsonLimit, h.User.UpdateUser)
			}

			// orientadores
			orientadores := authorized.Group("/orientadores")
			{
				orientadores.GET("", h.Orientador.ListOrientadores)
				orientadores.GET("/:id", h.Orientador.GetOrientador)
			}

			// temas (escopo por papel no serviço)
			temas := authorized.Group("/temas")
			{
				temas.GET("", h.Tema.ListTemas)
				temas.POST("", jsonLimit, h.Tema.CreateTema) // somente ALUNO (serviço)
				temas.GET("/:id", h.Tema.GetTema)
				temas.PUT("/:id", jsonLimit, h.Tema.UpdateTema)
				temas.DELETE("/:id", h.Tema.DeleteTema)

				temas.GET("/:id/entregas", h.Entrega.ListEntregas)
				temas.POST("/:id/entregas", uploadLimit, h.Entrega.CreateEntrega)
			}

			// entregas
			entregas := authorized.Group("/entregas")
			{
				entregas.GET("/:id/arquivo", h.Entrega.DownloadArquivo)
				entregas.PUT("/:id/feedback", jsonLimit, h.Entrega.EntregaFeedback)
			}

			// exportação
			export := authorized.Group("/export")
			{
				export.GET("/temas", middleware.RoleAuth(model.TipoAdmin), h.Export.ExportTemas)
				export.GET("/calendario", h.Export.ExportCalendario)
			}

			// notificações
			if h.WS != nil {
				authorized.GET("/ws", h.WS.ServeWS)
			}
		}
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
