package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	"github.com/fbomateus/gestao-tcc/pkg/jwt"
	"github.com/fbomateus/gestao-tcc/pkg/storage"
)

// Tipos de evento enviados aos usuários conectados
const (
	EventTemaCriado         = "tema_criado"
	EventEntregaCriada      = "entrega_criada"
	EventFeedbackRegistrado = "feedback_registrado"
)

// Notifier entrega eventos em tempo real a um usuário (melhor esforço)
type Notifier interface {
	Notify(userID, eventType string, data interface{})
}

// TokenStore blacklist de tokens revogados
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Deps dependências de infraestrutura dos serviços.
// Tokens e Notifier podem ser nil.
type Deps struct {
	Config   *config.Config
	Repo     *repository.Repository
	JWT      *jwt.Manager
	Tokens   TokenStore
	Store    storage.Store
	Notifier Notifier
	Logger   *zap.Logger
}

// Service agrega todos os serviços
type Service struct {
	Auth       AuthService
	User       UserService
	Orientador OrientadorService
	Dashboard  DashboardService
	Tema       TemaService
	Entrega    EntregaService
	Export     ExportService
}

// NewService cria o agregado
func NewService(d Deps) *Service {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	clk := newClock(d.Config.Server.Location())

	return &Service{
		Auth:       NewAuthService(d.Config, d.Repo, d.JWT, d.Tokens, d.Logger),
		User:       NewUserService(d.Config, d.Repo, d.Logger),
		Orientador: NewOrientadorService(d.Repo, d.Logger),
		Dashboard:  NewDashboardService(d.Repo, d.Logger),
		Tema:       NewTemaService(d.Repo, d.Store, d.Notifier, d.Logger),
		Entrega:    NewEntregaService(d.Config, d.Repo, d.Store, d.Notifier, clk, d.Logger),
		Export:     NewExportService(d.Repo, clk, d.Logger),
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, interface{}) {}

// clock data corrente no fuso da aplicação
type clock struct {
	loc *time.Location
	now func() time.Time
}

func newClock(loc *time.Location) clock {
	return clock{loc: loc, now: time.Now}
}

// Now hora corrente no fuso configurado
func (c clock) Now() time.Time { return c.now().In(c.loc) }
