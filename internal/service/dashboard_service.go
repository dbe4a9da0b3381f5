package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
)

// recentLimit entregas exibidas no painel
const recentLimit = 5

// DashboardService painel inicial por tipo de usuário
type DashboardService interface {
	Get(ctx context.Context, callerID, callerRole string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService cria DashboardService
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Get(ctx context.Context, callerID, callerRole string) (*dto.DashboardResponse, error) {
	switch callerRole {
	case model.TipoAluno:
		temas, err := s.repo.Tema.List(ctx, repository.TemaFilter{AlunoID: callerID})
		if err != nil {
			return nil, s.fail("temas", err)
		}
		entregas, err := s.repo.Entrega.RecentByAluno(ctx, callerID, recentLimit)
		if err != nil {
			return nil, s.fail("entregas", err)
		}
		return &dto.DashboardResponse{
			TipoDashboard:   dto.DashboardAluno,
			Temas:           toTemaResponses(temas),
			UltimasEntregas: toEntregaResponses(entregas),
		}, nil

	case model.TipoOrientador:
		temas, err := s.repo.Tema.List(ctx, repository.TemaFilter{OrientadorID: callerID})
		if err != nil {
			return nil, s.fail("temas", err)
		}
		entregas, err := s.repo.Entrega.RecentByOrientador(ctx, callerID, recentLimit)
		if err != nil {
			return nil, s.fail("entregas", err)
		}
		return &dto.DashboardResponse{
			TipoDashboard:    dto.DashboardOrientador,
			Temas:            toTemaResponses(temas),
			EntregasRecentes: toEntregaResponses(entregas),
		}, nil

	case model.TipoAdmin:
		users, err := s.repo.User.Count(ctx)
		if err != nil {
			return nil, s.fail("usuários", err)
		}
		temas, err := s.repo.Tema.Count(ctx)
		if err != nil {
			return nil, s.fail("temas", err)
		}
		entregas, err := s.repo.Entrega.Count(ctx)
		if err != nil {
			return nil, s.fail("entregas", err)
		}
		return &dto.DashboardResponse{
			TipoDashboard: dto.DashboardAdmin,
			TotalUsuarios: &users,
			TotalTemas:    &temas,
			TotalEntregas: &entregas,
		}, nil
	}

	return nil, ErrNoPermission
}

func (s *dashboardService) fail(what string, err error) error {
	s.logger.Error("falha ao montar painel", zap.String("consulta", what), zap.Error(err))
	return err
}
