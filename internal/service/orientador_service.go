package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/repository"
)

var ErrOrientadorNotFound = errors.New("Orientador não encontrado.")

// OrientadorService diretório de orientadores
type OrientadorService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id string) (*dto.OrientadorDetailResponse, error)
}

type orientadorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOrientadorService cria OrientadorService
func NewOrientadorService(repo *repository.Repository, logger *zap.Logger) OrientadorService {
	return &orientadorService{repo: repo, logger: logger}
}

func (s *orientadorService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListOrientadoresAtivos(ctx)
	if err != nil {
		s.logger.Error("falha ao listar orientadores", zap.Error(err))
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *orientadorService) Get(ctx context.Context, id string) (*dto.OrientadorDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrientadorNotFound
		}
		return nil, err
	}
	if !user.IsOrientador() {
		return nil, ErrOrientadorNotFound
	}

	temas, err := s.repo.Tema.List(ctx, repository.TemaFilter{OrientadorID: user.UserID})
	if err != nil {
		s.logger.Error("falha ao listar temas do orientador", zap.Error(err))
		return nil, err
	}

	return &dto.OrientadorDetailResponse{
		Orientador: toUserResponse(user),
		Temas:      toTemaResponses(temas),
	}, nil
}
