package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
	"github.com/fbomateus/gestao-tcc/pkg/storage"
)

// ── temas ──

var (
	ErrTemaNotFound      = errors.New("Tema não encontrado.")
	ErrSomenteAlunoCriar = errors.New("Somente alunos podem criar temas.")
)

const (
	msgRequired      = "Este campo é obrigatório."
	msgTituloExists  = "Você já possui um tema com este título."
	msgInvalidDate   = "Informe uma data válida."
	msgInvalidChoice = "Faça uma escolha válida. %s não é uma das escolhas disponíveis."
)

// TemaService CRUD de temas com escopo por papel:
// ALUNO vê os próprios, ORIENTADOR os que orienta, ADMIN todos.
// Fora do escopo o tema é tratado como inexistente.
type TemaService interface {
	List(ctx context.Context, req *dto.TemaListRequest, callerID, callerRole string) ([]dto.TemaResponse, error)
	Get(ctx context.Context, id, callerID, callerRole string) (*dto.TemaResponse, error)
	Create(ctx context.Context, req *dto.CreateTemaRequest, callerID, callerRole string) (*dto.TemaResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTemaRequest, callerID, callerRole string) (*dto.TemaResponse, error)
	Delete(ctx context.Context, id, callerID, callerRole string) error
}

type temaService struct {
	repo     *repository.Repository
	store    storage.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewTemaService cria TemaService
func NewTemaService(repo *repository.Repository, store storage.Store, notifier Notifier, logger *zap.Logger) TemaService {
	return &temaService{repo: repo, store: store, notifier: notifier, logger: logger}
}

// scopeFilter filtro de listagem do papel; ok=false para papel desconhecido
func scopeFilter(callerID, callerRole string) (repository.TemaFilter, bool) {
	switch callerRole {
	case model.TipoAluno:
		return repository.TemaFilter{AlunoID: callerID}, true
	case model.TipoOrientador:
		return repository.TemaFilter{OrientadorID: callerID}, true
	case model.TipoAdmin:
		return repository.TemaFilter{}, true
	}
	return repository.TemaFilter{}, false
}

func inScope(t *model.TemaTCC, callerID, callerRole string) bool {
	switch callerRole {
	case model.TipoAluno:
		return t.AlunoID == callerID
	case model.TipoOrientador:
		return t.IsOrientadoPor(callerID)
	case model.TipoAdmin:
		return true
	}
	return false
}

// ────────────────────── List / Get ──────────────────────

func (s *temaService) List(ctx context.Context, req *dto.TemaListRequest, callerID, callerRole string) ([]dto.TemaResponse, error) {
	filter, ok := scopeFilter(callerID, callerRole)
	if !ok {
		return []dto.TemaResponse{}, nil
	}
	filter.Status = req.Status

	temas, err := s.repo.Tema.List(ctx, filter)
	if err != nil {
		s.logger.Error("falha ao listar temas", zap.Error(err))
		return nil, err
	}
	return toTemaResponses(temas), nil
}

func (s *temaService) Get(ctx context.Context, id, callerID, callerRole string) (*dto.TemaResponse, error) {
	tema, err := s.scoped(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	resp := toTemaResponse(tema)
	return &resp, nil
}

func (s *temaService) scoped(ctx context.Context, id, callerID, callerRole string) (*model.TemaTCC, error) {
	tema, err := s.repo.Tema.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemaNotFound
		}
		s.logger.Error("falha ao buscar tema", zap.String("tema_id", id), zap.Error(err))
		return nil, err
	}
	if !inScope(tema, callerID, callerRole) {
		return nil, ErrTemaNotFound
	}
	return tema, nil
}

// ────────────────────── Create ──────────────────────

func (s *temaService) Create(ctx context.Context, req *dto.CreateTemaRequest, callerID, callerRole string) (*dto.TemaResponse, error) {
	if callerRole != model.TipoAluno {
		return nil, ErrSomenteAlunoCriar
	}

	aluno, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tema := &model.TemaTCC{
		Titulo:    strings.TrimSpace(req.Titulo),
		Descricao: strings.TrimSpace(req.Descricao),
		AlunoID:   aluno.UserID,
		Aluno:     aluno,
		Status:    req.Status,
	}
	tema.CreatedBy = &callerID
	if tema.Status == "" {
		tema.Status = model.StatusProposto
	}

	fe := apperrors.FieldErrors{}
	if tema.Titulo == "" {
		fe.Add("titulo", msgRequired)
	}
	if tema.Descricao == "" {
		fe.Add("descricao", msgRequired)
	}
	if !model.StatusPermitidoParaAluno(tema.Status) {
		fe.Add("status", fmt.Sprintf(msgInvalidChoice, tema.Status))
	}

	if id := optional(req.OrientadorID); id != nil {
		orientador, err := s.orientadorDisponivel(ctx, *id)
		if err != nil {
			return nil, err
		}
		if orientador == nil {
			fe.Add("orientador_id", fmt.Sprintf(msgInvalidChoice, *id))
		} else {
			tema.OrientadorID = &orientador.UserID
			tema.Orientador = orientador
		}
	}

	s.applyDates(fe, tema, req.DataInicio, req.DataFimPrevista)

	if tema.Titulo != "" {
		taken, err := s.tituloEmUso(ctx, tema.AlunoID, tema.Titulo, "")
		if err != nil {
			return nil, err
		}
		if taken {
			fe.Add("titulo", msgTituloExists)
		}
	}

	fe.Merge(tema.Clean())
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Tema.Create(ctx, tema); err != nil {
		if fe, ok := apperrors.AsFieldErrors(uniqueConflict(err)); ok {
			return nil, fe
		}
		s.logger.Error("falha ao criar tema", zap.Error(err))
		return nil, err
	}

	resp := toTemaResponse(tema)
	if tema.HasOrientador() {
		s.notifier.Notify(*tema.OrientadorID, EventTemaCriado, resp)
	}

	s.logger.Info("tema criado", zap.String("tema_id", tema.TemaID), zap.String("aluno_id", tema.AlunoID))
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *temaService) Update(ctx context.Context, id string, req *dto.UpdateTemaRequest, callerID, callerRole string) (*dto.TemaResponse, error) {
	tema, err := s.scoped(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != tema.Version {
		return nil, apperrors.ErrOptimisticLock
	}

	fe := apperrors.FieldErrors{}

	tituloChanged := false
	if req.Titulo != nil {
		titulo := strings.TrimSpace(*req.Titulo)
		if titulo == "" {
			fe.Add("titulo", msgRequired)
		}
		tituloChanged = titulo != tema.Titulo
		tema.Titulo = titulo
	}
	if req.Descricao != nil {
		tema.Descricao = strings.TrimSpace(*req.Descricao)
		if tema.Descricao == "" {
			fe.Add("descricao", msgRequired)
		}
	}
	if req.Status != nil {
		if callerRole == model.TipoAluno && !model.StatusPermitidoParaAluno(*req.Status) {
			fe.Add("status", fmt.Sprintf(msgInvalidChoice, *req.Status))
		}
		tema.Status = *req.Status
	}

	if req.OrientadorID != nil {
		newID := optional(req.OrientadorID)
		switch {
		case newID == nil:
			tema.OrientadorID = nil
			tema.Orientador = nil
		case tema.HasOrientador() && *newID == *tema.OrientadorID:
			// inalterado
		default:
			orientador, err := s.orientadorDisponivel(ctx, *newID)
			if err != nil {
				return nil, err
			}
			if orientador == nil {
				fe.Add("orientador_id", fmt.Sprintf(msgInvalidChoice, *newID))
			} else {
				tema.OrientadorID = &orientador.UserID
				tema.Orientador = orientador
			}
		}
	}

	s.applyDates(fe, tema, req.DataInicio, req.DataFimPrevista)

	if tituloChanged && tema.Titulo != "" {
		taken, err := s.tituloEmUso(ctx, tema.AlunoID, tema.Titulo, tema.TemaID)
		if err != nil {
			return nil, err
		}
		if taken {
			fe.Add("titulo", msgTituloExists)
		}
	}

	fe.Merge(tema.Clean())
	if err := fe.Err(); err != nil {
		return nil, err
	}

	tema.UpdatedBy = &callerID
	if err := s.repo.Tema.Update(ctx, tema); err != nil {
		if fe, ok := apperrors.AsFieldErrors(uniqueConflict(err)); ok {
			return nil, fe
		}
		if !errors.Is(err, apperrors.ErrOptimisticLock) {
			s.logger.Error("falha ao atualizar tema", zap.String("tema_id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toTemaResponse(tema)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *temaService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	tema, err := s.scoped(ctx, id, callerID, callerRole)
	if err != nil {
		return err
	}

	keys, err := s.repo.Entrega.ArquivosByTema(ctx, tema.TemaID)
	if err != nil {
		s.logger.Error("falha ao listar arquivos do tema", zap.String("tema_id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Tema.Delete(ctx, tema.TemaID); err != nil {
		s.logger.Error("falha ao excluir tema", zap.String("tema_id", id), zap.Error(err))
		return err
	}

	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("arquivo de entrega não removido", zap.String("key", key), zap.Error(err))
		}
	}

	s.logger.Info("tema excluído",
		zap.String("tema_id", id),
		zap.String("por", callerID),
		zap.Int("arquivos", len(keys)),
	)
	return nil
}

// ── auxiliares ──

// orientadorDisponivel devolve nil quando o id não é um orientador ativo
func (s *temaService) orientadorDisponivel(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsOrientador() || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

func (s *temaService) tituloEmUso(ctx context.Context, alunoID, titulo, excludeID string) (bool, error) {
	found, err := s.repo.Tema.GetByAlunoTitulo(ctx, alunoID, titulo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return found.TemaID != excludeID, nil
}

// applyDates nil mantém; "" limpa
func (s *temaService) applyDates(fe apperrors.FieldErrors, tema *model.TemaTCC, inicio, fim *string) {
	if inicio != nil {
		d, err := parseDate(*inicio)
		if err != nil {
			fe.Add("data_inicio", msgInvalidDate)
		} else {
			tema.DataInicio = d
		}
	}
	if fim != nil {
		d, err := parseDate(*fim)
		if err != nil {
			fe.Add("data_fim_prevista", msgInvalidDate)
		} else {
			tema.DataFimPrevista = d
		}
	}
}
