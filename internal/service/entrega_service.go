package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
	"github.com/fbomateus/gestao-tcc/pkg/storage"
)

// ── entregas ──

var (
	ErrEntregaNotFound     = errors.New("Entrega não encontrada.")
	ErrArquivoNotFound     = errors.New("Arquivo não encontrado.")
	ErrEntregaViewDenied   = errors.New("Você não pode visualizar as entregas deste tema.")
	ErrEntregaSubmitDenied = errors.New("Você não pode enviar entrega para este tema.")
	ErrFeedbackDenied      = errors.New("Você não pode avaliar esta entrega.")
	ErrFeedbackAlunoDenied = errors.New("Alunos não podem lançar nota ou feedback de orientador.")
)

// EntregaService envio, listagem, download e avaliação de entregas
type EntregaService interface {
	ListByTema(ctx context.Context, temaID, callerID, callerRole string) ([]dto.EntregaResponse, error)
	Create(ctx context.Context, temaID string, req *dto.CreateEntregaRequest, callerID, callerRole string) (*dto.EntregaResponse, error)
	// Download o chamador fecha Content
	Download(ctx context.Context, entregaID, callerID, callerRole string) (*dto.EntregaFile, error)
	Feedback(ctx context.Context, entregaID string, req *dto.EntregaFeedbackRequest, callerID, callerRole string) (*dto.EntregaResponse, error)
}

type entregaService struct {
	rules    model.ArquivoRules
	repo     *repository.Repository
	store    storage.Store
	notifier Notifier
	clock    clock
	logger   *zap.Logger
}

// NewEntregaService cria EntregaService
func NewEntregaService(
	cfg *config.Config,
	repo *repository.Repository,
	store storage.Store,
	notifier Notifier,
	clk clock,
	logger *zap.Logger,
) EntregaService {
	exts := make([]string, 0, len(cfg.Storage.AllowedExtensions))
	for _, e := range cfg.Storage.AllowedExtensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}

	return &entregaService{
		rules:    model.ArquivoRules{MaxSize: cfg.Storage.MaxFileSize, AllowedExtensions: exts},
		repo:     repo,
		store:    store,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// canView aluno do tema, orientador do tema ou ADMIN
func canView(t *model.TemaTCC, callerID, callerRole string) bool {
	return callerRole == model.TipoAdmin || t.AlunoID == callerID || t.IsOrientadoPor(callerID)
}

func (s *entregaService) tema(ctx context.Context, temaID string) (*model.TemaTCC, error) {
	tema, err := s.repo.Tema.GetByID(ctx, temaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemaNotFound
		}
		s.logger.Error("falha ao buscar tema", zap.String("tema_id", temaID), zap.Error(err))
		return nil, err
	}
	return tema, nil
}

func (s *entregaService) entrega(ctx context.Context, id string) (*model.Entrega, error) {
	entrega, err := s.repo.Entrega.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntregaNotFound
		}
		s.logger.Error("falha ao buscar entrega", zap.String("entrega_id", id), zap.Error(err))
		return nil, err
	}
	if entrega.Tema == nil {
		return nil, ErrEntregaNotFound
	}
	return entrega, nil
}

// ────────────────────── ListByTema ──────────────────────

func (s *entregaService) ListByTema(ctx context.Context, temaID, callerID, callerRole string) ([]dto.EntregaResponse, error) {
	tema, err := s.tema(ctx, temaID)
	if err != nil {
		return nil, err
	}
	if !canView(tema, callerID, callerRole) {
		return nil, ErrEntregaViewDenied
	}

	entregas, err := s.repo.Entrega.ListByTema(ctx, tema.TemaID)
	if err != nil {
		s.logger.Error("falha ao listar entregas", zap.String("tema_id", temaID), zap.Error(err))
		return nil, err
	}
	for i := range entregas {
		entregas[i].Tema = tema
	}
	return toEntregaResponses(entregas), nil
}

// ────────────────────── Create ──────────────────────

func (s *entregaService) Create(ctx context.Context, temaID string, req *dto.CreateEntregaRequest, callerID, callerRole string) (*dto.EntregaResponse, error) {
	tema, err := s.tema(ctx, temaID)
	if err != nil {
		return nil, err
	}
	if callerRole != model.TipoAdmin && tema.AlunoID != callerID {
		return nil, ErrEntregaSubmitDenied
	}

	today := model.DateOnly(s.clock.Now())
	entrega := &model.Entrega{
		TemaID:      tema.TemaID,
		Titulo:      strings.TrimSpace(req.Titulo),
		DataEntrega: today,
		BaseModel:   model.BaseModel{CreatedBy: &callerID},
	}

	fe := apperrors.FieldErrors{}
	if entrega.Titulo == "" {
		fe.Add("titulo", msgRequired)
	}
	if d, err := parseDate(req.DataEntrega); err != nil {
		fe.Add("data_entrega", msgInvalidDate)
	} else if d != nil {
		entrega.DataEntrega = *d
	}

	if req.File == nil || req.File.Reader == nil {
		fe.Add("arquivo", msgRequired)
	} else {
		fe.Merge(s.rules.Validate(req.File.Name, req.File.Size))
	}

	fe.Merge(entrega.Clean(today))
	if err := fe.Err(); err != nil {
		return nil, err
	}

	// o tamanho declarado no multipart não é confiável: limita a leitura
	limit := s.rules.MaxSize
	var src io.Reader = req.File.Reader
	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}
	key, size, err := s.store.Save(ctx, req.File.Name, src)
	if err != nil {
		s.logger.Error("falha ao gravar arquivo", zap.Error(err))
		return nil, err
	}
	if limit > 0 && size > limit {
		s.discard(ctx, key)
		return nil, s.rules.Validate(req.File.Name, size)
	}

	entrega.Arquivo = key
	entrega.ArquivoNome = baseName(req.File.Name)
	entrega.ArquivoTamanho = size

	if err := s.repo.Entrega.Create(ctx, entrega); err != nil {
		s.logger.Error("falha ao criar entrega", zap.Error(err))
		s.discard(ctx, key)
		return nil, err
	}
	entrega.Tema = tema

	resp := toEntregaResponse(entrega)
	if tema.HasOrientador() {
		s.notifier.Notify(*tema.OrientadorID, EventEntregaCriada, resp)
	}

	s.logger.Info("entrega enviada",
		zap.String("entrega_id", entrega.EntregaID),
		zap.String("tema_id", tema.TemaID),
		zap.Int64("bytes", size),
	)
	return &resp, nil
}

func (s *entregaService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("arquivo órfão não removido", zap.String("key", key), zap.Error(err))
	}
}

// baseName remove diretórios enviados por alguns navegadores
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "arquivo"
	}
	return name
}

// ────────────────────── Download ──────────────────────

func (s *entregaService) Download(ctx context.Context, entregaID, callerID, callerRole string) (*dto.EntregaFile, error) {
	entrega, err := s.entrega(ctx, entregaID)
	if err != nil {
		return nil, err
	}
	if !canView(entrega.Tema, callerID, callerRole) {
		return nil, ErrEntregaViewDenied
	}

	rc, err := s.store.Open(ctx, entrega.Arquivo)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrArquivoNotFound
		}
		s.logger.Error("falha ao abrir arquivo", zap.String("key", entrega.Arquivo), zap.Error(err))
		return nil, err
	}

	return &dto.EntregaFile{
		Name:    entrega.ArquivoNome,
		Size:    entrega.ArquivoTamanho,
		Content: rc,
	}, nil
}

// ────────────────────── Feedback ──────────────────────

func (s *entregaService) Feedback(ctx context.Context, entregaID string, req *dto.EntregaFeedbackRequest, callerID, callerRole string) (*dto.EntregaResponse, error) {
	if callerRole == model.TipoAluno {
		return nil, ErrFeedbackAlunoDenied
	}

	entrega, err := s.entrega(ctx, entregaID)
	if err != nil {
		return nil, err
	}
	if callerRole != model.TipoAdmin &&
		!(callerRole == model.TipoOrientador && entrega.Tema.IsOrientadoPor(callerID)) {
		return nil, ErrFeedbackDenied
	}

	entrega.ComentarioOrientador = optional(req.ComentarioOrientador)
	entrega.Nota = req.Nota
	entrega.UpdatedBy = &callerID

	if err := entrega.Clean(model.DateOnly(s.clock.Now())); err != nil {
		return nil, err
	}

	if err := s.repo.Entrega.UpdateFeedback(ctx, entrega); err != nil {
		s.logger.Error("falha ao registrar feedback", zap.String("entrega_id", entregaID), zap.Error(err))
		return nil, err
	}

	resp := toEntregaResponse(entrega)
	s.notifier.Notify(entrega.Tema.AlunoID, EventFeedbackRegistrado, resp)
	return &resp, nil
}
