package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/internal/model"
)

// EntregaRepository acesso a dados de entregas
type EntregaRepository interface {
	Create(ctx context.Context, entrega *model.Entrega) error
	GetByID(ctx context.Context, id string) (*model.Entrega, error)
	// ListByTema entregas do tema, mais recentes primeiro
	ListByTema(ctx context.Context, temaID string) ([]model.Entrega, error)
	// RecentByAluno últimas entregas em temas do aluno
	RecentByAluno(ctx context.Context, alunoID string, limit int) ([]model.Entrega, error)
	// RecentByOrientador últimas entregas em temas orientados
	RecentByOrientador(ctx context.Context, orientadorID string, limit int) ([]model.Entrega, error)
	// ListAll todas as entregas com tema, para exportação
	ListAll(ctx context.Context) ([]model.Entrega, error)
	ArquivosByTema(ctx context.Context, temaID string) ([]string, error)
	UpdateFeedback(ctx context.Context, entrega *model.Entrega) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type entregaRepo struct {
	db *gorm.DB
}

// NewEntregaRepo cria EntregaRepository
func NewEntregaRepo(db *gorm.DB) EntregaRepository {
	return &entregaRepo{db: db}
}

func (r *entregaRepo) Create(ctx context.Context, entrega *model.Entrega) error {
	return r.db.WithContext(ctx).Omit("Tema").Create(entrega).Error
}

func (r *entregaRepo) GetByID(ctx context.Context, id string) (*model.Entrega, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var entrega model.Entrega
	err := r.db.WithContext(ctx).
		Preload("Tema").
		Where("entrega_id = ?", id).
		First(&entrega).Error
	if err != nil {
		return nil, err
	}
	return &entrega, nil
}

func (r *entregaRepo) ListByTema(ctx context.Context, temaID string) ([]model.Entrega, error) {
	var entregas []model.Entrega
	err := r.db.WithContext(ctx).
		Where("tema_id = ?", temaID).
		Order("data_entrega DESC, created_at DESC").
		Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) RecentByAluno(ctx context.Context, alunoID string, limit int) ([]model.Entrega, error) {
	return r.recent(ctx, "temas_tcc.aluno_id = ?", alunoID, limit)
}

func (r *entregaRepo) RecentByOrientador(ctx context.Context, orientadorID string, limit int) ([]model.Entrega, error) {
	return r.recent(ctx, "temas_tcc.orientador_id = ?", orientadorID, limit)
}

func (r *entregaRepo) recent(ctx context.Context, cond, userID string, limit int) ([]model.Entrega, error) {
	var entregas []model.Entrega
	err := r.db.WithContext(ctx).
		Joins("JOIN temas_tcc ON temas_tcc.tema_id = entregas.tema_id").
		Preload("Tema").
		Where(cond, userID).
		Order("entregas.data_entrega DESC, entregas.created_at DESC").
		Limit(limit).
		Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) ListAll(ctx context.Context) ([]model.Entrega, error) {
	var entregas []model.Entrega
	err := r.db.WithContext(ctx).
		Preload("Tema").
		Order("tema_id, data_entrega DESC").
		Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) ArquivosByTema(ctx context.Context, temaID string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&model.Entrega{}).
		Where("tema_id = ?", temaID).
		Pluck("arquivo", &keys).Error
	return keys, err
}

// UpdateFeedback grava apenas comentário e nota
func (r *entregaRepo) UpdateFeedback(ctx context.Context, entrega *model.Entrega) error {
	return r.db.WithContext(ctx).
		Model(&model.Entrega{}).
		Where("entrega_id = ?", entrega.EntregaID).
		Updates(map[string]interface{}{
			"comentario_orientador": entrega.ComentarioOrientador,
			"nota":                  entrega.Nota,
			"updated_by":            entrega.UpdatedBy,
			"updated_at":            gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *entregaRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("entrega_id = ?", id).
		Delete(&model.Entrega{}).Error
}

func (r *entregaRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Entrega{}).Count(&n).Error
	return n, err
}
