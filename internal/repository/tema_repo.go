package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/internal/model"
	pkgerrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

// TemaFilter filtros da listagem de temas. Campos vazios não filtram.
type TemaFilter struct {
	AlunoID      string
	OrientadorID string
	// ParticipanteID aluno OU orientador
	ParticipanteID string
	Status         string
}

// TemaRepository acesso a dados de temas
type TemaRepository interface {
	Create(ctx context.Context, tema *model.TemaTCC) error
	GetByID(ctx context.Context, id string) (*model.TemaTCC, error)
	GetByAlunoTitulo(ctx context.Context, alunoID, titulo string) (*model.TemaTCC, error)
	List(ctx context.Context, filter TemaFilter) ([]model.TemaTCC, error)
	// Update grava com lock otimista; versão defasada retorna ErrOptimisticLock
	Update(ctx context.Context, tema *model.TemaTCC) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type temaRepo struct {
	db *gorm.DB
}

// NewTemaRepo cria TemaRepository
func NewTemaRepo(db *gorm.DB) TemaRepository {
	return &temaRepo{db: db}
}

func (r *temaRepo) Create(ctx context.Context, tema *model.TemaTCC) error {
	return r.db.WithContext(ctx).Omit("Aluno", "Orientador").Create(tema).Error
}

func (r *temaRepo) GetByID(ctx context.Context, id string) (*model.TemaTCC, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var tema model.TemaTCC
	err := r.db.WithContext(ctx).
		Preload("Aluno").
		Preload("Orientador").
		Where("tema_id = ?", id).
		First(&tema).Error
	if err != nil {
		return nil, err
	}
	return &tema, nil
}

func (r *temaRepo) GetByAlunoTitulo(ctx context.Context, alunoID, titulo string) (*model.TemaTCC, error) {
	var tema model.TemaTCC
	err := r.db.WithContext(ctx).
		Where("aluno_id = ? AND titulo = ?", alunoID, titulo).
		First(&tema).Error
	if err != nil {
		return nil, err
	}
	return &tema, nil
}

func (r *temaRepo) List(ctx context.Context, filter TemaFilter) ([]model.TemaTCC, error) {
	var temas []model.TemaTCC

	db := r.db.WithContext(ctx).Preload("Aluno").Preload("Orientador")
	if filter.AlunoID != "" {
		db = db.Where("aluno_id = ?", filter.AlunoID)
	}
	if filter.OrientadorID != "" {
		db = db.Where("orientador_id = ?", filter.OrientadorID)
	}
	if filter.ParticipanteID != "" {
		db = db.Where("aluno_id = ? OR orientador_id = ?", filter.ParticipanteID, filter.ParticipanteID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	err := db.Order("titulo ASC").Find(&temas).Error
	return temas, err
}

func (r *temaRepo) Update(ctx context.Context, tema *model.TemaTCC) error {
	oldVersion := tema.Version
	result := r.db.WithContext(ctx).
		Model(&model.TemaTCC{}).
		Where("tema_id = ? AND version = ?", tema.TemaID, oldVersion).
		Updates(map[string]interface{}{
			"titulo":            tema.Titulo,
			"descricao":         tema.Descricao,
			"orientador_id":     tema.OrientadorID,
			"status":            tema.Status,
			"data_inicio":       tema.DataInicio,
			"data_fim_prevista": tema.DataFimPrevista,
			"updated_by":        tema.UpdatedBy,
			"updated_at":        gorm.Expr("CURRENT_TIMESTAMP"),
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	tema.Version = oldVersion + 1
	return nil
}

// Delete remove o tema; as entregas caem em cascata no banco
func (r *temaRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("tema_id = ?", id).
		Delete(&model.TemaTCC{}).Error
}

func (r *temaRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.TemaTCC{}).Count(&n).Error
	return n, err
}
