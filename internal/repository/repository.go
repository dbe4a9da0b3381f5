package repository

import "gorm.io/gorm"

// Repository agrega todos os repositórios
type Repository struct {
	User    UserRepository
	Tema    TemaRepository
	Entrega EntregaRepository
}

// NewRepository cria o agregado
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:    NewUserRepo(db),
		Tema:    NewTemaRepo(db),
		Entrega: NewEntregaRepo(db),
	}
}
