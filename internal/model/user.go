package model

import (
	"time"

	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

// Tipos de usuário
const (
	TipoAluno      = "ALUNO"
	TipoOrientador = "ORIENTADOR"
	TipoAdmin      = "ADMIN"
)

// TiposUsuario todos os tipos válidos
var TiposUsuario = []string{TipoAluno, TipoOrientador, TipoAdmin}

// User tabela users
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"          json:"username"`
	NomeCompleto string     `gorm:"type:varchar(150);not null"                      json:"nome_completo"`
	Email        string     `gorm:"type:varchar(254);not null"                      json:"email"`
	Tipo         string     `gorm:"type:varchar(20);not null;default:'ALUNO'"       json:"tipo"`
	Matricula    *string    `gorm:"type:varchar(20)"                                json:"matricula,omitempty"`    // obrigatória para alunos
	AreaAtuacao  *string    `gorm:"type:varchar(150)"                               json:"area_atuacao,omitempty"` // obrigatória para orientadores
	IsActive     bool       `gorm:"not null;default:true"                           json:"is_active"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                      json:"-"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	BaseModel
}

// TableName nome da tabela
func (User) TableName() string { return "users" }

// DisplayName nome completo, ou username quando vazio
func (u *User) DisplayName() string {
	if u.NomeCompleto != "" {
		return u.NomeCompleto
	}
	return u.Username
}

// IsAluno atalho de tipo
func (u *User) IsAluno() bool { return u.Tipo == TipoAluno }

// IsOrientador atalho de tipo
func (u *User) IsOrientador() bool { return u.Tipo == TipoOrientador }

// IsAdmin atalho de tipo
func (u *User) IsAdmin() bool { return u.Tipo == TipoAdmin }

// Clean regras do modelo: o tipo define qual campo opcional é obrigatório.
func (u *User) Clean() error {
	fe := apperrors.FieldErrors{}

	if blank(&u.NomeCompleto) {
		fe.Add("nome_completo", "Este campo é obrigatório.")
	}
	if !ValidTipo(u.Tipo) {
		fe.Add("tipo", "Tipo de usuário inválido.")
	}

	switch u.Tipo {
	case TipoAluno:
		if blank(u.Matricula) {
			fe.Add("matricula", "Matrícula é obrigatória para alunos.")
		}
	case TipoOrientador:
		if blank(u.AreaAtuacao) {
			fe.Add("area_atuacao", "Área de atuação é obrigatória para orientadores.")
		}
	}

	return fe.Err()
}

// ValidTipo informa se o tipo é conhecido
func ValidTipo(tipo string) bool {
	for _, t := range TiposUsuario {
		if t == tipo {
			return true
		}
	}
	return false
}
