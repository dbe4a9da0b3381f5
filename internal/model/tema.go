package model

import (
	"time"

	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

// Status do tema
const (
	StatusProposto    = "PROPOSTO"
	StatusEmAndamento = "EM_ANDAMENTO"
	StatusConcluido   = "CONCLUIDO"
	StatusCancelado   = "CANCELADO"
)

// StatusTema todos os status válidos
var StatusTema = []string{StatusProposto, StatusEmAndamento, StatusConcluido, StatusCancelado}

// StatusPermitidosAluno status que um aluno pode escolher
var StatusPermitidosAluno = []string{StatusProposto, StatusEmAndamento}

// TemaTCC tabela temas_tcc
type TemaTCC struct {
	TemaID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tema_id"`
	Titulo          string     `gorm:"type:varchar(200);not null"                     json:"titulo"`
	Descricao       string     `gorm:"type:text;not null"                             json:"descricao"`
	AlunoID         string     `gorm:"type:uuid;not null"                             json:"aluno_id"`
	OrientadorID    *string    `gorm:"type:uuid"                                      json:"orientador_id,omitempty"`
	Status          string     `gorm:"type:varchar(20);not null;default:'PROPOSTO'"   json:"status"`
	DataInicio      *time.Time `gorm:"type:date"                                      json:"data_inicio,omitempty"`
	DataFimPrevista *time.Time `gorm:"type:date"                                      json:"data_fim_prevista,omitempty"`
	VersionedModel

	// associações
	Aluno      *User `gorm:"foreignKey:AlunoID;references:UserID"      json:"aluno,omitempty"`
	Orientador *User `gorm:"foreignKey:OrientadorID;references:UserID" json:"orientador,omitempty"`
}

// TableName nome da tabela
func (TemaTCC) TableName() string { return "temas_tcc" }

// HasOrientador há orientador atribuído
func (t *TemaTCC) HasOrientador() bool {
	return t.OrientadorID != nil && *t.OrientadorID != ""
}

// IsOrientadoPor verifica se userID é o orientador do tema
func (t *TemaTCC) IsOrientadoPor(userID string) bool {
	return t.HasOrientador() && *t.OrientadorID == userID
}

// Clean regras do modelo.
// As checagens de tipo de aluno/orientador só rodam quando a associação está carregada.
func (t *TemaTCC) Clean() error {
	fe := apperrors.FieldErrors{}

	if t.Aluno != nil && t.Aluno.Tipo != TipoAluno {
		fe.Add("aluno", "O usuário selecionado não é um aluno.")
	}
	if t.HasOrientador() && t.Orientador != nil && t.Orientador.Tipo != TipoOrientador {
		fe.Add("orientador", "O usuário selecionado não é um orientador.")
	}

	if t.DataInicio != nil && t.DataFimPrevista != nil && t.DataFimPrevista.Before(*t.DataInicio) {
		fe.Add("data_fim_prevista", "A data fim prevista não pode ser anterior à data de início.")
	}

	if !ValidStatus(t.Status) {
		fe.Add("status", "Status inválido.")
	} else if t.Status != StatusProposto && !t.HasOrientador() {
		fe.Add("status", "Para avançar o status, escolha um orientador.")
	}

	return fe.Err()
}

// ValidStatus informa se o status é conhecido
func ValidStatus(status string) bool {
	return contains(StatusTema, status)
}

// StatusPermitidoParaAluno informa se o aluno pode escolher o status
func StatusPermitidoParaAluno(status string) bool {
	return contains(StatusPermitidosAluno, status)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
