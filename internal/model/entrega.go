package model

import (
	"math"
	"time"

	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

// Limites da nota
const (
	NotaMinima = 0.0
	NotaMaxima = 10.0
)

// Entrega tabela entregas
type Entrega struct {
	EntregaID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entrega_id"`
	TemaID               string    `gorm:"type:uuid;not null"                             json:"tema_id"`
	Titulo               string    `gorm:"type:varchar(200);not null"                     json:"titulo"`
	Arquivo              string    `gorm:"type:varchar(255);not null"                     json:"arquivo"` // chave no storage
	ArquivoNome          string    `gorm:"type:varchar(255);not null"                     json:"arquivo_nome"`
	ArquivoTamanho       int64     `gorm:"not null;default:0"                             json:"arquivo_tamanho"`
	DataEntrega          time.Time `gorm:"type:date;not null"                             json:"data_entrega"`
	ComentarioOrientador *string   `gorm:"type:text"                                      json:"comentario_orientador,omitempty"`
	Nota                 *float64  `gorm:"type:numeric(4,2)"                              json:"nota,omitempty"`
	BaseModel

	Tema *TemaTCC `gorm:"foreignKey:TemaID;references:TemaID" json:"tema,omitempty"`
}

// TableName nome da tabela
func (Entrega) TableName() string { return "entregas" }

// Clean regras do modelo. today é a data local corrente (sem horário).
func (e *Entrega) Clean(today time.Time) error {
	fe := apperrors.FieldErrors{}

	if DateOnly(e.DataEntrega).After(DateOnly(today)) {
		fe.Add("data_entrega", "A data de entrega não pode ser no futuro.")
	}

	if e.Nota != nil {
		n := *e.Nota
		switch {
		case math.IsNaN(n) || n < NotaMinima || n > NotaMaxima:
			fe.Add("nota", "A nota deve estar entre 0 e 10.")
		case !twoDecimals(n):
			fe.Add("nota", "A nota aceita no máximo duas casas decimais.")
		}
	}

	return fe.Err()
}

// twoDecimals numeric(4,2): tolera o erro de representação binária.
func twoDecimals(n float64) bool {
	scaled := n * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}
