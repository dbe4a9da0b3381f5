package model

import (
	"strings"
	"time"
)

// BaseModel campos de auditoria comuns
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// VersionedModel auditoria + versão para lock otimista
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// DateOnly zera o horário mantendo o dia civil de t (no fuso de t).
// O resultado fica em UTC para ser gravado sem deslocamento em colunas DATE.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// blank trata nil e string só com espaços como vazio.
func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
