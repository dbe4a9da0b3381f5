package dto

import (
	"io"
)

// ── entregas ──

// CreateEntregaRequest campos de formulário (multipart); o arquivo vem em File
type CreateEntregaRequest struct {
	Titulo      string `form:"titulo"       binding:"required,max=200"`
	DataEntrega string `form:"data_entrega" binding:"omitempty,datetime=2006-01-02"`

	File *UploadedFile `form:"-"`
}

// UploadedFile arquivo recebido, já desacoplado do multipart
type UploadedFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// EntregaFeedbackRequest comentário e nota do orientador; nil limpa o campo
type EntregaFeedbackRequest struct {
	ComentarioOrientador *string  `json:"comentario_orientador"`
	Nota                 *float64 `json:"nota" binding:"omitempty,gte=0,lte=10"`
}

// EntregaFile arquivo para download
type EntregaFile struct {
	Name    string
	Size    int64
	Content io.ReadCloser
}
