package dto

// ── temas ──

// TemaListRequest filtros da listagem
type TemaListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PROPOSTO EM_ANDAMENTO CONCLUIDO CANCELADO"`
}

// CreateTemaRequest criação de tema (aluno)
type CreateTemaRequest struct {
	Titulo          string  `json:"titulo"            binding:"required,max=200"`
	Descricao       string  `json:"descricao"         binding:"required"`
	OrientadorID    *string `json:"orientador_id"`
	Status          string  `json:"status"            binding:"omitempty,oneof=PROPOSTO EM_ANDAMENTO CONCLUIDO CANCELADO"`
	DataInicio      *string `json:"data_inicio"`
	DataFimPrevista *string `json:"data_fim_prevista"`
}

// UpdateTemaRequest atualização parcial.
// Para OrientadorID e datas, string vazia limpa o valor.
type UpdateTemaRequest struct {
	Titulo          *string `json:"titulo"            binding:"omitempty,min=1,max=200"`
	Descricao       *string `json:"descricao"         binding:"omitempty,min=1"`
	OrientadorID    *string `json:"orientador_id"`
	Status          *string `json:"status"            binding:"omitempty,oneof=PROPOSTO EM_ANDAMENTO CONCLUIDO CANCELADO"`
	DataInicio      *string `json:"data_inicio"`
	DataFimPrevista *string `json:"data_fim_prevista"`
	// Version versão lida pelo cliente; divergente da atual gera conflito
	Version *int `json:"version" binding:"omitempty,min=1"`
}
