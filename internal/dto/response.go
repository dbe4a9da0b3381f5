package dto

// Formatos de data/hora das respostas
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05Z07:00"
)

// ── usuários ──

// UserResponse dados públicos do usuário
type UserResponse struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	NomeCompleto string  `json:"nome_completo"`
	Email        string  `json:"email"`
	Tipo         string  `json:"tipo"`
	Matricula    *string `json:"matricula,omitempty"`
	AreaAtuacao  *string `json:"area_atuacao,omitempty"`
	IsActive     bool    `json:"is_active"`
	LastLogin    string  `json:"last_login,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// UserBrief referência resumida (aluno/orientador dentro de um tema)
type UserBrief struct {
	ID           string `json:"id"`
	NomeCompleto string `json:"nome_completo"`
	Email        string `json:"email,omitempty"`
}

// ── temas ──

// TemaResponse tema de TCC
type TemaResponse struct {
	ID              string     `json:"id"`
	Titulo          string     `json:"titulo"`
	Descricao       string     `json:"descricao"`
	Status          string     `json:"status"`
	Aluno           *UserBrief `json:"aluno,omitempty"`
	Orientador      *UserBrief `json:"orientador,omitempty"`
	DataInicio      string     `json:"data_inicio,omitempty"`
	DataFimPrevista string     `json:"data_fim_prevista,omitempty"`
	Version         int        `json:"version"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
}

// ── entregas ──

// EntregaResponse entrega
type EntregaResponse struct {
	ID                   string   `json:"id"`
	TemaID               string   `json:"tema_id"`
	TemaTitulo           string   `json:"tema_titulo,omitempty"`
	Titulo               string   `json:"titulo"`
	ArquivoNome          string   `json:"arquivo_nome"`
	ArquivoTamanho       int64    `json:"arquivo_tamanho"`
	DataEntrega          string   `json:"data_entrega"`
	ComentarioOrientador *string  `json:"comentario_orientador,omitempty"`
	Nota                 *float64 `json:"nota,omitempty"`
	CreatedAt            string   `json:"created_at"`
}

// ── paginação ──

// PaginationRequest parâmetros comuns de paginação
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage página (padrão 1)
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize itens por página (padrão 20)
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset deslocamento
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
