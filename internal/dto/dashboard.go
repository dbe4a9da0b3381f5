package dto

// Tipos de painel
const (
	DashboardAluno      = "aluno"
	DashboardOrientador = "orientador"
	DashboardAdmin      = "admin"
)

// DashboardResponse painel conforme o tipo do usuário.
// As listas do painel correspondente vão sempre presentes, mesmo vazias.
type DashboardResponse struct {
	TipoDashboard string `json:"tipo_dashboard"`

	Temas            []TemaResponse    `json:"temas"`
	UltimasEntregas  []EntregaResponse `json:"ultimas_entregas"`
	EntregasRecentes []EntregaResponse `json:"entregas_recentes"`

	TotalUsuarios *int64 `json:"total_usuarios,omitempty"`
	TotalTemas    *int64 `json:"total_temas,omitempty"`
	TotalEntregas *int64 `json:"total_entregas,omitempty"`
}
