package service

import (
	"strings"
	"time"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
)

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           u.UserID,
		Username:     u.Username,
		NomeCompleto: u.NomeCompleto,
		Email:        u.Email,
		Tipo:         u.Tipo,
		Matricula:    u.Matricula,
		AreaAtuacao:  u.AreaAtuacao,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(dto.DateTimeLayout),
	}
	if u.LastLogin != nil {
		resp.LastLogin = u.LastLogin.Format(dto.DateTimeLayout)
	}
	return resp
}

func toUserResponses(users []model.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, NomeCompleto: u.DisplayName(), Email: u.Email}
}

func toTemaResponse(t *model.TemaTCC) dto.TemaResponse {
	resp := dto.TemaResponse{
		ID:              t.TemaID,
		Titulo:          t.Titulo,
		Descricao:       t.Descricao,
		Status:          t.Status,
		Aluno:           toUserBrief(t.Aluno),
		DataInicio:      formatDate(t.DataInicio),
		DataFimPrevista: formatDate(t.DataFimPrevista),
		Version:         t.Version,
		CreatedAt:       t.CreatedAt.Format(dto.DateTimeLayout),
		UpdatedAt:       t.UpdatedAt.Format(dto.DateTimeLayout),
	}
	if resp.Aluno == nil {
		resp.Aluno = &dto.UserBrief{ID: t.AlunoID}
	}
	if t.HasOrientador() {
		resp.Orientador = toUserBrief(t.Orientador)
		if resp.Orientador == nil {
			resp.Orientador = &dto.UserBrief{ID: *t.OrientadorID}
		}
	}
	return resp
}

func toTemaResponses(temas []model.TemaTCC) []dto.TemaResponse {
	out := make([]dto.TemaResponse, 0, len(temas))
	for i := range temas {
		out = append(out, toTemaResponse(&temas[i]))
	}
	return out
}

func toEntregaResponse(e *model.Entrega) dto.EntregaResponse {
	resp := dto.EntregaResponse{
		ID:                   e.EntregaID,
		TemaID:               e.TemaID,
		Titulo:               e.Titulo,
		ArquivoNome:          e.ArquivoNome,
		ArquivoTamanho:       e.ArquivoTamanho,
		DataEntrega:          e.DataEntrega.Format(dto.DateLayout),
		ComentarioOrientador: e.ComentarioOrientador,
		Nota:                 e.Nota,
		CreatedAt:            e.CreatedAt.Format(dto.DateTimeLayout),
	}
	if e.Tema != nil {
		resp.TemaTitulo = e.Tema.Titulo
	}
	return resp
}

func toEntregaResponses(entregas []model.Entrega) []dto.EntregaResponse {
	out := make([]dto.EntregaResponse, 0, len(entregas))
	for i := range entregas {
		out = append(out, toEntregaResponse(&entregas[i]))
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

// parseDate "" → nil; formato AAAA-MM-DD
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optional string só com espaços vira nil
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
