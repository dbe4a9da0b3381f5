package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
)

// ── exportação ──

var ErrExportGenerateFail = errors.New("falha ao gerar arquivo de exportação")

// Nomes das planilhas
const (
	sheetTemas    = "Temas"
	sheetEntregas = "Entregas"
)

// ExportService exportação de temas para planilha e calendário.
// O conteúdo volta em bytes.Buffer; o handler define os cabeçalhos HTTP.
type ExportService interface {
	// ExportTemas planilha com todos os temas e entregas (ADMIN)
	ExportTemas(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportCalendario feed iCalendar com os temas do escopo do usuário
	ExportCalendario(ctx context.Context, callerID, callerRole string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  clock
	logger *zap.Logger
}

// NewExportService cria ExportService
func NewExportService(repo *repository.Repository, clk clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clk, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTemas: planilha Excel
// ═══════════════════════════════════════════════════════════
//
// Planilha "Temas": uma linha por tema, com contagem e média das notas.
// Planilha "Entregas": uma linha por entrega, agrupadas por tema.

func (s *exportService) ExportTemas(ctx context.Context) (*bytes.Buffer, string, error) {
	temas, err := s.repo.Tema.List(ctx, repository.TemaFilter{})
	if err != nil {
		s.logger.Error("falha ao listar temas para exportação", zap.Error(err))
		return nil, "", err
	}
	entregas, err := s.repo.Entrega.ListAll(ctx)
	if err != nil {
		s.logger.Error("falha ao listar entregas para exportação", zap.Error(err))
		return nil, "", err
	}

	type resumo struct {
		count int
		notas int
		soma  float64
	}
	porTema := make(map[string]*resumo)
	for _, e := range entregas {
		r := porTema[e.TemaID]
		if r == nil {
			r = &resumo{}
			porTema[e.TemaID] = r
		}
		r.count++
		if e.Nota != nil {
			r.notas++
			r.soma += *e.Nota
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTemas); err != nil {
		return nil, "", s.generateFail(err)
	}
	if _, err := f.NewSheet(sheetEntregas); err != nil {
		return nil, "", s.generateFail(err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Temas ──
	writeHeader(f, sheetTemas, headerStyle,
		"Título", "Aluno", "Matrícula", "Orientador", "Status",
		"Data de início", "Data fim prevista", "Entregas", "Média das notas")
	_ = f.SetColWidth(sheetTemas, "A", "A", 40)
	_ = f.SetColWidth(sheetTemas, "B", "D", 28)
	_ = f.SetColWidth(sheetTemas, "E", "I", 16)

	titulos := make(map[string]string, len(temas))
	for i := range temas {
		t := &temas[i]
		titulos[t.TemaID] = t.Titulo

		var aluno, matricula, orientador string
		if t.Aluno != nil {
			aluno = t.Aluno.DisplayName()
			if t.Aluno.Matricula != nil {
				matricula = *t.Aluno.Matricula
			}
		}
		if t.Orientador != nil {
			orientador = t.Orientador.DisplayName()
		}

		row := []interface{}{
			t.Titulo, aluno, matricula, orientador, t.Status,
			formatDate(t.DataInicio), formatDate(t.DataFimPrevista), 0, "",
		}
		if r := porTema[t.TemaID]; r != nil {
			row[7] = r.count
			if r.notas > 0 {
				row[8] = roundNota(r.soma / float64(r.notas))
			}
		}
		writeRow(f, sheetTemas, i+2, row...)
	}

	// ── Entregas ──
	writeHeader(f, sheetEntregas, headerStyle, "Tema", "Título", "Data de entrega", "Nota", "Arquivo")
	_ = f.SetColWidth(sheetEntregas, "A", "B", 40)
	_ = f.SetColWidth(sheetEntregas, "C", "D", 16)
	_ = f.SetColWidth(sheetEntregas, "E", "E", 32)

	for i := range entregas {
		e := &entregas[i]
		tema := titulos[e.TemaID]
		if tema == "" && e.Tema != nil {
			tema = e.Tema.Titulo
		}
		var nota interface{} = ""
		if e.Nota != nil {
			nota = *e.Nota
		}
		writeRow(f, sheetEntregas, i+2, tema, e.Titulo, e.DataEntrega.Format(dto.DateLayout), nota, e.ArquivoNome)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", s.generateFail(err)
	}

	filename := fmt.Sprintf("temas_tcc_%s.xlsx", s.clock.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) generateFail(err error) error {
	s.logger.Error("falha ao gerar planilha", zap.Error(err))
	return ErrExportGenerateFail
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, title := range titles {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(titles), 1)
	_ = f.SetCellStyle(sheet, first, last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func roundNota(n float64) float64 {
	return float64(int64(n*100+0.5)) / 100
}

// ═══════════════════════════════════════════════════════════
// ExportCalendario: feed iCalendar
// ═══════════════════════════════════════════════════════════
//
// Cada tema com datas vira um evento de dia inteiro de data_inicio até
// data_fim_prevista. Só com data fim, vira um evento "Prazo" de um dia;
// só com início, um evento "Início". Temas sem datas são ignorados.

func (s *exportService) ExportCalendario(ctx context.Context, callerID, callerRole string) (*bytes.Buffer, string, error) {
	filter, ok := scopeFilter(callerID, callerRole)
	if !ok {
		return nil, "", ErrNoPermission
	}
	temas, err := s.repo.Tema.List(ctx, filter)
	if err != nil {
		s.logger.Error("falha ao listar temas para o calendário", zap.Error(err))
		return nil, "", err
	}

	now := s.clock.Now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//gestao-tcc//Temas de TCC//PT-BR")
	cal.SetXWRCalName("Temas de TCC")
	cal.SetXWRTimezone(now.Location().String())

	for i := range temas {
		t := &temas[i]
		start, end, summary, ok := calendarSpan(t)
		if !ok {
			continue
		}

		event := cal.AddEvent(t.TemaID + "@gestao-tcc")
		event.SetDtStampTime(now)
		event.SetModifiedAt(t.UpdatedAt)
		event.SetAllDayStartAt(start)
		// DTEND de dia inteiro é exclusivo
		event.SetAllDayEndAt(end.AddDate(0, 0, 1))
		event.SetSummary(summary)
		event.SetDescription(calendarDescription(t))
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	return bytes.NewBufferString(cal.Serialize()), "temas_tcc.ics", nil
}

func calendarSpan(t *model.TemaTCC) (start, end time.Time, summary string, ok bool) {
	switch {
	case t.DataInicio != nil && t.DataFimPrevista != nil:
		return *t.DataInicio, *t.DataFimPrevista, "TCC: " + t.Titulo, true
	case t.DataFimPrevista != nil:
		return *t.DataFimPrevista, *t.DataFimPrevista, "Prazo: " + t.Titulo, true
	case t.DataInicio != nil:
		return *t.DataInicio, *t.DataInicio, "Início: " + t.Titulo, true
	}
	return time.Time{}, time.Time{}, "", false
}

func calendarDescription(t *model.TemaTCC) string {
	lines := []string{"Status: " + t.Status}
	if t.Aluno != nil {
		lines = append(lines, "Aluno: "+t.Aluno.DisplayName())
	}
	if t.Orientador != nil {
		lines = append(lines, "Orientador: "+t.Orientador.DisplayName())
	}
	return strings.Join(lines, "\n")
}
