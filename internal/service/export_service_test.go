package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fbomateus/gestao-tcc/internal/model"
)

func setupTestExportService() (ExportService, *testEnv) {
	env := newTestEnv()
	env.addUser("a1", "aluno1", model.TipoAluno)
	env.addUser("a2", "aluno2", model.TipoAluno)
	env.addUser("o1", "prof1", model.TipoOrientador)
	return NewExportService(env.repo, env.clock, zap.NewNop()), env
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestExportService_ExportTemas(t *testing.T) {
	svc, env := setupTestExportService()
	env.addTema("t1", "Compiladores", "a1", strPtr("o1"), model.StatusEmAndamento)
	env.addTema("t2", "Bancos", "a2", nil, model.StatusProposto)
	e1 := env.addEntrega("e1", "t1", fixedNow)
	e1.Nota = floatPtr(8)
	e2 := env.addEntrega("e2", "t1", fixedNow.AddDate(0, 0, -1))
	e2.Nota = floatPtr(9.5)
	env.entregas.entregas["e1"].Nota = e1.Nota
	env.entregas.entregas["e2"].Nota = e2.Nota

	buf, filename, err := svc.ExportTemas(context.Background())
	if err != nil {
		t.Fatalf("ExportTemas falhou: %v", err)
	}
	if filename != "temas_tcc_20260510.xlsx" {
		t.Errorf("nome de arquivo inesperado: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("planilha ilegível: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Temas" || sheets[1] != "Entregas" {
		t.Fatalf("planilhas inesperadas: %v", sheets)
	}

	rows, _ := f.GetRows("Temas")
	if len(rows) != 3 {
		t.Fatalf("esperadas 3 linhas (cabeçalho + 2), obtidas %d", len(rows))
	}
	// ordenado por título: Bancos, Compiladores
	if rows[2][0] != "Compiladores" || rows[2][2] != "M-a1" || rows[2][7] != "2" || rows[2][8] != "8.75" {
		t.Errorf("linha de Compiladores inesperada: %v", rows[2])
	}

	entregas, _ := f.GetRows("Entregas")
	if len(entregas) != 3 {
		t.Errorf("esperadas 3 linhas em Entregas, obtidas %d", len(entregas))
	}
}

func TestExportService_ExportCalendario(t *testing.T) {
	svc, env := setupTestExportService()
	t1 := env.addTema("t1", "Compiladores", "a1", strPtr("o1"), model.StatusEmAndamento)
	env.temas.temas[t1.TemaID].DataInicio = datePtr(2026, 3, 1)
	env.temas.temas[t1.TemaID].DataFimPrevista = datePtr(2026, 11, 30)
	t2 := env.addTema("t2", "Redes", "a1", nil, model.StatusProposto)
	env.temas.temas[t2.TemaID].DataFimPrevista = datePtr(2026, 12, 15)
	env.addTema("t3", "Sem datas", "a1", nil, model.StatusProposto)
	t4 := env.addTema("t4", "De outro aluno", "a2", nil, model.StatusProposto)
	env.temas.temas[t4.TemaID].DataFimPrevista = datePtr(2026, 12, 15)

	buf, filename, err := svc.ExportCalendario(context.Background(), "a1", model.TipoAluno)
	if err != nil {
		t.Fatalf("ExportCalendario falhou: %v", err)
	}
	if filename != "temas_tcc.ics" {
		t.Errorf("nome inesperado: %s", filename)
	}

	ics := buf.String()
	if n := strings.Count(ics, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("esperados 2 eventos, obtidos %d", n)
	}
	for _, want := range []string{
		"DTSTART;VALUE=DATE:20260301",
		"DTEND;VALUE=DATE:20261201",
		"SUMMARY:TCC: Compiladores",
		"SUMMARY:Prazo: Redes",
		"DTSTART;VALUE=DATE:20261215",
		"DTEND;VALUE=DATE:20261216",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("calendário sem %q", want)
		}
	}
	if strings.Contains(ics, "De outro aluno") {
		t.Error("tema fora do escopo no calendário")
	}
}
