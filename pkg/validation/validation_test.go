package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"

	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

type sample struct {
	Username string `json:"username" binding:"required,username,max=150"`
	Email    string `json:"email"    binding:"required,email"`
}

func TestInit_Idempotent(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init falhou: %v", err)
	}
	if err := Init(); err != nil {
		t.Fatalf("segundo Init falhou: %v", err)
	}
}

func TestTranslate_UsesJSONNames(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init falhou: %v", err)
	}

	err := binding.Validator.ValidateStruct(&sample{Username: "com espaço", Email: ""})
	if err == nil {
		t.Fatal("esperado erro de validação")
	}

	fields := Translate(err)
	if _, ok := fields["username"]; !ok {
		t.Errorf("esperado erro em username, obtido %v", fields)
	}
	if fields["email"] != "Este campo é obrigatório." {
		t.Errorf("mensagem de obrigatório inesperada: %q", fields["email"])
	}
}

func TestTranslate_NonValidatorError(t *testing.T) {
	fields := Translate(errors.New("unexpected EOF"))
	if fields[apperrors.NonField] == "" {
		t.Errorf("esperado erro geral, obtido %v", fields)
	}
}

func TestUsernameAccepted(t *testing.T) {
	_ = Init()
	if err := binding.Validator.ValidateStruct(&sample{Username: "maria.silva+tcc@ufx", Email: "m@x.br"}); err != nil {
		t.Errorf("username válido rejeitado: %v", err)
	}
}
