package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fbomateus/gestao-tcc/internal/dto"
)

type fakeUsers struct {
	created     bool
	ensureErr   error
	gotUsername string
	gotEmail    string
	gotNome     string
	gotPassword string
	setErr      error
}

func (f *fakeUsers) EnsureAdmin(_ context.Context, username, email, nome, password string) (*dto.UserResponse, bool, error) {
	f.gotUsername, f.gotEmail, f.gotNome, f.gotPassword = username, email, nome, password
	if f.ensureErr != nil {
		return nil, false, f.ensureErr
	}
	return &dto.UserResponse{ID: "u1", Username: username}, f.created, nil
}

func (f *fakeUsers) SetPassword(_ context.Context, username, password string) error {
	f.gotUsername, f.gotPassword = username, password
	return f.setErr
}

// stubPasswords devolve as respostas em ordem a cada chamada
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPasswordFunc
	i := 0
	readPasswordFunc = func(int) ([]byte, error) {
		if i >= len(answers) {
			return nil, errors.New("sem mais respostas")
		}
		a := answers[i]
		i++
		return []byte(a), nil
	}
	t.Cleanup(func() { readPasswordFunc = orig })
}

func newCLI(users *fakeUsers) (*commandLine, *bytes.Buffer, *bool) {
	out := &bytes.Buffer{}
	migrated := false
	return &commandLine{
		users:   users,
		migrate: func() error { migrated = true; return nil },
		out:     out,
	}, out, &migrated
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"sem comando", []string{"admin"}},
		{"comando desconhecido", []string{"admin", "lol"}},
		{"createadmin sem flags", []string{"admin", "createadmin"}},
		{"createadmin sem email", []string{"admin", "createadmin", "-username", "root"}},
		{"resetpassword sem username", []string{"admin", "resetpassword"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, _ := newCLI(&fakeUsers{})
			if err := cli.run(context.Background(), tt.args); err != errHelp {
				t.Errorf("esperado errHelp, obtido %v", err)
			}
		})
	}
}

func TestRun_Migrate(t *testing.T) {
	cli, _, migrated := newCLI(&fakeUsers{})
	if err := cli.run(context.Background(), []string{"admin", "migrate"}); err != nil {
		t.Fatalf("migrate falhou: %v", err)
	}
	if !*migrated {
		t.Error("migrate não foi executado")
	}
}

func TestRun_CreateAdmin(t *testing.T) {
	stubPasswords(t, "senha-forte-1", "senha-forte-1")
	users := &fakeUsers{created: true}
	cli, out, _ := newCLI(users)

	err := cli.run(context.Background(), []string{"admin", "createadmin", "-username", "root", "-email", "root@x.com"})
	if err != nil {
		t.Fatalf("createadmin falhou: %v", err)
	}
	if users.gotUsername != "root" || users.gotEmail != "root@x.com" || users.gotPassword != "senha-forte-1" {
		t.Errorf("argumentos inesperados: %+v", users)
	}
	if users.gotNome != "root" {
		t.Errorf("nome deveria cair no username, obtido %q", users.gotNome)
	}
	if !strings.Contains(out.String(), "criado") {
		t.Errorf("saída inesperada: %q", out.String())
	}
}

func TestRun_CreateAdmin_Promoted(t *testing.T) {
	stubPasswords(t, "senha-forte-1", "senha-forte-1")
	cli, out, _ := newCLI(&fakeUsers{created: false})

	err := cli.run(context.Background(), []string{"admin", "createadmin", "-username", "ana", "-email", "ana@x.com", "-nome", "Ana"})
	if err != nil {
		t.Fatalf("createadmin falhou: %v", err)
	}
	if !strings.Contains(out.String(), "promovido") {
		t.Errorf("saída inesperada: %q", out.String())
	}
}

func TestRun_PasswordMismatch(t *testing.T) {
	stubPasswords(t, "senha-forte-1", "outra-senha")
	users := &fakeUsers{}
	cli, _, _ := newCLI(users)

	err := cli.run(context.Background(), []string{"admin", "resetpassword", "-username", "ana"})
	if !errors.Is(err, errPasswordMismatch) {
		t.Errorf("esperado errPasswordMismatch, obtido %v", err)
	}
	if users.gotPassword != "" {
		t.Error("serviço não deveria ser chamado")
	}
}

func TestRun_ResetPassword(t *testing.T) {
	stubPasswords(t, "nova-senha-9", "nova-senha-9")
	users := &fakeUsers{}
	cli, _, _ := newCLI(users)

	if err := cli.run(context.Background(), []string{"admin", "resetpassword", "-username", "ana"}); err != nil {
		t.Fatalf("resetpassword falhou: %v", err)
	}
	if users.gotUsername != "ana" || users.gotPassword != "nova-senha-9" {
		t.Errorf("argumentos inesperados: %+v", users)
	}
}

func TestRun_ResetPassword_ServiceError(t *testing.T) {
	stubPasswords(t, "nova-senha-9", "nova-senha-9")
	wantErr := errors.New("usuário não encontrado")
	cli, _, _ := newCLI(&fakeUsers{setErr: wantErr})

	if err := cli.run(context.Background(), []string{"admin", "resetpassword", "-username", "x"}); !errors.Is(err, wantErr) {
		t.Errorf("esperado erro do serviço, obtido %v", err)
	}
}

func TestRun_EmptyPassword(t *testing.T) {
	stubPasswords(t, "")
	cli, _, _ := newCLI(&fakeUsers{})

	if err := cli.run(context.Background(), []string{"admin", "resetpassword", "-username", "ana"}); err != errHelp {
		t.Errorf("senha vazia deveria dar errHelp, obtido %v", err)
	}
}
