package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
	"github.com/fbomateus/gestao-tcc/pkg/jwt"
)

// ── auxiliares ──

func setupTestAuthService() (AuthService, *testEnv, *memTokenStore, *jwt.Manager) {
	env := newTestEnv()
	tokens := newMemTokenStore()
	mgr := jwt.NewManager(&env.cfg.Auth)
	svc := NewAuthService(env.cfg, env.repo, mgr, tokens, zap.NewNop())
	return svc, env, tokens, mgr
}

func validRegister() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:        "maria",
		NomeCompleto:    "Maria Souza",
		Email:           "Maria@Uni.br",
		Matricula:       "2024001",
		Password:        "senhaForte1",
		PasswordConfirm: "senhaForte1",
	}
}

func withPassword(env *testEnv, u *model.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u.PasswordHash = string(hash)
	_ = env.users.Update(context.Background(), u)
}

func mustFieldErrors(t *testing.T, err error) apperrors.FieldErrors {
	t.Helper()
	fe, ok := apperrors.AsFieldErrors(err)
	if !ok {
		t.Fatalf("esperado FieldErrors, obtido %T: %v", err, err)
	}
	return fe
}

// ── Register ──

func TestAuthService_Register_Success(t *testing.T) {
	svc, env, _, _ := setupTestAuthService()

	resp, err := svc.Register(context.Background(), validRegister())
	if err != nil {
		t.Fatalf("Register deveria passar: %v", err)
	}
	if resp.Tipo != model.TipoAluno {
		t.Errorf("tipo esperado ALUNO, obtido %s", resp.Tipo)
	}

	saved, _ := env.users.GetByUsername(context.Background(), "maria")
	if saved == nil || saved.PasswordHash == "senhaForte1" {
		t.Fatal("senha deveria estar com hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("senhaForte1")); err != nil {
		t.Errorf("hash não confere: %v", err)
	}
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *dto.RegisterRequest)
		wantField string
		wantMsg   string
	}{
		{"senhas diferentes", func(r *dto.RegisterRequest) { r.PasswordConfirm = "outraSenha1" },
			"password_confirm", "As senhas não conferem."},
		{"senha curta", func(r *dto.RegisterRequest) { r.Password, r.PasswordConfirm = "abc12", "abc12" },
			"password", "Esta senha é muito curta. Ela precisa conter pelo menos 8 caracteres."},
		{"senha numérica", func(r *dto.RegisterRequest) { r.Password, r.PasswordConfirm = "12345678", "12345678" },
			"password", "Esta senha é inteiramente numérica."},
		{"sem matrícula", func(r *dto.RegisterRequest) { r.Matricula = "  " },
			"matricula", "Matrícula é obrigatória para alunos."},
		{"matrícula omitida", func(r *dto.RegisterRequest) { r.Matricula = "" },
			"matricula", "Matrícula é obrigatória para alunos."},
		{"nome em branco", func(r *dto.RegisterRequest) { r.NomeCompleto = "   " },
			"nome_completo", "Este campo é obrigatório."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := setupTestAuthService()
			req := validRegister()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)
			fe := mustFieldErrors(t, err)
			if fe[tt.wantField] != tt.wantMsg {
				t.Errorf("%s = %q, esperado %q", tt.wantField, fe[tt.wantField], tt.wantMsg)
			}
		})
	}
}

func TestAuthService_Register_UniqueIndexRace(t *testing.T) {
	svc, env, _, _ := setupTestAuthService()
	// outro cadastro gravou o mesmo e-mail entre a checagem e o INSERT
	env.users.createErr = &pgconn.PgError{Code: "23505", ConstraintName: repository.ConstraintEmail}

	_, err := svc.Register(context.Background(), validRegister())
	if fe := mustFieldErrors(t, err); fe["email"] != msgEmailExists {
		t.Errorf("email = %q, esperado %q", fe["email"], msgEmailExists)
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	svc, env, _, _ := setupTestAuthService()
	existing := env.addUser("u1", "maria", model.TipoAluno)
	existing.Email = "maria@uni.br"
	existing.Matricula = strPtr("2024001")

	_, err := svc.Register(context.Background(), validRegister())
	fe := mustFieldErrors(t, err)

	if fe["username"] != msgUsernameExists {
		t.Errorf("username: %q", fe["username"])
	}
	if fe["email"] != msgEmailExists {
		t.Errorf("email deveria colidir sem diferenciar maiúsculas: %q", fe["email"])
	}
	if fe["matricula"] != msgMatriculaExists {
		t.Errorf("matricula: %q", fe["matricula"])
	}
}

// ── Login ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, env, _, mgr := setupTestAuthService()
	u := env.addUser("u1", "joao", model.TipoOrientador)
	withPassword(env, u, "senhaForte1")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "joao", Password: "senhaForte1"})
	if err != nil {
		t.Fatalf("Login deveria passar: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != int((15*time.Minute).Seconds()) {
		t.Errorf("resposta inesperada: %+v", resp)
	}

	claims, err := mgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("access token inválido: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != model.TipoOrientador || claims.TokenType != jwt.TokenTypeAccess {
		t.Errorf("claims inesperadas: %+v", claims)
	}
	if env.users.users["u1"].LastLogin == nil {
		t.Error("last_login deveria ser atualizado")
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, env, _, _ := setupTestAuthService()
	active := env.addUser("u1", "ativo", model.TipoAluno)
	withPassword(env, active, "senhaForte1")
	inactive := env.addUser("u2", "inativo", model.TipoAluno)
	inactive.IsActive = false
	withPassword(env, inactive, "senhaForte1")

	tests := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"usuário inexistente", dto.LoginRequest{Username: "ninguem", Password: "senhaForte1"}},
		{"senha errada", dto.LoginRequest{Username: "ativo", Password: "errada123"}},
		{"usuário inativo", dto.LoginRequest{Username: "inativo", Password: "senhaForte1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("esperado ErrInvalidCredentials, obtido %v", err)
			}
		})
	}
}

// ── Refresh / Logout ──

func TestAuthService_RefreshToken_RotatesAndRevokes(t *testing.T) {
	svc, env, tokens, mgr := setupTestAuthService()
	env.addUser("u1", "ana", model.TipoAluno)

	refresh, _ := mgr.GenerateRefreshToken("u1", model.TipoAluno)

	resp, err := svc.RefreshToken(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh deveria passar: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("novo par de tokens esperado")
	}
	if len(tokens.revoked) != 1 {
		t.Errorf("refresh token usado deveria ir para a blacklist")
	}

	if _, err := svc.RefreshToken(context.Background(), refresh); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("reuso deveria falhar com ErrTokenRevoked, obtido %v", err)
	}
}

func TestAuthService_RefreshToken_Rejections(t *testing.T) {
	svc, env, _, mgr := setupTestAuthService()
	u := env.addUser("u1", "ana", model.TipoAluno)
	u.IsActive = false

	access, _ := mgr.GenerateAccessToken("u1", model.TipoAluno)
	if _, err := svc.RefreshToken(context.Background(), access); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("access token não serve como refresh: %v", err)
	}

	refresh, _ := mgr.GenerateRefreshToken("u1", model.TipoAluno)
	if _, err := svc.RefreshToken(context.Background(), refresh); !errors.Is(err, ErrUserInactive) {
		t.Errorf("usuário inativo: esperado ErrUserInactive, obtido %v", err)
	}

	if _, err := svc.RefreshToken(context.Background(), "lixo"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("token malformado: %v", err)
	}
}

func TestAuthService_Logout_BlacklistsUntilExpiry(t *testing.T) {
	svc, _, tokens, _ := setupTestAuthService()

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Logout falhou: %v", err)
	}
	ttl, ok := tokens.revoked["jti-1"]
	if !ok || ttl <= 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("ttl da blacklist inesperado: %v", ttl)
	}
}

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.cfg, env.repo, jwt.NewManager(&env.cfg.Auth), nil, zap.NewNop())

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Minute)); err != nil {
		t.Errorf("sem Redis o logout deveria ser no-op: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, env, _, _ := setupTestAuthService()
	env.addUser("u1", "ana", model.TipoAluno)

	resp, err := svc.Me(context.Background(), "u1")
	if err != nil || resp.Username != "ana" {
		t.Fatalf("Me inesperado: %v %+v", err, resp)
	}
	if _, err := svc.Me(context.Background(), "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("esperado ErrUserNotFound, obtido %v", err)
	}
}
