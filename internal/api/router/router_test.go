package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/api/handler"
	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/jwt"
)

func setupTestRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}}},
		Auth: config.AuthConfig{
			JWTSecret:       "segredo-de-teste-com-tamanho",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
		Storage: config.StorageConfig{MaxFileSize: 1024},
	}
	mgr := jwt.NewManager(&cfg.Auth)
	// serviços nil: os testes só exercitam o que acontece antes deles
	h := handler.NewHandler(&service.Service{}, nil)
	return Setup(cfg, h, mgr, nil, nil, zap.NewNop()), mgr
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("esperado 200, obtido %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID ausente")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/auth/me"},
		{"POST", "/api/v1/auth/logout"},
		{"GET", "/api/v1/dashboard"},
		{"GET", "/api/v1/users"},
		{"GET", "/api/v1/orientadores"},
		{"GET", "/api/v1/temas"},
		{"POST", "/api/v1/temas/t1/entregas"},
		{"GET", "/api/v1/entregas/e1/arquivo"},
		{"PUT", "/api/v1/entregas/e1/feedback"},
		{"GET", "/api/v1/export/temas"},
		{"GET", "/api/v1/export/calendario"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: esperado 401, obtido %d", rt.method, rt.path, w.Code)
		}
	}
}

func TestAdminRoutesRejectAluno(t *testing.T) {
	r, mgr := setupTestRouter(t)
	tok, _ := mgr.GenerateAccessToken("u1", "ALUNO")

	for _, path := range []string{"/api/v1/users", "/api/v1/export/temas"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: esperado 403, obtido %d", path, w.Code)
		}
	}
}

func TestPublicAuthRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	// corpo inválido falha no binding, antes do serviço
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("login sem campos: esperado 400, obtido %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/temas", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("preflight sem allow-origin: %v", w.Header())
	}
}
