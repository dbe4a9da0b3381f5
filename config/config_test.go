package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("falha ao escrever config: %v", err)
	}
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "segredo-de-teste-com-tamanho"
server:
  port: 9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load falhou: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("esperado port=9090, obtido=%d", cfg.Server.Port)
	}
	if cfg.Storage.MaxFileSize != 10*1024*1024 {
		t.Errorf("esperado max_file_size=10MB, obtido=%d", cfg.Storage.MaxFileSize)
	}
	if len(cfg.Storage.AllowedExtensions) != 4 {
		t.Errorf("esperadas 4 extensões, obtidas=%v", cfg.Storage.AllowedExtensions)
	}
	if cfg.Server.Location().String() != "America/Sao_Paulo" {
		t.Errorf("fuso inesperado: %s", cfg.Server.Location())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "segredo-de-teste-com-tamanho"
`)
	t.Setenv("TCC_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load falhou: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("esperado port=7070 vindo do ambiente, obtido=%d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080, Timezone: "America/Sao_Paulo"},
			Auth:    AuthConfig{JWTSecret: "0123456789abcdef"},
			Storage: StorageConfig{MaxFileSize: 1, AllowedExtensions: []string{".pdf"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"válida", func(c *Config) {}, false},
		{"segredo vazio", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"segredo curto", func(c *Config) { c.Auth.JWTSecret = "curto" }, true},
		{"porta inválida", func(c *Config) { c.Server.Port = 70000 }, true},
		{"fuso inválido", func(c *Config) { c.Server.Timezone = "Marte/Olympus" }, true},
		{"tamanho zero", func(c *Config) { c.Storage.MaxFileSize = 0 }, true},
		{"sem extensões", func(c *Config) { c.Storage.AllowedExtensions = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() erro=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
