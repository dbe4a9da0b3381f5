package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound arquivo inexistente no armazenamento
var ErrNotFound = errors.New("arquivo não encontrado")

// ErrInvalidKey chave fora do diretório base
var ErrInvalidKey = errors.New("chave de arquivo inválida")

// Store armazenamento de arquivos de entrega
type Store interface {
	// Save grava o conteúdo e devolve a chave gerada e o número de bytes gravados.
	Save(ctx context.Context, originalName string, r io.Reader) (key string, size int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Local grava em disco sob um diretório base
type Local struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewLocal cria o diretório base se necessário
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("diretório de armazenamento inválido: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de armazenamento: %w", err)
	}
	return &Local{dir: abs, prefix: "entregas", now: time.Now}, nil
}

// Save grava em entregas/AAAA/MM/<uuid><ext>
func (l *Local) Save(ctx context.Context, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	now := l.now()
	key := path.Join(l.prefix, now.Format("2006"), now.Format("01"), uuid.New().String()+ext)

	full, err := l.resolve(key)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", 0, fmt.Errorf("falha ao criar diretório: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("falha ao criar arquivo: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(full)
		if copyErr != nil {
			return "", 0, fmt.Errorf("falha ao gravar arquivo: %w", copyErr)
		}
		return "", 0, fmt.Errorf("falha ao fechar arquivo: %w", closeErr)
	}

	return key, n, nil
}

// Open abre o arquivo para leitura
func (l *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete remove o arquivo; chave inexistente não é erro
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve converte a chave em caminho absoluto sem permitir escapar de dir.
func (l *Local) resolve(key string) (string, error) {
	if key == "" || path.IsAbs(key) {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}
