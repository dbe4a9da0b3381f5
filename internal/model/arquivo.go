package model

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

// ArquivoRules limites do arquivo de entrega
type ArquivoRules struct {
	MaxSize           int64    // bytes
	AllowedExtensions []string // com ponto, minúsculas
}

// Validate checa tamanho e extensão do arquivo enviado
func (r ArquivoRules) Validate(name string, size int64) error {
	fe := apperrors.FieldErrors{}

	if r.MaxSize > 0 && size > r.MaxSize {
		fe.Add("arquivo", fmt.Sprintf("O arquivo não pode ter mais que %s.", humanSize(r.MaxSize)))
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !r.allowed(ext) {
		fe.Add("arquivo", fmt.Sprintf("Tipo de arquivo não permitido. Use %s.", r.extensionList()))
	}

	return fe.Err()
}

func (r ArquivoRules) allowed(ext string) bool {
	if ext == "" {
		return false
	}
	for _, a := range r.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

// extensionList ".pdf,.doc,.zip" → "PDF, DOC ou ZIP"
func (r ArquivoRules) extensionList() string {
	names := make([]string, 0, len(r.AllowedExtensions))
	for _, a := range r.AllowedExtensions {
		names = append(names, strings.ToUpper(strings.TrimPrefix(a, ".")))
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " ou " + names[len(names)-1]
}

func humanSize(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	if n%1024 == 0 {
		return fmt.Sprintf("%dKB", n/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}
