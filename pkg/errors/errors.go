package errors

import (
	"errors"
	"sort"
	"strings"
)

// ErrOptimisticLock o registro foi alterado por outra operação desde a leitura
var ErrOptimisticLock = errors.New("o registro foi alterado por outra operação, recarregue e tente novamente")

// FieldErrors erros de validação por campo (chave = nome JSON do campo).
// A chave NonField agrupa erros que não pertencem a um campo específico.
type FieldErrors map[string]string

// NonField chave para erros gerais do formulário
const NonField = "__all__"

// Add registra a mensagem do campo, mantendo a primeira se já existir.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; ok {
		return
	}
	e[field] = msg
}

// Err devolve nil quando não há erros, permitindo `return fe.Err()`.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validação falhou: " + strings.Join(parts, "; ")
}

// AsFieldErrors extrai FieldErrors de uma cadeia de erros.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Merge copia os erros de outro conjunto sem sobrescrever os já presentes.
func (e FieldErrors) Merge(other error) {
	if fe, ok := AsFieldErrors(other); ok {
		for k, v := range fe {
			e.Add(k, v)
		}
	}
}
