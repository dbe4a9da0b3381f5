package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fbomateus/gestao-tcc/internal/api/middleware"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
	"github.com/fbomateus/gestao-tcc/pkg/response"
	"github.com/fbomateus/gestao-tcc/pkg/validation"
)

// bindFailed responde 400 com as mensagens do validador por campo
func bindFailed(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "corpo da requisição muito grande")
		return
	}
	response.ValidationFailed(c, 10001, validation.Translate(err))
}

// fieldErrors trata FieldErrors e conflito de versão, comuns a vários módulos.
// Devolve false quando o erro não é de nenhum dos dois.
func fieldErrors(c *gin.Context, code int, err error) bool {
	if fe, ok := apperrors.AsFieldErrors(err); ok {
		response.ValidationFailed(c, code, fe)
		return true
	}
	if errors.Is(err, apperrors.ErrOptimisticLock) {
		response.Conflict(c, 10006, err.Error())
		return true
	}
	return false
}

// internalError registra o erro no contexto (aparece no log da requisição) e responde 500
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.InternalError(c)
}
