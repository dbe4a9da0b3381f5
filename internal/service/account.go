package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

// Mensagens de validação de conta
const (
	msgUsernameExists   = "Já existe um usuário com este nome de usuário."
	msgEmailExists      = "Já existe um usuário com este e-mail."
	msgMatriculaExists  = "Já existe um aluno com esta matrícula."
	msgPasswordMismatch = "As senhas não conferem."
	msgPasswordNumeric  = "Esta senha é inteiramente numérica."
	msgPasswordRequired = "Senha é obrigatória na criação."
)

// checkPassword política de senha + confirmação
func checkPassword(cfg *config.AuthConfig, password, confirm string) error {
	fe := apperrors.FieldErrors{}

	if password != confirm {
		fe.Add("password_confirm", msgPasswordMismatch)
	}

	minChars := cfg.MinPasswordChars
	if minChars <= 0 {
		minChars = 8
	}
	if len([]rune(password)) < minChars {
		fe.Add("password", fmt.Sprintf(
			"Esta senha é muito curta. Ela precisa conter pelo menos %d caracteres.", minChars))
	} else if isAllDigits(password) {
		fe.Add("password", msgPasswordNumeric)
	}

	return fe.Err()
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func hashPassword(cfg *config.AuthConfig, password string) (string, error) {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkUnique username, e-mail e matrícula (para alunos).
// excludeID ignora o próprio registro em atualizações.
func checkUnique(ctx context.Context, users repository.UserRepository, u *model.User, excludeID string) (apperrors.FieldErrors, error) {
	fe := apperrors.FieldErrors{}

	taken := func(found *model.User, err error) (bool, error) {
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return found.UserID != excludeID, nil
	}

	dup, err := taken(users.GetByUsername(ctx, u.Username))
	if err != nil {
		return nil, err
	}
	if dup {
		fe.Add("username", msgUsernameExists)
	}

	dup, err = taken(users.GetByEmail(ctx, u.Email))
	if err != nil {
		return nil, err
	}
	if dup {
		fe.Add("email", msgEmailExists)
	}

	if u.Tipo == model.TipoAluno && u.Matricula != nil {
		dup, err = taken(users.GetAlunoByMatricula(ctx, *u.Matricula))
		if err != nil {
			return nil, err
		}
		if dup {
			fe.Add("matricula", msgMatriculaExists)
		}
	}

	return fe, nil
}

// uniqueConflict converte violação de índice único (corrida entre checkUnique
// e o INSERT) no mesmo erro de campo da checagem prévia
func uniqueConflict(err error) error {
	name, ok := repository.UniqueViolation(err)
	if !ok {
		return err
	}
	fe := apperrors.FieldErrors{}
	switch name {
	case repository.ConstraintUsername:
		fe.Add("username", msgUsernameExists)
	case repository.ConstraintEmail:
		fe.Add("email", msgEmailExists)
	case repository.ConstraintMatricula:
		fe.Add("matricula", msgMatriculaExists)
	case repository.ConstraintTemaTitulo:
		fe.Add("titulo", msgTituloExists)
	default:
		return err
	}
	return fe
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
