package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Índices únicos do schema (000001_init)
const (
	ConstraintUsername   = "uq_users_username"
	ConstraintEmail      = "uq_users_email_lower"
	ConstraintMatricula  = "uq_users_matricula_aluno"
	ConstraintTemaTitulo = "uq_temas_aluno_titulo"
)

const codeUniqueViolation = "23505"

// UniqueViolation devolve a constraint violada quando err é um 23505 do postgres
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// validID ids são UUID; qualquer outra coisa não existe
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
