package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrDuplicateDisplayName = errors.New("display name already exists")
	ErrUserNotFound         = errors.New("referenced user does not exist")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	usersEmailKey       = "users_email_key"
	usersDisplayNameKey = "users_display_name_key"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == foreignKeyViolation
}
