package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a query for a single entity (e.g. a session
// by id) finds no rows. The service layer translates it into
// app_errors.ErrNotFound, which keeps sql.ErrNoRows out of business logic.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("repository: duplicate")

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
