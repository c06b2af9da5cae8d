package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vpaura/backend/internal/model"
)

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := "INSERT INTO users (username, email, fullname, created_at) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.FullName, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
		return fmt.Errorf("could not insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := "SELECT id, username, email, fullname, created_at FROM users WHERE id = ?"
	var u model.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteUserRepository) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	query := "SELECT id, username, email, fullname, created_at FROM users ORDER BY id ASC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

type sqliteDocumentRepository struct {
	db *sql.DB
}

func NewSQLiteDocumentRepository(db *sql.DB) DocumentRepository {
	return &sqliteDocumentRepository{db: db}
}

func (r *sqliteDocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	query := "INSERT INTO documents (user_id, title, content, created_at) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query, doc.UserID, doc.Title, doc.Content, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	doc.ID = id
	return nil
}

func (r *sqliteDocumentRepository) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	query := "SELECT id, user_id, title, content, created_at FROM documents WHERE id = ?"
	var d model.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByUser returns the user's documents, newest first.
func (r *sqliteDocumentRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Document, error) {
	query := `
		SELECT id, user_id, title, content, created_at
		FROM documents
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*model.Document{}
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func (r *sqliteDocumentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search returns the user's documents whose title or content contains any of
// terms, ordered by the number of matching terms.
func (r *sqliteDocumentRepository) Search(ctx context.Context, userID int64, terms []string, limit int) ([]*model.Document, error) {
	if len(terms) == 0 {
		return []*model.Document{}, nil
	}

	var (
		score   []string
		filters []string
		args    []any
	)
	for _, term := range terms {
		pattern := "%" + strings.ToLower(term) + "%"
		score = append(score, "(CASE WHEN lower(title) LIKE ? OR lower(content) LIKE ? THEN 1 ELSE 0 END)")
		args = append(args, pattern, pattern)
	}
	args = append(args, userID)
	for _, term := range terms {
		pattern := "%" + strings.ToLower(term) + "%"
		filters = append(filters, "lower(title) LIKE ? OR lower(content) LIKE ?")
		args = append(args, pattern, pattern)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, title, content, created_at, (%s) AS score
		FROM documents
		WHERE user_id = ? AND (%s)
		ORDER BY score DESC, id ASC
		LIMIT ?
	`, strings.Join(score, " + "), strings.Join(filters, " OR "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*model.Document{}
	for rows.Next() {
		var d model.Document
		var s int
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.CreatedAt, &s); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
