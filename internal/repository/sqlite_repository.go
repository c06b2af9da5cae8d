package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vpaura/backend/internal/model"
)

type sqliteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) SessionRepository {
	return &sqliteSessionRepository{db: db}
}

func (r *sqliteSessionRepository) Create(ctx context.Context, session *model.Session) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = session.CreatedAt

	query := "INSERT INTO sessions (name, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query, session.Name, session.UserID, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not read session id: %w", err)
	}
	session.ID = id
	return nil
}

func (r *sqliteSessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := "SELECT id, name, user_id, created_at, updated_at FROM sessions WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)
	var s model.Session
	err := row.Scan(&s.ID, &s.Name, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteSessionRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Session, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM sessions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*model.Session{}
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.UserID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func (r *sqliteSessionRepository) Update(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now().UTC()
	query := "UPDATE sessions SET name = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, session.Name, session.UpdatedAt, session.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session; its messages go with it through ON DELETE CASCADE.
func (r *sqliteSessionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type sqliteMessageRepository struct {
	db *sql.DB
}

func NewSQLiteMessageRepository(db *sql.DB) MessageRepository {
	return &sqliteMessageRepository{db: db}
}

// Create inserts the message and bumps the owning session's updated_at in one
// transaction.
func (r *sqliteMessageRepository) Create(ctx context.Context, message *model.Message) error {
	if !message.Role.Valid() {
		return fmt.Errorf("invalid message role %q", message.Role)
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertMsgQuery := "INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)"
	res, err := tx.ExecContext(ctx, insertMsgQuery, message.SessionID, string(message.Role), message.Content, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not read message id: %w", err)
	}

	updateSessionQuery := "UPDATE sessions SET updated_at = ? WHERE id = ?"
	if _, err := tx.ExecContext(ctx, updateSessionQuery, message.CreatedAt, message.SessionID); err != nil {
		return fmt.Errorf("could not update session timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit message: %w", err)
	}
	message.ID = id
	return nil
}

func (r *sqliteMessageRepository) ListBySession(ctx context.Context, sessionID int64, limit int) ([]*model.Message, error) {
	query := `
		SELECT id, session_id, role, content, created_at FROM (
			SELECT id, session_id, role, content, created_at
			FROM messages
			WHERE session_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) ORDER BY created_at ASC, id ASC
	`
	return r.query(ctx, query, sessionID, limit)
}

func (r *sqliteMessageRepository) ListBySessionPaginated(ctx context.Context, sessionID int64, offset, limit int) ([]*model.Message, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	return r.query(ctx, query, sessionID, limit, offset)
}

func (r *sqliteMessageRepository) query(ctx context.Context, query string, args ...any) ([]*model.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		var msg model.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Role = model.Role(role)
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}
