package repository

import (
	"context"

	"vpaura/backend/internal/model"
)

// SessionRepository persists conversation sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// MessageRepository persists session turns.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	// ListBySession returns the most recent limit messages, oldest first.
	ListBySession(ctx context.Context, sessionID int64, limit int) ([]*model.Message, error)
	// ListBySessionPaginated returns messages newest first.
	ListBySessionPaginated(ctx context.Context, sessionID int64, offset, limit int) ([]*model.Message, error)
}

// UserRepository persists users. Create returns ErrDuplicate when the
// username or email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
}

// DocumentRepository stores reference documents and searches them for
// retrieval.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id int64) (*model.Document, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Document, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, userID int64, terms []string, limit int) ([]*model.Document, error)
}
