package interfaces

import (
	"context"

	"vpaura/backend/internal/model"
	"vpaura/backend/internal/service"
)

// Handlers depend on these contracts rather than the concrete services.

// ChatService runs chat turns and bare completions.
type ChatService interface {
	Chat(ctx context.Context, req *model.ChatRequest, userID int64) (*model.ChatResponse, error)
	ChatStream(ctx context.Context, req *model.ChatRequest, userID int64, out chan<- model.StreamEvent)
	Completion(ctx context.Context, req *model.CompletionRequest) (*model.CompletionResponse, error)
}

// SessionService manages conversation sessions.
type SessionService interface {
	Create(ctx context.Context, userID int64, name string) (*model.Session, error)
	Get(ctx context.Context, id int64) (*model.Session, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Session, error)
	ListGrouped(ctx context.Context, userID int64, limit int) (*model.GroupedSessions, error)
	Rename(ctx context.Context, id int64, name string) (*model.Session, error)
	Delete(ctx context.Context, id int64) error
	Checkpoints(ctx context.Context, id int64) ([]*model.Checkpoint, error)
}

// UserService manages the users that own sessions and documents.
type UserService interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
}

// DocumentService manages reference documents for retrieval.
type DocumentService interface {
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)
	Get(ctx context.Context, id int64) (*model.Document, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Document, error)
	Delete(ctx context.Context, id int64) error
}

// MessageService reads session history.
type MessageService interface {
	ListBySession(ctx context.Context, sessionID int64, limit int) ([]*model.Message, error)
	ListPaginated(ctx context.Context, sessionID int64, offset, limit int) ([]*model.Message, error)
}

// SettingsService manages runtime model settings.
type SettingsService interface {
	Get(ctx context.Context) *service.Settings
	Save(ctx context.Context, settings *service.Settings) error
}

// ModelService reports the active model configuration.
type ModelService interface {
	Info(ctx context.Context) *service.ModelInfo
}
