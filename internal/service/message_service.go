package service

import (
	"context"
	"errors"
	"fmt"

	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
)

type MessageService struct {
	messages repository.MessageRepository
	sessions repository.SessionRepository
}

func NewMessageService(messages repository.MessageRepository, sessions repository.SessionRepository) *MessageService {
	return &MessageService{messages: messages, sessions: sessions}
}

func (s *MessageService) ensureSession(ctx context.Context, sessionID int64) error {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: session %d", app_errors.ErrNotFound, sessionID)
		}
		return fmt.Errorf("%w: could not get session: %w", app_errors.ErrDatabase, err)
	}
	return nil
}

// ListBySession returns the latest limit messages of a session, oldest first.
func (s *MessageService) ListBySession(ctx context.Context, sessionID int64, limit int) ([]*model.Message, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list messages: %w", app_errors.ErrDatabase, err)
	}
	return msgs, nil
}

// ListPaginated returns a page of a session's messages, newest first.
func (s *MessageService) ListPaginated(ctx context.Context, sessionID int64, offset, limit int) ([]*model.Message, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListBySessionPaginated(ctx, sessionID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list messages: %w", app_errors.ErrDatabase, err)
	}
	return msgs, nil
}
