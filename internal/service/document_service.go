package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
)

// DocumentService manages the reference documents the retrieval workflow
// searches.
type DocumentService struct {
	documents repository.DocumentRepository
	users     repository.UserRepository
}

func NewDocumentService(documents repository.DocumentRepository, users repository.UserRepository) *DocumentService {
	return &DocumentService{documents: documents, users: users}
}

// Create stores a document for an existing user.
func (s *DocumentService) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	doc.Title = strings.TrimSpace(doc.Title)
	if doc.Title == "" || strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", app_errors.ErrValidation)
	}
	if _, err := s.users.GetByID(ctx, doc.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", app_errors.ErrNotFound, doc.UserID)
		}
		return nil, fmt.Errorf("%w: could not get user: %w", app_errors.ErrDatabase, err)
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: could not create document: %w", app_errors.ErrDatabase, err)
	}
	slog.InfoContext(ctx, "Created document", "document_id", doc.ID, "user_id", doc.UserID)
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: document %d", app_errors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: could not get document: %w", app_errors.ErrDatabase, err)
	}
	return doc, nil
}

// ListByUser returns a page of the user's documents, newest first.
func (s *DocumentService) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Document, error) {
	docs, err := s.documents.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list documents: %w", app_errors.ErrDatabase, err)
	}
	return docs, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.documents.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: could not delete document: %w", app_errors.ErrDatabase, err)
	}
	if !deleted {
		return fmt.Errorf("%w: document %d", app_errors.ErrNotFound, id)
	}
	return nil
}
