package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
)

const (
	defaultGroupLimit   = 30
	groupedSessionsScan = 1000
)

// CheckpointHistory reads and drops per-session workflow state.
type CheckpointHistory interface {
	History(ctx context.Context, sessionID int64) ([]*model.Checkpoint, error)
	Clear(ctx context.Context, sessionID int64) error
}

type SessionService struct {
	sessions    repository.SessionRepository
	checkpoints CheckpointHistory
	now         func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, checkpoints CheckpointHistory) *SessionService {
	return &SessionService{
		sessions:    sessions,
		checkpoints: checkpoints,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new session for userID.
func (s *SessionService) Create(ctx context.Context, userID int64, name string) (*model.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: session name cannot be empty", app_errors.ErrValidation)
	}
	session := &model.Session{Name: name, UserID: userID}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: could not create session: %w", app_errors.ErrDatabase, err)
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id int64) (*model.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: session %d", app_errors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: could not get session: %w", app_errors.ErrDatabase, err)
	}
	return session, nil
}

// ListByUser returns the user's sessions, newest first.
func (s *SessionService) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Session, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list sessions: %w", app_errors.ErrDatabase, err)
	}
	return sessions, nil
}

// ListGrouped buckets the user's sessions by creation day relative to today
// (UTC), keeping at most limit sessions per bucket. Total counts every
// session scanned.
func (s *SessionService) ListGrouped(ctx context.Context, userID int64, limit int) (*model.GroupedSessions, error) {
	if limit <= 0 {
		limit = defaultGroupLimit
	}
	all, err := s.sessions.ListByUser(ctx, userID, 0, groupedSessionsScan)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list sessions: %w", app_errors.ErrDatabase, err)
	}

	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	sevenDaysAgo := todayStart.AddDate(0, 0, -7)
	thirtyDaysAgo := todayStart.AddDate(0, 0, -30)

	grouped := &model.GroupedSessions{
		Today:      []*model.Session{},
		Yesterday:  []*model.Session{},
		Last7Days:  []*model.Session{},
		Last30Days: []*model.Session{},
		Older:      []*model.Session{},
		Total:      len(all),
	}
	add := func(bucket *[]*model.Session, session *model.Session) {
		if len(*bucket) < limit {
			*bucket = append(*bucket, session)
		}
	}
	for _, session := range all {
		created := session.CreatedAt.UTC()
		switch {
		case !created.Before(todayStart):
			add(&grouped.Today, session)
		case !created.Before(yesterdayStart):
			add(&grouped.Yesterday, session)
		case !created.Before(sevenDaysAgo):
			add(&grouped.Last7Days, session)
		case !created.Before(thirtyDaysAgo):
			add(&grouped.Last30Days, session)
		default:
			add(&grouped.Older, session)
		}
	}
	return grouped, nil
}

func (s *SessionService) Rename(ctx context.Context, id int64, name string) (*model.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: session name cannot be empty", app_errors.ErrValidation)
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Name = name
	if err := s.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: session %d", app_errors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: could not update session: %w", app_errors.ErrDatabase, err)
	}
	slog.InfoContext(ctx, "Renamed session", "session_id", id)
	return session, nil
}

// Checkpoints returns the workflow checkpoints retained for a session,
// oldest first.
func (s *SessionService) Checkpoints(ctx context.Context, id int64) ([]*model.Checkpoint, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.checkpoints == nil {
		return []*model.Checkpoint{}, nil
	}
	history, err := s.checkpoints.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load checkpoints: %w", app_errors.ErrDatabase, err)
	}
	return history, nil
}

// Delete removes the session with its messages. Clearing checkpoints is best
// effort; a failure there does not keep the session alive.
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	if s.checkpoints != nil {
		if err := s.checkpoints.Clear(ctx, id); err != nil {
			slog.WarnContext(ctx, "Failed to clear checkpoints for session", "session_id", id, "error", err)
		} else {
			slog.InfoContext(ctx, "Cleared checkpoints for session", "session_id", id)
		}
	}
	deleted, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: could not delete session: %w", app_errors.ErrDatabase, err)
	}
	if !deleted {
		return fmt.Errorf("%w: session %d", app_errors.ErrNotFound, id)
	}
	return nil
}
