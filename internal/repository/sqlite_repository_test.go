package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpaura/backend/internal/database"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedSession(t *testing.T, db *sql.DB) (*model.User, *model.Session) {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice"}
	require.NoError(t, repository.NewSQLiteUserRepository(db).Create(ctx, user))
	session := &model.Session{Name: "first", UserID: user.ID}
	require.NoError(t, repository.NewSQLiteSessionRepository(db).Create(ctx, session))
	return user, session
}

func TestSessionRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "name", "user_id", "created_at", "updated_at"}).
			AddRow(7, "trip planning", 3, now, now)
		mockDB.ExpectQuery("SELECT id, name, user_id, created_at, updated_at FROM sessions WHERE id = ?").
			WithArgs(int64(7)).WillReturnRows(rows)

		repo := repository.NewSQLiteSessionRepository(db)
		s, err := repo.GetByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), s.ID)
		assert.Equal(t, "trip planning", s.Name)
		assert.Equal(t, int64(3), s.UserID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - Not found", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mockDB.ExpectQuery("SELECT id, name, user_id, created_at, updated_at FROM sessions WHERE id = ?").
			WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

		_, err = repository.NewSQLiteSessionRepository(db).GetByID(ctx, 9)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Failure - Driver error is passed through", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		dbErr := errors.New("disk I/O error")
		mockDB.ExpectQuery("SELECT id, name").WillReturnError(dbErr)

		_, err = repository.NewSQLiteSessionRepository(db).GetByID(ctx, 1)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestMessageRepository_Create_RollsBackOnSessionUpdateFailure(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mockDB.ExpectBegin()
	mockDB.ExpectExec("INSERT INTO messages").WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectExec("UPDATE sessions SET updated_at").WillReturnError(errors.New("locked"))
	mockDB.ExpectRollback()

	repo := repository.NewSQLiteMessageRepository(db)
	err = repo.Create(context.Background(), &model.Message{SessionID: 1, Role: model.RoleUser, Content: "hi"})

	assert.ErrorContains(t, err, "could not update session timestamp")
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMessageRepository_Create_RejectsUnknownRole(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := repository.NewSQLiteMessageRepository(db)
	err = repo.Create(context.Background(), &model.Message{SessionID: 1, Role: "system", Content: "x"})

	assert.Error(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMessageRepository_Ordering(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	_, session := seedSession(t, db)
	repo := repository.NewSQLiteMessageRepository(db)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	contents := []string{"q1", "a1", "q2", "a2", "q3"}
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msg := &model.Message{SessionID: session.ID, Role: role, Content: c, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, repo.Create(ctx, msg))
	}

	t.Run("History returns most recent N oldest first", func(t *testing.T) {
		msgs, err := repo.ListBySession(ctx, session.ID, 3)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "q2", msgs[0].Content)
		assert.Equal(t, "a2", msgs[1].Content)
		assert.Equal(t, "q3", msgs[2].Content)
	})

	t.Run("Paginated listing is newest first", func(t *testing.T) {
		page, err := repo.ListBySessionPaginated(ctx, session.ID, 1, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "a2", page[0].Content)
		assert.Equal(t, "q2", page[1].Content)
	})

	t.Run("Session timestamp follows the latest message", func(t *testing.T) {
		s, err := repository.NewSQLiteSessionRepository(db).GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, s.UpdatedAt.Equal(base.Add(4*time.Second)))
	})

	t.Run("Deleting the session cascades to messages", func(t *testing.T) {
		deleted, err := repository.NewSQLiteSessionRepository(db).Delete(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		msgs, err := repo.ListBySession(ctx, session.ID, 20)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestSessionRepository_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	user, session := seedSession(t, db)
	repo := repository.NewSQLiteSessionRepository(db)

	second := &model.Session{Name: "second", UserID: user.ID, CreatedAt: session.CreatedAt.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, second))

	session.Name = "renamed"
	require.NoError(t, repo.Update(ctx, session))

	list, err := repo.ListByUser(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, "renamed", list[1].Name)

	err = repo.Update(ctx, &model.Session{ID: 999, Name: "ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err := repo.Delete(ctx, 999)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	_, err := repository.NewSQLiteUserRepository(db).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDocumentRepository_Search(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	user, _ := seedSession(t, db)
	repo := repository.NewSQLiteDocumentRepository(db)

	docs := []*model.Document{
		{UserID: user.ID, Title: "Paris guide", Content: "Museums and cafes in Paris."},
		{UserID: user.ID, Title: "Rome guide", Content: "Ancient ruins, cafes and museums."},
		{UserID: user.ID, Title: "Recipes", Content: "Bread and soup."},
	}
	for _, d := range docs {
		require.NoError(t, repo.Create(ctx, d))
	}

	found, err := repo.Search(ctx, user.ID, []string{"paris", "museums"}, 5)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Paris guide", found[0].Title)
	assert.Equal(t, "Rome guide", found[1].Title)

	none, err := repo.Search(ctx, user.ID, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	other, err := repo.Search(ctx, user.ID+1, []string{"paris"}, 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUserRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := repository.NewSQLiteUserRepository(db)

	alice := &model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice"}
	bob := &model.User{Username: "bob", Email: "bob@example.com", FullName: "Bob"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	t.Run("Duplicate username is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Username: "alice", Email: "other@example.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("Duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Username: "carol", Email: "bob@example.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("List pages in id order", func(t *testing.T) {
		users, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username)

		page, err := repo.List(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, bob.ID, page[0].ID)
	})
}

func TestDocumentRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	user, _ := seedSession(t, db)
	repo := repository.NewSQLiteDocumentRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older := &model.Document{UserID: user.ID, Title: "Handbook", Content: "Leave policy.", CreatedAt: base}
	newer := &model.Document{UserID: user.ID, Title: "Notes", Content: "Standup on Monday.", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Handbook", got.Title)
	assert.Equal(t, user.ID, got.UserID)

	list, err := repo.ListByUser(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Notes", list[0].Title)

	deleted, err := repo.Delete(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err = repo.Delete(ctx, older.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
