package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"authbuddy/internal/common"
	"authbuddy/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPgUserRepository(db), mock
}

var mockUser = &model.User{
	ID:             "id-1",
	Username:       "alice",
	Email:          "a@x.com",
	HashedPassword: "$2a$12$hash",
}

func userRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "created_at", "updated_at"}).
		AddRow(mockUser.ID, mockUser.Username, mockUser.Email, mockUser.HashedPassword, now, now)
}

func TestPgUserRepository_Create(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(mockUser.ID, mockUser.Username, mockUser.Email, mockUser.HashedPassword).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), mockUser))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_Create_UniqueViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(mockUser.ID, mockUser.Username, mockUser.Email, mockUser.HashedPassword).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), mockUser)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_FindByEmail(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs(mockUser.Email).
		WillReturnRows(userRows())

	user, err := repo.FindByEmail(context.Background(), mockUser.Email)
	require.NoError(t, err)
	assert.Equal(t, mockUser.ID, user.ID)
	assert.Equal(t, mockUser.Username, user.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_FindByEmail_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_FindAll(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM users ORDER BY created_at").
		WillReturnRows(userRows())

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, mockUser.Email, users[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_Delete(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs(mockUser.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), mockUser.ID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("missing-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
