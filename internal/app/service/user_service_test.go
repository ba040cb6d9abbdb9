package service

import (
	"context"
	"testing"

	"authbuddy/internal/common"
	"authbuddy/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *memUserRepo, email, username string) *model.User {
	t.Helper()
	user := &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		Username:       username,
		HashedPassword: "$2a$12$irrelevant",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserService_ListAndGet(t *testing.T) {
	t.Parallel()

	repo := newMemUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	alice := seedUser(t, repo, "a@x.com", "alice")
	seedUser(t, repo, "b@x.com", "bob")

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	got, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.Get(ctx, "missing-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()

	repo := newMemUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	alice := seedUser(t, repo, "a@x.com", "alice")

	require.NoError(t, svc.Delete(ctx, alice.ID))

	_, err := svc.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, alice.ID), common.ErrNotFound)
}
