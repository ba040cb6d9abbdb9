package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authbuddy/internal/common"
	"authbuddy/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// redisUserRepository is a key-value backed UserRepository. Uniqueness of email
// and username is enforced with SET NX index keys, so a race between two
// concurrent creates has exactly one winner.
type redisUserRepository struct {
	rdb *redis.Client
}

func NewRedisUserRepository(rdb *redis.Client) UserRepository {
	return &redisUserRepository{rdb: rdb}
}

const userIDSetKey = "users"

func userKey(id string) string            { return "user:" + id }
func emailIndexKey(email string) string   { return "user:email:" + email }
func usernameIndexKey(name string) string { return "user:name:" + name }

func (r *redisUserRepository) Create(ctx context.Context, user *model.User) error {
	ok, err := r.rdb.SetNX(ctx, emailIndexKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("redisUserRepository.Create: %w: %v", common.ErrStore, err)
	}
	if !ok {
		return fmt.Errorf("user with given username or email already exists: %w", common.ErrAlreadyExists)
	}

	ok, err = r.rdb.SetNX(ctx, usernameIndexKey(user.Username), user.ID, 0).Result()
	if err != nil {
		r.rdb.Del(ctx, emailIndexKey(user.Email))
		return fmt.Errorf("redisUserRepository.Create: %w: %v", common.ErrStore, err)
	}
	if !ok {
		// Release the email claim taken above so the email stays registrable.
		r.rdb.Del(ctx, emailIndexKey(user.Email))
		return fmt.Errorf("user with given username or email already exists: %w", common.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	fields := map[string]interface{}{
		"id":              user.ID,
		"username":        user.Username,
		"email":           user.Email,
		"hashed_password": user.HashedPassword,
		"created_at":      user.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":      user.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := r.rdb.HSet(ctx, userKey(user.ID), fields).Err(); err != nil {
		r.rdb.Del(ctx, emailIndexKey(user.Email), usernameIndexKey(user.Username))
		return fmt.Errorf("redisUserRepository.Create: %w: %v", common.ErrStore, err)
	}
	if err := r.rdb.SAdd(ctx, userIDSetKey, user.ID).Err(); err != nil {
		return fmt.Errorf("redisUserRepository.Create: %w: %v", common.ErrStore, err)
	}
	return nil
}

func (r *redisUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findByIndex(ctx, "redisUserRepository.FindByEmail", emailIndexKey(email))
}

func (r *redisUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findByIndex(ctx, "redisUserRepository.FindByUsername", usernameIndexKey(username))
}

func (r *redisUserRepository) findByIndex(ctx context.Context, op, indexKey string) (*model.User, error) {
	id, err := r.rdb.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w: %v", op, common.ErrStore, err)
	}
	return r.FindByID(ctx, id)
}

func (r *redisUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	fields, err := r.rdb.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisUserRepository.FindByID: %w: %v", common.ErrStore, err)
	}
	if len(fields) == 0 {
		return nil, common.ErrNotFound
	}
	return userFromFields(fields), nil
}

func (r *redisUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	ids, err := r.rdb.SMembers(ctx, userIDSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redisUserRepository.FindAll: %w: %v", common.ErrStore, err)
	}
	var users []*model.User
	for _, id := range ids {
		user, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *redisUserRepository) Delete(ctx context.Context, id string) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	keys := []string{userKey(id), emailIndexKey(user.Email), usernameIndexKey(user.Username)}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redisUserRepository.Delete: %w: %v", common.ErrStore, err)
	}
	if err := r.rdb.SRem(ctx, userIDSetKey, id).Err(); err != nil {
		return fmt.Errorf("redisUserRepository.Delete: %w: %v", common.ErrStore, err)
	}
	return nil
}

func userFromFields(fields map[string]string) *model.User {
	user := &model.User{
		ID:             fields["id"],
		Username:       fields["username"],
		Email:          fields["email"],
		HashedPassword: fields["hashed_password"],
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["created_at"]); err == nil {
		user.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		user.UpdatedAt = t
	}
	return user
}
