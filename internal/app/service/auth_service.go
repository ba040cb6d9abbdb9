package service

import (
	"context"
	"errors"
	"fmt"

	"authbuddy/internal/common"
	"authbuddy/internal/common/security"
	"authbuddy/internal/domain/model"
	"authbuddy/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenManager
	validate *validator.Validate

	// dummyHash is compared against when a login targets an unknown email, so
	// that path costs a bcrypt verification like any wrong-password attempt.
	dummyHash string
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenManager) *AuthService {
	dummyHash, err := security.HashPassword(uuid.NewString())
	if err != nil {
		// bcrypt only fails on out-of-range cost, which is a constant here.
		panic(fmt.Sprintf("failed to prepare dummy hash: %v", err))
	}
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		dummyHash: dummyHash,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

type ProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}

	// The store's unique constraints arbitrate concurrent registrations; the
	// lookups above only cover the common path.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{AccessToken: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Burn a hash comparison so an unknown email is not cheaper than
			// a wrong password, then fail with the same error for both.
			security.CheckPasswordHash(req.Password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{AccessToken: token}, nil
}

// VerifyToken reports the claims of a valid token. Malformed, tampered and
// expired tokens all fail with common.ErrUnauthorized.
func (s *AuthService) VerifyToken(tokenString string) (security.Claims, error) {
	return s.tokens.Verify(tokenString)
}

func (s *AuthService) GetProfile(ctx context.Context, id string) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{ID: user.ID, Email: user.Email}, nil
}
