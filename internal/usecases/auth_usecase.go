package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"shelf-market.backend/internal/domain/entities"
	"shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/pkg/crypto"
	"shelf-market.backend/pkg/jwt"
	"shelf-market.backend/pkg/logger"
	"shelf-market.backend/pkg/utils"
)

// AuthUsecase implements admin authentication
type AuthUsecase struct {
	userRepo   domainRepos.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo domainRepos.UserRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// LoginInput represents login credentials
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginOutput bundles the signed-in user with their tokens
type LoginOutput struct {
	User   *entities.User `json:"user"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

// Login verifies credentials and issues a token pair
func (uc *AuthUsecase) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, errors.Unauthorized("invalid credentials")
		}
		return nil, errors.InternalError(err)
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, errors.Unauthorized("invalid credentials")
	}

	tokens, err := uc.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.InternalError(err)
	}

	return &LoginOutput{User: user, Tokens: tokens}, nil
}

// Me returns the account for an authenticated user id
func (uc *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.InternalError(err)
	}
	return user, nil
}

// EnsureAdmin seeds the configured admin account if it does not exist yet.
// Called once at startup; a blank email or password skips seeding.
func (uc *AuthUsecase) EnsureAdmin(ctx context.Context, email, name, password string) error {
	if email == "" || password == "" {
		return nil
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if err != errors.ErrNotFound {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Name:         name,
		Role:         entities.UserRoleAdmin,
		PasswordHash: hash,
	}
	if err := uc.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info(ctx, "Seeded admin account", zap.String("email", email))
	return nil
}
