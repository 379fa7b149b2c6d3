package usecases_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"shelf-market.backend/internal/domain/entities"
	"shelf-market.backend/internal/usecases"
	"shelf-market.backend/pkg/crypto"
	"shelf-market.backend/pkg/jwt"
	"shelf-market.backend/pkg/utils"
)

func newAuthStack(t *testing.T) (*fakeUserRepo, *usecases.AuthUsecase) {
	t.Helper()
	users := newFakeUserRepo()
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return users, usecases.NewAuthUsecase(users, jwtService)
}

func seedAdmin(t *testing.T, users *fakeUserRepo, email, password string) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	admin := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Name:         "Administrator",
		Role:         entities.UserRoleAdmin,
		PasswordHash: hash,
	}
	require.NoError(t, users.Create(context.Background(), admin))
	return admin
}

func TestAuthUsecase_Login(t *testing.T) {
	users, uc := newAuthStack(t)
	seedAdmin(t, users, "admin@shelf.test", "s3cret-pass")
	ctx := context.Background()

	out, err := uc.Login(ctx, &usecases.LoginInput{Email: "admin@shelf.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.Equal(t, "admin@shelf.test", out.User.Email)
	require.NotNil(t, out.Tokens)
	require.NotEmpty(t, out.Tokens.AccessToken)
	require.NotEmpty(t, out.Tokens.RefreshToken)

	_, err = uc.Login(ctx, &usecases.LoginInput{Email: "admin@shelf.test", Password: "wrong"})
	requireAppErrorCode(t, err, http.StatusUnauthorized)

	// unknown accounts get the same response as a bad password
	_, err = uc.Login(ctx, &usecases.LoginInput{Email: "nobody@shelf.test", Password: "s3cret-pass"})
	requireAppErrorCode(t, err, http.StatusUnauthorized)
}

func TestAuthUsecase_Me(t *testing.T) {
	users, uc := newAuthStack(t)
	admin := seedAdmin(t, users, "admin@shelf.test", "s3cret-pass")
	ctx := context.Background()

	user, err := uc.Me(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, admin.Email, user.Email)

	_, err = uc.Me(ctx, utils.GenerateUUIDv7())
	requireAppErrorCode(t, err, http.StatusNotFound)
}

func TestAuthUsecase_EnsureAdmin(t *testing.T) {
	users, uc := newAuthStack(t)
	ctx := context.Background()

	// blank config skips seeding
	require.NoError(t, uc.EnsureAdmin(ctx, "", "Administrator", "pass"))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@shelf.test", "Administrator", ""))
	_, err := users.GetByEmail(ctx, "admin@shelf.test")
	require.Error(t, err)

	require.NoError(t, uc.EnsureAdmin(ctx, "admin@shelf.test", "Administrator", "s3cret-pass"))
	admin, err := users.GetByEmail(ctx, "admin@shelf.test")
	require.NoError(t, err)
	require.Equal(t, entities.UserRoleAdmin, admin.Role)
	require.True(t, crypto.CheckPassword("s3cret-pass", admin.PasswordHash))

	// re-running keeps the existing account untouched
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@shelf.test", "Administrator", "different-pass"))
	again, err := users.GetByEmail(ctx, "admin@shelf.test")
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)
	require.True(t, crypto.CheckPassword("s3cret-pass", again.PasswordHash))
}
