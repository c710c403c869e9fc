package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
)

func setupAuthService(t *testing.T) (photoTestEnv, *AuthService) {
	t.Helper()

	env := setupPhotoTestEnv(t)
	userRepo := repository.NewUserRepository(env.db)
	return env, NewAuthService(userRepo, LogMailer{})
}

func TestAuthService_Signup(t *testing.T) {
	env, auth := setupAuthService(t)

	user, err := auth.Signup(SignupInput{
		Username: "newuser",
		Email:    "NewUser@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "newuser", user.Username)
	require.Equal(t, "newuser@example.com", user.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	// Signup creates the profile alongside the user.
	var profile models.Profile
	require.NoError(t, env.db.Where("user_id = ?", user.ID).First(&profile).Error)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	_, auth := setupAuthService(t)

	_, err := auth.Signup(SignupInput{Username: "", Email: "a@b.com", Password: "password123"})
	require.ErrorIs(t, err, ErrUsernameRequired)

	_, err = auth.Signup(SignupInput{Username: "someone", Email: "", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailRequired)

	_, err = auth.Signup(SignupInput{Username: "someone", Email: "a@b.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Signup_Duplicates(t *testing.T) {
	_, auth := setupAuthService(t)

	_, err := auth.Signup(SignupInput{Username: "taken", Email: "taken@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = auth.Signup(SignupInput{Username: "taken", Email: "other@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = auth.Signup(SignupInput{Username: "other", Email: "taken@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	_, auth := setupAuthService(t)

	created, err := auth.Signup(SignupInput{Username: "login", Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err := auth.Login(LoginInput{Identifier: "login", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	// Email works as the identifier too.
	user, err = auth.Login(LoginInput{Identifier: "Login@Example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	_, err = auth.Login(LoginInput{Identifier: "login", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(LoginInput{Identifier: "nobody", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	env, auth := setupAuthService(t)

	user, err := auth.Signup(SignupInput{Username: "frozen", Email: "frozen@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, env.db.Model(user).Update("is_active", false).Error)

	_, err = auth.Login(LoginInput{Identifier: "frozen", Password: "password123"})
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	_, auth := setupAuthService(t)

	// Unknown addresses are silently accepted.
	require.NoError(t, auth.RequestPasswordReset("ghost@example.com"))
}
