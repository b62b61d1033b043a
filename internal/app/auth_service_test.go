package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"safety-training-service/internal/app"
	"safety-training-service/internal/auth"
	"safety-training-service/internal/domain"
	"safety-training-service/internal/infra/memory"
)

func newAuthService(t *testing.T) (*app.AuthService, *memory.UserStore) {
	t.Helper()
	tokens, err := auth.NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	users := memory.NewUserStore()
	return app.NewAuthService(users, tokens, nil), users
}

func TestSignupLoginAuthenticate(t *testing.T) {
	service, users := newAuthService(t)
	ctx := context.Background()

	session, err := service.Signup(ctx, app.SignupInput{
		Email: "  Ana@Example.com ", Password: "secret1", ConfirmPassword: "secret1", FullName: " Ana Souza ",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	profile, err := users.GetProfile(ctx, session.UserID)
	require.NoError(t, err)
	require.Equal(t, "Ana Souza", profile.FullName)

	login, err := service.Login(ctx, app.LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, session.UserID, login.UserID)

	userID, err := service.Authenticate(login.Token)
	require.NoError(t, err)
	require.Equal(t, session.UserID, userID)
}

func TestSignupValidation(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   app.SignupInput
		msg  string
	}{
		{"bad email", app.SignupInput{Email: "nope", Password: "secret1", ConfirmPassword: "secret1"}, "invalid email format"},
		{"short password", app.SignupInput{Email: "a@b.co", Password: "123", ConfirmPassword: "123"}, "password must be at least 6 characters"},
		{"mismatch", app.SignupInput{Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret2"}, "passwords do not match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Signup(ctx, tc.in)
			require.ErrorIs(t, err, domain.ErrValidation)
			require.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestSignupDuplicateAndBadLogin(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()
	in := app.SignupInput{Email: "dup@example.com", Password: "secret1", ConfirmPassword: "secret1"}

	_, err := service.Signup(ctx, in)
	require.NoError(t, err)
	_, err = service.Signup(ctx, in)
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = service.Login(ctx, app.LoginInput{Email: "dup@example.com", Password: "wrong!"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = service.Login(ctx, app.LoginInput{Email: "ghost@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Authenticate("")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
