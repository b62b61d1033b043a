package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"safety-training-service/internal/auth"
	"safety-training-service/internal/domain"
)

// UserRepository stores accounts and their profiles.
type UserRepository interface {
	// CreateUser stores the user and its profile atomically; ErrEmailTaken on duplicates.
	CreateUser(ctx context.Context, user domain.User, profile domain.Profile) error
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// SignupInput is the registration form.
type SignupInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FullName        string `json:"fullName" validate:"max=120"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthSession is returned on successful signup or login.
type AuthSession struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService implements signup, login and token verification.
type AuthService struct {
	users    UserRepository
	tokens   TokenIssuer
	validate *validator.Validate
	log      *zap.Logger
}

func NewAuthService(users UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		log:      logger,
	}
}

// Signup registers a new account and logs it in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (AuthSession, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.validate.Struct(in); err != nil {
		return AuthSession{}, validationError(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthSession{}, err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user, domain.Profile{UserID: user.ID, FullName: in.FullName}); err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			s.log.Error("create user", zap.Error(err))
		}
		return AuthSession{}, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID))
	return s.session(user)
}

// Login checks the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthSession, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return AuthSession{}, domain.ErrInvalidCredentials
	}
	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return AuthSession{}, domain.ErrInvalidCredentials
		}
		return AuthSession{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return AuthSession{}, domain.ErrInvalidCredentials
	}
	return s.session(user)
}

// Authenticate returns the user ID carried by a valid token.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	return s.tokens.Verify(token)
}

func (s *AuthService) session(user domain.User) (AuthSession, error) {
	token, expires, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return AuthSession{}, err
	}
	return AuthSession{UserID: user.ID, Token: token, ExpiresAt: expires}, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Email":
		return fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	case fe.Field() == "Password" && fe.Tag() == "min":
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	case fe.Field() == "ConfirmPassword":
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	default:
		return fmt.Errorf("%w: %s is invalid", domain.ErrValidation, strings.ToLower(fe.Field()))
	}
}
