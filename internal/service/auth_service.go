package service

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"ludus-server/internal/auth"
)

// emailShape is deliberately loose: anything before an @, anything after.
var emailShape = regexp.MustCompile(`^[^@]+@[^@]+$`)

// RegisterInput carries the fields of a registration request. Role is
// not accepted from callers; every registered account starts as USER.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// AuthService authenticates credentials and mints bearer tokens.
type AuthService interface {
	// Login validates credentials and returns a signed token.
	Login(ctx context.Context, email, password string) (string, error)
	// Register creates the account and immediately logs it in.
	Register(ctx context.Context, input RegisterInput) (string, error)
}

type authService struct {
	users UserService
	codec *auth.Codec
}

func NewAuthService(users UserService, codec *auth.Codec) AuthService {
	return &authService{users: users, codec: codec}
}

// Login runs the credential checks in a fixed order, first failure
// wins: presence, email shape, account exists, account active,
// password match. Only then is a token minted.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrCredentialsShape
	}
	if !emailShape.MatchString(email) {
		return "", ErrCredentialsShape
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !user.Active {
		return "", ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.codec.Mint(user)
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if _, err := s.users.Create(ctx, input.Email, input.Name, input.Password); err != nil {
		return "", err
	}
	return s.Login(ctx, input.Email, input.Password)
}
