package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ludus-server/internal/auth"
	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
)

func testCodec(t *testing.T) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec(&auth.Config{Secret: "unit-test-secret"})
	require.NoError(t, err)
	return codec
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role domain.Role, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Email:        email,
		Name:         "Test Person",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	_, err = repo.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestLoginValidationOrder(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(t, repo, "user@example.com", "correct-pw", domain.RoleUser, true)
	seedUser(t, repo, "sleeper@example.com", "correct-pw", domain.RoleUser, false)
	svc := NewAuthService(NewUserService(repo), testCodec(t))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "whatever", ErrCredentialsShape},
		{"empty password", "user@example.com", "", ErrCredentialsShape},
		{"not an email", "not-an-email", "whatever", ErrCredentialsShape},
		{"unknown user", "ghost@example.com", "whatever", repository.ErrNotFound},
		{"inactive user with correct password", "sleeper@example.com", "correct-pw", ErrUserInactive},
		{"wrong password", "user@example.com", "wrongpw", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoginShapeFailuresAreInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(NewUserService(newFakeUserRepo()), testCodec(t))
	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginSuccessMintsToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := seedUser(t, repo, "user@example.com", "correct-pw", domain.RoleAdmin, true)
	codec := testCodec(t)
	svc := NewAuthService(NewUserService(repo), codec)

	token, err := svc.Login(context.Background(), "user@example.com", "correct-pw")
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, claims.Roles)
}

func TestRegisterCreatesAndLogsIn(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	codec := testCodec(t)
	svc := NewAuthService(NewUserService(repo), codec)

	token, err := svc.Register(context.Background(), RegisterInput{
		Email:    "fresh@example.com",
		Name:     "Fresh Person",
		Password: "secret1",
	})
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "fresh@example.com", claims.Email)
	// Role is forced to USER no matter what.
	assert.Equal(t, []string{"ROLE_USER"}, claims.Roles)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(t, repo, "taken@example.com", "whatever1", domain.RoleUser, true)
	svc := NewAuthService(NewUserService(repo), testCodec(t))

	tests := []struct {
		name       string
		input      RegisterInput
		wantDetail string
	}{
		{"duplicate email", RegisterInput{"taken@example.com", "Valid Name", "secret1"}, "Email already registered"},
		{"short name", RegisterInput{"a@b.com", "abc", "secret1"}, "Name must be between 5 and 100 characters"},
		{"short password", RegisterInput{"a@b.com", "Valid Name", "pw"}, "Password must be between 5 and 30 characters"},
		{"bad email", RegisterInput{"nope", "Valid Name", "secret1"}, "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Details, tt.wantDetail)
		})
	}
}
