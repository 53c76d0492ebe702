package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
)

func TestUserCreateForcesUserRole(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	user, err := svc.Create(context.Background(), "new@example.com", "Brand New", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestUserSoftDelete(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user, err := svc.Create(context.Background(), "gone@example.com", "Soon Gone", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), user.ID))

	// Hidden from ordinary reads but the row survives.
	_, err = svc.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.LoadActiveByEmail(context.Background(), "gone@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	raw, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, raw.Active)

	users, info, err := svc.List(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Zero(t, info.Total)
}

func TestUserListPagination(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	for i := 0; i < 23; i++ {
		_, err := svc.Create(context.Background(), fmt.Sprintf("user%02d@example.com", i), fmt.Sprintf("Person %02d", i), "secret1")
		require.NoError(t, err)
	}

	users, info, err := svc.List(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Len(t, users, PageSize)
	assert.Equal(t, int64(23), info.Total)
	assert.Equal(t, 3, info.Pages)
	assert.True(t, info.HasNext)
	assert.False(t, info.HasPrev)

	users, info, err = svc.List(context.Background(), 3, "")
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.False(t, info.HasNext)
	assert.True(t, info.HasPrev)

	_, _, err = svc.List(context.Background(), 0, "")
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestUserUpdate(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	first, err := svc.Create(context.Background(), "first@example.com", "First Person", "secret1")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "second@example.com", "Second Person", "secret1")
	require.NoError(t, err)

	newName := "Renamed Person"
	updated, err := svc.Update(context.Background(), first.ID, UserPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Person", updated.Name)
	assert.Equal(t, "first@example.com", updated.Email)

	taken := "second@example.com"
	_, err = svc.Update(context.Background(), first.ID, UserPatch{Email: &taken})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Details, "Email already registered")

	_, err = svc.Update(context.Background(), 999, UserPatch{Name: &newName})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	created, err := svc.EnsureAdmin(context.Background(), "admin@example.com", "admin-pw")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// Second boot is a no-op.
	created, err = svc.EnsureAdmin(context.Background(), "admin@example.com", "admin-pw")
	require.NoError(t, err)
	assert.False(t, created)
}
