package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	u, err := f.users.Register(context.Background(), RegisterInput{
		Name:     "Jean Bosco",
		Email:    "jean@parkwise.test",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, db.RoleUser, u.Role)

	token, logged, err := f.users.Login(context.Background(), "jean@parkwise.test", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, logged.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(context.Background(), RegisterInput{
		Name: "A", Email: "dup@parkwise.test", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = f.users.Register(context.Background(), RegisterInput{
		Name: "B", Email: "DUP@parkwise.test", Password: "secret2",
	})
	assert.Equal(t, apperrors.KindDuplicateEmail, apperrors.KindOf(err))
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@parkwise.test", Password: "123",
	})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@parkwise.test", Password: "secret1",
	})
	require.NoError(t, err)

	_, _, err = f.users.Login(context.Background(), "a@parkwise.test", "wrong")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	_, _, err = f.users.Login(context.Background(), "nobody@parkwise.test", "secret1")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestListUsersAdminOnly(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.users.ListUsers(context.Background(), f.user, pageOne())
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	users, total, err := f.users.ListUsers(context.Background(), f.admin, pageOne())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.EnsureAdmin(context.Background(), "boss@parkwise.test", "secret1"))
	require.NoError(t, f.users.EnsureAdmin(context.Background(), "boss@parkwise.test", "secret1"))

	_, u, err := f.users.Login(context.Background(), "boss@parkwise.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, db.RoleAdmin, u.Role)
}
