package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoles_Allows(t *testing.T) {
	roles := RolesOf([]string{"admin", "manager"})

	assert.True(t, roles.Allows(RoleAdmin))
	assert.True(t, roles.Allows(RoleManager))
	assert.False(t, roles.Allows(RoleClient))
	assert.False(t, Roles(nil).Allows(RoleAdmin))
}

func TestCurrentUser(t *testing.T) {
	t.Run("returns ErrNoUser for an anonymous context", func(t *testing.T) {
		_, err := CurrentUser(context.Background())
		require.ErrorIs(t, err, ErrNoUser)

		_, err = CurrentId(context.Background())
		require.ErrorIs(t, err, ErrNoUser)
	})

	t.Run("returns the user stored in context", func(t *testing.T) {
		u := User{Id: 7, Uid: uuid.NewString(), Username: "ana", Role: RoleEngineer}
		ctx := WithUser(context.Background(), u)

		current, err := CurrentUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, u, current)

		id, err := CurrentId(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, id)
	})
}

func TestStubUserRepository(t *testing.T) {
	repo := NewStubUserRepository()
	uid := uuid.NewString()

	id, err := repo.CreateUser(context.Background(), User{Uid: uid, Username: "ana", Role: RoleManager})
	require.NoError(t, err)

	found, err := repo.GetUserByUid(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, id, found.Id)

	_, err = repo.GetUserByUid(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
