package test_utils

import (
	"context"

	"github.com/valoriza/valoriza/pkg/user"
)

// TestUser returns a user with the given role, as the auth middleware would resolve it.
func TestUser(role user.Role) user.User {
	return user.User{
		Id:          123,
		Uid:         "test-user-uid",
		Username:    "test_user",
		DisplayName: "Test User",
		Role:        role,
	}
}

func ContextWithUser(ctx context.Context, role user.Role) context.Context {
	return user.WithUser(ctx, TestUser(role))
}
