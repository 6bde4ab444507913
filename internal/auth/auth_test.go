package auth

import (
	"context"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireOwnerID(t *testing.T) {
	_, err := RequireOwnerID(context.Background())
	require.Error(t, err)
	assert.True(t, kerrors.IsUnauthorized(err))

	ctx := WithOwnerID(context.Background(), "owner-1")
	ownerID, err := RequireOwnerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", ownerID)
}

func TestRequireAdmin(t *testing.T) {
	// 未认证
	err := RequireAdmin(context.Background())
	require.Error(t, err)
	assert.True(t, kerrors.IsUnauthorized(err))

	// 已认证但非管理员
	ctx := WithOwnerID(context.Background(), "owner-1")
	err = RequireAdmin(ctx)
	require.Error(t, err)
	assert.True(t, kerrors.IsForbidden(err))

	ctx = WithRole(ctx, RoleUser)
	err = RequireAdmin(ctx)
	require.Error(t, err)
	assert.True(t, kerrors.IsForbidden(err))

	// 管理员
	ctx = WithRole(WithOwnerID(context.Background(), "owner-1"), RoleAdmin)
	assert.NoError(t, RequireAdmin(ctx))
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, IsAdmin(context.Background()))
	assert.False(t, IsAdmin(WithRole(context.Background(), RoleUser)))
	assert.True(t, IsAdmin(WithRole(context.Background(), RoleAdmin)))
}
