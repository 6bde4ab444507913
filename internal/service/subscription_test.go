package service

import (
	"context"
	"io"
	"testing"

	"github.com/itshubble/hubble-server/internal/auth"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSweepRequiresAdmin(t *testing.T) {
	s := NewSubscriptionService(nil, log.NewStdLogger(io.Discard))

	// 未认证
	_, err := s.RunSweep(context.Background(), &SweepRequest{})
	require.Error(t, err)
	assert.True(t, kerrors.IsUnauthorized(err))

	// 普通用户：扫描会推进状态并入账，还能拨快时钟，必须拒绝
	ctx := auth.WithRole(auth.WithOwnerID(context.Background(), "owner-1"), auth.RoleUser)
	_, err = s.RunSweep(ctx, &SweepRequest{})
	require.Error(t, err)
	assert.True(t, kerrors.IsForbidden(err))
}
