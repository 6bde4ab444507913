package auth

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
)

// 定义 context key
type contextKey string

const (
	// OwnerIDKey 所有者ID的context key(字符串 UUID，由外层鉴权中间件注入)
	OwnerIDKey contextKey = "owner_id"
	// OwnerRoleKey 所有者角色的context key
	OwnerRoleKey contextKey = "owner_role"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// WithOwnerID 将所有者ID写入 context(由外层请求中间件调用)
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}

// WithRole 将用户角色写入 context
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, OwnerRoleKey, role)
}

// GetOwnerIDFromContext 从context中获取所有者ID(字符串 UUID)
func GetOwnerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerIDKey).(string)
	return ownerID, ok
}

// GetRoleFromContext 从context中获取用户角色
func GetRoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(OwnerRoleKey).(Role)
	return role, ok
}

// IsAdmin 判断当前用户是否为管理员
func IsAdmin(ctx context.Context) bool {
	role, ok := GetRoleFromContext(ctx)
	return ok && role == RoleAdmin
}

// RequireOwnerID 获取所有者ID，未认证时返回错误
func RequireOwnerID(ctx context.Context) (string, error) {
	ownerID, ok := GetOwnerIDFromContext(ctx)
	if !ok || ownerID == "" {
		return "", errors.Unauthorized("UNAUTHORIZED", "authentication required")
	}
	return ownerID, nil
}

// RequireAdmin 要求当前用户为管理员(管理/驱动类入口使用)
func RequireAdmin(ctx context.Context) error {
	if _, err := RequireOwnerID(ctx); err != nil {
		return err
	}
	if !IsAdmin(ctx) {
		return errors.Forbidden("FORBIDDEN", "administrator role required")
	}
	return nil
}
