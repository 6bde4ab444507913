package biz

import (
	"context"
	"time"
)

// Account 订阅方账户(由账户工作流创建，此处只做点查)
type Account struct {
	ID           string
	OwnerID      string
	UserName     string
	FirstName    string
	LastName     string
	EmailAddress string
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountRepo 账户仓库接口
type AccountRepo interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
	// GetAccountForOwner 获取归属指定用户且未删除的账户
	GetAccountForOwner(ctx context.Context, ownerID, id string) (*Account, error)
}

// GetAccount 获取账户信息
func (uc *SubscriptionUsecase) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	return uc.accountRepo.GetAccount(ctx, accountID)
}
