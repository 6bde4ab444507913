package biz

import (
	"context"
	"time"

	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/errors"
)

// BillingLedgerEntry 计费账本条目(仅追加，写入后不可变)
// (subscriptionId, cycleNumber) 全局唯一，是防止同一周期重复扣费的幂等屏障
type BillingLedgerEntry struct {
	ID             string
	OwnerID        string
	SubscriptionID string
	CycleNumber    int
	Amount         float64
	CreatedAt      time.Time
}

// BillingLedgerRepo 计费账本仓库接口
type BillingLedgerRepo interface {
	// AppendEntry 原子地插入账本条目
	// (subscriptionId, cycleNumber) 已存在时返回 DuplicateCycle，检查与插入必须是同一个原子操作
	AppendEntry(ctx context.Context, entry *BillingLedgerEntry) error
	// ExistsEntry 扣费前的幂等检查
	ExistsEntry(ctx context.Context, subscriptionID string, cycleNumber int) (bool, error)
	// ListEntries 分页获取某订阅的账本条目
	ListEntries(ctx context.Context, subscriptionID string, page, pageSize int) ([]*BillingLedgerEntry, int, error)
}

// CycleCharge 计算某个周期应入账的金额
// 周期 0 是首个付费周期，需额外计入一次性开通费
func CycleCharge(sub *Subscription, cycleNumber int) float64 {
	amount := sub.PricePerBillingCycle * float64(sub.Quantity)
	if cycleNumber == 0 {
		amount += sub.SetupFee
	}
	return amount
}

// ListLedgerEntries 获取订阅的账本条目(仅限本人资源)
func (uc *SubscriptionUsecase) ListLedgerEntries(ctx context.Context, ownerID, subscriptionID string, page, pageSize int) ([]*BillingLedgerEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	// 账本按订阅归属校验
	sub, err := uc.subRepo.GetSubscriptionForOwner(ctx, ownerID, subscriptionID)
	if err != nil {
		return nil, 0, err
	}
	if sub == nil {
		return nil, 0, errors.NewBizError(errors.ErrCodeSubscriptionNotFound)
	}

	return uc.ledgerRepo.ListEntries(ctx, subscriptionID, page, pageSize)
}
