package biz

import (
	"context"
	"time"

	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/errors"
)

// SubscriptionHistory 订阅历史记录
type SubscriptionHistory struct {
	SubscriptionHistoryID uint64
	OwnerID               string
	SubscriptionID        string
	PlanID                string
	Action                string // created, activated, trial_started, ...
	FromStatus            string
	ToStatus              string
	CycleNumber           int
	CreatedAt             time.Time
}

// SubscriptionHistoryRepo 订阅历史记录仓库接口
type SubscriptionHistoryRepo interface {
	AddSubscriptionHistory(ctx context.Context, history *SubscriptionHistory) error
	GetSubscriptionHistory(ctx context.Context, subscriptionID string, page, pageSize int) ([]*SubscriptionHistory, int, error)
}

// GetSubscriptionHistory 获取订阅历史记录
func (uc *SubscriptionUsecase) GetSubscriptionHistory(ctx context.Context, ownerID, subscriptionID string, page, pageSize int) ([]*SubscriptionHistory, int, error) {
	uc.log.Infof("GetSubscriptionHistory: subscriptionID=%s, page=%d, pageSize=%d", subscriptionID, page, pageSize)

	// 参数验证
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	sub, err := uc.subRepo.GetSubscriptionForOwner(ctx, ownerID, subscriptionID)
	if err != nil {
		return nil, 0, err
	}
	if sub == nil {
		// 与账本读取路径保持一致：不存在/非本人资源返回 not found 而非空列表
		return nil, 0, errors.NewBizError(errors.ErrCodeSubscriptionNotFound)
	}

	items, total, err := uc.historyRepo.GetSubscriptionHistory(ctx, subscriptionID, page, pageSize)
	if err != nil {
		uc.log.Errorf("Failed to get subscription history: %v", err)
		return nil, 0, err
	}

	return items, total, nil
}
