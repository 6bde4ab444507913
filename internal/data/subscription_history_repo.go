package data

import (
	"context"

	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
)

// subscriptionHistoryRepo 订阅历史仓库实现
type subscriptionHistoryRepo struct {
	data *Data
	log  *log.Helper
}

// NewSubscriptionHistoryRepo 创建订阅历史仓库
func NewSubscriptionHistoryRepo(data *Data, logger log.Logger) biz.SubscriptionHistoryRepo {
	return &subscriptionHistoryRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// AddSubscriptionHistory 追加订阅历史记录
func (r *subscriptionHistoryRepo) AddSubscriptionHistory(ctx context.Context, history *biz.SubscriptionHistory) error {
	m := &model.SubscriptionHistory{
		OwnerID:        history.OwnerID,
		SubscriptionID: history.SubscriptionID,
		PlanID:         history.PlanID,
		Action:         history.Action,
		FromStatus:     history.FromStatus,
		ToStatus:       history.ToStatus,
		CycleNumber:    history.CycleNumber,
		CreatedAt:      history.CreatedAt,
	}
	if err := r.data.DB(ctx).Create(m).Error; err != nil {
		r.log.Errorf("Failed to add subscription history for %s: %v", history.SubscriptionID, err)
		return err
	}
	return nil
}

// GetSubscriptionHistory 分页获取订阅历史记录
func (r *subscriptionHistoryRepo) GetSubscriptionHistory(ctx context.Context, subscriptionID string, page, pageSize int) ([]*biz.SubscriptionHistory, int, error) {
	var models []model.SubscriptionHistory
	var total int64

	if err := r.data.DB(ctx).Model(&model.SubscriptionHistory{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&total).Error; err != nil {
		r.log.Errorf("Failed to count subscription history: %v", err)
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.data.DB(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to get subscription history: %v", err)
		return nil, 0, err
	}

	items := make([]*biz.SubscriptionHistory, len(models))
	for i, m := range models {
		items[i] = &biz.SubscriptionHistory{
			SubscriptionHistoryID: m.SubscriptionHistoryID,
			OwnerID:               m.OwnerID,
			SubscriptionID:        m.SubscriptionID,
			PlanID:                m.PlanID,
			Action:                m.Action,
			FromStatus:            m.FromStatus,
			ToStatus:              m.ToStatus,
			CycleNumber:           m.CycleNumber,
			CreatedAt:             m.CreatedAt,
		}
	}
	return items, int(total), nil
}
