package data

import (
	"context"
	"errors"

	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// subscriptionRepo 订阅仓库实现
type subscriptionRepo struct {
	data *Data
	log  *log.Helper
}

// NewSubscriptionRepo 创建订阅仓库
func NewSubscriptionRepo(data *Data, logger log.Logger) biz.SubscriptionRepo {
	return &subscriptionRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// terminalStatuses 终态列表
var terminalStatuses = []string{constants.StatusCanceled, constants.StatusExpired}

// GetSubscription 按ID获取订阅
func (r *subscriptionRepo) GetSubscription(ctx context.Context, id string) (*biz.Subscription, error) {
	var m model.Subscription
	err := r.data.DB(ctx).Where("subscription_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get subscription %s: %v", id, err)
		return nil, err
	}
	return toBizSubscription(&m), nil
}

// GetSubscriptionForOwner 获取归属指定用户的订阅
func (r *subscriptionRepo) GetSubscriptionForOwner(ctx context.Context, ownerID, id string) (*biz.Subscription, error) {
	var m model.Subscription
	err := r.data.DB(ctx).Where("subscription_id = ? AND owner_id = ?", id, ownerID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get subscription %s for owner %s: %v", id, ownerID, err)
		return nil, err
	}
	return toBizSubscription(&m), nil
}

// ListSubscriptions 分页获取用户的订阅列表
func (r *subscriptionRepo) ListSubscriptions(ctx context.Context, ownerID string, page, pageSize int) ([]*biz.Subscription, int, error) {
	var models []model.Subscription
	var total int64

	if err := r.data.DB(ctx).Model(&model.Subscription{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		r.log.Errorf("Failed to count subscriptions: %v", err)
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.data.DB(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list subscriptions: %v", err)
		return nil, 0, err
	}

	subscriptions := make([]*biz.Subscription, len(models))
	for i := range models {
		subscriptions[i] = toBizSubscription(&models[i])
	}
	return subscriptions, int(total), nil
}

// CreateSubscription 创建订阅
func (r *subscriptionRepo) CreateSubscription(ctx context.Context, sub *biz.Subscription) error {
	if err := r.data.DB(ctx).Create(toModelSubscription(sub)).Error; err != nil {
		r.log.Errorf("Failed to create subscription for account %s: %v", sub.AccountID, err)
		return err
	}
	return nil
}

// SaveSubscription 保存订阅快照
func (r *subscriptionRepo) SaveSubscription(ctx context.Context, sub *biz.Subscription) error {
	if err := r.data.DB(ctx).Save(toModelSubscription(sub)).Error; err != nil {
		r.log.Errorf("Failed to save subscription %s: %v", sub.ID, err)
		return err
	}
	return nil
}

// CountByAccountAndPlan 统计账户下指定套餐的非终态订阅数
func (r *subscriptionRepo) CountByAccountAndPlan(ctx context.Context, accountID, planID string) (int, error) {
	var total int64
	if err := r.data.DB(ctx).Model(&model.Subscription{}).
		Where("account_id = ? AND plan_id = ? AND status NOT IN ?", accountID, planID, terminalStatuses).
		Count(&total).Error; err != nil {
		r.log.Errorf("Failed to count subscriptions for account %s plan %s: %v", accountID, planID, err)
		return 0, err
	}
	return int(total), nil
}

// ListNonTerminal 按主键游标拉取非终态订阅(定时扫描用)
// 不用 OFFSET：扫描过程中行迁出非终态集合会让偏移量整体前移
func (r *subscriptionRepo) ListNonTerminal(ctx context.Context, afterID string, limit int) ([]*biz.Subscription, error) {
	var models []model.Subscription

	if err := r.data.DB(ctx).
		Where("status NOT IN ? AND subscription_id > ?", terminalStatuses, afterID).
		Order("subscription_id ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list non-terminal subscriptions after %q: %v", afterID, err)
		return nil, err
	}

	subscriptions := make([]*biz.Subscription, len(models))
	for i := range models {
		subscriptions[i] = toBizSubscription(&models[i])
	}
	return subscriptions, nil
}

// toBizSubscription 模型转业务对象
func toBizSubscription(m *model.Subscription) *biz.Subscription {
	return &biz.Subscription{
		ID:                   m.ID,
		OwnerID:              m.OwnerID,
		AccountID:            m.AccountID,
		PlanID:               m.PlanID,
		PricePerBillingCycle: m.PricePerBillingCycle,
		SetupFee:             m.SetupFee,
		Quantity:             m.Quantity,
		StartsAt:             m.StartsAt,
		Term:                 m.Term,
		TermUnit:             m.TermUnit,
		TrialPeriod:          m.TrialPeriod,
		TrialPeriodUnit:      m.TrialPeriodUnit,
		TotalBillingCycles:   m.TotalBillingCycles,
		CurrentBillingCycle:  m.CurrentBillingCycle,
		Renews:               m.Renews,
		Status:               m.Status,
		Notes:                m.Notes,
		TermsAndConditions:   m.TermsAndConditions,
		ActivatedAt:          m.ActivatedAt,
		CancelledAt:          m.CancelledAt,
		PausedAt:             m.PausedAt,
		CurrentPeriodStart:   m.CurrentPeriodStart,
		CurrentPeriodEnd:     m.CurrentPeriodEnd,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// toModelSubscription 业务对象转模型
func toModelSubscription(sub *biz.Subscription) *model.Subscription {
	return &model.Subscription{
		ID:                   sub.ID,
		OwnerID:              sub.OwnerID,
		AccountID:            sub.AccountID,
		PlanID:               sub.PlanID,
		PricePerBillingCycle: sub.PricePerBillingCycle,
		SetupFee:             sub.SetupFee,
		Quantity:             sub.Quantity,
		StartsAt:             sub.StartsAt,
		Term:                 sub.Term,
		TermUnit:             sub.TermUnit,
		TrialPeriod:          sub.TrialPeriod,
		TrialPeriodUnit:      sub.TrialPeriodUnit,
		TotalBillingCycles:   sub.TotalBillingCycles,
		CurrentBillingCycle:  sub.CurrentBillingCycle,
		Renews:               sub.Renews,
		Status:               sub.Status,
		Notes:                sub.Notes,
		TermsAndConditions:   sub.TermsAndConditions,
		ActivatedAt:          sub.ActivatedAt,
		CancelledAt:          sub.CancelledAt,
		PausedAt:             sub.PausedAt,
		CurrentPeriodStart:   sub.CurrentPeriodStart,
		CurrentPeriodEnd:     sub.CurrentPeriodEnd,
		CreatedAt:            sub.CreatedAt,
		UpdatedAt:            sub.UpdatedAt,
	}
}
