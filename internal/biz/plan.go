package biz

import (
	"context"
	"time"

	"github.com/itshubble/hubble-server/internal/errors"
)

// Plan 订阅套餐
// 套餐上的计费参数是新建订阅的默认值，订阅创建时会复制为快照
type Plan struct {
	ID                   string
	OwnerID              string
	Name                 string
	Code                 string
	Description          string
	PricePerBillingCycle float64
	SetupFee             float64
	TrialPeriod          int
	TrialPeriodUnit      string
	Term                 int
	TermUnit             string
	TotalBillingCycles   int
	Renews               bool
	Deleted              bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PlanRepo 套餐仓库接口
type PlanRepo interface {
	GetPlan(ctx context.Context, id string) (*Plan, error)
	// GetPlanForOwner 获取归属指定用户且未删除的套餐
	GetPlanForOwner(ctx context.Context, ownerID, id string) (*Plan, error)
	ListPlans(ctx context.Context, ownerID string, page, pageSize int) ([]*Plan, int, error)
}

// ListPlans 获取当前用户的套餐列表
func (uc *SubscriptionUsecase) ListPlans(ctx context.Context, ownerID string, page, pageSize int) ([]*Plan, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return uc.planRepo.ListPlans(ctx, ownerID, page, pageSize)
}

// GetPlan 获取套餐信息
func (uc *SubscriptionUsecase) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	return uc.planRepo.GetPlan(ctx, planID)
}

// GetPlanForOwner 获取归属当前用户的套餐详情
func (uc *SubscriptionUsecase) GetPlanForOwner(ctx context.Context, ownerID, planID string) (*Plan, error) {
	plan, err := uc.planRepo.GetPlanForOwner(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NewBizError(errors.ErrCodePlanNotFound)
	}
	return plan, nil
}
