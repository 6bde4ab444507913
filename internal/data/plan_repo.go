package data

import (
	"context"
	"errors"

	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// planRepo 套餐仓库实现
type planRepo struct {
	data *Data
	log  *log.Helper
}

// NewPlanRepo 创建套餐仓库
func NewPlanRepo(data *Data, logger log.Logger) biz.PlanRepo {
	return &planRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// GetPlan 按ID获取套餐
func (r *planRepo) GetPlan(ctx context.Context, id string) (*biz.Plan, error) {
	var m model.Plan
	err := r.data.DB(ctx).Where("plan_id = ? AND deleted = ?", id, false).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get plan %s: %v", id, err)
		return nil, err
	}
	return toBizPlan(&m), nil
}

// GetPlanForOwner 获取归属指定用户且未删除的套餐
func (r *planRepo) GetPlanForOwner(ctx context.Context, ownerID, id string) (*biz.Plan, error) {
	var m model.Plan
	err := r.data.DB(ctx).Where("plan_id = ? AND owner_id = ? AND deleted = ?", id, ownerID, false).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get plan %s for owner %s: %v", id, ownerID, err)
		return nil, err
	}
	return toBizPlan(&m), nil
}

// ListPlans 分页获取用户的套餐列表
func (r *planRepo) ListPlans(ctx context.Context, ownerID string, page, pageSize int) ([]*biz.Plan, int, error) {
	var models []model.Plan
	var total int64

	if err := r.data.DB(ctx).Model(&model.Plan{}).
		Where("owner_id = ? AND deleted = ?", ownerID, false).
		Count(&total).Error; err != nil {
		r.log.Errorf("Failed to count plans: %v", err)
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.data.DB(ctx).
		Where("owner_id = ? AND deleted = ?", ownerID, false).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list plans: %v", err)
		return nil, 0, err
	}

	plans := make([]*biz.Plan, len(models))
	for i := range models {
		plans[i] = toBizPlan(&models[i])
	}
	return plans, int(total), nil
}

// toBizPlan 模型转业务对象
func toBizPlan(m *model.Plan) *biz.Plan {
	return &biz.Plan{
		ID:                   m.ID,
		OwnerID:              m.OwnerID,
		Name:                 m.Name,
		Code:                 m.Code,
		Description:          m.Description,
		PricePerBillingCycle: m.PricePerBillingCycle,
		SetupFee:             m.SetupFee,
		TrialPeriod:          m.TrialPeriod,
		TrialPeriodUnit:      m.TrialPeriodUnit,
		Term:                 m.Term,
		TermUnit:             m.TermUnit,
		TotalBillingCycles:   m.TotalBillingCycles,
		Renews:               m.Renews,
		Deleted:              m.Deleted,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
