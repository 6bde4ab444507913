package service

import (
	"context"
	"time"

	"github.com/itshubble/hubble-server/internal/auth"
	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
)

// SubscriptionService 订阅服务
type SubscriptionService struct {
	uc  *biz.SubscriptionUsecase
	log *log.Helper
}

// NewSubscriptionService 创建订阅服务
func NewSubscriptionService(uc *biz.SubscriptionUsecase, logger log.Logger) *SubscriptionService {
	return &SubscriptionService{uc: uc, log: log.NewHelper(logger)}
}

// CreateSubscription 创建订阅
func (s *SubscriptionService) CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*SubscriptionReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	if len(req.Notes) > constants.MaxNotesLength {
		return nil, errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "notes exceeds %d characters", constants.MaxNotesLength)
	}
	if len(req.TermsAndConditions) > constants.MaxTermsLength {
		return nil, errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "termsAndConditions exceeds %d characters", constants.MaxTermsLength)
	}

	sub, err := s.uc.CreateSubscription(ctx, ownerID, &biz.CreateSubscriptionParams{
		AccountID:          req.AccountID,
		PlanID:             req.PlanID,
		Quantity:           req.Quantity,
		SetupFee:           req.SetupFee,
		TrialPeriod:        req.TrialPeriod,
		TrialPeriodUnit:    req.TrialPeriodUnit,
		Term:               req.Term,
		TermUnit:           req.TermUnit,
		TotalBillingCycles: req.TotalBillingCycles,
		StartsAt:           req.StartsAt,
		Renews:             req.Renews,
		Notes:              req.Notes,
		TermsAndConditions: req.TermsAndConditions,
	})
	if err != nil {
		return nil, err
	}
	return s.toSubscriptionReply(ctx, sub, false), nil
}

// GetSubscription 获取订阅详情(附带套餐与账户信息)
func (s *SubscriptionService) GetSubscription(ctx context.Context, id string) (*SubscriptionReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	sub, err := s.uc.GetSubscription(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.toSubscriptionReply(ctx, sub, true), nil
}

// ListSubscriptions 分页获取订阅列表(附带套餐与账户信息)
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, page, limit int) (*ListSubscriptionsReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	subs, total, err := s.uc.ListSubscriptions(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}

	records := make([]*SubscriptionReply, len(subs))
	for i, sub := range subs {
		// 存储层不做关联查询，套餐与账户在应用层分别点查后拼装
		records[i] = s.toSubscriptionReply(ctx, sub, true)
	}
	return &ListSubscriptionsReply{
		TotalRecords: total,
		Page:         page,
		Limit:        limit,
		Records:      records,
	}, nil
}

// CancelSubscription 取消订阅
func (s *SubscriptionService) CancelSubscription(ctx context.Context, id string) (*TransitionReply, error) {
	return s.applyTransition(ctx, id, s.uc.CancelSubscription)
}

// PauseSubscription 暂停订阅
func (s *SubscriptionService) PauseSubscription(ctx context.Context, id string) (*TransitionReply, error) {
	return s.applyTransition(ctx, id, s.uc.PauseSubscription)
}

// ResumeSubscription 恢复订阅
func (s *SubscriptionService) ResumeSubscription(ctx context.Context, id string) (*TransitionReply, error) {
	return s.applyTransition(ctx, id, s.uc.ResumeSubscription)
}

// HaltSubscription 挂起订阅(支付协作方回调)
func (s *SubscriptionService) HaltSubscription(ctx context.Context, id string) (*TransitionReply, error) {
	return s.applyTransition(ctx, id, s.uc.HaltSubscription)
}

// ResolveSubscription 恢复挂起的订阅(支付协作方回调)
func (s *SubscriptionService) ResolveSubscription(ctx context.Context, id string) (*TransitionReply, error) {
	return s.applyTransition(ctx, id, s.uc.ResolveSubscription)
}

// applyTransition 执行一次外部触发的状态迁移
func (s *SubscriptionService) applyTransition(ctx context.Context, id string,
	op func(ctx context.Context, ownerID, id string) (*biz.TransitionResult, error)) (*TransitionReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := op(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &TransitionReply{
		SubscriptionID: result.SubscriptionID,
		FromStatus:     result.FromStatus,
		ToStatus:       result.ToStatus,
		CycleNumber:    result.CycleNumber,
		OccurredAt:     result.OccurredAt,
	}, nil
}

// SetRenews 开关自动续费
func (s *SubscriptionService) SetRenews(ctx context.Context, id string, req *SetRenewsRequest) error {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return err
	}
	return s.uc.SetRenews(ctx, ownerID, id, req.Renews)
}

// ListLedgerEntries 获取订阅的账本条目
func (s *SubscriptionService) ListLedgerEntries(ctx context.Context, id string, page, limit int) (*ListLedgerEntriesReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	entries, total, err := s.uc.ListLedgerEntries(ctx, ownerID, id, page, limit)
	if err != nil {
		return nil, err
	}

	records := make([]*LedgerEntryReply, len(entries))
	for i, e := range entries {
		records[i] = &LedgerEntryReply{
			ID:             e.ID,
			SubscriptionID: e.SubscriptionID,
			CycleNumber:    e.CycleNumber,
			Amount:         e.Amount,
			CreatedAt:      e.CreatedAt,
		}
	}
	return &ListLedgerEntriesReply{TotalRecords: total, Page: page, Limit: limit, Records: records}, nil
}

// GetSubscriptionHistory 获取订阅历史
func (s *SubscriptionService) GetSubscriptionHistory(ctx context.Context, id string, page, limit int) (*ListHistoryReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	items, total, err := s.uc.GetSubscriptionHistory(ctx, ownerID, id, page, limit)
	if err != nil {
		return nil, err
	}

	records := make([]*HistoryItemReply, len(items))
	for i, item := range items {
		records[i] = &HistoryItemReply{
			ID:          item.SubscriptionHistoryID,
			Action:      item.Action,
			FromStatus:  item.FromStatus,
			ToStatus:    item.ToStatus,
			CycleNumber: item.CycleNumber,
			CreatedAt:   item.CreatedAt,
		}
	}
	return &ListHistoryReply{TotalRecords: total, Page: page, Limit: limit, Records: records}, nil
}

// GetPlan 获取套餐详情
func (s *SubscriptionService) GetPlan(ctx context.Context, id string) (*PlanReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.uc.GetPlanForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toPlanReply(plan), nil
}

// ListPlans 获取套餐列表
func (s *SubscriptionService) ListPlans(ctx context.Context, page, limit int) (*ListPlansReply, error) {
	ownerID, err := auth.RequireOwnerID(ctx)
	if err != nil {
		return nil, err
	}

	plans, total, err := s.uc.ListPlans(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}

	records := make([]*PlanReply, len(plans))
	for i, p := range plans {
		records[i] = toPlanReply(p)
	}
	return &ListPlansReply{TotalRecords: total, Page: page, Limit: limit, Records: records}, nil
}

// RunSweep 手动触发一次扫描(管理/驱动入口)
// 扫描会推进状态并入账，now 覆盖还能拨快时钟，只允许管理员调用
func (s *SubscriptionService) RunSweep(ctx context.Context, req *SweepRequest) (*SweepReply, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req != nil && req.Now != nil {
		now = req.Now.UTC()
	}

	result, err := s.uc.Sweep(ctx, now)
	if err != nil {
		return nil, err
	}

	reply := &SweepReply{
		Evaluated:    result.Evaluated,
		Transitioned: result.Transitioned,
		Charged:      result.Charged,
		Skipped:      result.Skipped,
		Failed:       result.Failed,
	}
	for _, item := range result.Results {
		reply.Results = append(reply.Results, &SweepItemReply{
			SubscriptionID: item.SubscriptionID,
			Event:          string(item.Event),
			FromStatus:     item.FromStatus,
			ToStatus:       item.ToStatus,
			CycleNumber:    item.CycleNumber,
			Charged:        item.Charged,
			Skipped:        item.Skipped,
			ErrorMessage:   item.ErrorMessage,
		})
	}
	return reply, nil
}

// toSubscriptionReply 业务对象转响应，withRelations 时附带套餐与账户摘要
func (s *SubscriptionService) toSubscriptionReply(ctx context.Context, sub *biz.Subscription, withRelations bool) *SubscriptionReply {
	reply := &SubscriptionReply{
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
	if !withRelations {
		return reply
	}

	if plan, err := s.uc.GetPlan(ctx, sub.PlanID); err == nil && plan != nil {
		reply.Plan = toPlanReply(plan)
	}
	if account, err := s.uc.GetAccount(ctx, sub.AccountID); err == nil && account != nil {
		reply.Account = &AccountReply{
			ID:           account.ID,
			UserName:     account.UserName,
			FirstName:    account.FirstName,
			LastName:     account.LastName,
			EmailAddress: account.EmailAddress,
		}
	}
	return reply
}

func toPlanReply(p *biz.Plan) *PlanReply {
	return &PlanReply{
		ID:                   p.ID,
		Name:                 p.Name,
		Code:                 p.Code,
		Description:          p.Description,
		PricePerBillingCycle: p.PricePerBillingCycle,
		SetupFee:             p.SetupFee,
		TrialPeriod:          p.TrialPeriod,
		TrialPeriodUnit:      p.TrialPeriodUnit,
		Term:                 p.Term,
		TermUnit:             p.TermUnit,
		TotalBillingCycles:   p.TotalBillingCycles,
		Renews:               p.Renews,
	}
}
