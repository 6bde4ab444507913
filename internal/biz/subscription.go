package biz

import (
	"context"
	"time"

	"github.com/itshubble/hubble-server/internal/conf"
	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
)

// Subscription 订阅记录
// 价格字段是创建时从套餐复制的快照，套餐后续修改不影响已有订阅
type Subscription struct {
	ID        string
	OwnerID   string
	AccountID string
	PlanID    string

	// 价格快照
	PricePerBillingCycle float64
	SetupFee             float64
	Quantity             int

	// 计费计划
	StartsAt            time.Time
	Term                int
	TermUnit            string // days, months
	TrialPeriod         int    // 0 表示无试用期
	TrialPeriodUnit     string // days, months
	TotalBillingCycles  int    // 0 表示不限
	CurrentBillingCycle int
	Renews              bool

	Status string

	Notes              string
	TermsAndConditions string

	// 时间戳(仅由状态机写入)
	ActivatedAt        *time.Time
	CancelledAt        *time.Time
	PausedAt           *time.Time
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal 判断订阅是否处于终态
func (s *Subscription) IsTerminal() bool {
	return s.Status == constants.StatusCanceled || s.Status == constants.StatusExpired
}

// Clone 返回订阅的浅拷贝(指针时间字段单独复制)
func (s *Subscription) Clone() *Subscription {
	c := *s
	c.ActivatedAt = cloneTime(s.ActivatedAt)
	c.CancelledAt = cloneTime(s.CancelledAt)
	c.PausedAt = cloneTime(s.PausedAt)
	c.CurrentPeriodStart = cloneTime(s.CurrentPeriodStart)
	c.CurrentPeriodEnd = cloneTime(s.CurrentPeriodEnd)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// SubscriptionRepo 订阅仓库接口
type SubscriptionRepo interface {
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	GetSubscriptionForOwner(ctx context.Context, ownerID, id string) (*Subscription, error)
	ListSubscriptions(ctx context.Context, ownerID string, page, pageSize int) ([]*Subscription, int, error)
	CreateSubscription(ctx context.Context, sub *Subscription) error
	SaveSubscription(ctx context.Context, sub *Subscription) error
	// CountByAccountAndPlan 统计账户下指定套餐的非终态订阅数(用于防止重复订阅)
	CountByAccountAndPlan(ctx context.Context, accountID, planID string) (int, error)
	// ListNonTerminal 按主键游标拉取非终态订阅(用于定时扫描)
	// 返回 subscription_id > afterID 的前 limit 条，按 subscription_id 升序；
	// 基于偏移量的分页在扫描自身把行迁出非终态集合时会整体前移、漏掉未处理的订阅
	ListNonTerminal(ctx context.Context, afterID string, limit int) ([]*Subscription, error)
}

// Transaction 事务执行接口
type Transaction interface {
	Exec(ctx context.Context, fn func(ctx context.Context) error) error
}

// SubscriptionUsecase 订阅生命周期业务逻辑
type SubscriptionUsecase struct {
	subRepo     SubscriptionRepo
	planRepo    PlanRepo
	accountRepo AccountRepo
	ledgerRepo  BillingLedgerRepo
	historyRepo SubscriptionHistoryRepo
	tx          Transaction
	rs          *redsync.Redsync
	config      *conf.Bootstrap
	log         *log.Helper
}

// NewSubscriptionUsecase 创建订阅业务用例
func NewSubscriptionUsecase(
	subRepo SubscriptionRepo,
	planRepo PlanRepo,
	accountRepo AccountRepo,
	ledgerRepo BillingLedgerRepo,
	historyRepo SubscriptionHistoryRepo,
	tx Transaction,
	rs *redsync.Redsync,
	config *conf.Bootstrap,
	logger log.Logger,
) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subRepo:     subRepo,
		planRepo:    planRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		historyRepo: historyRepo,
		tx:          tx,
		rs:          rs,
		config:      config,
		log:         log.NewHelper(logger),
	}
}

// CreateSubscriptionParams 创建订阅参数
type CreateSubscriptionParams struct {
	AccountID          string
	PlanID             string
	Quantity           int
	SetupFee           *float64 // nil 时取套餐默认值
	TrialPeriod        *int     // nil 时取套餐默认值
	TrialPeriodUnit    string
	Term               *int // nil 时取套餐默认值
	TermUnit           string
	TotalBillingCycles *int // nil 时取套餐默认值
	StartsAt           time.Time
	Renews             *bool
	Notes              string
	TermsAndConditions string
}

// CreateSubscription 创建订阅
// 校验套餐与账户归属当前用户且未删除，且该账户尚未订阅该套餐
func (uc *SubscriptionUsecase) CreateSubscription(ctx context.Context, ownerID string, params *CreateSubscriptionParams) (*Subscription, error) {
	uc.log.Infof("CreateSubscription: ownerID=%s, accountID=%s, planID=%s", ownerID, params.AccountID, params.PlanID)

	// 套餐必须归属当前用户且未删除
	plan, err := uc.planRepo.GetPlanForOwner(ctx, ownerID, params.PlanID)
	if err != nil {
		uc.log.Errorf("Failed to get plan: %v", err)
		return nil, err
	}
	if plan == nil {
		return nil, errors.NewBizError(errors.ErrCodePlanNotFound)
	}

	// 账户必须归属当前用户且未删除
	account, err := uc.accountRepo.GetAccountForOwner(ctx, ownerID, params.AccountID)
	if err != nil {
		uc.log.Errorf("Failed to get account: %v", err)
		return nil, err
	}
	if account == nil {
		return nil, errors.NewBizError(errors.ErrCodeAccountNotFound)
	}

	// 同一账户不允许重复订阅同一套餐
	count, err := uc.subRepo.CountByAccountAndPlan(ctx, params.AccountID, params.PlanID)
	if err != nil {
		uc.log.Errorf("Failed to count subscriptions: %v", err)
		return nil, err
	}
	if count > 0 {
		return nil, errors.NewBizError(errors.ErrCodeAlreadySubscribed)
	}

	now := time.Now().UTC()
	sub := &Subscription{
		ID:                   uuid.NewString(),
		OwnerID:              ownerID,
		AccountID:            params.AccountID,
		PlanID:               params.PlanID,
		PricePerBillingCycle: plan.PricePerBillingCycle,
		SetupFee:             plan.SetupFee,
		Quantity:             params.Quantity,
		StartsAt:             params.StartsAt.UTC(),
		Term:                 plan.Term,
		TermUnit:             plan.TermUnit,
		TrialPeriod:          plan.TrialPeriod,
		TrialPeriodUnit:      plan.TrialPeriodUnit,
		TotalBillingCycles:   plan.TotalBillingCycles,
		CurrentBillingCycle:  0,
		Renews:               plan.Renews,
		Status:               constants.StatusNew,
		Notes:                params.Notes,
		TermsAndConditions:   params.TermsAndConditions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	// 请求级覆盖(未提供时沿用套餐默认值)
	if params.SetupFee != nil {
		sub.SetupFee = *params.SetupFee
	}
	if params.Term != nil {
		sub.Term = *params.Term
		sub.TermUnit = params.TermUnit
	}
	if params.TrialPeriod != nil {
		sub.TrialPeriod = *params.TrialPeriod
		sub.TrialPeriodUnit = params.TrialPeriodUnit
	}
	if params.TotalBillingCycles != nil {
		sub.TotalBillingCycles = *params.TotalBillingCycles
	}
	if params.Renews != nil {
		sub.Renews = *params.Renews
	}

	// 计划配置只在创建时校验，扫描阶段不再重复校验
	if err := ValidateSchedule(sub); err != nil {
		return nil, err
	}

	if err := uc.subRepo.CreateSubscription(ctx, sub); err != nil {
		uc.log.Errorf("Failed to create subscription: %v", err)
		return nil, err
	}

	uc.recordHistory(ctx, sub, constants.ActionCreated, "", sub.Status, now)
	uc.log.Infof("Subscription created: %s", sub.ID)
	return sub, nil
}

// ValidateSchedule 校验订阅计划配置
func ValidateSchedule(sub *Subscription) error {
	if sub.Term < 1 {
		return errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "term must be at least 1, got %d", sub.Term)
	}
	if sub.TermUnit != constants.UnitDays && sub.TermUnit != constants.UnitMonths {
		return errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "invalid term unit: %s", sub.TermUnit)
	}
	if sub.TrialPeriod < 0 {
		return errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "trial period cannot be negative, got %d", sub.TrialPeriod)
	}
	if sub.TrialPeriod > 0 && sub.TrialPeriodUnit != constants.UnitDays && sub.TrialPeriodUnit != constants.UnitMonths {
		return errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "invalid trial period unit: %s", sub.TrialPeriodUnit)
	}
	if sub.TotalBillingCycles < 0 {
		return errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "total billing cycles cannot be negative, got %d", sub.TotalBillingCycles)
	}
	if sub.Quantity < 1 {
		return errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "quantity must be a positive integer, got %d", sub.Quantity)
	}
	if sub.StartsAt.IsZero() {
		return errors.NewBizErrorf(errors.ErrCodeInvalidSchedule, "startsAt is required")
	}
	return nil
}

// GetSubscription 获取订阅详情(仅限本人资源)
func (uc *SubscriptionUsecase) GetSubscription(ctx context.Context, ownerID, id string) (*Subscription, error) {
	sub, err := uc.subRepo.GetSubscriptionForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.NewBizError(errors.ErrCodeSubscriptionNotFound)
	}
	return sub, nil
}

// ListSubscriptions 分页获取订阅列表
func (uc *SubscriptionUsecase) ListSubscriptions(ctx context.Context, ownerID string, page, pageSize int) ([]*Subscription, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}
	return uc.subRepo.ListSubscriptions(ctx, ownerID, page, pageSize)
}

// CancelSubscription 取消订阅(任意非终态均可取消)
func (uc *SubscriptionUsecase) CancelSubscription(ctx context.Context, ownerID, id string) (*TransitionResult, error) {
	return uc.applyExternalEvent(ctx, ownerID, id, EventCancel, constants.ActionCancelled)
}

// PauseSubscription 暂停订阅
func (uc *SubscriptionUsecase) PauseSubscription(ctx context.Context, ownerID, id string) (*TransitionResult, error) {
	return uc.applyExternalEvent(ctx, ownerID, id, EventPause, constants.ActionPaused)
}

// ResumeSubscription 恢复订阅
// 周期窗口按暂停时长整体后移，暂停期间不丢失周期
func (uc *SubscriptionUsecase) ResumeSubscription(ctx context.Context, ownerID, id string) (*TransitionResult, error) {
	return uc.applyExternalEvent(ctx, ownerID, id, EventResume, constants.ActionResumed)
}

// HaltSubscription 挂起订阅(由支付协作方在扣款失败时触发)
func (uc *SubscriptionUsecase) HaltSubscription(ctx context.Context, ownerID, id string) (*TransitionResult, error) {
	return uc.applyExternalEvent(ctx, ownerID, id, EventHalt, constants.ActionHalted)
}

// ResolveSubscription 恢复挂起的订阅(由支付协作方在扣款恢复时触发)
func (uc *SubscriptionUsecase) ResolveSubscription(ctx context.Context, ownerID, id string) (*TransitionResult, error) {
	return uc.applyExternalEvent(ctx, ownerID, id, EventResolve, constants.ActionResolved)
}

// applyExternalEvent 对订阅应用一个外部触发的事件并持久化
func (uc *SubscriptionUsecase) applyExternalEvent(ctx context.Context, ownerID, id string, event Event, action string) (*TransitionResult, error) {
	uc.log.Infof("applyExternalEvent: ownerID=%s, id=%s, event=%s", ownerID, id, event)

	sub, err := uc.subRepo.GetSubscriptionForOwner(ctx, ownerID, id)
	if err != nil {
		uc.log.Errorf("Failed to get subscription %s: %v", id, err)
		return nil, err
	}
	if sub == nil {
		return nil, errors.NewBizError(errors.ErrCodeSubscriptionNotFound)
	}

	now := time.Now().UTC()
	next := sub.Clone()
	result, err := Apply(next, event, now)
	if err != nil {
		// 非法迁移不做任何写入，调用方观察到的快照保持不变
		return nil, err
	}

	if err := uc.subRepo.SaveSubscription(ctx, next); err != nil {
		uc.log.Errorf("Failed to save subscription %s: %v", id, err)
		return nil, err
	}

	uc.recordHistory(ctx, next, action, result.FromStatus, result.ToStatus, now)
	uc.log.Infof("Subscription %s: %s -> %s (%s)", id, result.FromStatus, result.ToStatus, event)
	return result, nil
}

// SetRenews 开关自动续费
func (uc *SubscriptionUsecase) SetRenews(ctx context.Context, ownerID, id string, renews bool) error {
	uc.log.Infof("SetRenews: ownerID=%s, id=%s, renews=%v", ownerID, id, renews)

	sub, err := uc.subRepo.GetSubscriptionForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return errors.NewBizError(errors.ErrCodeSubscriptionNotFound)
	}
	if sub.IsTerminal() {
		return errors.NewBizError(errors.ErrCodeSubscriptionTerminal)
	}

	now := time.Now().UTC()
	sub.Renews = renews
	sub.UpdatedAt = now

	if err := uc.subRepo.SaveSubscription(ctx, sub); err != nil {
		uc.log.Errorf("Failed to save subscription: %v", err)
		return err
	}

	action := constants.ActionDisabledRenews
	if renews {
		action = constants.ActionEnabledRenews
	}
	uc.recordHistory(ctx, sub, action, sub.Status, sub.Status, now)
	return nil
}

// recordHistory 追加一条订阅历史，失败只记日志不阻断主流程
func (uc *SubscriptionUsecase) recordHistory(ctx context.Context, sub *Subscription, action, fromStatus, toStatus string, now time.Time) {
	history := &SubscriptionHistory{
		OwnerID:        sub.OwnerID,
		SubscriptionID: sub.ID,
		PlanID:         sub.PlanID,
		Action:         action,
		FromStatus:     fromStatus,
		ToStatus:       toStatus,
		CycleNumber:    sub.CurrentBillingCycle,
		CreatedAt:      now,
	}
	if err := uc.historyRepo.AddSubscriptionHistory(ctx, history); err != nil {
		uc.log.Errorf("Failed to add subscription history for %s: %v", sub.ID, err)
	}
}
