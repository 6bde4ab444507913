package biz

import (
	"time"

	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/errors"
)

// Event 状态机事件
// 时间相关的事件(activate/trial_ended/renew/complete)由计算器/扫描任务派生后提交，
// 状态机本身从不读取系统时钟
type Event string

const (
	// EventActivate 到达 startsAt 且无试用期，订阅生效
	EventActivate Event = "activate"
	// EventEnterTrial 到达 startsAt 且配置了试用期，进入试用
	EventEnterTrial Event = "enter_trial"
	// EventTrialEnded 试用期结束
	EventTrialEnded Event = "trial_ended"
	// EventRenew 跨过周期边界，进入下一个计费周期
	EventRenew Event = "renew"
	// EventComplete 已完成全部计费周期
	EventComplete Event = "complete"
	// EventCancel 外部请求取消
	EventCancel Event = "cancel"
	// EventPause 外部请求暂停
	EventPause Event = "pause"
	// EventResume 外部请求恢复
	EventResume Event = "resume"
	// EventHalt 支付协作方通知扣款失败
	EventHalt Event = "halt"
	// EventResolve 支付协作方通知扣款恢复
	EventResolve Event = "resolve"
)

// transitionKey (事件, 源状态) 二元组
type transitionKey struct {
	Event Event
	From  string
}

// transitionTable 合法迁移表
// trial_ended 的目标状态取决于 renews，表中登记为 active，Apply 内再细分
var transitionTable = map[transitionKey]string{
	{EventActivate, constants.StatusNew}:    constants.StatusActive,
	{EventActivate, constants.StatusFuture}: constants.StatusActive,

	{EventEnterTrial, constants.StatusNew}:    constants.StatusInTrial,
	{EventEnterTrial, constants.StatusFuture}: constants.StatusInTrial,

	{EventTrialEnded, constants.StatusInTrial}: constants.StatusActive,

	{EventRenew, constants.StatusActive}: constants.StatusActive,

	{EventComplete, constants.StatusActive}: constants.StatusExpired,

	{EventCancel, constants.StatusNew}:     constants.StatusCanceled,
	{EventCancel, constants.StatusFuture}:  constants.StatusCanceled,
	{EventCancel, constants.StatusInTrial}: constants.StatusCanceled,
	{EventCancel, constants.StatusActive}:  constants.StatusCanceled,
	{EventCancel, constants.StatusPending}: constants.StatusCanceled,
	{EventCancel, constants.StatusHalted}:  constants.StatusCanceled,
	{EventCancel, constants.StatusPaused}:  constants.StatusCanceled,

	{EventPause, constants.StatusActive}:  constants.StatusPaused,
	{EventPause, constants.StatusInTrial}: constants.StatusPaused,

	{EventResume, constants.StatusPaused}: constants.StatusActive,

	{EventHalt, constants.StatusActive}:  constants.StatusHalted,
	{EventHalt, constants.StatusPending}: constants.StatusHalted,

	{EventResolve, constants.StatusHalted}: constants.StatusActive,
}

// NextStatus 查询迁移表
func NextStatus(event Event, from string) (string, bool) {
	to, ok := transitionTable[transitionKey{event, from}]
	return to, ok
}

// TransitionResult 一次状态迁移的结果，供外层转换为响应和下游通知
type TransitionResult struct {
	SubscriptionID string
	FromStatus     string
	ToStatus       string
	CycleNumber    int
	OccurredAt     time.Time
}

// Apply 对订阅快照应用一个事件
// 事件合法时就地修改快照并返回迁移结果；非法时返回 TransitionRejected 且不做任何修改
// 迁移是快照的纯函数：对同一快照重放同一事件得到相同的目标状态
func Apply(sub *Subscription, event Event, now time.Time) (*TransitionResult, error) {
	from := sub.Status
	to, ok := NextStatus(event, from)
	if !ok {
		return nil, errors.NewBizErrorf(errors.ErrCodeTransitionRejected,
			"event %s is not legal from status %s", event, from)
	}

	switch event {
	case EventActivate:
		start := billingClockStart(sub)
		end := AddPeriod(start, sub.Term, sub.TermUnit)
		sub.ActivatedAt = &now
		sub.CurrentPeriodStart = &start
		sub.CurrentPeriodEnd = &end

	case EventEnterTrial:
		start := sub.StartsAt
		end := AddPeriod(start, sub.TrialPeriod, sub.TrialPeriodUnit)
		sub.CurrentPeriodStart = &start
		sub.CurrentPeriodEnd = &end

	case EventTrialEnded:
		// renews=false 时进入 pending，等待手工扣款
		if !sub.Renews {
			to = constants.StatusPending
		}
		start := billingClockStart(sub)
		end := AddPeriod(start, sub.Term, sub.TermUnit)
		if sub.ActivatedAt == nil {
			sub.ActivatedAt = &now
		}
		sub.CurrentPeriodStart = &start
		sub.CurrentPeriodEnd = &end

	case EventRenew:
		// 周期数封顶：到达 totalBillingCycles 后只允许 complete
		if sub.TotalBillingCycles > 0 && sub.CurrentBillingCycle >= sub.TotalBillingCycles {
			return nil, errors.NewBizErrorf(errors.ErrCodeTransitionRejected,
				"subscription has reached its total billing cycles (%d)", sub.TotalBillingCycles)
		}
		if sub.CurrentPeriodStart == nil || sub.CurrentPeriodEnd == nil {
			return nil, errors.NewBizErrorf(errors.ErrCodeTransitionRejected,
				"cannot renew a subscription without a current period")
		}
		start := *sub.CurrentPeriodEnd
		end := AddPeriod(start, sub.Term, sub.TermUnit)
		sub.CurrentBillingCycle++
		sub.CurrentPeriodStart = &start
		sub.CurrentPeriodEnd = &end

	case EventComplete:
		// 到期标记复用 cancelledAt 字段
		sub.CancelledAt = &now

	case EventCancel:
		sub.CancelledAt = &now
		sub.Renews = false

	case EventPause:
		sub.PausedAt = &now

	case EventResume:
		// 周期窗口按暂停时长整体后移，订阅方不丢失已付周期
		if sub.PausedAt != nil && sub.CurrentPeriodStart != nil && sub.CurrentPeriodEnd != nil {
			pausedFor := now.Sub(*sub.PausedAt)
			start := sub.CurrentPeriodStart.Add(pausedFor)
			end := sub.CurrentPeriodEnd.Add(pausedFor)
			sub.CurrentPeriodStart = &start
			sub.CurrentPeriodEnd = &end
		}
		sub.PausedAt = nil

	case EventHalt:
		// 挂起不修改周期窗口

	case EventResolve:
		// 按当前时间重新计算周期窗口
		state := ComputeCycle(sub, now)
		if state.Phase == PhaseBilling {
			start := state.PeriodStart
			end := state.PeriodEnd
			sub.CurrentPeriodStart = &start
			sub.CurrentPeriodEnd = &end
		}
	}

	sub.Status = to
	sub.UpdatedAt = now

	return &TransitionResult{
		SubscriptionID: sub.ID,
		FromStatus:     from,
		ToStatus:       to,
		CycleNumber:    sub.CurrentBillingCycle,
		OccurredAt:     now,
	}, nil
}
