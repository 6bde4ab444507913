package biz

import (
	"time"

	"github.com/itshubble/hubble-server/internal/constants"
)

// Phase 订阅在某一时刻所处的阶段
type Phase string

const (
	// PhaseFuture 尚未到达 startsAt
	PhaseFuture Phase = "future"
	// PhaseTrial 处于试用期窗口内
	PhaseTrial Phase = "trial"
	// PhaseBilling 处于付费计费期
	PhaseBilling Phase = "billing"
)

// CycleState 周期计算结果
type CycleState struct {
	Phase       Phase
	PeriodStart time.Time
	PeriodEnd   time.Time
	// CyclesElapsed 自计费起点以来已完成的周期数，随 now 单调不减
	CyclesElapsed int
	// DueForTransition 为 true 时 Event 是应提交给状态机的事件
	DueForTransition bool
	Event            Event
}

// billingClockStart 计费时钟起点：试用期结束时刻，无试用期时为 startsAt
func billingClockStart(sub *Subscription) time.Time {
	if sub.TrialPeriod > 0 {
		return AddPeriod(sub.StartsAt, sub.TrialPeriod, sub.TrialPeriodUnit)
	}
	return sub.StartsAt
}

// ComputeCycle 根据订阅快照与给定时刻计算当前计费周期
// 纯函数：对合法快照从不失败，不读取系统时钟，不做任何 I/O
func ComputeCycle(sub *Subscription, now time.Time) CycleState {
	// 尚未开始
	if now.Before(sub.StartsAt) {
		end := AddPeriod(sub.StartsAt, sub.Term, sub.TermUnit)
		if sub.TrialPeriod > 0 {
			end = billingClockStart(sub)
		}
		return CycleState{
			Phase:       PhaseFuture,
			PeriodStart: sub.StartsAt,
			PeriodEnd:   end,
		}
	}

	// 试用期窗口
	if sub.TrialPeriod > 0 {
		trialEnd := billingClockStart(sub)
		if now.Before(trialEnd) {
			state := CycleState{
				Phase:       PhaseTrial,
				PeriodStart: sub.StartsAt,
				PeriodEnd:   trialEnd,
			}
			// 刚创建的订阅到点进入试用
			if sub.Status == constants.StatusNew || sub.Status == constants.StatusFuture {
				state.DueForTransition = true
				state.Event = EventEnterTrial
			}
			return state
		}
	}

	// 付费计费期
	// 锚点默认为计费时钟起点；暂停恢复会把存储的周期窗口整体后移，
	// 此时以存储窗口为锚点继续推算，暂停时长不计入周期
	anchor := billingClockStart(sub)
	baseCycles := 0
	if sub.CurrentPeriodStart != nil && sub.CurrentPeriodStart.After(anchor) {
		anchor = *sub.CurrentPeriodStart
		baseCycles = sub.CurrentBillingCycle
	}

	// 周期边界始终从锚点整倍推算，跨越长短不一的月份时不会漂移
	k := 0
	for {
		next := AddPeriod(anchor, sub.Term*(k+1), sub.TermUnit)
		if now.Before(next) {
			break
		}
		k++
	}

	state := CycleState{
		Phase:         PhaseBilling,
		PeriodStart:   AddPeriod(anchor, sub.Term*k, sub.TermUnit),
		PeriodEnd:     AddPeriod(anchor, sub.Term*(k+1), sub.TermUnit),
		CyclesElapsed: baseCycles + k,
	}

	switch sub.Status {
	case constants.StatusNew, constants.StatusFuture:
		// 到达 startsAt(试用期已过或未配置)，直接激活
		state.DueForTransition = true
		state.Event = EventActivate
	case constants.StatusInTrial:
		// 刚跨过试用期边界
		state.DueForTransition = true
		state.Event = EventTrialEnded
	case constants.StatusActive:
		if state.CyclesElapsed > sub.CurrentBillingCycle {
			state.DueForTransition = true
			if sub.TotalBillingCycles > 0 && sub.CurrentBillingCycle >= sub.TotalBillingCycles {
				// 已到达总周期数，不再推进，等待过期
				state.Event = EventComplete
			} else {
				state.Event = EventRenew
			}
		}
	default:
		// pending/halted/paused 由外部事件驱动，终态不再推进
	}

	return state
}
