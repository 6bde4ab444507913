package biz

import (
	"testing"
	"time"

	"github.com/itshubble/hubble-server/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlySubscription(startsAt time.Time) *Subscription {
	return &Subscription{
		ID:                   "sub-1",
		OwnerID:              "owner-1",
		AccountID:            "account-1",
		PlanID:               "plan-1",
		PricePerBillingCycle: 99.0,
		Quantity:             1,
		StartsAt:             startsAt,
		Term:                 1,
		TermUnit:             constants.UnitMonths,
		Renews:               true,
		Status:               constants.StatusActive,
	}
}

func TestComputeCycleFuture(t *testing.T) {
	sub := monthlySubscription(date(2024, time.March, 1))
	sub.Status = constants.StatusNew

	state := ComputeCycle(sub, date(2024, time.February, 15))
	assert.Equal(t, PhaseFuture, state.Phase)
	assert.False(t, state.DueForTransition)
	assert.Equal(t, date(2024, time.March, 1), state.PeriodStart)
}

func TestComputeCycleFirstBoundary(t *testing.T) {
	// startsAt=2024-01-01，无试用期，1个月周期
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.CurrentBillingCycle = 0

	state := ComputeCycle(sub, date(2024, time.February, 1))
	assert.Equal(t, PhaseBilling, state.Phase)
	assert.Equal(t, 1, state.CyclesElapsed)
	assert.Equal(t, date(2024, time.February, 1), state.PeriodStart)
	assert.Equal(t, date(2024, time.March, 1), state.PeriodEnd)
	assert.True(t, state.DueForTransition)
	assert.Equal(t, EventRenew, state.Event)
}

func TestComputeCycleMonthEndClamping(t *testing.T) {
	// 1月31日起订：首个周期边界收敛到2月最后一天
	sub := monthlySubscription(date(2024, time.January, 31))
	state := ComputeCycle(sub, date(2024, time.February, 10))
	assert.Equal(t, date(2024, time.February, 29), state.PeriodEnd)

	sub = monthlySubscription(date(2025, time.January, 31))
	state = ComputeCycle(sub, date(2025, time.February, 10))
	assert.Equal(t, date(2025, time.February, 28), state.PeriodEnd)

	// 后续边界从锚点整倍推算，不从收敛后的2月底漂移
	sub = monthlySubscription(date(2024, time.January, 31))
	state = ComputeCycle(sub, date(2024, time.March, 15))
	assert.Equal(t, date(2024, time.February, 29), state.PeriodStart)
	assert.Equal(t, date(2024, time.March, 31), state.PeriodEnd)
}

func TestComputeCycleTrialWindow(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.Status = constants.StatusNew
	sub.TrialPeriod = 14
	sub.TrialPeriodUnit = constants.UnitDays

	// 试用期内
	state := ComputeCycle(sub, date(2024, time.January, 10))
	assert.Equal(t, PhaseTrial, state.Phase)
	assert.True(t, state.DueForTransition)
	assert.Equal(t, EventEnterTrial, state.Event)
	assert.Equal(t, date(2024, time.January, 15), state.PeriodEnd)

	// 试用期结束后进入首个付费周期
	sub.Status = constants.StatusInTrial
	state = ComputeCycle(sub, date(2024, time.January, 20))
	assert.Equal(t, PhaseBilling, state.Phase)
	assert.Equal(t, 0, state.CyclesElapsed)
	assert.Equal(t, date(2024, time.January, 15), state.PeriodStart)
	assert.True(t, state.DueForTransition)
	assert.Equal(t, EventTrialEnded, state.Event)
}

func TestComputeCycleMonotonic(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 31))
	sub.TrialPeriod = 7
	sub.TrialPeriodUnit = constants.UnitDays

	prev := -1
	now := date(2024, time.January, 31)
	for i := 0; i < 400; i++ {
		state := ComputeCycle(sub, now)
		if state.Phase == PhaseBilling {
			require.GreaterOrEqual(t, state.CyclesElapsed, prev)
			prev = state.CyclesElapsed
		}
		now = now.AddDate(0, 0, 1)
	}
	assert.Greater(t, prev, 10)
}

func TestComputeCycleNoEventWhenCurrent(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.CurrentBillingCycle = 1

	// 已处于第1周期，尚未跨过下一边界
	state := ComputeCycle(sub, date(2024, time.February, 15))
	assert.Equal(t, 1, state.CyclesElapsed)
	assert.False(t, state.DueForTransition)
}

func TestComputeCycleCompleteAtTotal(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.TotalBillingCycles = 3
	sub.CurrentBillingCycle = 3

	state := ComputeCycle(sub, date(2024, time.May, 2))
	assert.True(t, state.DueForTransition)
	assert.Equal(t, EventComplete, state.Event)
}

func TestComputeCycleActivateWhenDue(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.Status = constants.StatusNew

	state := ComputeCycle(sub, date(2024, time.January, 1))
	assert.Equal(t, PhaseBilling, state.Phase)
	assert.True(t, state.DueForTransition)
	assert.Equal(t, EventActivate, state.Event)
	assert.Equal(t, 0, state.CyclesElapsed)
}

func TestComputeCycleAnchorsOnShiftedWindow(t *testing.T) {
	// 暂停恢复后存储窗口整体后移，推算应以存储窗口为锚点
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.CurrentBillingCycle = 2
	shiftedStart := date(2024, time.March, 10)
	shiftedEnd := date(2024, time.April, 10)
	sub.CurrentPeriodStart = &shiftedStart
	sub.CurrentPeriodEnd = &shiftedEnd

	state := ComputeCycle(sub, date(2024, time.March, 20))
	assert.Equal(t, 2, state.CyclesElapsed)
	assert.Equal(t, shiftedStart, state.PeriodStart)
	assert.Equal(t, shiftedEnd, state.PeriodEnd)
	assert.False(t, state.DueForTransition)

	// 跨过后移的边界才进入下一周期
	state = ComputeCycle(sub, date(2024, time.April, 10))
	assert.Equal(t, 3, state.CyclesElapsed)
	assert.True(t, state.DueForTransition)
	assert.Equal(t, EventRenew, state.Event)
}

func TestComputeCyclePausedNotDue(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.Status = constants.StatusPaused

	state := ComputeCycle(sub, date(2024, time.June, 1))
	assert.False(t, state.DueForTransition)
}
