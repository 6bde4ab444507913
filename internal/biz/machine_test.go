package biz

import (
	"testing"
	"time"

	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatusTable(t *testing.T) {
	tests := []struct {
		event Event
		from  string
		to    string
		ok    bool
	}{
		{EventActivate, constants.StatusNew, constants.StatusActive, true},
		{EventActivate, constants.StatusFuture, constants.StatusActive, true},
		{EventActivate, constants.StatusActive, "", false},
		{EventEnterTrial, constants.StatusNew, constants.StatusInTrial, true},
		{EventTrialEnded, constants.StatusInTrial, constants.StatusActive, true},
		{EventTrialEnded, constants.StatusActive, "", false},
		{EventRenew, constants.StatusActive, constants.StatusActive, true},
		{EventRenew, constants.StatusPaused, "", false},
		{EventComplete, constants.StatusActive, constants.StatusExpired, true},
		{EventCancel, constants.StatusActive, constants.StatusCanceled, true},
		{EventCancel, constants.StatusPaused, constants.StatusCanceled, true},
		{EventCancel, constants.StatusCanceled, "", false},
		{EventCancel, constants.StatusExpired, "", false},
		{EventPause, constants.StatusActive, constants.StatusPaused, true},
		{EventPause, constants.StatusInTrial, constants.StatusPaused, true},
		{EventPause, constants.StatusPending, "", false},
		{EventResume, constants.StatusPaused, constants.StatusActive, true},
		{EventResume, constants.StatusActive, "", false},
		{EventHalt, constants.StatusActive, constants.StatusHalted, true},
		{EventHalt, constants.StatusPending, constants.StatusHalted, true},
		{EventResolve, constants.StatusHalted, constants.StatusActive, true},
		{EventResolve, constants.StatusActive, "", false},
	}
	for _, tt := range tests {
		to, ok := NextStatus(tt.event, tt.from)
		assert.Equal(t, tt.ok, ok, "%s from %s", tt.event, tt.from)
		if tt.ok {
			assert.Equal(t, tt.to, to, "%s from %s", tt.event, tt.from)
		}
	}
}

func TestApplyActivateSetsPeriod(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.Status = constants.StatusNew
	now := date(2024, time.January, 1)

	result, err := Apply(sub, EventActivate, now)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusNew, result.FromStatus)
	assert.Equal(t, constants.StatusActive, result.ToStatus)
	assert.Equal(t, constants.StatusActive, sub.Status)
	require.NotNil(t, sub.CurrentPeriodStart)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.Equal(t, date(2024, time.January, 1), *sub.CurrentPeriodStart)
	assert.Equal(t, date(2024, time.February, 1), *sub.CurrentPeriodEnd)
	assert.Equal(t, now, *sub.ActivatedAt)
}

func TestApplyRejectedLeavesSnapshotUntouched(t *testing.T) {
	// 已取消的订阅再次取消：拒绝且快照不变
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.Status = constants.StatusCanceled
	cancelledAt := date(2024, time.February, 1)
	sub.CancelledAt = &cancelledAt

	before := sub.Clone()
	result, err := Apply(sub, EventCancel, date(2024, time.March, 1))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransitionRejected))
	assert.Equal(t, before, sub)
}

func TestApplyTrialEndedRespectsRenews(t *testing.T) {
	// renews=true 转入 active
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.Status = constants.StatusInTrial
	sub.TrialPeriod = 14
	sub.TrialPeriodUnit = constants.UnitDays

	result, err := Apply(sub, EventTrialEnded, date(2024, time.January, 15))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusActive, result.ToStatus)
	assert.Equal(t, date(2024, time.January, 15), *sub.CurrentPeriodStart)
	assert.Equal(t, date(2024, time.February, 15), *sub.CurrentPeriodEnd)

	// renews=false 转入 pending 等待手工扣款
	sub = monthlySubscription(date(2024, time.January, 1))
	sub.Status = constants.StatusInTrial
	sub.TrialPeriod = 14
	sub.TrialPeriodUnit = constants.UnitDays
	sub.Renews = false

	result, err = Apply(sub, EventTrialEnded, date(2024, time.January, 15))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, result.ToStatus)
}

func TestApplyRenewAdvancesCycle(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	start := date(2024, time.January, 1)
	end := date(2024, time.February, 1)
	sub.CurrentPeriodStart = &start
	sub.CurrentPeriodEnd = &end

	result, err := Apply(sub, EventRenew, date(2024, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, sub.CurrentBillingCycle)
	assert.Equal(t, 1, result.CycleNumber)
	assert.Equal(t, date(2024, time.February, 1), *sub.CurrentPeriodStart)
	assert.Equal(t, date(2024, time.March, 1), *sub.CurrentPeriodEnd)
}

func TestApplyRenewCappedAtTotalCycles(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	sub.TotalBillingCycles = 3
	sub.CurrentBillingCycle = 3
	start := date(2024, time.April, 1)
	end := date(2024, time.May, 1)
	sub.CurrentPeriodStart = &start
	sub.CurrentPeriodEnd = &end

	_, err := Apply(sub, EventRenew, date(2024, time.May, 1))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransitionRejected))
	assert.Equal(t, 3, sub.CurrentBillingCycle)

	// 到达上限后只允许 complete
	result, err := Apply(sub, EventComplete, date(2024, time.May, 1))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusExpired, result.ToStatus)
	assert.NotNil(t, sub.CancelledAt)
}

func TestApplyRenewWithoutPeriodRejected(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	_, err := Apply(sub, EventRenew, date(2024, time.February, 1))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransitionRejected))
}

func TestApplyPauseResumeShiftsWindow(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	start := date(2024, time.January, 1)
	end := date(2024, time.February, 1)
	sub.CurrentPeriodStart = &start
	sub.CurrentPeriodEnd = &end

	_, err := Apply(sub, EventPause, date(2024, time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPaused, sub.Status)
	require.NotNil(t, sub.PausedAt)

	// 暂停10天后恢复，周期窗口整体后移10天
	_, err = Apply(sub, EventResume, date(2024, time.January, 20))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusActive, sub.Status)
	assert.Nil(t, sub.PausedAt)
	assert.Equal(t, date(2024, time.January, 11), *sub.CurrentPeriodStart)
	assert.Equal(t, date(2024, time.February, 11), *sub.CurrentPeriodEnd)
}

func TestApplyCancelDisablesRenews(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	now := date(2024, time.March, 1)

	result, err := Apply(sub, EventCancel, now)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCanceled, result.ToStatus)
	assert.False(t, sub.Renews)
	assert.Equal(t, now, *sub.CancelledAt)
}

func TestApplyHaltAndResolve(t *testing.T) {
	sub := monthlySubscription(date(2024, time.January, 1))
	start := date(2024, time.January, 1)
	end := date(2024, time.February, 1)
	sub.CurrentPeriodStart = &start
	sub.CurrentPeriodEnd = &end

	// 挂起不修改周期窗口
	_, err := Apply(sub, EventHalt, date(2024, time.January, 20))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusHalted, sub.Status)
	assert.Equal(t, start, *sub.CurrentPeriodStart)

	// 恢复时按当前时间重算窗口
	_, err = Apply(sub, EventResolve, date(2024, time.February, 15))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusActive, sub.Status)
	assert.Equal(t, date(2024, time.February, 1), *sub.CurrentPeriodStart)
	assert.Equal(t, date(2024, time.March, 1), *sub.CurrentPeriodEnd)
}

func TestApplyDeterministicReplay(t *testing.T) {
	// 同一快照重放同一事件得到相同结果
	now := date(2024, time.February, 1)
	newSub := func() *Subscription {
		sub := monthlySubscription(date(2024, time.January, 1))
		start := date(2024, time.January, 1)
		end := date(2024, time.February, 1)
		sub.CurrentPeriodStart = &start
		sub.CurrentPeriodEnd = &end
		return sub
	}

	a := newSub()
	b := newSub()
	_, err := Apply(a, EventRenew, now)
	require.NoError(t, err)
	_, err = Apply(b, EventRenew, now)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
