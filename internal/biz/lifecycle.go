package biz

import (
	"context"
	"time"

	"github.com/itshubble/hubble-server/internal/constants"
	"github.com/itshubble/hubble-server/internal/errors"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
)

// SweepItemResult 单个订阅的评估结果
type SweepItemResult struct {
	SubscriptionID string
	Event          Event
	FromStatus     string
	ToStatus       string
	CycleNumber    int
	Charged        bool
	Skipped        bool
	ErrorMessage   string
}

// SweepResult 一次扫描的汇总结果
type SweepResult struct {
	Evaluated    int
	Transitioned int
	Charged      int
	Skipped      int
	Failed       int
	Results      []*SweepItemResult
}

// Sweep 周期扫描：评估全部非终态订阅，应用到期的状态迁移并入账
// now 由调用方(定时任务驱动或测试)传入，本方法不读取系统时钟
// 单个订阅的失败只记录不中断，整批没有全局锁
func (uc *SubscriptionUsecase) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	uc.log.Infof("Sweep started at %s", now.Format(time.RFC3339))

	batchSize := constants.DefaultSweepBatchSize
	if uc.config != nil && uc.config.Sweep != nil && uc.config.Sweep.BatchSize > 0 {
		batchSize = uc.config.Sweep.BatchSize
	}

	result := &SweepResult{}
	lastID := ""
	for {
		subs, err := uc.subRepo.ListNonTerminal(ctx, lastID, batchSize)
		if err != nil {
			uc.log.Errorf("Sweep failed to list subscriptions (after %q): %v", lastID, err)
			return result, errors.NewBizErrorf(errors.ErrCodePersistenceUnavailable,
				"failed to list subscriptions: %v", err)
		}
		if len(subs) == 0 {
			break
		}

		for _, sub := range subs {
			item := uc.EvaluateSubscription(ctx, sub.ID, now)
			if item == nil {
				result.Evaluated++
				continue
			}
			result.Evaluated++
			result.Results = append(result.Results, item)
			switch {
			case item.ErrorMessage != "":
				result.Failed++
			case item.Skipped:
				result.Skipped++
			default:
				result.Transitioned++
				if item.Charged {
					result.Charged++
				}
			}
		}

		// 游标推进用本批最后一条的主键，本批迁移为终态的行不会让后续批次前移
		lastID = subs[len(subs)-1].ID
		if len(subs) < batchSize {
			break
		}
	}

	uc.log.Infof("Sweep completed: evaluated=%d, transitioned=%d, charged=%d, skipped=%d, failed=%d",
		result.Evaluated, result.Transitioned, result.Charged, result.Skipped, result.Failed)
	return result, nil
}

// EvaluateSubscription 评估单个订阅并应用到期的迁移，幂等
// 返回 nil 表示无需迁移
func (uc *SubscriptionUsecase) EvaluateSubscription(ctx context.Context, subscriptionID string, now time.Time) *SweepItemResult {
	// 订阅级分布式锁：同一订阅同一时刻只允许一个 worker 评估
	// 拿不到锁说明另一个 worker 正在处理，直接跳过，下一轮扫描会重新覆盖
	mutex := uc.rs.NewMutex(
		constants.SweepLockPrefix+subscriptionID,
		redsync.WithExpiry(constants.SweepLockExpiration),
		redsync.WithTries(constants.SweepLockRetries),
	)
	if err := mutex.LockContext(ctx); err != nil {
		uc.log.Infof("Skipping subscription %s: evaluation lock busy", subscriptionID)
		return &SweepItemResult{SubscriptionID: subscriptionID, Skipped: true}
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			uc.log.Warnf("Failed to unlock subscription %s: %v", subscriptionID, err)
		}
	}()

	// 加锁后重新读取快照，避免基于过期快照做决策
	sub, err := uc.subRepo.GetSubscription(ctx, subscriptionID)
	if err != nil {
		uc.log.Errorf("Failed to get subscription %s: %v", subscriptionID, err)
		return &SweepItemResult{SubscriptionID: subscriptionID, ErrorMessage: err.Error()}
	}
	if sub == nil || sub.IsTerminal() {
		// 取消优先于续费：已终态的订阅直接退出本轮处理
		return nil
	}

	state := ComputeCycle(sub, now)
	if !state.DueForTransition {
		return nil
	}

	item := &SweepItemResult{
		SubscriptionID: sub.ID,
		Event:          state.Event,
		FromStatus:     sub.Status,
	}

	// 状态/周期写入与账本追加放在同一个一致性边界内，
	// 防止出现已扣费未推进或已推进未扣费的中间态
	err = uc.tx.Exec(ctx, func(ctx context.Context) error {
		next := sub.Clone()
		result, err := Apply(next, state.Event, now)
		if err != nil {
			return err
		}

		charged, err := uc.chargeForTransition(ctx, next, state.Event, result, now)
		if err != nil {
			return err
		}

		if err := uc.subRepo.SaveSubscription(ctx, next); err != nil {
			return err
		}

		uc.recordHistory(ctx, next, historyAction(state.Event), result.FromStatus, result.ToStatus, now)

		item.ToStatus = result.ToStatus
		item.CycleNumber = result.CycleNumber
		item.Charged = charged
		return nil
	})
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeTransitionRejected) {
			// 并发写入抢先完成了迁移(如外部取消)，放弃本轮处理
			uc.log.Infof("Subscription %s transition rejected, dropping: %v", sub.ID, err)
			item.Skipped = true
			return item
		}
		uc.log.Errorf("Failed to evaluate subscription %s: %v", sub.ID, err)
		item.ErrorMessage = err.Error()
		return item
	}

	uc.log.Infof("Subscription %s: %s -> %s (%s), cycle=%d, charged=%v",
		sub.ID, item.FromStatus, item.ToStatus, item.Event, item.CycleNumber, item.Charged)
	return item
}

// chargeForTransition 为计费性迁移追加账本条目
// (subscriptionId, cycleNumber) 唯一约束保证同一周期至多入账一次；
// 重复入账(并发扫描、失败重试)按幂等处理，不视为错误
func (uc *SubscriptionUsecase) chargeForTransition(ctx context.Context, sub *Subscription, event Event, result *TransitionResult, now time.Time) (bool, error) {
	chargeable := false
	switch event {
	case EventActivate, EventTrialEnded:
		// 进入 pending 等待手工扣款，不入账
		chargeable = result.ToStatus == constants.StatusActive
	case EventRenew:
		chargeable = true
	}
	if !chargeable {
		return false, nil
	}

	// 先做幂等预检，免去为已入账周期构造条目；
	// 真正的屏障仍是 AppendEntry 的唯一索引，预检与插入之间的并发写由它兜底
	exists, err := uc.ledgerRepo.ExistsEntry(ctx, sub.ID, sub.CurrentBillingCycle)
	if err != nil {
		return false, err
	}
	if exists {
		uc.log.Infof("Ledger entry for subscription %s cycle %d already exists, skipping charge",
			sub.ID, sub.CurrentBillingCycle)
		return false, nil
	}

	entry := &BillingLedgerEntry{
		ID:             uuid.NewString(),
		OwnerID:        sub.OwnerID,
		SubscriptionID: sub.ID,
		CycleNumber:    sub.CurrentBillingCycle,
		Amount:         CycleCharge(sub, sub.CurrentBillingCycle),
		CreatedAt:      now,
	}
	if err := uc.ledgerRepo.AppendEntry(ctx, entry); err != nil {
		if errors.IsCode(err, errors.ErrCodeDuplicateCycle) {
			// 该周期已入账：跳过扣费，但状态推进照常落库，
			// 同一快照重算得到同一目标状态，重放是安全的
			uc.log.Infof("Ledger entry for subscription %s cycle %d already exists, skipping charge",
				sub.ID, sub.CurrentBillingCycle)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// historyAction 把状态机事件映射为历史记录的 action
func historyAction(event Event) string {
	switch event {
	case EventActivate:
		return constants.ActionActivated
	case EventEnterTrial:
		return constants.ActionTrialStarted
	case EventTrialEnded:
		return constants.ActionTrialEnded
	case EventRenew:
		return constants.ActionRenewed
	case EventComplete:
		return constants.ActionExpired
	case EventCancel:
		return constants.ActionCancelled
	case EventPause:
		return constants.ActionPaused
	case EventResume:
		return constants.ActionResumed
	case EventHalt:
		return constants.ActionHalted
	case EventResolve:
		return constants.ActionResolved
	}
	return string(event)
}
