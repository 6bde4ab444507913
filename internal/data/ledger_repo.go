package data

import (
	"context"

	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/data/model"
	bizErrors "github.com/itshubble/hubble-server/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm/clause"
)

// billingLedgerRepo 计费账本仓库实现
type billingLedgerRepo struct {
	data *Data
	log  *log.Helper
}

// NewBillingLedgerRepo 创建计费账本仓库
func NewBillingLedgerRepo(data *Data, logger log.Logger) biz.BillingLedgerRepo {
	return &billingLedgerRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// AppendEntry 原子地追加账本条目
// 通过 (subscription_id, cycle_number) 唯一索引 + INSERT IGNORE 语义实现
// check-and-insert 的原子性，并发写入同一周期时只有一条生效
func (r *billingLedgerRepo) AppendEntry(ctx context.Context, entry *biz.BillingLedgerEntry) error {
	m := &model.BillingLedgerEntry{
		ID:             entry.ID,
		OwnerID:        entry.OwnerID,
		SubscriptionID: entry.SubscriptionID,
		CycleNumber:    entry.CycleNumber,
		Amount:         entry.Amount,
		CreatedAt:      entry.CreatedAt,
	}

	result := r.data.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if result.Error != nil {
		r.log.Errorf("Failed to append ledger entry for subscription %s cycle %d: %v",
			entry.SubscriptionID, entry.CycleNumber, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 唯一索引冲突：该周期已入账
		return bizErrors.NewBizErrorf(bizErrors.ErrCodeDuplicateCycle,
			"ledger entry for subscription %s cycle %d already exists",
			entry.SubscriptionID, entry.CycleNumber)
	}
	return nil
}

// ExistsEntry 判断某订阅某周期是否已入账
func (r *billingLedgerRepo) ExistsEntry(ctx context.Context, subscriptionID string, cycleNumber int) (bool, error) {
	var total int64
	if err := r.data.DB(ctx).Model(&model.BillingLedgerEntry{}).
		Where("subscription_id = ? AND cycle_number = ?", subscriptionID, cycleNumber).
		Count(&total).Error; err != nil {
		r.log.Errorf("Failed to check ledger entry for subscription %s cycle %d: %v", subscriptionID, cycleNumber, err)
		return false, err
	}
	return total > 0, nil
}

// ListEntries 分页获取某订阅的账本条目
func (r *billingLedgerRepo) ListEntries(ctx context.Context, subscriptionID string, page, pageSize int) ([]*biz.BillingLedgerEntry, int, error) {
	var models []model.BillingLedgerEntry
	var total int64

	if err := r.data.DB(ctx).Model(&model.BillingLedgerEntry{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&total).Error; err != nil {
		r.log.Errorf("Failed to count ledger entries: %v", err)
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.data.DB(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("cycle_number ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list ledger entries: %v", err)
		return nil, 0, err
	}

	entries := make([]*biz.BillingLedgerEntry, len(models))
	for i, m := range models {
		entries[i] = &biz.BillingLedgerEntry{
			ID:             m.ID,
			OwnerID:        m.OwnerID,
			SubscriptionID: m.SubscriptionID,
			CycleNumber:    m.CycleNumber,
			Amount:         m.Amount,
			CreatedAt:      m.CreatedAt,
		}
	}
	return entries, int(total), nil
}
