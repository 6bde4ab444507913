package model

import "time"

// BillingLedgerEntry 计费账本模型
// (subscription_id, cycle_number) 唯一索引是防止重复扣费的数据库级屏障
type BillingLedgerEntry struct {
	ID             string    `gorm:"primaryKey;column:ledger_entry_id;type:varchar(36)"`
	OwnerID        string    `gorm:"column:owner_id;type:varchar(36);not null;index:idx_owner_id"`
	SubscriptionID string    `gorm:"column:subscription_id;type:varchar(36);not null;uniqueIndex:uk_subscription_cycle"`
	CycleNumber    int       `gorm:"column:cycle_number;not null;uniqueIndex:uk_subscription_cycle"`
	Amount         float64   `gorm:"column:amount;type:decimal(10,2);not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (BillingLedgerEntry) TableName() string { return "billing_ledger_entry" }
