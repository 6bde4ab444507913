package model

import "time"

// SubscriptionHistory 订阅历史模型
type SubscriptionHistory struct {
	SubscriptionHistoryID uint64    `gorm:"primaryKey;column:subscription_history_id;autoIncrement"`
	OwnerID               string    `gorm:"column:owner_id;type:varchar(36);not null;index:idx_owner_id"`
	SubscriptionID        string    `gorm:"column:subscription_id;type:varchar(36);not null;index:idx_subscription_id"`
	PlanID                string    `gorm:"column:plan_id;type:varchar(36)"`
	Action                string    `gorm:"column:action;type:varchar(30);not null"`
	FromStatus            string    `gorm:"column:from_status;type:varchar(20)"`
	ToStatus              string    `gorm:"column:to_status;type:varchar(20)"`
	CycleNumber           int       `gorm:"column:cycle_number;not null;default:0"`
	CreatedAt             time.Time `gorm:"column:created_at"`
}

func (SubscriptionHistory) TableName() string { return "subscription_history" }
