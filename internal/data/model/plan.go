package model

import "time"

// Plan 套餐模型
type Plan struct {
	ID                   string    `gorm:"primaryKey;column:plan_id;type:varchar(36)"`
	OwnerID              string    `gorm:"column:owner_id;type:varchar(36);not null;index:idx_owner_id"`
	Name                 string    `gorm:"column:name;type:varchar(100);not null"`
	Code                 string    `gorm:"column:code;type:varchar(50);not null"`
	Description          string    `gorm:"column:description;type:varchar(500)"`
	PricePerBillingCycle float64   `gorm:"column:price_per_billing_cycle;type:decimal(10,2);not null"`
	SetupFee             float64   `gorm:"column:setup_fee;type:decimal(10,2);not null;default:0"`
	TrialPeriod          int       `gorm:"column:trial_period;not null;default:0"`
	TrialPeriodUnit      string    `gorm:"column:trial_period_unit;type:enum('days','months');not null;default:'days'"`
	Term                 int       `gorm:"column:term;not null"`
	TermUnit             string    `gorm:"column:term_unit;type:enum('days','months');not null;default:'days'"`
	TotalBillingCycles   int       `gorm:"column:total_billing_cycles;not null;default:0"`
	Renews               bool      `gorm:"column:renews;not null;default:true"`
	Deleted              bool      `gorm:"column:deleted;not null;default:false"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Plan) TableName() string { return "plan" }
