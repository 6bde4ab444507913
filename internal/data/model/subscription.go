package model

import "time"

// Subscription 订阅模型
type Subscription struct {
	ID        string `gorm:"primaryKey;column:subscription_id;type:varchar(36)"`
	OwnerID   string `gorm:"column:owner_id;type:varchar(36);not null;index:idx_owner_id"`
	AccountID string `gorm:"column:account_id;type:varchar(36);not null;index:idx_account_plan"`
	PlanID    string `gorm:"column:plan_id;type:varchar(36);not null;index:idx_account_plan"`

	PricePerBillingCycle float64 `gorm:"column:price_per_billing_cycle;type:decimal(10,2);not null"`
	SetupFee             float64 `gorm:"column:setup_fee;type:decimal(10,2);not null;default:0"`
	Quantity             int     `gorm:"column:quantity;not null"`

	StartsAt            time.Time `gorm:"column:starts_at;not null"`
	Term                int       `gorm:"column:term;not null"`
	TermUnit            string    `gorm:"column:term_unit;type:enum('days','months');not null;default:'days'"`
	TrialPeriod         int       `gorm:"column:trial_period;not null;default:0"`
	TrialPeriodUnit     string    `gorm:"column:trial_period_unit;type:enum('days','months');not null;default:'days'"`
	TotalBillingCycles  int       `gorm:"column:total_billing_cycles;not null;default:0"`
	CurrentBillingCycle int       `gorm:"column:current_billing_cycle;not null;default:0"`
	Renews              bool      `gorm:"column:renews;not null;default:true"`

	Status string `gorm:"column:status;type:enum('new','future','in_trial','active','pending','halted','canceled','expired','paused');not null;index:idx_status"`

	Notes              string `gorm:"column:notes;type:varchar(200)"`
	TermsAndConditions string `gorm:"column:terms_and_conditions;type:varchar(200)"`

	ActivatedAt        *time.Time `gorm:"column:activated_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	PausedAt           *time.Time `gorm:"column:paused_at"`
	CurrentPeriodStart *time.Time `gorm:"column:current_period_start"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end;index:idx_current_period_end"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Subscription) TableName() string { return "subscription" }
