package model

import "time"

// Account 账户模型
type Account struct {
	ID           string    `gorm:"primaryKey;column:account_id;type:varchar(36)"`
	OwnerID      string    `gorm:"column:owner_id;type:varchar(36);not null;index:idx_owner_id"`
	UserName     string    `gorm:"column:user_name;type:varchar(50);not null"`
	FirstName    string    `gorm:"column:first_name;type:varchar(50)"`
	LastName     string    `gorm:"column:last_name;type:varchar(50)"`
	EmailAddress string    `gorm:"column:email_address;type:varchar(100)"`
	Deleted      bool      `gorm:"column:deleted;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string { return "account" }
