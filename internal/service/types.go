package service

import "time"

// CreateSubscriptionRequest 创建订阅请求
// 计费参数不传时沿用套餐默认值
type CreateSubscriptionRequest struct {
	AccountID          string    `json:"accountId"`
	PlanID             string    `json:"planId"`
	Quantity           int       `json:"quantity"`
	SetupFee           *float64  `json:"setupFee"`
	TrialPeriod        *int      `json:"trialPeriod"`
	TrialPeriodUnit    string    `json:"trialPeriodUnit"`
	Term               *int      `json:"term"`
	TermUnit           string    `json:"termUnit"`
	TotalBillingCycles *int      `json:"totalBillingCycles"`
	StartsAt           time.Time `json:"startsAt"`
	Renews             *bool     `json:"renews"`
	Notes              string    `json:"notes"`
	TermsAndConditions string    `json:"termsAndConditions"`
}

// AccountReply 账户摘要
type AccountReply struct {
	ID           string `json:"id"`
	UserName     string `json:"userName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// PlanReply 套餐摘要
type PlanReply struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Code                 string  `json:"code"`
	Description          string  `json:"description"`
	PricePerBillingCycle float64 `json:"pricePerBillingCycle"`
	SetupFee             float64 `json:"setupFee"`
	TrialPeriod          int     `json:"trialPeriod"`
	TrialPeriodUnit      string  `json:"trialPeriodUnit"`
	Term                 int     `json:"term"`
	TermUnit             string  `json:"termUnit"`
	TotalBillingCycles   int     `json:"totalBillingCycles"`
	Renews               bool    `json:"renews"`
}

// SubscriptionReply 订阅详情
type SubscriptionReply struct {
	ID                   string        `json:"id"`
	OwnerID              string        `json:"ownerId"`
	AccountID            string        `json:"accountId"`
	PlanID               string        `json:"planId"`
	PricePerBillingCycle float64       `json:"pricePerBillingCycle"`
	SetupFee             float64       `json:"setupFee"`
	Quantity             int           `json:"quantity"`
	StartsAt             time.Time     `json:"startsAt"`
	Term                 int           `json:"term"`
	TermUnit             string        `json:"termUnit"`
	TrialPeriod          int           `json:"trialPeriod"`
	TrialPeriodUnit      string        `json:"trialPeriodUnit"`
	TotalBillingCycles   int           `json:"totalBillingCycles"`
	CurrentBillingCycle  int           `json:"currentBillingCycle"`
	Renews               bool          `json:"renews"`
	Status               string        `json:"status"`
	Notes                string        `json:"notes,omitempty"`
	TermsAndConditions   string        `json:"termsAndConditions,omitempty"`
	ActivatedAt          *time.Time    `json:"activatedAt"`
	CancelledAt          *time.Time    `json:"cancelledAt"`
	PausedAt             *time.Time    `json:"pausedAt"`
	CurrentPeriodStart   *time.Time    `json:"currentPeriodStart"`
	CurrentPeriodEnd     *time.Time    `json:"currentPeriodEnd"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
	Account              *AccountReply `json:"account,omitempty"`
	Plan                 *PlanReply    `json:"plan,omitempty"`
}

// ListSubscriptionsReply 订阅列表
type ListSubscriptionsReply struct {
	TotalRecords int                  `json:"totalRecords"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Records      []*SubscriptionReply `json:"records"`
}

// TransitionReply 状态迁移结果，供下游通知使用
type TransitionReply struct {
	SubscriptionID string    `json:"subscriptionId"`
	FromStatus     string    `json:"fromStatus"`
	ToStatus       string    `json:"toStatus"`
	CycleNumber    int       `json:"cycleNumber"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// SetRenewsRequest 自动续费开关请求
type SetRenewsRequest struct {
	Renews bool `json:"renews"`
}

// LedgerEntryReply 账本条目
type LedgerEntryReply struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscriptionId"`
	CycleNumber    int       `json:"cycleNumber"`
	Amount         float64   `json:"amount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListLedgerEntriesReply 账本条目列表
type ListLedgerEntriesReply struct {
	TotalRecords int                 `json:"totalRecords"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
	Records      []*LedgerEntryReply `json:"records"`
}

// HistoryItemReply 订阅历史条目
type HistoryItemReply struct {
	ID          uint64    `json:"id"`
	Action      string    `json:"action"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	CycleNumber int       `json:"cycleNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListHistoryReply 订阅历史列表
type ListHistoryReply struct {
	TotalRecords int                 `json:"totalRecords"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
	Records      []*HistoryItemReply `json:"records"`
}

// ListPlansReply 套餐列表
type ListPlansReply struct {
	TotalRecords int          `json:"totalRecords"`
	Page         int          `json:"page"`
	Limit        int          `json:"limit"`
	Records      []*PlanReply `json:"records"`
}

// SweepRequest 手动触发扫描请求
// now 不传时使用当前时间；传入固定时间用于确定性回放
type SweepRequest struct {
	Now *time.Time `json:"now"`
}

// SweepReply 扫描结果
type SweepReply struct {
	Evaluated    int               `json:"evaluated"`
	Transitioned int               `json:"transitioned"`
	Charged      int               `json:"charged"`
	Skipped      int               `json:"skipped"`
	Failed       int               `json:"failed"`
	Results      []*SweepItemReply `json:"results"`
}

// SweepItemReply 单个订阅的扫描结果
type SweepItemReply struct {
	SubscriptionID string `json:"subscriptionId"`
	Event          string `json:"event"`
	FromStatus     string `json:"fromStatus"`
	ToStatus       string `json:"toStatus"`
	CycleNumber    int    `json:"cycleNumber"`
	Charged        bool   `json:"charged"`
	Skipped        bool   `json:"skipped"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}
