package constants

import "time"

// 分页相关常量
const (
	// DefaultPageSize 默认分页大小
	DefaultPageSize = 10
	// MaxPageSize 最大分页大小
	MaxPageSize = 100
)

// 计费周期单位
const (
	// UnitDays 按天计费
	UnitDays = "days"
	// UnitMonths 按月计费
	UnitMonths = "months"
)

// 订阅状态
const (
	StatusNew      = "new"
	StatusFuture   = "future"
	StatusInTrial  = "in_trial"
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusHalted   = "halted"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
	StatusPaused   = "paused"
)

// 订阅操作(历史记录 action 字段)
const (
	ActionCreated        = "created"
	ActionActivated      = "activated"
	ActionTrialStarted   = "trial_started"
	ActionTrialEnded     = "trial_ended"
	ActionRenewed        = "renewed"
	ActionPaused         = "paused"
	ActionResumed        = "resumed"
	ActionCancelled      = "cancelled"
	ActionHalted         = "halted"
	ActionResolved       = "resolved"
	ActionExpired        = "expired"
	ActionEnabledRenews  = "enabled_renews"
	ActionDisabledRenews = "disabled_renews"
)

// 备注字段长度限制
const (
	// MaxNotesLength 备注最大长度
	MaxNotesLength = 200
	// MaxTermsLength 条款最大长度
	MaxTermsLength = 200
)

// 扫描任务相关常量
const (
	// DefaultSweepBatchSize 默认每批处理的订阅数
	DefaultSweepBatchSize = 100
	// SweepLockExpiration 单个订阅评估锁过期时间
	SweepLockExpiration = 2 * time.Minute
	// SweepLockRetries 订阅评估锁重试次数
	SweepLockRetries = 1
	// SweepLockPrefix 订阅评估锁 key 前缀
	SweepLockPrefix = "sweep_lock:subscription:"
)
