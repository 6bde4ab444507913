package errors

// 订阅引擎错误码定义
// 错误码格式：SSMMEE (6位数字)，其中 SS=14 表示 hubble-server
// 模块划分：
//   01: 套餐/账户模块
//   02: 订阅生命周期
//   03: 计费账本
//   04: 调度扫描

// 套餐/账户模块 (140100-140199)
const (
	// ErrCodePlanNotFound 套餐不存在错误
	ErrCodePlanNotFound = 140101
	// ErrCodeAccountNotFound 账户不存在错误
	ErrCodeAccountNotFound = 140102
	// ErrCodeAlreadySubscribed 账户已订阅该套餐错误
	ErrCodeAlreadySubscribed = 140103
)

// 订阅生命周期模块 (140200-140299)
const (
	// ErrCodeSubscriptionNotFound 订阅不存在错误
	ErrCodeSubscriptionNotFound = 140201
	// ErrCodeInvalidSchedule 订阅计划配置无效错误(周期/试用期无法构成合法区间)
	ErrCodeInvalidSchedule = 140202
	// ErrCodeTransitionRejected 当前状态不允许该状态迁移错误
	ErrCodeTransitionRejected = 140203
	// ErrCodeSubscriptionTerminal 订阅已处于终态错误
	ErrCodeSubscriptionTerminal = 140204
)

// 计费账本模块 (140300-140399)
const (
	// ErrCodeDuplicateCycle 账本周期重复错误(同一订阅同一周期只允许一条账单)
	ErrCodeDuplicateCycle = 140301
	// ErrCodeLedgerEntryNotFound 账单不存在错误
	ErrCodeLedgerEntryNotFound = 140302
)

// 调度扫描模块 (140400-140499)
const (
	// ErrCodeSweepLockBusy 订阅正在被其他 worker 评估错误
	ErrCodeSweepLockBusy = 140401
	// ErrCodePersistenceUnavailable 存储不可用错误
	ErrCodePersistenceUnavailable = 140402
)
