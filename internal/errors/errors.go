package errors

import (
	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// 错误码对应的 reason 与默认文案
var reasons = map[int]struct {
	reason  string
	message string
}{
	ErrCodePlanNotFound:           {"PLAN_NOT_FOUND", "cannot find a plan with the specified identifier"},
	ErrCodeAccountNotFound:        {"ACCOUNT_NOT_FOUND", "cannot find an account with the specified identifier"},
	ErrCodeAlreadySubscribed:      {"ALREADY_SUBSCRIBED", "the specified plan is already subscribed"},
	ErrCodeSubscriptionNotFound:   {"SUBSCRIPTION_NOT_FOUND", "cannot find a subscription with the specified identifier"},
	ErrCodeInvalidSchedule:        {"INVALID_SCHEDULE_CONFIGURATION", "the term and trial configuration cannot produce a well-formed period"},
	ErrCodeTransitionRejected:     {"TRANSITION_REJECTED", "the requested transition is not legal from the current status"},
	ErrCodeSubscriptionTerminal:   {"SUBSCRIPTION_TERMINAL", "the subscription has reached a terminal status"},
	ErrCodeDuplicateCycle:         {"DUPLICATE_CYCLE", "a ledger entry for this billing cycle already exists"},
	ErrCodeLedgerEntryNotFound:    {"LEDGER_ENTRY_NOT_FOUND", "cannot find a ledger entry with the specified identifier"},
	ErrCodeSweepLockBusy:          {"SWEEP_LOCK_BUSY", "the subscription is being evaluated by another worker"},
	ErrCodePersistenceUnavailable: {"PERSISTENCE_UNAVAILABLE", "the storage collaborator is unavailable"},
}

// NewBizError 根据错误码创建业务错误
func NewBizError(code int) *kerrors.Error {
	if r, ok := reasons[code]; ok {
		return kerrors.New(code, r.reason, r.message)
	}
	return kerrors.New(code, "UNKNOWN", "unknown error")
}

// NewBizErrorf 根据错误码创建业务错误并覆盖默认文案
func NewBizErrorf(code int, format string, args ...interface{}) *kerrors.Error {
	err := NewBizError(code)
	return kerrors.Newf(int(err.Code), err.Reason, format, args...)
}

// IsCode 判断错误是否为指定业务错误码
func IsCode(err error, code int) bool {
	se := kerrors.FromError(err)
	return se != nil && int(se.Code) == code
}
