package biz

import (
	"time"

	"github.com/itshubble/hubble-server/internal/constants"
)

// AddPeriod 将日期按周期单位向后推移 amount 个单位
// 按月推移时，若目标月份没有对应的日期，则收敛到目标月份的最后一天
// (如 1月31日 + 1个月 = 2月28日/29日)
func AddPeriod(t time.Time, amount int, unit string) time.Time {
	if amount == 0 {
		return t
	}
	switch unit {
	case constants.UnitMonths:
		return addMonthsClamped(t, amount)
	default:
		// 默认按天
		return t.AddDate(0, 0, amount)
	}
}

// addMonthsClamped 按月推移并收敛日期
// 不能直接使用 time.AddDate: 它会将 1月31日 + 1个月 规范化为 3月2日/3日
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// 先定位目标年月
	m := int(month) - 1 + months
	targetYear := year + m/12
	targetMonth := time.Month(m%12 + 1)
	if m < 0 {
		// Go 的整数除法向零取整，负数月份需要借位
		targetYear = year + (m-11)/12
		targetMonth = time.Month((m%12+12)%12 + 1)
	}

	// 收敛到目标月份的最后一天
	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysInMonth 返回指定年月的天数
func daysInMonth(year int, month time.Month) int {
	// 下个月第 0 天即本月最后一天
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
