package biz

import (
	"testing"
	"time"

	"github.com/itshubble/hubble-server/internal/constants"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddPeriodDays(t *testing.T) {
	got := AddPeriod(date(2024, time.January, 15), 30, constants.UnitDays)
	assert.Equal(t, date(2024, time.February, 14), got)

	// 跨闰日
	got = AddPeriod(date(2024, time.February, 28), 2, constants.UnitDays)
	assert.Equal(t, date(2024, time.March, 1), got)
}

func TestAddPeriodMonthsClamping(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"normal", date(2024, time.March, 15), 1, date(2024, time.April, 15)},
		{"jan31 to leap feb", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan31 to non-leap feb", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"jan31 plus two months", date(2024, time.January, 31), 2, date(2024, time.March, 31)},
		{"may31 to june30", date(2024, time.May, 31), 1, date(2024, time.June, 30)},
		{"cross year", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"twelve months", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddPeriod(tt.start, tt.months, constants.UnitMonths))
		})
	}
}

func TestAddPeriodNegativeMonths(t *testing.T) {
	got := AddPeriod(date(2024, time.March, 31), -1, constants.UnitMonths)
	assert.Equal(t, date(2024, time.February, 29), got)

	got = AddPeriod(date(2024, time.January, 15), -2, constants.UnitMonths)
	assert.Equal(t, date(2023, time.November, 15), got)
}

func TestAddPeriodZeroAmount(t *testing.T) {
	start := date(2024, time.June, 1)
	assert.Equal(t, start, AddPeriod(start, 0, constants.UnitMonths))
	assert.Equal(t, start, AddPeriod(start, 0, constants.UnitDays))
}

func TestAddPeriodPreservesClock(t *testing.T) {
	start := time.Date(2024, time.January, 31, 13, 45, 30, 0, time.UTC)
	got := AddPeriod(start, 1, constants.UnitMonths)
	assert.Equal(t, time.Date(2024, time.February, 29, 13, 45, 30, 0, time.UTC), got)
}
