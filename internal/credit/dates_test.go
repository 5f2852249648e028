package credit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDueDate(t *testing.T) {
	cases := []struct {
		name   string
		prev   time.Time
		dueDay int
		want   time.Time
	}{
		{"plain advance", date(2025, 1, 1), 15, date(2025, 2, 15)},
		{"clamped to february", date(2025, 1, 31), 31, date(2025, 2, 28)},
		{"leap february", date(2024, 1, 31), 30, date(2024, 2, 29)},
		{"december rollover", date(2025, 12, 20), 15, date(2026, 1, 15)},
		{"due day before prev day", date(2025, 3, 28), 5, date(2025, 4, 5)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextDueDate(tc.prev, tc.dueDay))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 45, daysBetween(date(2025, 1, 1), date(2025, 2, 15)))
	assert.Equal(t, 0, daysBetween(date(2025, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, -1, daysBetween(date(2025, 1, 2), date(2025, 1, 1)))

	// Time-of-day components are ignored.
	a := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(a, b))
}
