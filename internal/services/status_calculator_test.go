package services

import (
	"testing"
	"time"

	"smoketrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDeriveStatus(t *testing.T) {
	calc := NewStatusCalculator()
	now := date(2024, time.March, 1)

	tests := []struct {
		name     string
		dueDate  *time.Time
		expected models.ComplianceStatus
	}{
		{
			name:     "no due date is compliant",
			dueDate:  nil,
			expected: models.ComplianceStatusCompliant,
		},
		{
			name:     "due in 31 days is compliant",
			dueDate:  timePtr(date(2024, time.April, 1)),
			expected: models.ComplianceStatusCompliant,
		},
		{
			name:     "due in exactly 30 days is due soon",
			dueDate:  timePtr(date(2024, time.March, 31)),
			expected: models.ComplianceStatusDueSoon,
		},
		{
			name:     "due today is due soon",
			dueDate:  timePtr(now),
			expected: models.ComplianceStatusDueSoon,
		},
		{
			name:     "due earlier today is still due soon",
			dueDate:  timePtr(now.Add(-time.Hour)),
			expected: models.ComplianceStatusDueSoon,
		},
		{
			name:     "due yesterday is overdue",
			dueDate:  timePtr(date(2024, time.February, 29)),
			expected: models.ComplianceStatusOverdue,
		},
		{
			name:     "long past due is overdue",
			dueDate:  timePtr(date(2023, time.September, 1)),
			expected: models.ComplianceStatusOverdue,
		},
		{
			name:     "fractional day ahead rounds up to one day",
			dueDate:  timePtr(now.Add(25 * time.Hour)),
			expected: models.ComplianceStatusDueSoon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.DeriveStatus(tt.dueDate, now))
		})
	}
}

func TestNextDueDate(t *testing.T) {
	calc := NewStatusCalculator()

	tests := []struct {
		name     string
		testDate time.Time
		schedule models.TestingSchedule
		expected time.Time
	}{
		{
			name:     "semi-annual adds six months",
			testDate: date(2024, time.January, 15),
			schedule: models.TestingScheduleSemiAnnual,
			expected: date(2024, time.July, 15),
		},
		{
			name:     "quarterly adds three months",
			testDate: date(2024, time.January, 15),
			schedule: models.TestingScheduleQuarterly,
			expected: date(2024, time.April, 15),
		},
		{
			name:     "semi-annual from Jan 31 lands on Jul 31",
			testDate: date(2024, time.January, 31),
			schedule: models.TestingScheduleSemiAnnual,
			expected: date(2024, time.July, 31),
		},
		{
			name:     "quarterly from Jan 31 clamps to Apr 30",
			testDate: date(2024, time.January, 31),
			schedule: models.TestingScheduleQuarterly,
			expected: date(2024, time.April, 30),
		},
		{
			name:     "semi-annual from Aug 31 clamps to Feb 29 in leap year",
			testDate: date(2023, time.August, 31),
			schedule: models.TestingScheduleSemiAnnual,
			expected: date(2024, time.February, 29),
		},
		{
			name:     "semi-annual crossing year end",
			testDate: date(2024, time.October, 10),
			schedule: models.TestingScheduleSemiAnnual,
			expected: date(2025, time.April, 10),
		},
		{
			name:     "empty schedule defaults to semi-annual",
			testDate: date(2024, time.February, 1),
			schedule: "",
			expected: date(2024, time.August, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.NextDueDate(tt.testDate, tt.schedule))
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	calc := NewStatusCalculator()
	now := date(2024, time.June, 1)

	days, ok := calc.DaysUntilDue(timePtr(date(2024, time.June, 15)), now)
	assert.True(t, ok)
	assert.Equal(t, 14, days)

	days, ok = calc.DaysUntilDue(timePtr(date(2024, time.May, 30)), now)
	assert.True(t, ok)
	assert.Equal(t, -2, days)

	_, ok = calc.DaysUntilDue(nil, now)
	assert.False(t, ok)
}

func timePtr(t time.Time) *time.Time { return &t }
