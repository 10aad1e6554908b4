package services

import (
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/utils"
)

// StatusCalculator derives compliance state and due-date math. All methods
// are pure functions of their arguments.
type StatusCalculator struct{}

func NewStatusCalculator() *StatusCalculator {
	return &StatusCalculator{}
}

// DeriveStatus maps a due date and the current time onto a compliance
// status. A vehicle with no due date has nothing pending and is compliant.
func (c *StatusCalculator) DeriveStatus(nextDueDate *time.Time, now time.Time) models.ComplianceStatus {
	if nextDueDate == nil {
		return models.ComplianceStatusCompliant
	}

	daysUntilDue := utils.CeilDays(now, *nextDueDate)

	switch {
	case daysUntilDue < 0:
		return models.ComplianceStatusOverdue
	case daysUntilDue <= utils.DueSoonWindowDays:
		return models.ComplianceStatusDueSoon
	default:
		return models.ComplianceStatusCompliant
	}
}

// NextDueDate computes the deadline implied by a test performed on testDate
// under the given schedule. Month arithmetic clamps at month end, so a test
// on Jan 31 under a quarterly schedule comes due Apr 30.
func (c *StatusCalculator) NextDueDate(testDate time.Time, schedule models.TestingSchedule) time.Time {
	months := 6
	if schedule == models.TestingScheduleQuarterly {
		months = 3
	}
	return utils.AddMonths(testDate, months)
}

// DaysUntilDue returns the ceiling day count until the due date, or false
// when no due date is set.
func (c *StatusCalculator) DaysUntilDue(nextDueDate *time.Time, now time.Time) (int, bool) {
	if nextDueDate == nil {
		return 0, false
	}
	return utils.CeilDays(now, *nextDueDate), true
}
