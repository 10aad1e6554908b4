package validators

import (
	"fmt"
	"time"

	"smoketrack/internal/utils"
)

type TestRecordCreateRequest struct {
	VehicleID        string    `json:"vehicle_id" validate:"required"`
	TestDate         time.Time `json:"test_date" validate:"required"`
	TestResult       string    `json:"test_result" validate:"required,test_result"`
	TesterName       string    `json:"tester_name" validate:"omitempty,max=100"`
	Notes            string    `json:"notes" validate:"omitempty,max=1000"`
	ScheduleOverride string    `json:"schedule_override" validate:"omitempty,testing_schedule"`
}

// ValidateTestRecordCreate checks the request against now, allowing a day
// of slack for timezone skew on the test date.
func ValidateTestRecordCreate(req *TestRecordCreateRequest, now time.Time) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	if req.TestDate.After(now.Add(24 * time.Hour)) {
		return fmt.Errorf("test_date cannot be in the future")
	}

	return nil
}
