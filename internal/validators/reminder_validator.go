package validators

import (
	"time"

	"smoketrack/internal/utils"
)

type ReminderCreateRequest struct {
	VehicleID    string    `json:"vehicle_id" validate:"required"`
	ReminderDate time.Time `json:"reminder_date" validate:"required"`
	ReminderType string    `json:"reminder_type" validate:"omitempty,reminder_type"`
}

func ValidateReminderCreate(req *ReminderCreateRequest) error {
	return utils.ValidateStruct(req)
}
