package validators

import (
	"smoketrack/internal/utils"
)

type CompanyUpdateRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=100"`
	Phone       string `json:"phone" validate:"omitempty,min=7,max=20"`
}

type ScheduleUpdateRequest struct {
	TestingSchedule string `json:"testing_schedule" validate:"required,testing_schedule"`
}

type ReminderDaysUpdateRequest struct {
	DefaultReminderDays []int `json:"default_reminder_days" validate:"required,min=1,max=10,dive,min=1,max=365"`
}

func ValidateCompanyUpdate(req *CompanyUpdateRequest) error {
	return utils.ValidateStruct(req)
}

func ValidateScheduleUpdate(req *ScheduleUpdateRequest) error {
	return utils.ValidateStruct(req)
}

func ValidateReminderDaysUpdate(req *ReminderDaysUpdateRequest) error {
	return utils.ValidateStruct(req)
}
