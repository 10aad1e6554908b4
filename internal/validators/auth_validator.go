package validators

import (
	"smoketrack/internal/utils"
)

type RegisterRequest struct {
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required,min=8,max=72"`
	CompanyName         string `json:"company_name" validate:"required,min=2,max=100"`
	Phone               string `json:"phone" validate:"omitempty,min=7,max=20"`
	TestingSchedule     string `json:"testing_schedule" validate:"omitempty,testing_schedule"`
	DefaultReminderDays []int  `json:"default_reminder_days" validate:"omitempty,max=10,dive,min=1,max=365"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func ValidateRegister(req *RegisterRequest) error {
	return utils.ValidateStruct(req)
}

func ValidateLogin(req *LoginRequest) error {
	return utils.ValidateStruct(req)
}
