package models

import (
	"time"

	"smoketrack/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TestingSchedule string
type UserStatus string

const (
	TestingScheduleSemiAnnual TestingSchedule = "SEMI_ANNUAL"
	TestingScheduleQuarterly  TestingSchedule = "QUARTERLY"

	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email               string             `json:"email" bson:"email" validate:"required,email"`
	Password            string             `json:"-" bson:"password"`
	CompanyName         string             `json:"company_name" bson:"company_name" validate:"required"`
	Phone               string             `json:"phone" bson:"phone"`
	TestingSchedule     TestingSchedule    `json:"testing_schedule" bson:"testing_schedule" default:"SEMI_ANNUAL"`
	DefaultReminderDays []int              `json:"default_reminder_days" bson:"default_reminder_days"`
	Status              UserStatus         `json:"status" bson:"status" default:"active"`
	LastLoginAt         *time.Time         `json:"last_login_at" bson:"last_login_at"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// ReminderDays returns the user's configured reminder offsets, falling back
// to the application default when none are set.
func (u *User) ReminderDays() []int {
	if len(u.DefaultReminderDays) == 0 {
		return utils.DefaultReminderDays
	}
	return u.DefaultReminderDays
}

// Schedule returns the user's testing schedule, defaulting to semi-annual.
func (u *User) Schedule() TestingSchedule {
	if u.TestingSchedule == "" {
		return TestingScheduleSemiAnnual
	}
	return u.TestingSchedule
}
