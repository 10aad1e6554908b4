package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReminderType string

const (
	ReminderTypeEmail ReminderType = "EMAIL"
	ReminderTypeSMS   ReminderType = "SMS"
)

type Reminder struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID    primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	ReminderDate time.Time          `json:"reminder_date" bson:"reminder_date" validate:"required"`
	ReminderType ReminderType       `json:"reminder_type" bson:"reminder_type" default:"EMAIL"`
	Sent         bool               `json:"sent" bson:"sent" default:"false"`
	SentAt       *time.Time         `json:"sent_at" bson:"sent_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
