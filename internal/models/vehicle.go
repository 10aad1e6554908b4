package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ComplianceStatus string
type FuelType string

const (
	ComplianceStatusCompliant ComplianceStatus = "COMPLIANT"
	ComplianceStatusDueSoon   ComplianceStatus = "DUE_SOON"
	ComplianceStatusOverdue   ComplianceStatus = "OVERDUE"

	FuelTypeDiesel  FuelType = "DIESEL"
	FuelTypeAltFuel FuelType = "ALT_FUEL"
)

type Vehicle struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	UnitNumber   string             `json:"unit_number" bson:"unit_number" validate:"required"`
	VIN          string             `json:"vin" bson:"vin" validate:"required,len=17"`
	LicensePlate string             `json:"license_plate" bson:"license_plate" validate:"required"`
	Make         string             `json:"make" bson:"make"`
	Model        string             `json:"model" bson:"model"`
	EngineYear   int                `json:"engine_year" bson:"engine_year" validate:"required"`
	FuelType     FuelType           `json:"fuel_type" bson:"fuel_type" validate:"required"`
	FleetTag     string             `json:"fleet_tag" bson:"fleet_tag"`
	NextDueDate  *time.Time         `json:"next_due_date" bson:"next_due_date"`
	Status       ComplianceStatus   `json:"status" bson:"status" default:"COMPLIANT"`
	NeedsRetest  bool               `json:"needs_retest" bson:"needs_retest" default:"false"`
	Notes        string             `json:"notes" bson:"notes"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
