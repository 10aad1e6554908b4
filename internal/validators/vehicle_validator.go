package validators

import (
	"fmt"
	"time"

	"smoketrack/internal/utils"
)

type VehicleCreateRequest struct {
	UnitNumber   string     `json:"unit_number" validate:"required,min=1,max=30"`
	VIN          string     `json:"vin" validate:"required,vin_number"`
	LicensePlate string     `json:"license_plate" validate:"required,min=2,max=15"`
	Make         string     `json:"make" validate:"omitempty,max=50"`
	Model        string     `json:"model" validate:"omitempty,max=50"`
	EngineYear   int        `json:"engine_year" validate:"required"`
	FuelType     string     `json:"fuel_type" validate:"omitempty,fuel_type"`
	FleetTag     string     `json:"fleet_tag" validate:"omitempty,max=50"`
	Notes        string     `json:"notes" validate:"omitempty,max=1000"`
	NextDueDate  *time.Time `json:"next_due_date"`
}

type VehicleUpdateRequest struct {
	UnitNumber   string     `json:"unit_number" validate:"omitempty,min=1,max=30"`
	VIN          string     `json:"vin" validate:"omitempty,vin_number"`
	LicensePlate string     `json:"license_plate" validate:"omitempty,min=2,max=15"`
	Make         string     `json:"make" validate:"omitempty,max=50"`
	Model        string     `json:"model" validate:"omitempty,max=50"`
	EngineYear   int        `json:"engine_year" validate:"omitempty"`
	FuelType     string     `json:"fuel_type" validate:"omitempty,fuel_type"`
	FleetTag     string     `json:"fleet_tag" validate:"omitempty,max=50"`
	Notes        string     `json:"notes" validate:"omitempty,max=1000"`
	NextDueDate  *time.Time `json:"next_due_date"`
}

func ValidateVehicleCreate(req *VehicleCreateRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	if err := validateEngineYear(req.EngineYear); err != nil {
		return err
	}

	return nil
}

func ValidateVehicleUpdate(req *VehicleUpdateRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	if req.EngineYear != 0 {
		if err := validateEngineYear(req.EngineYear); err != nil {
			return err
		}
	}

	return nil
}

// validateEngineYear bounds the model year between the oldest supported
// engine and one year ahead of the calendar, since model-year registrations
// can run ahead.
func validateEngineYear(year int) error {
	if year < utils.MinEngineYear {
		return fmt.Errorf("engine_year cannot be earlier than %d", utils.MinEngineYear)
	}
	if year > time.Now().Year()+1 {
		return fmt.Errorf("engine_year cannot be later than %d", time.Now().Year()+1)
	}
	return nil
}
