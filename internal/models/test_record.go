package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TestResult string

const (
	TestResultPass TestResult = "PASS"
	TestResultFail TestResult = "FAIL"
)

// TestRecord is immutable once created; the only supported mutation is
// deletion, which triggers a recomputation of the owning vehicle.
type TestRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID   primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	TestDate    time.Time          `json:"test_date" bson:"test_date" validate:"required"`
	TestResult  TestResult         `json:"test_result" bson:"test_result" validate:"required,oneof=PASS FAIL"`
	NextDueDate time.Time          `json:"next_due_date" bson:"next_due_date"`
	TesterName  string             `json:"tester_name" bson:"tester_name" validate:"required"`
	Notes       string             `json:"notes" bson:"notes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
