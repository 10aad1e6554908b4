package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/pkg/logger"
	"smoketrack/pkg/notify"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stdout"})
	if err != nil {
		panic(err)
	}
	return log
}

// fakeClock returns a fixed instant so due-date math is deterministic.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type memTxnManager struct{}

func (m *memTxnManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *memUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "company_name":
			user.CompanyName = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "testing_schedule":
			user.TestingSchedule = value.(models.TestingSchedule)
		case "default_reminder_days":
			user.DefaultReminderDays = value.([]int)
		case "last_login_at":
			t := value.(time.Time)
			user.LastLoginAt = &t
		}
	}
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[primitive.ObjectID]*models.Vehicle
	// updateCalls tracks which vehicles received persisted updates.
	updateCalls []primitive.ObjectID
}

func newMemVehicleRepo() *memVehicleRepo {
	return &memVehicleRepo{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (r *memVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	r.vehicles[vehicle.ID] = vehicle
	return nil
}

func (r *memVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (r *memVehicleRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	r.updateCalls = append(r.updateCalls, id)
	for key, value := range updates {
		switch key {
		case "status":
			vehicle.Status = value.(models.ComplianceStatus)
		case "needs_retest":
			vehicle.NeedsRetest = value.(bool)
		case "next_due_date":
			if value == nil {
				vehicle.NextDueDate = nil
			} else {
				t := value.(time.Time)
				vehicle.NextDueDate = &t
			}
		case "unit_number":
			vehicle.UnitNumber = value.(string)
		case "vin":
			vehicle.VIN = value.(string)
		case "license_plate":
			vehicle.LicensePlate = value.(string)
		case "make":
			vehicle.Make = value.(string)
		case "model":
			vehicle.Model = value.(string)
		case "engine_year":
			vehicle.EngineYear = value.(int)
		case "fuel_type":
			vehicle.FuelType = value.(models.FuelType)
		case "fleet_tag":
			vehicle.FleetTag = value.(string)
		case "notes":
			vehicle.Notes = value.(string)
		}
	}
	return nil
}

func (r *memVehicleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vehicles, id)
	return nil
}

func (r *memVehicleRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, filter *interfaces.VehicleFilter) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.UserID != userID {
			continue
		}
		if filter != nil && filter.Status != "" && vehicle.Status != filter.Status {
			continue
		}
		copied := *vehicle
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return out, nil
}

func (r *memVehicleRepo) GetAll(ctx context.Context) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vehicle
	for _, vehicle := range r.vehicles {
		copied := *vehicle
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return out, nil
}

func (r *memVehicleRepo) GetWithDueDateFrom(ctx context.Context, from time.Time) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.NextDueDate == nil || vehicle.NextDueDate.Before(from) {
			continue
		}
		copied := *vehicle
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return out, nil
}

type memTestRecordRepo struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*models.TestRecord
}

func newMemTestRecordRepo() *memTestRecordRepo {
	return &memTestRecordRepo{records: make(map[primitive.ObjectID]*models.TestRecord)}
}

func (r *memTestRecordRepo) Create(ctx context.Context, record *models.TestRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	r.records[record.ID] = record
	return nil
}

func (r *memTestRecordRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TestRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *memTestRecordRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memTestRecordRepo) DeleteByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, record := range r.records {
		if record.VehicleID == vehicleID {
			delete(r.records, id)
		}
	}
	return nil
}

func (r *memTestRecordRepo) byVehicle(vehicleID primitive.ObjectID) []*models.TestRecord {
	var out []*models.TestRecord
	for _, record := range r.records {
		if record.VehicleID == vehicleID {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestDate.After(out[j].TestDate) })
	return out
}

func (r *memTestRecordRepo) GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.TestRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byVehicle(vehicleID), nil
}

func (r *memTestRecordRepo) GetLatestByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) (*models.TestRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.byVehicle(vehicleID)
	if len(records) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return records[0], nil
}

func (r *memTestRecordRepo) GetLatestPassByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) (*models.TestRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.byVehicle(vehicleID) {
		if record.TestResult == models.TestResultPass {
			return record, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

type memReminderRepo struct {
	mu        sync.Mutex
	reminders map[primitive.ObjectID]*models.Reminder
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{reminders: make(map[primitive.ObjectID]*models.Reminder)}
}

func (r *memReminderRepo) Create(ctx context.Context, reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reminder.ID.IsZero() {
		reminder.ID = primitive.NewObjectID()
	}
	r.reminders[reminder.ID] = reminder
	return nil
}

func (r *memReminderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder, ok := r.reminders[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *reminder
	return &copied, nil
}

func (r *memReminderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.reminders, id)
	return nil
}

func (r *memReminderRepo) DeleteByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, reminder := range r.reminders {
		if reminder.VehicleID == vehicleID {
			delete(r.reminders, id)
		}
	}
	return nil
}

func (r *memReminderRepo) GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reminder
	for _, reminder := range r.reminders {
		if reminder.VehicleID == vehicleID {
			copied := *reminder
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderDate.Before(out[j].ReminderDate) })
	return out, nil
}

func (r *memReminderRepo) GetByVehicleIDs(ctx context.Context, vehicleIDs []primitive.ObjectID, filter *interfaces.ReminderFilter) ([]*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[primitive.ObjectID]bool, len(vehicleIDs))
	for _, id := range vehicleIDs {
		ids[id] = true
	}
	var out []*models.Reminder
	for _, reminder := range r.reminders {
		if !ids[reminder.VehicleID] {
			continue
		}
		if filter != nil {
			if filter.Sent != nil && reminder.Sent != *filter.Sent {
				continue
			}
			if filter.Upcoming && reminder.ReminderDate.Before(filter.Now) {
				continue
			}
		}
		copied := *reminder
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderDate.Before(out[j].ReminderDate) })
	return out, nil
}

func (r *memReminderRepo) ExistsInWindow(ctx context.Context, vehicleID primitive.ObjectID, candidate time.Time, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reminder := range r.reminders {
		if reminder.VehicleID != vehicleID {
			continue
		}
		if reminder.ReminderDate.After(candidate.Add(-window)) && reminder.ReminderDate.Before(candidate.Add(window)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReminderRepo) GetDueUnsent(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reminder
	for _, reminder := range r.reminders {
		if reminder.Sent || reminder.ReminderDate.After(now) {
			continue
		}
		copied := *reminder
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderDate.Before(out[j].ReminderDate) })
	return out, nil
}

func (r *memReminderRepo) MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder, ok := r.reminders[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	reminder.Sent = true
	reminder.SentAt = &sentAt
	return nil
}

// captureSink records notifications, optionally failing every delivery.
type captureSink struct {
	mu           sync.Mutex
	notified     []capturedNotification
	failDelivery error
}

type capturedNotification struct {
	Channel   notify.Channel
	Recipient string
	Summary   *notify.VehicleSummary
}

func (s *captureSink) Notify(ctx context.Context, channel notify.Channel, recipient string, summary *notify.VehicleSummary) error {
	if s.failDelivery != nil {
		return s.failDelivery
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = append(s.notified, capturedNotification{Channel: channel, Recipient: recipient, Summary: summary})
	return nil
}
