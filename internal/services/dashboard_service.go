package services

import (
	"context"
	"fmt"
	"sort"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardStats summarizes a fleet's compliance state.
type DashboardStats struct {
	TotalVehicles     int                `json:"total_vehicles"`
	Compliant         int                `json:"compliant"`
	DueSoon           int                `json:"due_soon"`
	Overdue           int                `json:"overdue"`
	NeedsRetest       int                `json:"needs_retest"`
	UpcomingReminders int                `json:"upcoming_reminders"`
	DueSoonVehicles   []*models.Vehicle  `json:"due_soon_vehicles"`
	OverdueVehicles   []*models.Vehicle  `json:"overdue_vehicles"`
	ByFleetTag        []*FleetTagSummary `json:"by_fleet_tag"`
}

// FleetTagSummary breaks the counts down for one fleet tag. Vehicles with
// no tag are grouped under "untagged".
type FleetTagSummary struct {
	FleetTag  string `json:"fleet_tag"`
	Total     int    `json:"total"`
	Compliant int    `json:"compliant"`
	DueSoon   int    `json:"due_soon"`
	Overdue   int    `json:"overdue"`
}

type DashboardService interface {
	GetStats(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error)
}

type dashboardService struct {
	vehicleRepo  interfaces.VehicleRepository
	reminderRepo interfaces.ReminderRepository
	calculator   *StatusCalculator
	clock        Clock
}

func NewDashboardService(
	vehicleRepo interfaces.VehicleRepository,
	reminderRepo interfaces.ReminderRepository,
	calculator *StatusCalculator,
	clock Clock,
) DashboardService {
	return &dashboardService{
		vehicleRepo:  vehicleRepo,
		reminderRepo: reminderRepo,
		calculator:   calculator,
		clock:        clock,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error) {
	vehicles, err := s.vehicleRepo.GetByUserID(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles for dashboard: %w", err)
	}

	now := s.clock.Now()
	stats := &DashboardStats{TotalVehicles: len(vehicles)}
	tags := make(map[string]*FleetTagSummary)
	vehicleIDs := make([]primitive.ObjectID, 0, len(vehicles))

	for _, vehicle := range vehicles {
		vehicleIDs = append(vehicleIDs, vehicle.ID)

		// Counts reflect the current time, not the stored status.
		status := s.calculator.DeriveStatus(vehicle.NextDueDate, now)
		vehicle.Status = status

		tag := vehicle.FleetTag
		if tag == "" {
			tag = "untagged"
		}
		summary, ok := tags[tag]
		if !ok {
			summary = &FleetTagSummary{FleetTag: tag}
			tags[tag] = summary
		}
		summary.Total++

		switch status {
		case models.ComplianceStatusCompliant:
			stats.Compliant++
			summary.Compliant++
		case models.ComplianceStatusDueSoon:
			stats.DueSoon++
			summary.DueSoon++
			stats.DueSoonVehicles = append(stats.DueSoonVehicles, vehicle)
		case models.ComplianceStatusOverdue:
			stats.Overdue++
			summary.Overdue++
			stats.OverdueVehicles = append(stats.OverdueVehicles, vehicle)
		}

		if vehicle.NeedsRetest {
			stats.NeedsRetest++
		}
	}

	sort.Slice(stats.DueSoonVehicles, func(i, j int) bool {
		return beforeDue(stats.DueSoonVehicles[i], stats.DueSoonVehicles[j])
	})
	sort.Slice(stats.OverdueVehicles, func(i, j int) bool {
		return beforeDue(stats.OverdueVehicles[i], stats.OverdueVehicles[j])
	})

	for _, summary := range tags {
		stats.ByFleetTag = append(stats.ByFleetTag, summary)
	}
	sort.Slice(stats.ByFleetTag, func(i, j int) bool {
		return stats.ByFleetTag[i].FleetTag < stats.ByFleetTag[j].FleetTag
	})

	if len(vehicleIDs) > 0 {
		unsent := false
		horizon := now.AddDate(0, 0, utils.DueSoonWindowDays)
		reminders, err := s.reminderRepo.GetByVehicleIDs(ctx, vehicleIDs, &interfaces.ReminderFilter{
			Sent:     &unsent,
			Upcoming: true,
			Now:      now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list upcoming reminders: %w", err)
		}
		for _, reminder := range reminders {
			if !reminder.ReminderDate.After(horizon) {
				stats.UpcomingReminders++
			}
		}
	}

	return stats, nil
}

func beforeDue(a, b *models.Vehicle) bool {
	switch {
	case a.NextDueDate == nil:
		return false
	case b.NextDueDate == nil:
		return true
	default:
		return a.NextDueDate.Before(*b.NextDueDate)
	}
}
