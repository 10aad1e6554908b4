package notify

import (
	"context"
	"fmt"
	"time"

	"smoketrack/pkg/logger"
	"smoketrack/pkg/sms"
)

type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
)

// VehicleSummary is the slice of vehicle data included in a reminder
// notification.
type VehicleSummary struct {
	UnitNumber  string     `json:"unit_number"`
	VIN         string     `json:"vin"`
	NextDueDate *time.Time `json:"next_due_date"`
}

// Sink delivers a single due-reminder notification. A non-nil error means
// delivery did not complete and the reminder must not be marked sent.
type Sink interface {
	Notify(ctx context.Context, channel Channel, recipient string, summary *VehicleSummary) error
}

// LogSink writes notifications to the application log instead of delivering
// them. It is the default sink and the final fallback when no delivery
// provider is configured.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(ctx context.Context, channel Channel, recipient string, summary *VehicleSummary) error {
	fields := map[string]interface{}{
		"channel":     string(channel),
		"recipient":   recipient,
		"unit_number": summary.UnitNumber,
		"vin":         summary.VIN,
		"type":        "reminder_notification",
	}
	if summary.NextDueDate != nil {
		fields["next_due_date"] = summary.NextDueDate.Format(time.RFC3339)
	}

	s.log.WithFields(fields).Info("Reminder notification")
	return nil
}

// SMSSink delivers SMS-channel reminders through a configured SMS provider
// and falls back to the wrapped sink for every other channel.
type SMSSink struct {
	provider sms.SMSProvider
	fallback Sink
	from     string
}

func NewSMSSink(provider sms.SMSProvider, fallback Sink, from string) *SMSSink {
	return &SMSSink{
		provider: provider,
		fallback: fallback,
		from:     from,
	}
}

func (s *SMSSink) Notify(ctx context.Context, channel Channel, recipient string, summary *VehicleSummary) error {
	if channel != ChannelSMS {
		return s.fallback.Notify(ctx, channel, recipient, summary)
	}

	message := fmt.Sprintf("Emissions test reminder for unit %s (VIN %s)", summary.UnitNumber, summary.VIN)
	if summary.NextDueDate != nil {
		message = fmt.Sprintf("%s, due %s", message, summary.NextDueDate.Format("2006-01-02"))
	}

	_, err := s.provider.SendSMS(ctx, &sms.SMSRequest{
		To:      recipient,
		From:    s.from,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to send SMS reminder: %w", err)
	}

	return nil
}
