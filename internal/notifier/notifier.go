package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"motorpool/config"
	"motorpool/infras/kafka"
	"motorpool/infras/otel"
	resModel "motorpool/internal/domains/reservation/model"
	userModel "motorpool/internal/domains/user/model"
	userRepo "motorpool/internal/domains/user/repository"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/timezone"
)

const (
	EventReservationApproved = "reservation.approved"
	EventSegmentAssigned     = "segment.assigned"
	EventSegmentUpdated      = "segment.updated"
	EventDayRemoved          = "day.removed"
)

// Event is handed off to the external mail sender; this service resolves
// recipients and the final assignment but never composes or sends mail.
type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	VehicleLabel  string    `json:"vehicle_label"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	Recipients    []string  `json:"recipients"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Notifier interface {
	Notify(ctx context.Context, eventType string, reservation resModel.Reservation, vehicleLabel string, start, end time.Time)
}

type notifierImpl struct {
	userRepo userRepo.User
	producer kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(userRepo userRepo.User, producer kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		userRepo: userRepo,
		producer: producer,
		cfg:      cfg,
		otel:     otel,
	}
}

// Notify publishes an assignment event for the reservation owner and the
// active carpool companions. Failures are logged, never surfaced: a lost
// notification must not roll back an otherwise committed assignment.
func (n *notifierImpl) Notify(ctx context.Context, eventType string, reservation resModel.Reservation, vehicleLabel string, start, end time.Time) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Notify")
	defer scope.End()

	recipients, err := n.recipients(ctx, reservation)
	if err != nil {
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to resolve notification recipients")

		return
	}

	if len(recipients) == 0 {
		log.Warn().Str("reservation_id", reservation.ID).Msg("no notification recipients resolved")

		return
	}

	event := Event{
		Type:          eventType,
		ReservationID: reservation.ID,
		VehicleLabel:  vehicleLabel,
		StartAt:       start,
		EndAt:         end,
		Recipients:    recipients,
		OccurredAt:    timezone.Now(),
	}

	message := kafka.Message{
		Key:   reservation.ID,
		Value: event,
	}

	if err := n.producer.SendMessages(ctx, n.cfg.Kafka.Topics.ReservationNotifications, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to publish notification event")
	}
}

// recipients is the reservation owner plus every active linked companion,
// deduplicated by email.
func (n *notifierImpl) recipients(ctx context.Context, reservation resModel.Reservation) ([]string, error) {
	ids := []string{reservation.UserID}
	ids = append(ids, reservation.CarpoolUserIDs...)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    userModel.TableName,
			},
			gDto.Filter{
				Field:    userModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    userModel.TableName,
			},
		},
	}

	users, err := n.userRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	seen := map[string]bool{}
	recipients := []string{}

	for _, u := range users {
		if u.Email == constant.Empty || seen[u.Email] {
			continue
		}

		seen[u.Email] = true
		recipients = append(recipients, u.Email)
	}

	// Companion snapshots may carry emails for users deleted since booking.
	for _, member := range reservation.CarpoolDetails {
		if member.Email == constant.Empty || seen[member.Email] {
			continue
		}

		seen[member.Email] = true
		recipients = append(recipients, member.Email)
	}

	return recipients, nil
}
