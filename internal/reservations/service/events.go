package service

import (
	"context"
	"fmt"
	"roomres/pkg/kafka"
	"roomres/pkg/model"
	"time"
)

const (
	EventReservationCreated = "reservation.created"
	eventSchemaVersion      = "1"
	publishTimeout          = 5 * time.Second
)

// EventKey partitions events by slot so consumers see a slot's reservations in order.
func EventKey(roomID int, date string) string {
	return fmt.Sprintf("%d:%s", roomID, date)
}

// publishCreated runs after commit. A failure is logged and never undoes the reservation.
func (s *reservationService) publishCreated(ctx context.Context, res *model.Reservation) {
	if s.events == nil {
		return
	}

	msg, err := kafka.NewMessage().
		WithKey(EventKey(res.RoomID, res.Date)).
		WithValue(res).
		WithEventType(EventReservationCreated).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(s.cfg.ServiceName).
		Build()
	if err != nil {
		s.cfg.Log.Error("Failed to build reservation event", "reservation_id", res.ID, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(pubCtx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"reservation_id", res.ID,
			"event_type", EventReservationCreated,
			"error", err,
		)
	}
}
