package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	reserrors "roomres/internal/reservations/errors"
	"roomres/internal/reservations/repository"
	"roomres/internal/reservations/validator"
	roomserrors "roomres/internal/rooms/errors"
	roomsrepo "roomres/internal/rooms/repository"
	"roomres/pkg/config"
	"roomres/pkg/db"
	apperrors "roomres/pkg/errors"
	"roomres/pkg/kafka"
	"roomres/pkg/model"
	"roomres/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

const MessageMissingField = "Missing required reservation information"

type ReservationService interface {
	CheckAvailability(ctx context.Context, filter *model.AvailabilityFilter) ([]model.RoomAvailability, error)
	Reserve(ctx context.Context, req *model.ReservationRequest) (*model.ReservationConfirmation, error)
	GetReservation(ctx context.Context, id int64) (*model.Reservation, error)
	ListReservations(ctx context.Context, roomID int, date string) ([]*model.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	rooms     roomsrepo.RoomRepository
	validator *validator.ReservationValidator
	events    kafka.Publisher
	cfg       *config.Config
}

// NewReservationService wires the ledger to the room catalog. events may be
// nil, in which case no reservation events are published.
func NewReservationService(
	repo repository.ReservationRepository,
	rooms roomsrepo.RoomRepository,
	validator *validator.ReservationValidator,
	events kafka.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		rooms:     rooms,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *reservationService) CheckAvailability(ctx context.Context, filter *model.AvailabilityFilter) ([]model.RoomAvailability, error) {
	if filter == nil {
		filter = &model.AvailabilityFilter{}
	}
	f := sanitizeFilter(filter)
	if err := s.validator.ValidateFilter(&f); err != nil {
		return nil, s.validationError(err)
	}

	var (
		rooms []*model.Room
		busy  = make(map[int]struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rooms, err = s.rooms.FindMatching(gctx, f.MinCapacity(), f.Features)
		return err
	})
	// Without a window the ledger is not consulted at all.
	if f.HasWindow() {
		g.Go(func() error {
			overlapping, err := s.repo.FindOverlapping(gctx, f.Date, f.StartTime, f.EndTime)
			if err != nil {
				return err
			}
			for _, res := range overlapping {
				busy[res.RoomID] = struct{}{}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to check availability",
			"date", f.Date,
			"start_time", f.StartTime,
			"end_time", f.EndTime,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	available := make([]model.RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		if _, taken := busy[room.ID]; taken {
			continue
		}
		if !room.HasFeatures(f.Features) {
			continue
		}
		available = append(available, room.Availability())
	}
	return available, nil
}

func (s *reservationService) Reserve(ctx context.Context, req *model.ReservationRequest) (*model.ReservationConfirmation, error) {
	var r model.ReservationRequest
	if req != nil {
		r = sanitizeRequest(req)
	}

	if err := s.validator.ValidateRequest(&r); err != nil {
		return nil, s.validationError(err)
	}
	if err := s.validator.ValidateInterval(r.StartTime, r.EndTime); err != nil {
		return nil, s.validationError(err)
	}

	room, err := s.rooms.FindByID(ctx, r.RoomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, roomNotFound(r.RoomID)
		}
		s.cfg.Log.Error("Failed to load room for reservation", "room_id", r.RoomID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	reservation := &model.Reservation{
		RoomID:    r.RoomID,
		GuestName: r.GuestName,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}

	err = s.repo.ExecuteInSlot(ctx, reservation.Slot(), func(txCtx context.Context) error {
		existing, err := s.repo.FindByRoomAndDate(txCtx, r.RoomID, r.Date)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.Overlaps(r.StartTime, r.EndTime) {
				return fmt.Errorf("%w: reservation %d holds %s-%s", reserrors.ErrSlotConflict, other.ID, other.StartTime, other.EndTime)
			}
		}
		return s.repo.Create(txCtx, reservation)
	})
	if err != nil {
		return nil, s.reserveError(reservation, err)
	}

	s.cfg.Log.Info("Reservation created",
		"reservation_id", reservation.ID,
		"room_id", reservation.RoomID,
		"date", reservation.Date,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
	)
	s.publishCreated(ctx, reservation)

	return &model.ReservationConfirmation{
		ReservationID: reservation.ID,
		Details: model.ReservationDetails{
			RoomID:    room.ID,
			Capacity:  room.Capacity,
			Features:  room.Availability().Features,
			GuestName: reservation.GuestName,
			Date:      reservation.Date,
			StartTime: reservation.StartTime,
			EndTime:   reservation.EndTime,
		},
	}, nil
}

func (s *reservationService) reserveError(reservation *model.Reservation, err error) error {
	switch {
	case errors.Is(err, reserrors.ErrSlotConflict):
		return roomUnavailable(reservation.RoomID)
	case errors.Is(err, db.ErrRetriesExhausted):
		s.cfg.Log.Warn("Reservation slot stayed contended",
			"room_id", reservation.RoomID,
			"date", reservation.Date,
			"error", err,
		)
		return apperrors.Unavailable("Reservation store", err).WithReason(reserrors.ReasonStoreContention)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Timeout("Reservation request timed out")
	default:
		s.cfg.Log.Error("Failed to create reservation",
			"room_id", reservation.RoomID,
			"date", reservation.Date,
			"error", err,
		)
		return apperrors.Internal("Failed to create reservation", err)
	}
}

func (s *reservationService) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Reservation ID must be a positive integer")
	}

	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to retrieve reservation", "reservation_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return res, nil
}

func (s *reservationService) ListReservations(ctx context.Context, roomID int, date string) ([]*model.Reservation, error) {
	date = sanitizer.SanitizeDate(date)
	if err := s.validator.ValidateDate(date); err != nil {
		return nil, s.validationError(err)
	}

	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, roomNotFound(roomID)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	reservations, err := s.repo.FindByRoomAndDate(ctx, roomID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "room_id", roomID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Internal("Failed to validate request", err)
	}

	reason := verrs.Reason()
	message := verrs.Error()
	if reason == reserrors.ReasonMissingField {
		message = MessageMissingField
	}

	s.cfg.Log.Debug("Reservation request rejected", "reason", reason, "fields", verrs.Fields())
	return apperrors.Validation(message, map[string]any{"fields": verrs.Fields()}).WithReason(reason)
}

func roomNotFound(roomID int) *apperrors.AppError {
	return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("Room %d does not exist", roomID), http.StatusNotFound).
		WithDetails(map[string]any{"room_id": roomID}).
		WithReason(reserrors.ReasonRoomNotFound)
}

func roomUnavailable(roomID int) *apperrors.AppError {
	return apperrors.Conflict(fmt.Sprintf("Room %d is not available during the requested time", roomID)).
		WithDetails(map[string]any{"room_id": roomID}).
		WithReason(reserrors.ReasonRoomUnavailable)
}

func sanitizeRequest(req *model.ReservationRequest) model.ReservationRequest {
	return model.ReservationRequest{
		RoomID:    req.RoomID,
		GuestName: sanitizer.SanitizeGuestName(req.GuestName),
		Date:      sanitizer.SanitizeDate(req.Date),
		StartTime: sanitizer.SanitizeClock(req.StartTime),
		EndTime:   sanitizer.SanitizeClock(req.EndTime),
	}
}

func sanitizeFilter(filter *model.AvailabilityFilter) model.AvailabilityFilter {
	return model.AvailabilityFilter{
		Date:      sanitizer.SanitizeDate(filter.Date),
		StartTime: sanitizer.SanitizeClock(filter.StartTime),
		EndTime:   sanitizer.SanitizeClock(filter.EndTime),
		Capacity:  filter.Capacity,
		Features:  sanitizer.SanitizeFeatures(filter.Features),
	}
}
