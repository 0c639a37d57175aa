package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrSlotConflict = errors.New("reservation overlaps an existing reservation")

	ErrInvalidReservation = errors.New("invalid reservation")
)

// Reasons carried in AppError details so callers can branch without parsing messages.
const (
	ReasonMissingField      = "missing_field"
	ReasonInvalidFormat     = "invalid_format"
	ReasonInvalidInterval   = "invalid_interval"
	ReasonInvalidCapacity   = "invalid_capacity"
	ReasonPartialTimeWindow = "partial_time_window"
	ReasonRoomNotFound      = "room_not_found"
	ReasonRoomUnavailable   = "room_unavailable"
	ReasonStoreContention   = "store_contention"
)
