package model

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	StatusSuccess = "success"
	StatusError   = "error"
)

type Reservation struct {
	ID        int64     `json:"id" bson:"_id"`
	RoomID    int       `json:"room_id" bson:"room_id"`
	GuestName string    `json:"guest_name" bson:"guest_name"`
	Date      string    `json:"date" bson:"date"`
	StartTime string    `json:"start_time" bson:"start_time"`
	EndTime   string    `json:"end_time" bson:"end_time"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Overlaps reports whether the reservation conflicts with [start, end) on its date.
func (r *Reservation) Overlaps(start, end string) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}

func (r *Reservation) Slot() Slot {
	return Slot{RoomID: r.RoomID, Date: r.Date}
}

type ReservationRequest struct {
	RoomID    int    `json:"room_id" validate:"required"`
	GuestName string `json:"guest_name" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// ReservationConfirmation is returned by a committed reserve call.
type ReservationConfirmation struct {
	ReservationID int64              `json:"reservation_id"`
	Details       ReservationDetails `json:"details"`
}

type ReservationDetails struct {
	RoomID    int      `json:"room_id"`
	Capacity  int      `json:"capacity"`
	Features  []string `json:"features"`
	GuestName string   `json:"guest_name"`
	Date      string   `json:"date"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

func (d ReservationDetails) Message() string {
	return fmt.Sprintf("Room %d reserved successfully for %s on %s from %s to %s",
		d.RoomID, d.GuestName, d.Date, d.StartTime, d.EndTime)
}

// ReservationResult is the structured answer handed to external callers.
type ReservationResult struct {
	Status        string              `json:"status"`
	ReservationID int64               `json:"reservation_id,omitempty"`
	Message       string              `json:"message"`
	ErrorCode     string              `json:"error_code,omitempty"`
	Reason        string              `json:"reason,omitempty"`
	Details       *ReservationDetails `json:"details,omitempty"`
}

func (r *ReservationResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
