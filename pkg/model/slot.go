package model

import (
	"fmt"
	"time"
)

// Slot identifies the ledger of one room on one date. Writers are serialised per slot.
type Slot struct {
	RoomID int
	Date   string
}

func (s Slot) Key() string {
	return fmt.Sprintf("slot_%d_%s", s.RoomID, s.Date)
}

// SlotGuard is the document touched inside every reserve transaction so that
// concurrent writers on the same slot collide.
type SlotGuard struct {
	ID        string    `bson:"_id" json:"id"`
	RoomID    int       `bson:"room_id" json:"room_id"`
	Date      string    `bson:"date" json:"date"`
	Version   int64     `bson:"version" json:"version"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2) intersect.
// Times are canonical HH:MM strings, so lexical order is chronological order.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}
