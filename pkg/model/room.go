package model

type Room struct {
	ID       int      `json:"id" bson:"_id"`
	Capacity int      `json:"capacity" bson:"capacity"`
	Features []string `json:"features" bson:"features"`
}

// RoomAvailability is one row of an availability answer.
type RoomAvailability struct {
	ID       int      `json:"id"`
	Capacity int      `json:"capacity"`
	Features []string `json:"features"`
}

// HasFeatures reports whether every required feature is offered by the room.
// An empty requirement matches every room.
func (r *Room) HasFeatures(required []string) bool {
	if len(required) == 0 {
		return true
	}
	offered := make(map[string]struct{}, len(r.Features))
	for _, f := range r.Features {
		offered[f] = struct{}{}
	}
	for _, f := range required {
		if _, ok := offered[f]; !ok {
			return false
		}
	}
	return true
}

func (r *Room) Availability() RoomAvailability {
	features := make([]string, len(r.Features))
	copy(features, r.Features)
	return RoomAvailability{
		ID:       r.ID,
		Capacity: r.Capacity,
		Features: features,
	}
}
