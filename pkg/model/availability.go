package model

type AvailabilityFilter struct {
	Date      string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime string   `json:"start_time,omitempty" validate:"omitempty,clock"`
	EndTime   string   `json:"end_time,omitempty" validate:"omitempty,clock"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Features  []string `json:"features,omitempty"`
}

const DefaultMinCapacity = 1

// HasWindow reports whether all three window fields are set.
func (f *AvailabilityFilter) HasWindow() bool {
	return f.Date != "" && f.StartTime != "" && f.EndTime != ""
}

// PartialWindow reports whether some, but not all, window fields are set.
func (f *AvailabilityFilter) PartialWindow() bool {
	set := 0
	for _, v := range []string{f.Date, f.StartTime, f.EndTime} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 3
}

func (f *AvailabilityFilter) MinCapacity() int {
	if f.Capacity == nil {
		return DefaultMinCapacity
	}
	return *f.Capacity
}
