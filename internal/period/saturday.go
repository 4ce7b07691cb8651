package period

import (
	"errors"
	"time"

	"go-report-cache/internal/models"
)

// ErrInsufficientRange is returned when a range holds fewer Saturdays than asked for
var ErrInsufficientRange = errors.New("range does not contain enough saturdays")

// NthSaturday returns the n-th Saturday (1-based) whose day lies inside r,
// at 00:00:00 in r's location
func NthSaturday(r models.ResolvedRange, n int) (time.Time, error) {
	if n < 1 {
		return time.Time{}, errors.New("saturday index must be positive")
	}

	loc := r.Start.Location()
	first := StartOfDay(r.Start, loc)
	offset := (int(time.Saturday) - int(first.Weekday()) + 7) % 7
	sat := first.AddDate(0, 0, offset+7*(n-1))

	if sat.After(r.End) {
		return time.Time{}, ErrInsufficientRange
	}
	return sat, nil
}

// WeekendMarkers returns the 2nd and 3rd Saturdays of r. When the range is
// too short the missing markers are nil and InsufficientRange is set.
func WeekendMarkers(r models.ResolvedRange) models.WeekendMarkers {
	var markers models.WeekendMarkers

	if second, err := NthSaturday(r, 2); err == nil {
		markers.SecondSaturday = &second
	} else {
		markers.InsufficientRange = true
	}

	if third, err := NthSaturday(r, 3); err == nil {
		markers.ThirdSaturday = &third
	} else {
		markers.InsufficientRange = true
	}

	return markers
}
