package service

import (
	"time"

	apperrors "parkwise/internal/errors"
)

const (
	// RatePerInterval is the parking rate in RWF per billing interval.
	RatePerInterval = 500
	// IntervalMinutes is the billing interval length.
	IntervalMinutes = 30
)

// Estimate is a cost projection for a same-day parking window.
type Estimate struct {
	DurationMinutes int `json:"durationMinutes"`
	Cost            int `json:"cost"`
}

// EstimateCost computes the cost of parking between two times of day,
// rounding the duration up to the next whole interval. Either side missing
// yields a zero estimate so the caller can render a placeholder while the
// window is being filled in.
func EstimateCost(start, end string) (Estimate, error) {
	if start == "" || end == "" {
		return Estimate{}, nil
	}
	startMin, err := parseTimeOfDay(start)
	if err != nil {
		return Estimate{}, err
	}
	endMin, err := parseTimeOfDay(end)
	if err != nil {
		return Estimate{}, err
	}
	if endMin <= startMin {
		return Estimate{}, apperrors.New(apperrors.KindInvalidWindow, "end time must be after start time")
	}
	minutes := endMin - startMin
	blocks := (minutes + IntervalMinutes - 1) / IntervalMinutes
	return Estimate{
		DurationMinutes: minutes,
		Cost:            blocks * RatePerInterval,
	}, nil
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, apperrors.New(apperrors.KindInvalidWindow, "time must be in HH:MM format")
	}
	return t.Hour()*60 + t.Minute(), nil
}
