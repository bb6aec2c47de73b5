package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "parkwise/internal/errors"
)

func TestEstimateCostRoundsUpToFullInterval(t *testing.T) {
	est, err := EstimateCost("09:00", "09:31")
	require.NoError(t, err)
	assert.Equal(t, 31, est.DurationMinutes)
	assert.Equal(t, 2*RatePerInterval, est.Cost)
}

func TestEstimateCostExactInterval(t *testing.T) {
	est, err := EstimateCost("08:00", "09:00")
	require.NoError(t, err)
	assert.Equal(t, 60, est.DurationMinutes)
	assert.Equal(t, 2*RatePerInterval, est.Cost)
}

func TestEstimateCostSingleMinute(t *testing.T) {
	est, err := EstimateCost("10:00", "10:01")
	require.NoError(t, err)
	assert.Equal(t, RatePerInterval, est.Cost)
}

func TestEstimateCostNoWindow(t *testing.T) {
	est, err := EstimateCost("", "")
	require.NoError(t, err)
	assert.Zero(t, est.DurationMinutes)
	assert.Zero(t, est.Cost)
}

func TestEstimateCostRejectsEmptyWindow(t *testing.T) {
	_, err := EstimateCost("09:00", "09:00")
	assert.Equal(t, apperrors.KindInvalidWindow, apperrors.KindOf(err))

	_, err = EstimateCost("10:00", "09:00")
	assert.Equal(t, apperrors.KindInvalidWindow, apperrors.KindOf(err))
}

func TestEstimateCostRejectsBadFormat(t *testing.T) {
	_, err := EstimateCost("9am", "10am")
	assert.Equal(t, apperrors.KindInvalidWindow, apperrors.KindOf(err))
}
