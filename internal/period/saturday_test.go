package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-report-cache/internal/models"
)

func TestNthSaturday(t *testing.T) {
	june := DayRange(at(2024, 6, 1, 0, 0, 0), at(2024, 6, 30, 0, 0, 0), time.UTC)

	tests := []struct {
		name    string
		r       models.ResolvedRange
		n       int
		want    time.Time
		wantErr error
	}{
		{"range starts on a saturday", june, 1, at(2024, 6, 1, 0, 0, 0), nil},
		{"second", june, 2, at(2024, 6, 8, 0, 0, 0), nil},
		{"third", june, 3, at(2024, 6, 15, 0, 0, 0), nil},
		{"fifth", june, 5, at(2024, 6, 29, 0, 0, 0), nil},
		{"sixth", june, 6, time.Time{}, ErrInsufficientRange},
		{"mid-week start", DayRange(at(2024, 2, 7, 0, 0, 0), at(2024, 2, 29, 0, 0, 0), time.UTC), 1, at(2024, 2, 10, 0, 0, 0), nil},
		{"saturday on the last day", DayRange(at(2024, 2, 12, 0, 0, 0), at(2024, 2, 17, 0, 0, 0), time.UTC), 1, at(2024, 2, 17, 0, 0, 0), nil},
		{"no saturday", DayRange(at(2024, 2, 12, 0, 0, 0), at(2024, 2, 16, 0, 0, 0), time.UTC), 1, time.Time{}, ErrInsufficientRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NthSaturday(tt.r, tt.n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Saturday, got.Weekday())
		})
	}
}

func TestNthSaturday_InvalidIndex(t *testing.T) {
	_, err := NthSaturday(FullYear(2024, time.UTC), 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientRange)
}

func TestWeekendMarkers(t *testing.T) {
	markers := WeekendMarkers(FullYear(2024, time.UTC))
	assert.False(t, markers.InsufficientRange)
	require.NotNil(t, markers.SecondSaturday)
	require.NotNil(t, markers.ThirdSaturday)
	assert.Equal(t, at(2024, 1, 13, 0, 0, 0), *markers.SecondSaturday)
	assert.Equal(t, at(2024, 1, 20, 0, 0, 0), *markers.ThirdSaturday)
}

func TestWeekendMarkers_ShortRange(t *testing.T) {
	// Feb 10 to Feb 20 2024 holds two saturdays
	markers := WeekendMarkers(DayRange(at(2024, 2, 10, 0, 0, 0), at(2024, 2, 20, 0, 0, 0), time.UTC))
	assert.True(t, markers.InsufficientRange)
	require.NotNil(t, markers.SecondSaturday)
	assert.Equal(t, at(2024, 2, 17, 0, 0, 0), *markers.SecondSaturday)
	assert.Nil(t, markers.ThirdSaturday)

	markers = WeekendMarkers(DayRange(at(2024, 2, 12, 0, 0, 0), at(2024, 2, 14, 0, 0, 0), time.UTC))
	assert.True(t, markers.InsufficientRange)
	assert.Nil(t, markers.SecondSaturday)
	assert.Nil(t, markers.ThirdSaturday)
}
