package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvedRange_Days(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		name string
		r    ResolvedRange
		want int
	}{
		{
			name: "single day",
			r:    ResolvedRange{Start: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 2, 10, 23, 59, 59, 0, time.UTC)},
			want: 1,
		},
		{
			name: "leap february",
			r:    ResolvedRange{Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)},
			want: 29,
		},
		{
			// clocks go back on 2024-10-27, the day lasts 25 hours
			name: "autumn dst change",
			r:    ResolvedRange{Start: time.Date(2024, 10, 19, 0, 0, 0, 0, paris), End: time.Date(2024, 11, 3, 23, 59, 59, 0, paris)},
			want: 16,
		},
		{
			// clocks go forward on 2024-03-31
			name: "spring dst change",
			r:    ResolvedRange{Start: time.Date(2024, 3, 30, 0, 0, 0, 0, paris), End: time.Date(2024, 4, 1, 23, 59, 59, 0, paris)},
			want: 3,
		},
		{
			name: "inverted",
			r:    ResolvedRange{Start: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Days())
		})
	}
}
