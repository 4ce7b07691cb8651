package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid date",
			input: "2024-02-10",
			want:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding spaces",
			input: " 2024-02-29 ",
			want:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "invalid day",
			input:   "2023-02-29",
			wantErr: true,
		},
		{
			name:    "wrong layout",
			input:   "10/02/2024",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2024-05-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-05-01", FormatDate(*got))

	_, err = ParseOptionalDate("not-a-date")
	assert.Error(t, err)
}

func TestParseOptionalInt(t *testing.T) {
	got, err := ParseOptionalInt("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalInt("2022")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2022, *got)

	_, err = ParseOptionalInt("20x2")
	assert.Error(t, err)
}

func TestParseIntDefault(t *testing.T) {
	v, err := ParseIntDefault("", 10)
	assert.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = ParseIntDefault("25", 10)
	assert.NoError(t, err)
	assert.Equal(t, 25, v)

	_, err = ParseIntDefault("ten", 10)
	assert.Error(t, err)
}
