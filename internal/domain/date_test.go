package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, loc)},
		{"2024-03-10T15:00:00Z", time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)},
		{"2024-03-10T15:00:00.250+02:00", time.Date(2024, 3, 10, 13, 0, 0, 250_000_000, time.UTC)},
		{"2024-03-10T08:30", time.Date(2024, 3, 10, 8, 30, 0, 0, loc)},
		{" 2024-03-10 ", time.Date(2024, 3, 10, 0, 0, 0, 0, loc)},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in, loc)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %v, got %v", tc.want, got)
		})
	}
}

func TestParseDate_Rejects(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "10/03/2024", "2024-13-01"} {
		_, err := ParseDate(in, time.UTC)
		assert.ErrorIs(t, err, ErrBadDate, in)
	}
}
