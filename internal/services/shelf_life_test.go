package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShelfLifeDays(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Once opened, use within 3 days", 3},
		{"use within 2 weeks of opening", 14},
		{"Consume within 1 month", 30},
		{"3-day freshness", 3},
		{"keeps 100 days", 60},
		{"30 weeks", 180},
		{"best within 24 months", 365},
		{"3 days or 2 weeks", 3},
		{"2 WEEKS", 14},
		{"0 days, then 2 weeks", 14},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseShelfLifeDays(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseShelfLifeDays_NoHint(t *testing.T) {
	for _, text := range []string{"", "Store in a cool dry place", "daily fresh", "1000 days"} {
		_, err := ParseShelfLifeDays(text)
		assert.ErrorIs(t, err, ErrNotFound, text)
	}
}
