package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 15, 4, 5, 0, time.UTC) }
}

func TestExpiryDateParser_Parse(t *testing.T) {
	parser := NewExpiryDateParser().WithClock(fixedClock(2025, time.June, 1))

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "day first slash", text: "BEST BY 15/12/2025", want: "2025-12-15"},
		{name: "two digit year", text: "use by 15/12/25", want: "2025-12-15"},
		{name: "month first when day is over 12", text: "EXP 12/25/2025", want: "2025-12-25"},
		{name: "ambiguous reads day first", text: "05/06/2025", want: "2025-06-05"},
		{name: "dashes", text: "15-12-2025", want: "2025-12-15"},
		{name: "dotted", text: "MHD 15.12.2025", want: "2025-12-15"},
		{name: "iso", text: "EXP 2025-12-15", want: "2025-12-15"},
		{name: "day month name year", text: "BB 15 DEC 2025", want: "2025-12-15"},
		{name: "ordinal and full month", text: "best before 3rd March 2026", want: "2026-03-03"},
		{name: "month name day year", text: "Dec 15, 2025", want: "2025-12-15"},
		{name: "month and year only", text: "BEST BEFORE END DEC 2025", want: "2025-12-31"},
		{name: "february month-year", text: "feb 2028", want: "2028-02-29"},
		{name: "compact eight digits", text: "LOT A1 15122025", want: "2025-12-15"},
		{name: "compact six digits", text: "151225", want: "2025-12-15"},
		{name: "full width digits", text: "１５/１２/２０２５", want: "2025-12-15"},
		{name: "future beats past", text: "01/06/24 01/06/26", want: "2026-06-01"},
		{name: "nearest future wins", text: "PACKED 20/05/2025 USE BY 10/06/2025", want: "2025-06-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseISO(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpiryDateParser_Errors(t *testing.T) {
	parser := NewExpiryDateParser().WithClock(fixedClock(2025, time.June, 1))

	_, err := parser.Parse("no digits at all")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = parser.Parse("")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = parser.Parse("USE BY 31/02/2025")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = parser.Parse("99/99/2025")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExpiryDateParser_SpanClaiming(t *testing.T) {
	parser := NewExpiryDateParser().WithClock(fixedClock(2026, time.January, 10))

	// the day-month-year reading claims the text, so no end-of-month
	// candidate competes with it
	candidates, matched := parser.Candidates("15 dec 2025")
	require.True(t, matched)
	require.Len(t, candidates, 1)
	assert.Equal(t, 15, candidates[0].Day)
	assert.Equal(t, 11, candidates[0].Month)
	assert.Equal(t, 2025, candidates[0].Year)
}

func TestExpiryDateParser_TiesKeepFirst(t *testing.T) {
	parser := NewExpiryDateParser().WithClock(fixedClock(2025, time.June, 1))

	// 10 days ago and 510 days ahead both score 1190
	got, err := parser.ParseISO("22/05/2025 24/10/2026")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-22", got)

	got, err = parser.ParseISO("24/10/2026 22/05/2025")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-24", got)
}

func TestParseExpiryDate(t *testing.T) {
	got, err := ParseExpiryDate("BEST BEFORE 15/12/2099")
	require.NoError(t, err)
	assert.Equal(t, "2099-12-15", got)

	_, err = ParseExpiryDate("no date here")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScoreCandidate(t *testing.T) {
	today := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1200.0, scoreCandidate(today, today))
	assert.Equal(t, 1000.0-10+500+200, scoreCandidate(today.AddDate(0, 0, 10), today))
	assert.Equal(t, 1000.0-10+200, scoreCandidate(today.AddDate(0, 0, -10), today))
	assert.Equal(t, 1000.0-3000+500, scoreCandidate(today.AddDate(0, 0, 3000), today))
}

func TestExpandYear(t *testing.T) {
	assert.Equal(t, 2025, expandYear("25"))
	assert.Equal(t, 2049, expandYear("49"))
	assert.Equal(t, 1950, expandYear("50"))
	assert.Equal(t, 1999, expandYear("99"))
	assert.Equal(t, 2031, expandYear("2031"))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, time.June, 8, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 7, DaysBetween(a, b))
	assert.Equal(t, -7, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate(" 2025-06-08 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseISODate("08/06/2025")
	assert.Error(t, err)
}
