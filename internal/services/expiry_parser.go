package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/foxxcyber/pantry-scan/internal/models"
)

// ISODate is the layout used for every date crossing the API
const ISODate = "2006-01-02"

const monthPattern = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

var monthIndex = map[string]int{
	"jan": 0, "feb": 1, "mar": 2, "apr": 3, "may": 4, "jun": 5,
	"jul": 6, "aug": 7, "sep": 8, "oct": 9, "nov": 10, "dec": 11,
}

// dateRule pairs a token pattern with the extractor that reads its groups.
// ok is false when the groups cannot form a date at all.
type dateRule struct {
	name    string
	pattern *regexp.Regexp
	extract func(groups []string) (day, month, year int, ok bool)
}

// ExpiryDateParser finds the most plausible expiry date in free text
type ExpiryDateParser struct {
	rules []dateRule
	now   func() time.Time
}

// NewExpiryDateParser creates a parser using the wall clock
func NewExpiryDateParser() *ExpiryDateParser {
	return &ExpiryDateParser{
		rules: defaultDateRules(),
		now:   time.Now,
	}
}

// WithClock returns a copy of the parser that scores against now()
func (p *ExpiryDateParser) WithClock(now func() time.Time) *ExpiryDateParser {
	return &ExpiryDateParser{rules: p.rules, now: now}
}

func defaultDateRules() []dateRule {
	return []dateRule{
		{
			// 2025-12-15, 2025/12/15, 2025.12.15
			name:    "iso",
			pattern: regexp.MustCompile(`\b(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})\b`),
			extract: func(g []string) (int, int, int, bool) {
				return atoi(g[3]), atoi(g[2]) - 1, atoi(g[1]), true
			},
		},
		{
			// 15/12/2025, 15-12-25
			name:    "slash-dash",
			pattern: regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{4}|\d{2})\b`),
			extract: numericTriple,
		},
		{
			// 15.12.2025
			name:    "dotted",
			pattern: regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4}|\d{2})\b`),
			extract: numericTriple,
		},
		{
			// 15 dec 25, 15-dec-2025, 15th december 2025
			name:    "day-month-year",
			pattern: regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?[\s./\-]*` + monthPattern + `[\s./\-,]*(\d{4}|\d{2})\b`),
			extract: func(g []string) (int, int, int, bool) {
				return atoi(g[1]), monthIndex[g[2][:3]], expandYear(g[3]), true
			},
		},
		{
			// dec 15 2025, december 15th, 25
			name:    "month-day-year",
			pattern: regexp.MustCompile(`\b` + monthPattern + `[\s./\-]*(\d{1,2})(?:st|nd|rd|th)?[\s,./\-]+(\d{4}|\d{2})\b`),
			extract: func(g []string) (int, int, int, bool) {
				return atoi(g[2]), monthIndex[g[1][:3]], expandYear(g[3]), true
			},
		},
		{
			// dec 2025: best before end of month
			name:    "month-year",
			pattern: regexp.MustCompile(`\b` + monthPattern + `[\s./\-]*(\d{4})\b`),
			extract: func(g []string) (int, int, int, bool) {
				month := monthIndex[g[1][:3]]
				year := atoi(g[2])
				lastDay := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
				return lastDay, month, year, true
			},
		},
		{
			// 15122025
			name:    "compact-8",
			pattern: regexp.MustCompile(`\b(\d{2})(\d{2})(\d{4})\b`),
			extract: func(g []string) (int, int, int, bool) {
				return atoi(g[1]), atoi(g[2]) - 1, atoi(g[3]), true
			},
		},
		{
			// 151225
			name:    "compact-6",
			pattern: regexp.MustCompile(`\b(\d{2})(\d{2})(\d{2})\b`),
			extract: func(g []string) (int, int, int, bool) {
				return atoi(g[1]), atoi(g[2]) - 1, expandYear(g[3]), true
			},
		},
	}
}

// numericTriple reads a/b/c where the order of day and month is unknown.
// A number above 12 must be the day; with no such hint the token is read
// day first.
func numericTriple(g []string) (int, int, int, bool) {
	a, b := atoi(g[1]), atoi(g[2])
	year := expandYear(g[3])

	switch {
	case a > 12:
		return a, b - 1, year, true
	case b > 12:
		return b, a - 1, year, true
	default:
		return a, b - 1, year, true
	}
}

// expandYear applies the 50 pivot to two digit years
func expandYear(s string) int {
	year := atoi(s)
	if year >= 1000 {
		return year
	}
	if year >= 50 {
		return 1900 + year
	}
	return 2000 + year
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// Candidates returns every legal, scored date reading found in text, in
// rule order. A span claimed by an earlier rule is not re-read by a later one.
func (p *ExpiryDateParser) Candidates(text string) (candidates []models.DateCandidate, matched bool) {
	text = normalizeOCRText(text)
	if text == "" {
		return nil, false
	}

	today := truncateToDay(p.now())
	var claimed [][2]int

	for _, rule := range p.rules {
		for _, loc := range rule.pattern.FindAllStringSubmatchIndex(text, -1) {
			if overlapsAny(claimed, loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, [2]int{loc[0], loc[1]})
			matched = true

			groups := submatches(text, loc)
			day, month, year, ok := rule.extract(groups)
			if !ok {
				continue
			}

			candidate := models.DateCandidate{Day: day, Month: month, Year: year}
			if !isLegalCandidate(candidate) {
				continue
			}
			candidate.Score = scoreCandidate(candidate.Time(), today)
			candidates = append(candidates, candidate)
		}
	}

	return candidates, matched
}

// Parse returns the best expiry date in text as a UTC midnight time.
// ErrNotFound means no date-like token was present; ErrMalformed means
// tokens were present but none was a real calendar date.
func (p *ExpiryDateParser) Parse(text string) (time.Time, error) {
	candidates, matched := p.Candidates(text)
	if len(candidates) == 0 {
		if matched {
			return time.Time{}, ErrMalformed
		}
		return time.Time{}, ErrNotFound
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best.Time(), nil
}

// ParseISO is Parse formatted as yyyy-mm-dd
func (p *ExpiryDateParser) ParseISO(text string) (string, error) {
	date, err := p.Parse(text)
	if err != nil {
		return "", err
	}
	return date.Format(ISODate), nil
}

// ParseISODate reads a yyyy-mm-dd date as UTC midnight
func ParseISODate(value string) (time.Time, error) {
	return time.Parse(ISODate, strings.TrimSpace(value))
}

var defaultExpiryParser = NewExpiryDateParser()

// ParseExpiryDate extracts the most plausible expiry date from OCR text as
// an ISO date string using the wall clock.
func ParseExpiryDate(text string) (string, error) {
	return defaultExpiryParser.ParseISO(text)
}

func isLegalCandidate(c models.DateCandidate) bool {
	if c.Day < 1 || c.Day > 31 || c.Month < 0 || c.Month > 11 || c.Year < 1900 || c.Year > 2100 {
		return false
	}
	// Reject 31/02 and friends, which time.Date would roll over
	t := c.Time()
	return t.Day() == c.Day && int(t.Month()) == c.Month+1 && t.Year() == c.Year
}

// scoreCandidate prefers dates close to today, then future dates, then
// anything inside five years
func scoreCandidate(date, today time.Time) float64 {
	days := DaysBetween(today, date)
	score := 1000 - math.Abs(float64(days))
	if days > 0 {
		score += 500
	}
	if int(math.Abs(float64(days))) <= 5*365 {
		score += 200
	}
	return score
}

// DaysBetween counts calendar days from a to b, ignoring time of day
func DaysBetween(a, b time.Time) int {
	return int(truncateToDay(b).Sub(truncateToDay(a)).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func overlapsAny(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

func submatches(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

// normalizeOCRText folds compatibility characters (full-width digits,
// ligatures), lowercases and collapses whitespace
func normalizeOCRText(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	return strings.Join(strings.Fields(text), " ")
}
