package services

import (
	"regexp"
	"strconv"
)

type shelfLifeUnit struct {
	pattern    *regexp.Regexp
	multiplier int
	maxDays    int
}

// Checked in order; the first unit with a match wins
var shelfLifeUnits = []shelfLifeUnit{
	{regexp.MustCompile(`(?i)\b(\d{1,3})\s*-?\s*days?\b`), 1, 60},
	{regexp.MustCompile(`(?i)\b(\d{1,3})\s*-?\s*weeks?\b`), 7, 180},
	{regexp.MustCompile(`(?i)\b(\d{1,3})\s*-?\s*months?\b`), 30, 365},
}

// ParseShelfLifeDays reads a shelf-life hint such as "use within 3 days of
// opening" from product metadata text. Days are preferred over weeks over
// months, and each unit is capped.
func ParseShelfLifeDays(productText string) (int, error) {
	for _, unit := range shelfLifeUnits {
		m := unit.pattern.FindStringSubmatch(productText)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return min(n*unit.multiplier, unit.maxDays), nil
	}
	return 0, ErrNotFound
}
