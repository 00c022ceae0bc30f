package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	weightPattern   = regexp.MustCompile(`([\d.,]+)\s*([a-zA-Z]+)`)
	quantityPattern = regexp.MustCompile(`\d+`)
)

// ParseWeight splits a scraped weight like "1,200 Grams" into 1200 and "Grams".
// ok is false when no number could be read; unit is nil when no unit follows the number.
func ParseWeight(s string) (value float64, unit *string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil, false
	}

	m := weightPattern.FindStringSubmatch(s)
	if m == nil {
		// A bare number such as "2.5" is still a usable weight
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return 0, nil, false
		}
		return v, nil, true
	}

	u := m[2]
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, &u, false
	}
	return v, &u, true
}

// ParseQuantity returns the first integer in s, e.g. "12 Count" -> 12
func ParseQuantity(s string) (int, bool) {
	m := quantityPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
