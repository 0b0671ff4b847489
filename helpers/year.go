package helpers

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// YearPrecision tells how much of a publication year value was understood.
type YearPrecision int

const (
	YearUnknown YearPrecision = iota
	YearExact
	YearDecade
	YearCentury
)

var (
	// Year only: 1978, with an optional EDTF qualifier
	yearOnlyRegex = regexp.MustCompile(`^(\d{4})([~?%])?$`)

	// Year-month or full date: 1978-03, 1978-03-15
	yearDateRegex = regexp.MustCompile(`^(\d{4})-(\d{2})(?:-(\d{2}))?([~?%])?$`)

	// Decade: 197X or 1970s
	decadeRegex = regexp.MustCompile(`^(\d{3})[Xx]$|^(\d{4})s$`)

	// Century: 19XX
	centuryRegex = regexp.MustCompile(`^(\d{2})[Xx]{2}$`)

	// Interval/range: 1978/1980
	intervalRegex = regexp.MustCompile(`^(.+)/(.+)$`)
)

// ParseYear extracts the starting year of a publication year value.
// Values it cannot read return YearUnknown.
func ParseYear(input string) (int, YearPrecision) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, YearUnknown
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.Year(), YearExact
	}

	if matches := intervalRegex.FindStringSubmatch(input); matches != nil {
		return ParseYear(matches[1])
	}

	if matches := yearOnlyRegex.FindStringSubmatch(input); matches != nil {
		year, _ := strconv.Atoi(matches[1])
		return year, YearExact
	}

	if matches := yearDateRegex.FindStringSubmatch(input); matches != nil {
		year, _ := strconv.Atoi(matches[1])
		return year, YearExact
	}

	if matches := decadeRegex.FindStringSubmatch(input); matches != nil {
		decadeStr := matches[1]
		if decadeStr == "" {
			decadeStr = matches[2][:3]
		}
		decade, _ := strconv.Atoi(decadeStr)
		return decade * 10, YearDecade
	}

	if matches := centuryRegex.FindStringSubmatch(input); matches != nil {
		century, _ := strconv.Atoi(matches[1])
		return century * 100, YearCentury
	}

	// Plain integer year
	if year, err := strconv.Atoi(input); err == nil && year > 0 && year < 3000 {
		return year, YearExact
	}

	return 0, YearUnknown
}

// IsYear reports whether s is an exact year the dashboard can place on a
// timeline.
func IsYear(s string) bool {
	_, p := ParseYear(s)
	return p == YearExact
}
