package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// Dimension selects the value records are sub-grouped by within a year.
type Dimension string

const (
	DimensionArchive  Dimension = "archive"
	DimensionType     Dimension = "type"
	DimensionCategory Dimension = "category"
)

// OtherSeries names the series of records with an empty dimension value.
const OtherSeries = "Diğer"

// AllSeries selects every series in ByYear.
const AllSeries = "all"

// ParseDimension resolves a dimension name.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(strings.ToLower(strings.TrimSpace(s))); d {
	case DimensionArchive, DimensionType, DimensionCategory:
		return d, nil
	case "":
		return DimensionArchive, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

func dimensionValue(r *hub.Record, dim Dimension, c *classify.Classifier) string {
	var v string
	switch dim {
	case DimensionArchive:
		v = clean(r.ArchiveLocation)
	case DimensionType:
		v = clean(r.ItemType)
	case DimensionCategory:
		return c.Classify(r).Label()
	}
	if v == "" {
		return OtherSeries
	}
	return v
}

// ByYear groups records by publication year, then by dim.
//
// Labels are the distinct years in ascending string order; records without
// a year are skipped. Years are strings, so "2" sorts before "10".
// With selected empty or AllSeries there is one series per distinct
// dimension value, in first-seen order over all records. Otherwise there
// is a single series for the selected value. Missing counts are 0.
func ByYear(records []*hub.Record, dim Dimension, selected string, c *classify.Classifier) (Groups, error) {
	switch dim {
	case DimensionArchive, DimensionType, DimensionCategory:
	default:
		return Groups{}, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	if c == nil {
		c = classify.Default()
	}

	perYear := make(map[string]map[string]int)
	series := newCounter()

	for _, r := range records {
		if r == nil {
			continue
		}
		value := dimensionValue(r, dim, c)
		series.add(value)

		year := clean(r.PublicationYear)
		if year == "" {
			continue
		}
		if perYear[year] == nil {
			perYear[year] = make(map[string]int)
		}
		perYear[year][value]++
	}

	years := make([]string, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Strings(years)

	names := series.order
	if selected != "" && selected != AllSeries {
		names = []string{selected}
	}

	g := Groups{Labels: years, Series: make([]Series, 0, len(names))}
	if len(years) == 0 {
		return g, nil
	}
	for _, name := range names {
		counts := make([]int, len(years))
		for i, y := range years {
			counts[i] = perYear[y][name]
		}
		g.Series = append(g.Series, Series{Name: name, Counts: counts})
	}
	return g, nil
}

// YearCounts counts records per publication year, ascending string order.
func YearCounts(records []*hub.Record) Groups {
	c := newCounter()
	for _, r := range records {
		if r == nil {
			continue
		}
		if y := clean(r.PublicationYear); y != "" {
			c.add(y)
		}
	}
	sort.Strings(c.order)
	return c.groups("Yayın Sayısı")
}
