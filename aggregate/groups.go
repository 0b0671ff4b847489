// Package aggregate groups records by derived keys and counts members per group.
//
// Every function recomputes from the records it is given; nothing is cached
// between calls. Absent or malformed fields exclude a record from that one
// group and never fail the pass.
package aggregate

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownDimension is returned for a series dimension that does not exist.
var ErrUnknownDimension = errors.New("unknown dimension")

// Series is one named sequence of counts, parallel to Groups.Labels.
type Series struct {
	Name   string `json:"name" yaml:"name"`
	Counts []int  `json:"counts" yaml:"counts"`
}

// Groups is an ordered label sequence with one or more parallel count series.
type Groups struct {
	Labels []string `json:"labels" yaml:"labels"`
	Series []Series `json:"series" yaml:"series"`

	// Totals, when set, holds the per-label total across all series.
	Totals []int `json:"totals,omitempty" yaml:"totals,omitempty"`
}

// Len returns the number of labels.
func (g Groups) Len() int {
	return len(g.Labels)
}

// Counts returns the counts of the first series, or nil.
func (g Groups) Counts() []int {
	if len(g.Series) == 0 {
		return nil
	}
	return g.Series[0].Counts
}

// TotalColumn is the header of the totals column in tabular output.
const TotalColumn = "Toplam"

// Table returns one row per label: the label, each series count and, when
// present, the total.
func (g Groups) Table() ([]string, [][]string) {
	header := make([]string, 0, len(g.Series)+2)
	header = append(header, "label")
	for _, s := range g.Series {
		header = append(header, s.Name)
	}
	if g.Totals != nil {
		header = append(header, TotalColumn)
	}

	rows := make([][]string, 0, len(g.Labels))
	for i, label := range g.Labels {
		row := make([]string, 0, len(header))
		row = append(row, label)
		for _, s := range g.Series {
			n := 0
			if i < len(s.Counts) {
				n = s.Counts[i]
			}
			row = append(row, strconv.Itoa(n))
		}
		if g.Totals != nil && i < len(g.Totals) {
			row = append(row, strconv.Itoa(g.Totals[i]))
		}
		rows = append(rows, row)
	}
	return header, rows
}

// counter counts string keys and remembers first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// groups returns the counts in first-seen order as a single series.
func (c *counter) groups(name string) Groups {
	g := Groups{
		Labels: make([]string, 0, len(c.order)),
		Series: []Series{{Name: name, Counts: make([]int, 0, len(c.order))}},
	}
	for _, k := range c.order {
		g.Labels = append(g.Labels, k)
		g.Series[0].Counts = append(g.Series[0].Counts, c.counts[k])
	}
	return g
}

// top returns the n largest counts, descending, ties in first-seen order.
// n <= 0 keeps everything.
func (c *counter) top(name string, n int) Groups {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	ranked := &counter{order: keys, counts: c.counts}
	return ranked.groups(name)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
