package aggregate

import (
	"strconv"

	"github.com/lehigh-university-libraries/bibstats/helpers"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// Summary holds the headline statistics of a record collection.
type Summary struct {
	Publications int `json:"publications" yaml:"publications"`
	Languages    int `json:"languages" yaml:"languages"`
	Publishers   int `json:"publishers" yaml:"publishers"`

	// Contributors counts distinct authors and editors. Translators are
	// not part of this total.
	Contributors int `json:"contributors" yaml:"contributors"`

	// Counts by exact Zotero item type.
	Articles int `json:"articles" yaml:"articles"`
	Books    int `json:"books" yaml:"books"`
	Theses   int `json:"theses" yaml:"theses"`
}

// Summarize computes the summary statistics in one pass. Distinct values
// are trimmed and compared as-is, without name normalization.
func Summarize(records []*hub.Record) Summary {
	var s Summary
	languages := make(map[string]struct{})
	publishers := make(map[string]struct{})
	contributors := make(map[string]struct{})

	for _, r := range records {
		if r == nil {
			continue
		}
		s.Publications++

		if v := clean(r.Language); v != "" {
			languages[v] = struct{}{}
		}
		if v := clean(r.Publisher); v != "" {
			publishers[v] = struct{}{}
		}
		for _, name := range helpers.SplitNames(r.Author) {
			contributors[name] = struct{}{}
		}
		for _, name := range helpers.SplitNames(r.Editor) {
			contributors[name] = struct{}{}
		}

		switch r.ItemType {
		case hub.CategoryArticle.ItemType():
			s.Articles++
		case hub.CategoryBook.ItemType():
			s.Books++
		case hub.CategoryThesis.ItemType():
			s.Theses++
		}
	}

	s.Languages = len(languages)
	s.Publishers = len(publishers)
	s.Contributors = len(contributors)
	return s
}

// Table returns the summary as metric/value rows.
func (s Summary) Table() ([]string, [][]string) {
	metrics := []struct {
		name  string
		value int
	}{
		{"publications", s.Publications},
		{"languages", s.Languages},
		{"publishers", s.Publishers},
		{"contributors", s.Contributors},
		{"articles", s.Articles},
		{"books", s.Books},
		{"theses", s.Theses},
	}
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{m.name, strconv.Itoa(m.value)})
	}
	return []string{"metric", "value"}, rows
}
