// Package filter narrows a record collection the way the dashboard table does:
// exact year and item type, a contributor substring, and a free-text search
// folded with Turkish casing rules.
package filter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/bibstats/helpers"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// SearchExtraFields are the extra columns searched alongside the visible ones.
var SearchExtraFields = []string{"DOI", "ISBN", "ISSN"}

// Criteria selects records. Zero-valued fields match everything.
type Criteria struct {
	Year     string
	ItemType string

	// Person matches a raw substring of the author, editor or translator field.
	Person string

	// Query is the free-text search.
	Query string

	// Category, when set, restricts search to records of that category's
	// Zotero item type and to the title, author and extra fields.
	Category *hub.Category
}

// IsZero reports whether c matches every record.
func (c Criteria) IsZero() bool {
	return c.Year == "" && c.ItemType == "" && c.Person == "" &&
		strings.TrimSpace(c.Query) == "" && c.Category == nil
}

// Apply returns the records matching c, in input order.
func Apply(records []*hub.Record, c Criteria) []*hub.Record {
	q := newQuery(c.Query)
	out := make([]*hub.Record, 0, len(records))
	for _, r := range records {
		if r != nil && c.match(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r satisfies c.
func (c Criteria) Match(r *hub.Record) bool {
	if r == nil {
		return false
	}
	return c.match(r, newQuery(c.Query))
}

func (c Criteria) match(r *hub.Record, q query) bool {
	if c.Year != "" && strings.TrimSpace(r.PublicationYear) != c.Year {
		return false
	}
	if c.ItemType != "" && r.ItemType != c.ItemType {
		return false
	}
	if c.Person != "" &&
		!strings.Contains(r.Author, c.Person) &&
		!strings.Contains(r.Editor, c.Person) &&
		!strings.Contains(r.Translator, c.Person) {
		return false
	}
	return c.search(r, q)
}

func extraValues(r *hub.Record) []string {
	out := []string{r.Editor, r.Translator}
	for _, k := range SearchExtraFields {
		out = append(out, hub.GetExtraString(r, k))
	}
	return out
}

func (c Criteria) search(r *hub.Record, q query) bool {
	if c.Category != nil {
		if r.ItemType != c.Category.ItemType() {
			return false
		}
		if q.empty() {
			return true
		}
		fields := append([]string{r.Title, helpers.FormatNames(r.Author)}, extraValues(r)...)
		return q.matchAny(fields)
	}

	if q.empty() {
		return true
	}
	fields := []string{
		r.Title,
		helpers.FormatNames(r.Author),
		r.PublicationYear,
		hub.ItemTypeLabel(r.ArchiveLocation),
		r.Language,
	}
	return q.matchAny(append(fields, extraValues(r)...))
}

// query is a normalized search string split into terms.
type query struct {
	terms []string
}

func newQuery(s string) query {
	norm := helpers.NormalizeSearchText(s)
	if norm == "" {
		return query{}
	}
	return query{terms: strings.Split(norm, " ")}
}

func (q query) empty() bool {
	return len(q.terms) == 0
}

// matchAny reports whether some single field contains every term.
func (q query) matchAny(fields []string) bool {
	for _, f := range fields {
		f = helpers.NormalizeSearchText(f)
		if f == "" {
			continue
		}
		all := true
		for _, term := range q.terms {
			if !strings.Contains(f, term) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// Persons returns every distinct raw contributor token across all three
// roles, ordered by display name under Turkish collation.
func Persons(records []*hub.Record) []string {
	return PersonsIn(records, hub.Roles...)
}

// PersonsIn is Persons restricted to the given roles.
func PersonsIn(records []*hub.Record, roles ...hub.Role) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if r == nil {
			continue
		}
		for _, role := range roles {
			for _, name := range helpers.SplitNames(r.Contributors(role)) {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}
	helpers.SortNames(out)
	return out
}

// Years returns the distinct publication years, newest first. Years that
// are not numbers sort after the numeric ones, in string order.
func Years(records []*hub.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if r == nil {
			continue
		}
		y := strings.TrimSpace(r.PublicationYear)
		if y == "" {
			continue
		}
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			out = append(out, y)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		switch {
		case errA == nil && errB == nil:
			return a > b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return out[i] < out[j]
	})
	return out
}

// ItemTypes returns the distinct raw item types in ascending order.
func ItemTypes(records []*hub.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if r == nil || r.ItemType == "" {
			continue
		}
		if _, ok := seen[r.ItemType]; !ok {
			seen[r.ItemType] = struct{}{}
			out = append(out, r.ItemType)
		}
	}
	sort.Strings(out)
	return out
}
