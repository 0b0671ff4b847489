package aggregate

import (
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/helpers"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// Top-N limits of the contributor charts.
const (
	AuthorChartLimit      = 15
	ContributorChartLimit = 25
	ProductiveChartLimit  = 35
)

// Contribution is one person's tally. Names are normalized display forms;
// spelling variants of the same person stay separate.
type Contribution struct {
	Name       string               `json:"name" yaml:"name"`
	Total      int                  `json:"total" yaml:"total"`
	ByRole     map[hub.Role]int     `json:"-" yaml:"-"`
	ByCategory map[hub.Category]int `json:"-" yaml:"-"`
}

// ContributionTally maps contributors to their per-role and per-category counts.
type ContributionTally struct {
	entries []*Contribution
	index   map[string]*Contribution
}

// NewContributionTally creates an empty tally.
func NewContributionTally() *ContributionTally {
	return &ContributionTally{index: make(map[string]*Contribution)}
}

// Add counts one contribution for name. Empty names are ignored.
func (t *ContributionTally) Add(name string, role hub.Role, cat hub.Category) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	c, ok := t.index[name]
	if !ok {
		c = &Contribution{
			Name:       name,
			ByRole:     make(map[hub.Role]int),
			ByCategory: make(map[hub.Category]int),
		}
		t.index[name] = c
		t.entries = append(t.entries, c)
	}
	c.ByRole[role]++
	c.ByCategory[cat]++
	c.Total++
}

// AddRecord counts every listed contributor of r for the given roles.
func (t *ContributionTally) AddRecord(r *hub.Record, cat hub.Category, roles ...hub.Role) {
	for _, role := range roles {
		for _, name := range helpers.NormalizeNames(r.Contributors(role)) {
			t.Add(name, role, cat)
		}
	}
}

// Len returns the number of distinct contributors.
func (t *ContributionTally) Len() int {
	return len(t.entries)
}

// Get returns the tally of one contributor.
func (t *ContributionTally) Get(name string) (*Contribution, bool) {
	c, ok := t.index[name]
	return c, ok
}

// Top returns the n contributors with the highest totals, descending.
// Ties keep first-encountered order. n <= 0 returns everyone.
func (t *ContributionTally) Top(n int) []*Contribution {
	ranked := append([]*Contribution(nil), t.entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func isBook(r *hub.Record) bool {
	return strings.ToLower(clean(r.ItemType)) == "book"
}

// AuthorChart ranks the authors of book records, top AuthorChartLimit.
func AuthorChart(records []*hub.Record) Groups {
	t := NewContributionTally()
	for _, r := range records {
		if r == nil || !isBook(r) {
			continue
		}
		t.AddRecord(r, hub.CategoryBook, hub.RoleAuthor)
	}
	return roleGroups(t.Top(AuthorChartLimit), []hub.Role{hub.RoleAuthor})
}

// ContributorChart ranks authors, editors and translators of book records,
// each role counted independently, top ContributorChartLimit. There is one
// series per role.
func ContributorChart(records []*hub.Record) Groups {
	t := NewContributionTally()
	for _, r := range records {
		if r == nil || !isBook(r) {
			continue
		}
		t.AddRecord(r, hub.CategoryBook, hub.Roles...)
	}
	return roleGroups(t.Top(ContributorChartLimit), hub.Roles)
}

// ProductiveTally tallies every contributor of records in the target categories.
func ProductiveTally(records []*hub.Record, cl *classify.Classifier) *ContributionTally {
	if cl == nil {
		cl = classify.Default()
	}
	cats, _ := cl.ClassifyAll(records)

	t := NewContributionTally()
	for i, r := range records {
		if r == nil || !cats[i].IsTarget() {
			continue
		}
		t.AddRecord(r, cats[i], hub.Roles...)
	}
	return t
}

// ProductiveContributors ranks contributors of all target-category records,
// top ProductiveChartLimit, with one series per category.
func ProductiveContributors(records []*hub.Record, cl *classify.Classifier) Groups {
	top := ProductiveTally(records, cl).Top(ProductiveChartLimit)

	g := Groups{
		Labels: make([]string, 0, len(top)),
		Series: make([]Series, 0, len(hub.TargetCategories)),
		Totals: make([]int, 0, len(top)),
	}
	for _, c := range top {
		g.Labels = append(g.Labels, c.Name)
		g.Totals = append(g.Totals, c.Total)
	}
	for _, cat := range hub.TargetCategories {
		s := Series{Name: cat.Label(), Counts: make([]int, len(top))}
		for i, c := range top {
			s.Counts[i] = c.ByCategory[cat]
		}
		g.Series = append(g.Series, s)
	}
	return g
}

func roleGroups(top []*Contribution, roles []hub.Role) Groups {
	g := Groups{
		Labels: make([]string, 0, len(top)),
		Series: make([]Series, 0, len(roles)),
		Totals: make([]int, 0, len(top)),
	}
	for _, c := range top {
		g.Labels = append(g.Labels, c.Name)
		g.Totals = append(g.Totals, c.Total)
	}
	for _, role := range roles {
		s := Series{Name: role.Label(), Counts: make([]int, len(top))}
		for i, c := range top {
			s.Counts[i] = c.ByRole[role]
		}
		g.Series = append(g.Series, s)
	}
	return g
}
