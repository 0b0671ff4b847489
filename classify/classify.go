// Package classify assigns every record to exactly one publication category.
package classify

import (
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/rules"
)

// Token maps a lower-case type token to a category.
type Token struct {
	Token    string
	Category hub.Category
}

// DefaultTokens is the built-in lookup table. Order matters: substring
// matching against the archive location takes the first entry that matches.
var DefaultTokens = []Token{
	{"book", hub.CategoryBook},
	{"thesis", hub.CategoryThesis},
	{"journal article", hub.CategoryArticle},
	{"conference paper", hub.CategoryConferencePaper},
	{"encyclopedia article", hub.CategoryEncyclopediaArticle},
	{"book chapter", hub.CategoryBookChapter},
	{"booksection", hub.CategoryBookChapter},
	{"journalarticle", hub.CategoryArticle},
	{"conferencepaper", hub.CategoryConferencePaper},
	{"encyclopediaarticle", hub.CategoryEncyclopediaArticle},
	{"makale", hub.CategoryArticle},
	{"bildiri", hub.CategoryConferencePaper},
	{"tez", hub.CategoryThesis},
	{"kitap", hub.CategoryBook},
	{"kitap bölümü", hub.CategoryBookChapter},
	{"ansiklopedi maddesi", hub.CategoryEncyclopediaArticle},
}

// fields carries the lower-cased inputs every rule looks at.
type fields struct {
	itemType string
	archive  string
}

type rule struct {
	name     string
	category hub.Category
	match    func(f fields) bool
}

// heuristics run in order after the lookup table misses.
var heuristics = []rule{
	{"book section", hub.CategoryBookChapter, func(f fields) bool {
		return strings.Contains(f.itemType, "booksection") || strings.Contains(f.archive, "kitap bölümü")
	}},
	{"thesis", hub.CategoryThesis, func(f fields) bool {
		return strings.Contains(f.itemType, "thesis") || strings.Contains(f.archive, "tez")
	}},
	{"book", hub.CategoryBook, func(f fields) bool {
		return strings.Contains(f.itemType, "book") &&
			!strings.Contains(f.itemType, "section") &&
			!strings.Contains(f.archive, "bölüm")
	}},
	{"article", hub.CategoryArticle, func(f fields) bool {
		return strings.Contains(f.itemType, "article") &&
			!strings.Contains(f.itemType, "encyclopedia") &&
			!strings.Contains(f.archive, "ansiklopedi")
	}},
	{"conference paper", hub.CategoryConferencePaper, func(f fields) bool {
		return strings.Contains(f.itemType, "paper") ||
			strings.Contains(f.itemType, "conference") ||
			strings.Contains(f.archive, "bildiri")
	}},
	{"encyclopedia article", hub.CategoryEncyclopediaArticle, func(f fields) bool {
		return (strings.Contains(f.itemType, "encyclopedia") || strings.Contains(f.archive, "ansiklopedi")) &&
			(strings.Contains(f.itemType, "article") || strings.Contains(f.archive, "madde"))
	}},
	{"section", hub.CategoryBookChapter, func(f fields) bool {
		return strings.Contains(f.itemType, "section") || strings.Contains(f.archive, "bölüm")
	}},
}

// Classifier classifies records. It is safe for concurrent use once built.
type Classifier struct {
	tokens []Token
	lookup map[string]hub.Category
	rules  []rules.Rule
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTokens appends tokens after the built-in table. Tokens already
// present keep their original position and category.
func WithTokens(tokens ...Token) Option {
	return func(c *Classifier) {
		for _, t := range tokens {
			t.Token = strings.ToLower(strings.TrimSpace(t.Token))
			if t.Token == "" {
				continue
			}
			if _, ok := c.lookup[t.Token]; ok {
				continue
			}
			c.tokens = append(c.tokens, t)
			c.lookup[t.Token] = t.Category
		}
	}
}

// WithRules adds conditional rules that run when the lookup table and the
// heuristics all miss. Rules naming an unknown or non-target category are
// dropped.
func WithRules(rs *rules.RuleSet) Option {
	return func(c *Classifier) {
		if rs == nil {
			return
		}
		for _, r := range rs.Sorted() {
			cat, ok := hub.ParseCategory(r.Then.Category)
			if !ok || !cat.IsTarget() {
				slog.Debug("dropping classification rule", "rule", r.Name, "category", r.Then.Category)
				continue
			}
			c.rules = append(c.rules, r)
		}
	}
}

// New builds a Classifier from DefaultTokens plus any options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		tokens: make([]Token, 0, len(DefaultTokens)),
		lookup: make(map[string]hub.Category, len(DefaultTokens)),
	}
	WithTokens(DefaultTokens...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens returns the lookup table in match order.
func (c *Classifier) Tokens() []Token {
	return append([]Token(nil), c.tokens...)
}

// Classify returns the category of r. It never fails; records that match
// no rule are CategoryUnclassified.
func (c *Classifier) Classify(r *hub.Record) hub.Category {
	cat, _ := c.Explain(r)
	return cat
}

// Explain returns the category of r and the name of the rule that decided it.
func (c *Classifier) Explain(r *hub.Record) (hub.Category, string) {
	if r == nil {
		return hub.CategoryUnclassified, "no record"
	}
	cat, reason := c.classify(fields{
		itemType: strings.ToLower(strings.TrimSpace(r.ItemType)),
		archive:  strings.ToLower(strings.TrimSpace(r.ArchiveLocation)),
	})
	if cat != hub.CategoryUnclassified || len(c.rules) == 0 {
		return cat, reason
	}

	// Already sorted and filtered to target categories by WithRules.
	rs := &rules.RuleSet{Rules: c.rules}
	if res := rs.Evaluate(r.FieldValues()); res.Matched {
		cat, _ := hub.ParseCategory(res.Category)
		return cat, "rule " + res.RuleName
	}
	return cat, reason
}

func (c *Classifier) classify(f fields) (hub.Category, string) {
	if cat, ok := c.lookup[f.itemType]; ok && f.itemType != "" {
		return cat, "item type " + f.itemType
	}

	if f.archive != "" {
		if cat, ok := c.lookup[f.archive]; ok {
			return cat, "archive location " + f.archive
		}
		for _, t := range c.tokens {
			if strings.Contains(f.archive, t.Token) {
				return t.Category, "archive location contains " + t.Token
			}
		}
	}

	for _, h := range heuristics {
		if h.match(f) {
			return h.category, "heuristic " + h.name
		}
	}

	return hub.CategoryUnclassified, "no match"
}

// Tally counts records per category, Unclassified included.
type Tally map[hub.Category]int

// Total returns the number of records counted.
func (t Tally) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

// LogValue renders the tally with Turkish labels in chart order.
func (t Tally) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(hub.AllCategories))
	for _, cat := range hub.AllCategories {
		attrs = append(attrs, slog.Int(cat.Label(), t[cat]))
	}
	return slog.GroupValue(attrs...)
}

// ClassifyAll classifies records in order and returns the diagnostic tally.
func (c *Classifier) ClassifyAll(records []*hub.Record) ([]hub.Category, Tally) {
	cats := make([]hub.Category, len(records))
	tally := make(Tally, len(hub.AllCategories))
	for _, cat := range hub.AllCategories {
		tally[cat] = 0
	}
	for i, r := range records {
		cats[i] = c.Classify(r)
		tally[cats[i]]++
	}
	slog.Debug("classified records", "count", len(records), "categories", tally)
	return cats, tally
}

var defaultClassifier = New()

// Default returns the classifier built from DefaultTokens.
func Default() *Classifier {
	return defaultClassifier
}

// Classify classifies r with the default classifier.
func Classify(r *hub.Record) hub.Category {
	return defaultClassifier.Classify(r)
}
