package aggregate

import (
	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// PublisherChartLimit is the number of publishers kept by ByPublisher.
const PublisherChartLimit = 12

// ByCategory counts records by archive location, falling back to item type.
// Records with neither are skipped. Labels keep first-seen order.
func ByCategory(records []*hub.Record) Groups {
	c := newCounter()
	for _, r := range records {
		if r == nil {
			continue
		}
		key := clean(r.ArchiveLocation)
		if key == "" {
			key = clean(r.ItemType)
		}
		if key == "" {
			continue
		}
		c.add(key)
	}
	return c.groups("Yayın Türleri")
}

// ByClassifiedCategory counts records per classifier category, in
// hub.AllCategories order, Unclassified last. Categories with no records
// are kept with a zero count.
func ByClassifiedCategory(records []*hub.Record, cl *classify.Classifier) Groups {
	if cl == nil {
		cl = classify.Default()
	}
	_, tally := cl.ClassifyAll(records)

	g := Groups{Series: []Series{{Name: "Kategori"}}}
	for _, cat := range hub.AllCategories {
		g.Labels = append(g.Labels, cat.Label())
		g.Series[0].Counts = append(g.Series[0].Counts, tally[cat])
	}
	return g
}

// ByLanguage counts records per language, first-seen order.
func ByLanguage(records []*hub.Record) Groups {
	c := newCounter()
	for _, r := range records {
		if r == nil {
			continue
		}
		if lang := clean(r.Language); lang != "" {
			c.add(lang)
		}
	}
	return c.groups("Dil")
}

// ByPublisher counts records per publisher and keeps the n most frequent,
// ties in first-seen order. n <= 0 keeps all publishers.
func ByPublisher(records []*hub.Record, n int) Groups {
	c := newCounter()
	for _, r := range records {
		if r == nil {
			continue
		}
		if p := clean(r.Publisher); p != "" {
			c.add(p)
		}
	}
	return c.top("Yayın Sayısı", n)
}

// ArchiveValues returns the distinct archive locations, first-seen order.
func ArchiveValues(records []*hub.Record) []string {
	c := newCounter()
	for _, r := range records {
		if r == nil {
			continue
		}
		if a := clean(r.ArchiveLocation); a != "" {
			c.add(a)
		}
	}
	return c.order
}
