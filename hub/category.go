package hub

import "strings"

// Category is the canonical publication-type bucket a record is classified into.
type Category int

const (
	CategoryUnclassified Category = iota
	CategoryBook
	CategoryThesis
	CategoryArticle
	CategoryConferencePaper
	CategoryEncyclopediaArticle
	CategoryBookChapter
)

// TargetCategories are the classified buckets, in chart order.
var TargetCategories = []Category{
	CategoryBook,
	CategoryThesis,
	CategoryArticle,
	CategoryConferencePaper,
	CategoryEncyclopediaArticle,
	CategoryBookChapter,
}

// AllCategories is TargetCategories followed by CategoryUnclassified.
var AllCategories = append(append([]Category{}, TargetCategories...), CategoryUnclassified)

// String returns the category identifier.
func (c Category) String() string {
	switch c {
	case CategoryBook:
		return "Book"
	case CategoryThesis:
		return "Thesis"
	case CategoryArticle:
		return "Article"
	case CategoryConferencePaper:
		return "ConferencePaper"
	case CategoryEncyclopediaArticle:
		return "EncyclopediaArticle"
	case CategoryBookChapter:
		return "BookChapter"
	}
	return "Unclassified"
}

// Label returns the Turkish display label used on the dashboard.
func (c Category) Label() string {
	switch c {
	case CategoryBook:
		return "Kitap"
	case CategoryThesis:
		return "Tez"
	case CategoryArticle:
		return "Makale"
	case CategoryConferencePaper:
		return "Bildiri"
	case CategoryEncyclopediaArticle:
		return "Ansiklopedi Maddesi"
	case CategoryBookChapter:
		return "Kitap Bölümü"
	}
	return "Tanımlanamayan"
}

// ItemType returns the Zotero item type token for the category, or "" for Unclassified.
func (c Category) ItemType() string {
	switch c {
	case CategoryBook:
		return "book"
	case CategoryThesis:
		return "thesis"
	case CategoryArticle:
		return "journalArticle"
	case CategoryConferencePaper:
		return "conferencePaper"
	case CategoryEncyclopediaArticle:
		return "encyclopediaArticle"
	case CategoryBookChapter:
		return "bookSection"
	}
	return ""
}

// IsTarget reports whether c is one of TargetCategories.
func (c Category) IsTarget() bool {
	return c >= CategoryBook && c <= CategoryBookChapter
}

// ParseCategory resolves an identifier or Turkish label to a Category.
// Matching is case-insensitive on the identifier.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories {
		if strings.EqualFold(s, c.String()) || s == c.Label() {
			return c, true
		}
	}
	return CategoryUnclassified, false
}

var itemTypeLabels = map[string]string{
	"journalArticle":      "Makale",
	"book":                "Kitap",
	"bookSection":         "Kitap Bölümü",
	"thesis":              "Tez",
	"conferencePaper":     "Bildiri",
	"webpage":             "Web Sayfası",
	"document":            "Belge",
	"encyclopediaArticle": "Ansiklopedi Maddesi",
}

// ItemTypeLabel translates a Zotero item type for display.
// Unknown values are returned unchanged.
func ItemTypeLabel(itemType string) string {
	if label, ok := itemTypeLabels[itemType]; ok {
		return label
	}
	return itemType
}
