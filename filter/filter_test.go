package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/bibstats/hub"
)

func fixture() []*hub.Record {
	doi := hub.NewRecord()
	doi.Title = "Dijital Arşivler"
	doi.ItemType = "journalArticle"
	doi.ArchiveLocation = "Makale"
	doi.PublicationYear = "2019"
	doi.Author = "Kaya, Deniz"
	hub.SetExtra(doi, "DOI", "10.1234/ABC-99")

	return []*hub.Record{
		{Title: "İslam Tarihi", ItemType: "book", ArchiveLocation: "Kitap", PublicationYear: "2020", Author: "Öztürk, İsmail", Language: "tr"},
		{Title: "Osmanlı Kâtipleri", ItemType: "thesis", ArchiveLocation: "Tez", PublicationYear: "2021", Author: "Işık, Ayla", Editor: "Demir, Ali"},
		{Title: "Kitap Bölümü Örneği", ItemType: "bookSection", PublicationYear: "2020", Author: "Demir, Ali", Translator: "Smith, John"},
		doi,
	}
}

func titles(records []*hub.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

func TestApply(t *testing.T) {
	book := hub.CategoryBook
	article := hub.CategoryArticle

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"zero criteria", Criteria{}, []string{"İslam Tarihi", "Osmanlı Kâtipleri", "Kitap Bölümü Örneği", "Dijital Arşivler"}},
		{"year", Criteria{Year: "2020"}, []string{"İslam Tarihi", "Kitap Bölümü Örneği"}},
		{"item type", Criteria{ItemType: "thesis"}, []string{"Osmanlı Kâtipleri"}},
		{"person as editor or author", Criteria{Person: "Demir, Ali"}, []string{"Osmanlı Kâtipleri", "Kitap Bölümü Örneği"}},
		{"person as translator", Criteria{Person: "Smith, John"}, []string{"Kitap Bölümü Örneği"}},
		{"query turkish capitals", Criteria{Query: "ISLAM"}, nil},
		{"query dotted capital", Criteria{Query: "İSLAM"}, []string{"İslam Tarihi"}},
		{"query circumflex", Criteria{Query: "katip"}, []string{"Osmanlı Kâtipleri"}},
		{"query display author", Criteria{Query: "ismail öztürk"}, []string{"İslam Tarihi"}},
		{"multi word terms in one field", Criteria{Query: "tarihi islam"}, []string{"İslam Tarihi"}},
		{"multi word across fields does not match", Criteria{Query: "islam 2020"}, nil},
		{"query editor field", Criteria{Query: "demir"}, []string{"Osmanlı Kâtipleri", "Kitap Bölümü Örneği"}},
		{"query archive label", Criteria{Query: "makale"}, []string{"Dijital Arşivler"}},
		{"query extra doi", Criteria{Query: "abc 99"}, []string{"Dijital Arşivler"}},
		{"category only", Criteria{Category: &book}, []string{"İslam Tarihi"}},
		{"category with query", Criteria{Category: &article, Query: "kaya"}, []string{"Dijital Arşivler"}},
		{"category skips year field", Criteria{Category: &book, Query: "2020"}, nil},
		{"combined", Criteria{Year: "2020", Query: "bölümü"}, []string{"Kitap Bölümü Örneği"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(Apply(fixture(), tt.criteria))
			if len(tt.want) == 0 && len(got) == 0 {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCriteriaIsZero(t *testing.T) {
	if !(Criteria{Query: "  "}).IsZero() {
		t.Error("blank query should be zero")
	}
	if (Criteria{Year: "2020"}).IsZero() {
		t.Error("year criteria should not be zero")
	}
	if (Criteria{}).Match(nil) {
		t.Error("nil record should not match")
	}
}

func TestPersons(t *testing.T) {
	got := Persons(fixture())
	want := []string{"Demir, Ali", "Işık, Ayla", "Kaya, Deniz", "Öztürk, İsmail", "Smith, John"}
	// Display forms: Ali Demir, Ayla Işık, Deniz Kaya, İsmail Öztürk, John Smith.
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Persons mismatch (-want +got):\n%s", diff)
	}
}

func TestPersonsIn(t *testing.T) {
	tests := []struct {
		roles []hub.Role
		want  []string
	}{
		{[]hub.Role{hub.RoleEditor}, []string{"Demir, Ali"}},
		{[]hub.Role{hub.RoleTranslator}, []string{"Smith, John"}},
		{[]hub.Role{hub.RoleEditor, hub.RoleTranslator}, []string{"Demir, Ali", "Smith, John"}},
		{nil, nil},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, PersonsIn(fixture(), tt.roles...)); diff != "" {
			t.Errorf("PersonsIn(%v) mismatch (-want +got):\n%s", tt.roles, diff)
		}
	}
}

func TestYears(t *testing.T) {
	records := append(fixture(), &hub.Record{PublicationYear: "n.d."}, &hub.Record{PublicationYear: "999"})
	want := []string{"2021", "2020", "2019", "999", "n.d."}
	if diff := cmp.Diff(want, Years(records)); diff != "" {
		t.Errorf("Years mismatch (-want +got):\n%s", diff)
	}
}

func TestItemTypes(t *testing.T) {
	want := []string{"book", "bookSection", "journalArticle", "thesis"}
	if diff := cmp.Diff(want, ItemTypes(fixture())); diff != "" {
		t.Errorf("ItemTypes mismatch (-want +got):\n%s", diff)
	}
}
