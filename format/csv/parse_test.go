package csv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/testing/protocmp"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

const zoteroExport = "\ufeffKey,Item Type,type,Publication Year,Author,Title,Publisher,Language,Archive Location,Editor,Translator,DOI\n" +
	"K1,book,,2020,\"Öztürk, İsmail; Kaya, Deniz\",İslam Tarihi,Ensar,tr,Kitap,,,\n" +
	"K2,,thesis,2021,\"Işık, Ayla\",Osmanlı Kâtipleri,,,Tez,\"Demir, Ali\",,\n" +
	"K3,,,2019,\"Nobody, X\",Dropped,,,,,,\n" +
	"K4,journalArticle,ignored,2019,\"Kaya, Deniz\",Dijital Arşivler,,en,Makale,,,10.1234/abc\n" +
	"K5,bookSection\n"

func parse(t *testing.T, input string, opts *format.ParseOptions) []*hub.Record {
	t.Helper()
	records, err := (&Format{}).Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return records
}

func TestParseZoteroExport(t *testing.T) {
	stats := &format.ParseStats{}
	records := parse(t, zoteroExport, &format.ParseOptions{SourceName: "lib.csv", Stats: stats})

	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	if diff := cmp.Diff(format.ParseStats{Rows: 5, Records: 4, Skipped: 1}, *stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	first := records[0]
	if first.Title != "İslam Tarihi" {
		t.Errorf("Title = %q, want %q", first.Title, "İslam Tarihi")
	}
	if first.Author != "Öztürk, İsmail; Kaya, Deniz" {
		t.Errorf("Author = %q", first.Author)
	}
	if first.ItemType != "book" || first.ArchiveLocation != "Kitap" || first.PublicationYear != "2020" {
		t.Errorf("record = %+v", first)
	}
	if first.Publisher != "Ensar" || first.Language != "tr" {
		t.Errorf("Publisher/Language = %q/%q", first.Publisher, first.Language)
	}
	if got := hub.GetExtraString(first, "Key"); got != "K1" {
		t.Errorf("BOM-prefixed Key column = %q, want K1", got)
	}

	tests := []struct {
		name     string
		record   *hub.Record
		itemType string
	}{
		{"type fallback", records[1], "thesis"},
		{"item type wins over fallback", records[2], "journalArticle"},
		{"short row", records[3], "bookSection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.record.ItemType != tt.itemType {
				t.Errorf("ItemType = %q, want %q", tt.record.ItemType, tt.itemType)
			}
		})
	}

	if got := records[1].Editor; got != "Demir, Ali" {
		t.Errorf("Editor = %q, want %q", got, "Demir, Ali")
	}
	if got := hub.GetExtraString(records[2], "DOI"); got != "10.1234/abc" {
		t.Errorf("DOI = %q", got)
	}
	if _, ok := hub.GetExtra(records[0], "DOI"); ok {
		t.Error("empty cells should not be stored as extras")
	}
}

func TestParseFallbackColumnFirst(t *testing.T) {
	input := "type,Item Type,Title\nignored,book,A\nthesis,,B\n"
	records := parse(t, input, nil)
	got := []string{records[0].ItemType, records[1].ItemType}
	if diff := cmp.Diff([]string{"book", "thesis"}, got); diff != "" {
		t.Errorf("ItemType mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	if records := parse(t, "", nil); len(records) != 0 {
		t.Errorf("got %d records from empty input", len(records))
	}
	if records := parse(t, "Item Type,Title\n", nil); len(records) != 0 {
		t.Errorf("got %d records from header-only input", len(records))
	}
}

func TestParseCustomDelimiter(t *testing.T) {
	profile, err := mapping.LoadProfileFromString(`
name: semicolon
columns:
  Tür:
    field: ItemType
  Başlık:
    field: Title
options:
  csv_delimiter: ";"
  require_type: true
`)
	if err != nil {
		t.Fatal(err)
	}
	records := parse(t, "Tür;Başlık;Not\nkitap;Bir, İki;x\n;Atlandı;\n", &format.ParseOptions{Profile: profile})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Title != "Bir, İki" || records[0].ItemType != "kitap" {
		t.Errorf("record = %+v", records[0])
	}
	if got := hub.GetExtraString(records[0], "Not"); got != "x" {
		t.Errorf("extra Not = %q, want x", got)
	}
}

func TestParseTabDelimiter(t *testing.T) {
	tsv := strings.NewReplacer(",", "\t").Replace("Key,Item Type,Publication Year,Title\n" +
		"K1,book,2020,İslam Tarihi\n" +
		"K2,thesis,2021,Osmanlı Kâtipleri\n")
	tsv += "K3\tjournalArticle\t2019\tBir, İki\n"

	stats := &format.ParseStats{}
	records := parse(t, tsv, &format.ParseOptions{Delimiter: '\t', Stats: stats})
	if diff := cmp.Diff(format.ParseStats{Rows: 3, Records: 3}, *stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if len(records) != 3 || records[2].Title != "Bir, İki" || records[2].ItemType != "journalArticle" {
		t.Fatalf("records = %+v", records)
	}

	var buf bytes.Buffer
	opts := format.NewSerializeOptions()
	opts.Columns = []string{"ItemType", "Title"}
	opts.Delimiter = '\t'
	if err := (&Format{}).Serialize(&buf, records[2:], opts); err != nil {
		t.Fatal(err)
	}
	if want := "Item Type\tTitle\njournalArticle\tBir, İki\n"; buf.String() != want {
		t.Errorf("Serialize = %q, want %q", buf.String(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	original := parse(t, zoteroExport, nil)

	var buf bytes.Buffer
	opts := format.NewSerializeOptions()
	opts.ExtraColumns = ExtraKeys(original)
	if diff := cmp.Diff([]string{"DOI", "Key"}, opts.ExtraColumns); diff != "" {
		t.Errorf("ExtraKeys mismatch (-want +got):\n%s", diff)
	}
	if err := (&Format{}).Serialize(&buf, original, opts); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	header, _, _ := strings.Cut(buf.String(), "\n")
	wantHeader := "Title,Item Type,Archive Location,Author,Editor,Translator,Publication Year,Publisher,Language,DOI,Key"
	if header != wantHeader {
		t.Errorf("header = %q\nwant     %q", header, wantHeader)
	}

	again := parse(t, buf.String(), nil)
	if diff := cmp.Diff(original, again, protocmp.Transform()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCanParse(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{zoteroExport, true},
		{"{\"a\": 1}\n", false},
		{"<xml/>\n", false},
		{"", false},
	}
	f := &Format{}
	for _, tt := range tests {
		if got := f.CanParse([]byte(tt.input)); got != tt.want {
			t.Errorf("CanParse(%.20q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRegistered(t *testing.T) {
	p, err := format.GetParser("CSV")
	if err != nil {
		t.Fatalf("GetParser: %v", err)
	}
	if p.Name() != "csv" {
		t.Errorf("Name = %q", p.Name())
	}
	if _, err := format.GetSerializer("marc"); err == nil {
		t.Error("expected error for unregistered format")
	}
}

func TestParseStripsTitleMarkup(t *testing.T) {
	records := parse(t, "Item Type,Title\nbook,<i>Mesnevi</i>  &amp; Şerhi\n", nil)
	if got := records[0].Title; got != "Mesnevi & Şerhi" {
		t.Errorf("Title = %q, want %q", got, "Mesnevi & Şerhi")
	}

	raw := parse(t, "Item Type,Title\nbook,<i>Mesnevi</i>\n", &format.ParseOptions{})
	if got := raw[0].Title; got != "<i>Mesnevi</i>" {
		t.Errorf("Title without StripHTML = %q", got)
	}
}
