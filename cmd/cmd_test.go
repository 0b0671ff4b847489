package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/bibstats/aggregate"
	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

const library = `Key,Item Type,Publication Year,Author,Title,Publisher,Language,Archive Location,Editor,Translator,DOI
K1,book,2020,"Yılmaz, Ayşe",Osmanlı Tarihi,Ankara Yayınları,tr,,,,
K2,journalArticle,2021,"Demir, Ali; Yılmaz, Ayşe",Makale Başlığı,,en,,,,10.1000/xyz123
K3,thesis,2020,"Kaya, Mehmet",Tez Başlığı,ODTÜ,tr,,,,
K4,webpage,2019,,Web Sayfası,,tr,,,,
K5,,2019,,Dropped,,,,,,
`

// resetFlags restores flag variables; cobra keeps values between runs.
func resetFlags() {
	inputPath, profileName, profileFile, configDir = "", "", "", ""
	formatName, encoding = "", "json"
	filterYear, filterType, filterPerson, filterQuery, filterCategory = "", "", "", "", ""
	chartDimension, chartSelect, chartLimit = "archive", aggregate.AllSeries, aggregate.PublisherChartLimit
	classifyUnclassified, classifyExplain = false, false
	searchOutput, searchTo = "", ""
	validateStrict, validateVerbose = false, false
	profilesSave = false
	facetRole = ""
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Setenv("BIBSTATS_INPUT", "")
	t.Setenv("BIBSTATS_PROFILE", "")
	t.Cleanup(func() { mapping.SetConfigDir("") })

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	hasConfigDir := false
	for _, a := range args {
		hasConfigDir = hasConfigDir || a == "--config-dir"
	}
	if !hasConfigDir {
		args = append(args, "--config-dir", t.TempDir())
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeLibrary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.csv")
	if err := os.WriteFile(path, []byte(library), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStatsCommand(t *testing.T) {
	out, err := execute(t, library, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	var got aggregate.Summary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	want := aggregate.Summary{
		Publications: 4,
		Languages:    2,
		Publishers:   2,
		Contributors: 3,
		Articles:     1,
		Books:        1,
		Theses:       1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	out, err = execute(t, "", "stats", "-i", writeLibrary(t), "--year", "2020")
	if err != nil {
		t.Fatalf("stats --year: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Publications != 2 {
		t.Errorf("publications in 2020 = %d, want 2", got.Publications)
	}
}

func TestStatsTabSeparated(t *testing.T) {
	rows, err := csv.NewReader(strings.NewReader(library)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "library.tsv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "stats", "-i", path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var got aggregate.Summary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if got.Publications != 4 || got.Contributors != 3 {
		t.Errorf("summary = %+v, want 4 publications and 3 contributors", got)
	}

	out, err = execute(t, "", "validate", "-i", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Parsed 4 records from "+path+" (profile zotero)") {
		t.Errorf("validate output = %q", out)
	}
}

func TestChartCommand(t *testing.T) {
	out, err := execute(t, library, "chart", "yearly", "--dimension", "type", "-e", "csv")
	if err != nil {
		t.Fatalf("chart yearly: %v", err)
	}
	want := "label,book,journalArticle,thesis,webpage\n" +
		"2019,0,0,0,1\n" +
		"2020,1,0,1,0\n" +
		"2021,0,1,0,0\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("yearly chart mismatch (-want +got):\n%s", diff)
	}

	if _, err := execute(t, library, "chart", "pie"); err == nil {
		t.Error("expected error for an unknown chart")
	}
	if _, err := execute(t, library, "chart", "yearly", "--dimension", "color"); err == nil {
		t.Error("expected error for an unknown dimension")
	}
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, library, "classify", "--unclassified", "--explain")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	var got classification
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	wantRecords := []classifiedRecord{{
		Record:   4,
		Title:    "Web Sayfası",
		ItemType: "webpage",
		Category: "Unclassified",
		Label:    "Tanımlanamayan",
		Reason:   "no match",
	}}
	if diff := cmp.Diff(wantRecords, got.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if got.Tally["Book"] != 1 || got.Tally["Unclassified"] != 1 || got.Tally["BookChapter"] != 0 {
		t.Errorf("tally = %v", got.Tally)
	}
}

func TestSearchCommand(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.csv")
	if _, err := execute(t, library, "search", "--person", "Yılmaz", "-o", outPath); err != nil {
		t.Fatalf("search: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header and 2 records:\n%s", len(lines), data)
	}
	wantHeader := "Title,Item Type,Archive Location,Author,Editor,Translator,Publication Year,Publisher,Language,DOI,Key"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	if !strings.HasPrefix(lines[1], "Osmanlı Tarihi,book,") {
		t.Errorf("first record = %q", lines[1])
	}
}

func TestSearchToJSON(t *testing.T) {
	out, err := execute(t, library, "search", "--year", "2021", "--to", "json")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	want := []map[string]any{{
		"Key":              "K2",
		"DOI":              "10.1000/xyz123",
		"Item Type":        "journalArticle",
		"Publication Year": "2021",
		"Author":           "Demir, Ali; Yılmaz, Ayşe",
		"Title":            "Makale Başlığı",
		"Language":         "en",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		flag   string
		source string
		data   string
		want   string
	}{
		{"flag wins", "json", "lib.csv", library, "json"},
		{"extension", "", "lib.json", "", "json"},
		{"csv content", "", "stdin", library, "csv"},
		{"json content", "", "stdin", `[{"Title": "A"}]`, "json"},
		{"fallback", "", "stdin", "plain text", "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			formatName = tt.flag
			got, err := detectFormat(tt.source, []byte(tt.data))
			if err != nil {
				t.Fatalf("detectFormat: %v", err)
			}
			if got != tt.want {
				t.Errorf("detectFormat = %q, want %q", got, tt.want)
			}
		})
	}

	resetFlags()
	formatName = "ris"
	if _, err := detectFormat("stdin", nil); err == nil {
		t.Error("expected error for an unknown format")
	}
	resetFlags()
}

func TestFacetsCommand(t *testing.T) {
	tests := []struct {
		facet string
		want  []string
	}{
		{"years", []string{"2021", "2020", "2019"}},
		{"types", []string{"book", "journalArticle", "thesis", "webpage"}},
		{"persons", []string{"Demir, Ali", "Yılmaz, Ayşe", "Kaya, Mehmet"}},
	}

	for _, tt := range tests {
		t.Run(tt.facet, func(t *testing.T) {
			out, err := execute(t, library, "facets", tt.facet)
			if err != nil {
				t.Fatalf("facets: %v", err)
			}
			var got []string
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("decoding %q: %v", out, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("facet mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFacetsRole(t *testing.T) {
	out, err := execute(t, library, "facets", "persons", "--role", "Çevirmen")
	if err != nil {
		t.Fatalf("facets --role: %v", err)
	}
	if strings.TrimSpace(out) != "null" && strings.TrimSpace(out) != "[]" {
		t.Errorf("translators = %s, want none", out)
	}
	if _, err := execute(t, library, "facets", "persons", "--role", "reviewer"); err == nil {
		t.Error("expected error for an unknown role")
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, library, "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, want := range []string{
		"Parsed 4 records from stdin (profile zotero)",
		"Skipped 1 of 5 rows without an item type",
		"Unclassified: 1",
		"Records with errors: 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, library, "validate", "--strict", "--verbose")
	if err == nil {
		t.Fatal("strict validation should fail on a record without contributors")
	}
	if !strings.Contains(out, `record 4 "Web Sayfası": error: contributors:`) {
		t.Errorf("verbose output missing the contributor error:\n%s", out)
	}
}

func TestValidateYears(t *testing.T) {
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		t.Fatal(err)
	}
	profile, err := registry.Lookup("")
	if err != nil {
		t.Fatal(err)
	}
	coll := &collection{
		source:  "test",
		profile: profile,
		records: []*hub.Record{
			{ItemType: "book", Title: "A", PublicationYear: "2001"},
			{ItemType: "book", Title: "B", PublicationYear: "197X"},
			{ItemType: "book", Title: "C", PublicationYear: "19XX"},
			{ItemType: "book", Title: "D", PublicationYear: "t.y."},
			{ItemType: "book", Title: "E"},
		},
		classifier: classify.Default(),
	}

	rep := validateCollection(coll, hub.DefaultValidationOptions())
	if rep.Undated != 1 || rep.Approximate != 2 || rep.Unreadable != 1 {
		t.Errorf("years undated=%d approximate=%d unreadable=%d, want 1/2/1", rep.Undated, rep.Approximate, rep.Unreadable)
	}
	if rep.Warned != 3 {
		t.Errorf("warned = %d, want 3", rep.Warned)
	}

	var out bytes.Buffer
	rep.write(&out, false)
	for _, want := range []string{"Without a publication year: 1", "Decade or century years: 2", "Unreadable years: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestProfilesCommands(t *testing.T) {
	dir := t.TempDir()
	header := "Başlık,Tür,Yazar,Yıl\n"

	out, err := execute(t, header, "profiles", "init", "katalog", "--save", "--config-dir", dir)
	if err != nil {
		t.Fatalf("profiles init: %v", err)
	}
	if !strings.Contains(out, "Saved profile katalog") {
		t.Errorf("init output = %q", out)
	}

	mapping.SetConfigDir(dir)
	registry, err := loadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	p, err := resolveProfile(registry, "", "", []byte(header+"Kitap,book,\"Kaya, Mehmet\",2001\n"), ',')
	if err != nil {
		t.Fatalf("resolveProfile: %v", err)
	}
	if p.Name != "katalog" {
		t.Errorf("detected %q, want the saved katalog profile", p.Name)
	}

	p, err = resolveProfile(registry, "", "", []byte("a,b,c\n"), ',')
	if err != nil || p.Name != mapping.DefaultProfileName {
		t.Errorf("fallback profile = %v, %v, want the default", p, err)
	}
	if _, err := resolveProfile(registry, "missing", "", nil, ','); err == nil {
		t.Error("expected error for an unknown profile name")
	}

	out, err = execute(t, "", "profiles", "fields", "zotero")
	if err != nil {
		t.Fatalf("profiles fields: %v", err)
	}
	if !strings.Contains(out, "Item Type") || !strings.Contains(out, "ArchiveLocation") {
		t.Errorf("fields output = %q", out)
	}
}

func TestCriteria(t *testing.T) {
	resetFlags()
	filterCategory = "Makale"
	c, err := criteria()
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}
	if c.Category == nil || *c.Category != hub.CategoryArticle {
		t.Errorf("category = %v, want Article", c.Category)
	}

	filterCategory = "Unclassified"
	if _, err := criteria(); err == nil {
		t.Error("expected error for a non-target category")
	}
	resetFlags()
}

func TestAuditColumns(t *testing.T) {
	r1, r2 := hub.NewRecord(), hub.NewRecord()
	hub.SetExtra(r1, "Key", "K1")
	hub.SetExtra(r2, "Key", "K2")
	hub.SetExtra(r2, "DOI", "10.1/x")
	hub.SetExtra(r1, "Yayın Yılı", "2001")
	records := []*hub.Record{r1, r2, hub.NewRecord(), hub.NewRecord()}

	rep := auditColumns(records, 50, 3)
	if rep.TotalRecords != 4 || rep.RecordsWithExtras != 2 {
		t.Errorf("totals = %d/%d, want 4/2", rep.TotalRecords, rep.RecordsWithExtras)
	}

	var got []string
	for _, c := range rep.MappingCandidates {
		got = append(got, c.Column+"="+c.Field)
	}
	want := []string{"Key=", "Yayın Yılı=PublicationYear"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"K1", "K2"}, rep.ColumnFrequency["Key"].Examples); diff != "" {
		t.Errorf("examples mismatch (-want +got):\n%s", diff)
	}

	header, rows := rep.Table()
	if len(header) != 5 || len(rows) != 3 || rows[0][0] != "Key" {
		t.Errorf("table = %v %v", header, rows)
	}
}
