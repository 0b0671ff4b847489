package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSuggestField(t *testing.T) {
	tests := []struct {
		column string
		field  string
		exact  bool
	}{
		{"Title", FieldTitle, true},
		{" Item Type ", FieldItemType, true},
		{"item_type", FieldItemType, true},
		{"Yayın-Yılı", FieldPublicationYear, true},
		{"Başlık", FieldTitle, true},
		{"Series Editor", FieldEditor, false},
		{"Short Title", FieldTitle, false},
		{"Date Added", "", false},
		{"Key", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			field, exact := SuggestField(tt.column)
			if field != tt.field || exact != tt.exact {
				t.Errorf("SuggestField(%q) = %q, %v, want %q, %v", tt.column, field, exact, tt.field, tt.exact)
			}
		})
	}
}

func TestFromColumns(t *testing.T) {
	p := FromColumns("local", []string{"\ufeffBaşlık", "Tür", "Yazar", "Series Editor", "Notlar"})

	want := map[string]ColumnMapping{
		"Başlık":        {Field: FieldTitle, Priority: 10},
		"Tür":           {Field: FieldItemType, Priority: 10},
		"Yazar":         {Field: FieldAuthor, Priority: 10},
		"Series Editor": {Field: FieldEditor},
	}
	if diff := cmp.Diff(want, p.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if !p.Options.RequireType {
		t.Error("a profile with an item type column should require it")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("generated profile should validate: %v", err)
	}
}

func TestDetect(t *testing.T) {
	reg, err := NewProfileRegistry()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header []string
		want   string
	}{
		{
			name:   "zotero export",
			header: []string{"\ufeffKey", "Item Type", "Publication Year", "Author", "Title", "Publisher", "Language", "Archive Location", "Editor", "Translator"},
			want:   "zotero",
		},
		{
			name:   "generic export",
			header: []string{"title", "item_type", "year", "author", "publisher", "language"},
			want:   "generic",
		},
		{
			name:   "unrelated table",
			header: []string{"id", "amount", "title"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, score := reg.Detect(tt.header)
			got := ""
			if p != nil {
				got = p.Name
			}
			if got != tt.want {
				t.Errorf("Detect() = %q (score %.2f), want %q", got, score, tt.want)
			}
		})
	}
}

func TestCoveredFields(t *testing.T) {
	reg, err := NewProfileRegistry()
	if err != nil {
		t.Fatal(err)
	}
	p, _ := reg.Get("zotero")
	got := p.CoveredFields([]string{"Language", "Title", "type", "Extra"})
	want := []string{FieldTitle, FieldItemType, FieldLanguage}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CoveredFields mismatch (-want +got):\n%s", diff)
	}
}

func TestReadHeader(t *testing.T) {
	header, sample, err := ReadHeader(strings.NewReader("\ufeffTitle; Year \nA;2020\n"), ';')
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if diff := cmp.Diff([]string{"Title", "Year"}, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "2020"}, sample); diff != "" {
		t.Errorf("sample mismatch (-want +got):\n%s", diff)
	}

	_, sample, err = ReadHeader(strings.NewReader("Title\n"), ',')
	if err != nil || sample != nil {
		t.Errorf("header-only table: sample %v, err %v", sample, err)
	}

	if _, _, err := ReadHeader(strings.NewReader(""), ','); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestUserProfiles(t *testing.T) {
	SetConfigDir(t.TempDir())
	t.Cleanup(func() { SetConfigDir("") })

	reg, err := NewProfileRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.LoadUserProfiles(); err != nil {
		t.Fatalf("LoadUserProfiles with no directory: %v", err)
	}

	p := FromColumns("My Library", []string{"Başlık", "Tür"})
	path, err := SaveProfile(p)
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if filepath.Base(path) != "my-library.yaml" {
		t.Errorf("path = %q, want my-library.yaml", path)
	}

	if err := reg.LoadUserProfiles(); err != nil {
		t.Fatalf("LoadUserProfiles: %v", err)
	}
	loaded, ok := reg.Get("My Library")
	if !ok {
		t.Fatalf("saved profile not loaded, have %v", reg.List())
	}
	if diff := cmp.Diff(p.Columns, loaded.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	if err := DeleteProfile("My Library"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("profile file still present: %v", err)
	}
	if err := DeleteProfile("My Library"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("second delete = %v, want ErrUnknownProfile", err)
	}
	if _, err := ProfilePath("../etc"); err == nil {
		t.Error("expected error for a name with a path separator")
	}
}
