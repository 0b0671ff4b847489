package mapping

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/bibstats/hub"
)

func TestRowMapper(t *testing.T) {
	reg, err := NewProfileRegistry()
	if err != nil {
		t.Fatal(err)
	}
	p, _ := reg.Get("zotero")

	m := p.NewRowMapper([]string{"type", "Title", " Item Type ", "Key", "Pages"}, true)

	tests := []struct {
		name     string
		row      []string
		itemType string
		title    string
		extras   map[string]any
	}{
		{
			name:     "priority column wins",
			row:      []string{"document", "<i>Başlık</i>", "book", "K1", ""},
			itemType: "book",
			title:    "Başlık",
			extras:   map[string]any{"Key": "K1"},
		},
		{
			name:     "fallback column when priority column is empty",
			row:      []string{"thesis", "T", "  "},
			itemType: "thesis",
			title:    "T",
		},
		{
			name:     "cells past the header are ignored",
			row:      []string{"", "", "", "", "12", "extra"},
			extras:   map[string]any{"Pages": "12"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := m.Record(tt.row)
			if r.ItemType != tt.itemType || r.Title != tt.title {
				t.Errorf("record = {%q %q}, want {%q %q}", r.ItemType, r.Title, tt.itemType, tt.title)
			}
			got := make(map[string]any)
			for k, v := range r.Extra.GetFields() {
				got[k] = v.AsInterface()
			}
			want := tt.extras
			if want == nil {
				want = map[string]any{}
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("extras mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldAccess(t *testing.T) {
	rec := hub.NewRecord()
	for _, f := range Fields {
		SetField(rec, f, f+" value")
	}
	for _, f := range Fields {
		if got := FieldValue(rec, f); got != f+" value" {
			t.Errorf("FieldValue(%s) = %q", f, got)
		}
	}
	SetField(rec, "Subjects", "x")
	if got := FieldValue(rec, "Subjects"); got != "" {
		t.Errorf("unknown field = %q, want empty", got)
	}
}
