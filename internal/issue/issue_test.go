package issue

import (
	"errors"
	"testing"
)

func sampleDoc() map[string]any {
	return map[string]any{
		"key": "FAT-7",
		"fields": map[string]any{
			"summary":     "Search is slow",
			"description": "Typing lags on *large* sets",
			"assignee":    map[string]any{"name": "jdoe"},
			"reporter":    "asmith",
			"status":      map[string]any{"name": "In Progress"},
			"worklog": map[string]any{"worklogs": []any{
				map[string]any{"author": map[string]any{"displayName": "J Doe"}, "timeSpent": "1h", "started": "2024-01-02"},
			}},
		},
	}
}

func TestFromDocument(t *testing.T) {
	iss, err := FromDocument(sampleDoc())
	if err != nil {
		t.Fatalf("FromDocument() error = %v", err)
	}
	if iss.Key != "FAT-7" || iss.Assignee != "jdoe" || iss.Reporter != "asmith" || iss.Status != "In Progress" {
		t.Errorf("FromDocument() = %+v", iss)
	}
	if len(iss.Worklogs) != 1 || iss.Worklogs[0].Author != "J Doe" || iss.Worklogs[0].TimeSpent != "1h" {
		t.Errorf("worklogs = %+v", iss.Worklogs)
	}
}

func TestFromDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  any
	}{
		{"not a map", []any{"x"}},
		{"no key", map[string]any{"fields": map[string]any{}}},
		{"no fields", map[string]any{"key": "A-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDocument(tt.doc)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("error = %v, want *FormatError", err)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	got, err := Extract(sampleDoc())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := "FAT-7 k=FAT-7 Search is slow Typing lags on *large* sets @jdoe rep=asmith st=INPROGRESS"
	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestExtract_Unassigned(t *testing.T) {
	doc := map[string]any{
		"key":    "FAT-8",
		"fields": map[string]any{"summary": nil, "status": "Done"},
	}
	got, err := Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := "FAT-8 k=FAT-8   none none st=DONE"
	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestCountByStatus(t *testing.T) {
	docs := []any{
		map[string]any{"key": "A-1", "fields": map[string]any{"status": "Done"}},
		map[string]any{"key": "A-2", "fields": map[string]any{"status": "Open"}},
		map[string]any{"key": "A-3", "fields": map[string]any{"status": "Done"}},
		map[string]any{"key": "A-4", "fields": map[string]any{}},
		"garbage",
	}
	got := CountByStatus(docs)
	want := []StatusCount{{"Done", 2}, {"Open", 1}, {"invalid", 1}, {"none", 1}}
	if len(got) != len(want) {
		t.Fatalf("CountByStatus() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
