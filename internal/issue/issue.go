// Package issue reads tracker issues out of loaded documents.
//
// An issue document is a map with a "key" and a "fields" map, the shape an
// issue tracker export uses:
//
//	{"key": "FAT-12", "fields": {"summary": "...", "status": {"name": "In Progress"}, ...}}
//
// People and statuses may be either plain strings or objects with a "name"
// (or "displayName") field.
package issue

import (
	"fmt"
	"slices"
	"strings"
)

// Issue is the flattened view of one issue document.
type Issue struct {
	Key         string
	Summary     string
	Description string
	Assignee    string
	Reporter    string
	Status      string
	Worklogs    []Worklog
	Raw         map[string]any
}

// Worklog is one logged work entry.
type Worklog struct {
	Author    string
	Started   string
	TimeSpent string
	Comment   string
}

// FormatError reports a document that is not an issue.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "issue: " + e.Reason
}

// FromDocument converts a loaded document into an Issue.
func FromDocument(doc any) (Issue, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return Issue{}, &FormatError{Reason: fmt.Sprintf("document is %T, not an object", doc)}
	}
	key, ok := m["key"].(string)
	if !ok || key == "" {
		return Issue{}, &FormatError{Reason: "document has no key"}
	}
	fields, ok := m["fields"].(map[string]any)
	if !ok {
		return Issue{}, &FormatError{Reason: fmt.Sprintf("issue %s has no fields", key)}
	}

	iss := Issue{
		Key:         key,
		Summary:     text(fields["summary"]),
		Description: text(fields["description"]),
		Assignee:    name(fields["assignee"]),
		Reporter:    name(fields["reporter"]),
		Status:      name(fields["status"]),
		Raw:         m,
	}
	iss.Worklogs = worklogs(fields["worklog"])
	return iss, nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return fmt.Sprint(v)
}

// name resolves a person or status that is either a string or an object.
func name(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, field := range []string{"name", "displayName", "emailAddress"} {
			if s, ok := t[field].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func worklogs(v any) []Worklog {
	var list []any
	switch t := v.(type) {
	case []any:
		list = t
	case map[string]any:
		list, _ = t["worklogs"].([]any)
	}
	out := make([]Worklog, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Worklog{
			Author:    name(m["author"]),
			Started:   text(m["started"]),
			TimeSpent: text(m["timeSpent"]),
			Comment:   text(m["comment"]),
		})
	}
	return out
}

// StatusToken is the compact status form used in search extracts, e.g.
// "In Progress" becomes "INPROGRESS".
func StatusToken(status string) string {
	return strings.ToUpper(strings.ReplaceAll(status, " ", ""))
}

// Extract builds the search text of an issue document: the key, "k=<key>",
// summary, description, "@<assignee>", "rep=<reporter>" and "st=<STATUS>".
// A missing assignee or reporter contributes "none".
func Extract(doc any) (string, error) {
	iss, err := FromDocument(doc)
	if err != nil {
		return "", err
	}
	assignee, reporter := "none", "none"
	if iss.Assignee != "" {
		assignee = "@" + iss.Assignee
	}
	if iss.Reporter != "" {
		reporter = "rep=" + iss.Reporter
	}
	parts := []string{
		iss.Key,
		"k=" + iss.Key,
		iss.Summary,
		iss.Description,
		assignee,
		reporter,
		"st=" + StatusToken(iss.Status),
	}
	return strings.Join(parts, " "), nil
}

// StatusCount is the number of issues in one status.
type StatusCount struct {
	Status string
	Count  int
}

// CountByStatus tallies the issue documents by status, largest first. Non
// issue documents are counted under "invalid".
func CountByStatus(docs []any) []StatusCount {
	counts := make(map[string]int)
	for _, d := range docs {
		iss, err := FromDocument(d)
		switch {
		case err != nil:
			counts["invalid"]++
		case iss.Status == "":
			counts["none"]++
		default:
			counts[iss.Status]++
		}
	}
	out := make([]StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusCount{Status: s, Count: n})
	}
	slices.SortFunc(out, func(a, b StatusCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Status, b.Status)
	})
	return out
}
