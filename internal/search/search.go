// Package search implements an incremental substring search over an
// in-memory document set.
//
// Every document is flattened to a text extract once, at construction.
// Results of each query are cached under the normalized query string, and a
// later query starts its scan from the result set of its longest cached
// prefix, so typing at the end of a query only rescans documents that still
// match.
package search

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Document is one opaque searchable record.
type Document = any

// ExtractFunc flattens a document to the text searched by queries.
type ExtractFunc func(Document) (string, error)

// Engine holds the documents, their extracts and the query cache. It is not
// safe for concurrent use.
type Engine struct {
	docs     []Document
	extracts []string
	lowered  []string

	query   string
	cache   map[string][]int
	results []int
}

// New extracts every document with extract (Recursive when nil). A single
// failing document aborts construction.
func New(docs []Document, extract ExtractFunc) (*Engine, error) {
	if extract == nil {
		extract = Recursive
	}
	e := &Engine{
		docs:     slices.Clone(docs),
		extracts: make([]string, len(docs)),
		lowered:  make([]string, len(docs)),
		cache:    make(map[string][]int),
		results:  allIndices(len(docs)),
	}
	for i, doc := range e.docs {
		text, err := extract(doc)
		if err != nil {
			var ee *ExtractionError
			if errors.As(err, &ee) {
				if ee.Index < 0 {
					ee.Index = i
				}
				return nil, err
			}
			return nil, fmt.Errorf("search: document %d: %w", i, err)
		}
		e.extracts[i] = text
		e.lowered[i] = strings.ToLower(text)
	}
	return e, nil
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Normalize splits query on whitespace and joins the terms with single
// spaces, dropping every term that is a prefix of a term kept before it.
// An exact repeat is dropped too. A longer term that follows a shorter one
// sharing its prefix is kept.
func Normalize(query string) string {
	var kept []string
	for _, term := range strings.Fields(query) {
		if slices.ContainsFunc(kept, func(k string) bool { return strings.HasPrefix(k, term) }) {
			continue
		}
		kept = append(kept, term)
	}
	return strings.Join(kept, " ")
}

// Search replaces the active query and recomputes the result set.
func (e *Engine) Search(query string) {
	e.query = query
	norm := Normalize(query)

	for cached := range e.cache {
		if !strings.HasPrefix(norm, cached) {
			delete(e.cache, cached)
		}
	}

	base, baseQuery := e.bestCached(norm)

	baseTerms := make(map[string]struct{})
	for _, t := range strings.Fields(baseQuery) {
		baseTerms[t] = struct{}{}
	}
	var sensitive, insensitive []string
	seen := make(map[string]struct{})
	for _, t := range strings.Fields(norm) {
		if _, ok := baseTerms[t]; ok {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if strings.ToLower(t) == t {
			insensitive = append(insensitive, t)
		} else {
			sensitive = append(sensitive, t)
		}
	}
	if len(seen) == 0 {
		e.results = base
		return
	}

	filtered := make([]int, 0, len(base))
	for _, idx := range base {
		if containsAll(e.extracts[idx], sensitive) && containsAll(e.lowered[idx], insensitive) {
			filtered = append(filtered, idx)
		}
	}
	e.cache[norm] = filtered
	e.results = filtered
}

// bestCached returns the cached results of the longest character prefix of
// query present in the cache, or every document when there is none.
func (e *Engine) bestCached(query string) ([]int, string) {
	for cut := len(query); cut > 0; cut-- {
		if res, ok := e.cache[query[:cut]]; ok {
			return res, query[:cut]
		}
	}
	return allIndices(len(e.docs)), ""
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// Results returns the documents of the current result set, in document
// order, truncated to limit. A limit of zero or less returns all of them.
func (e *Engine) Results(limit int) []Document {
	idx := e.results
	if limit > 0 && len(idx) > limit {
		idx = idx[:limit]
	}
	out := make([]Document, len(idx))
	for i, j := range idx {
		out[i] = e.docs[j]
	}
	return out
}

// Indices returns the document indices of the current result set.
func (e *Engine) Indices() []int {
	return slices.Clone(e.results)
}

// Count returns the size of the current result set.
func (e *Engine) Count() int { return len(e.results) }

// Len returns the number of documents.
func (e *Engine) Len() int { return len(e.docs) }

// Query returns the last query passed to Search, as typed.
func (e *Engine) Query() string { return e.query }

// Extract returns the text extract of document i.
func (e *Engine) Extract(i int) string { return e.extracts[i] }

// CacheKeys returns the cached normalized queries in sorted order.
func (e *Engine) CacheKeys() []string {
	return slices.Sorted(maps.Keys(e.cache))
}
