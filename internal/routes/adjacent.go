package routes

import (
	"slices"
	"strings"
)

// NotFoundPolicy selects what FindAdjacent returns when the current href is
// not part of the flattened page list.
type NotFoundPolicy string

const (
	// NotFoundNone yields no previous and no next page.
	NotFoundNone NotFoundPolicy = "none"
	// NotFoundFirst yields the first page as next, matching the historical
	// behavior of treating a miss as index -1.
	NotFoundFirst NotFoundPolicy = "first"
)

// Adjacency holds the neighbors of a page. A nil side means no link.
type Adjacency struct {
	Prev *Page `json:"prev,omitempty"`
	Next *Page `json:"next,omitempty"`
}

// Found reports whether either neighbor is present.
func (a Adjacency) Found() bool { return a.Prev != nil || a.Next != nil }

// FindAdjacent locates href in pages by exact match and returns its neighbors.
func FindAdjacent(pages []Page, href string, policy NotFoundPolicy) Adjacency {
	return adjacentAt(pages, slices.IndexFunc(pages, func(p Page) bool { return p.Href == href }), policy)
}

func adjacentAt(pages []Page, idx int, policy NotFoundPolicy) Adjacency {
	if idx < 0 {
		if policy == NotFoundFirst && len(pages) > 0 {
			next := pages[0]
			return Adjacency{Next: &next}
		}
		return Adjacency{}
	}
	var adj Adjacency
	if idx > 0 {
		prev := pages[idx-1]
		adj.Prev = &prev
	}
	if idx+1 < len(pages) {
		next := pages[idx+1]
		adj.Next = &next
	}
	return adj
}

// NormalizePath reduces a request path to a version-relative href.
//
// Query and fragment are dropped, a leading docs root is stripped, and then
// the first remaining segment is discarded when it names one of versions.
// "/docs/v1.0.0/components/button", "v1.0.0/components/button" and
// "/components/button" all normalize to "/components/button".
func NormalizePath(path, root string, versions []string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	trimmed := strings.Trim(path, "/")

	if rootSeg := strings.Trim(root, "/"); rootSeg != "" {
		switch {
		case trimmed == rootSeg:
			trimmed = ""
		case strings.HasPrefix(trimmed, rootSeg+"/"):
			trimmed = trimmed[len(rootSeg)+1:]
		}
	}

	first, rest, _ := strings.Cut(trimmed, "/")
	if first != "" && slices.Contains(versions, first) {
		trimmed = rest
	}
	return "/" + trimmed
}
