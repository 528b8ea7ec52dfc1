// Package search implements the per-query linear scan over note fields.
// There is no maintained index: note counts are small enough that
// rebuilding the result set on every keystroke is an explicit
// simplicity-over-performance choice.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/marwold/stickpad/internal/models"
)

// Options selects which field categories participate in a query.
// The zero value is useless; use DefaultOptions.
type Options struct {
	Titles          bool
	Content         bool
	Tags            bool
	IncludeArchived bool
}

// DefaultOptions matches titles, content, and tags in the active set only.
func DefaultOptions() Options {
	return Options{Titles: true, Content: true, Tags: true}
}

// Result is one search hit.
type Result struct {
	Note         *models.Note `json:"note"`
	TitleMatch   bool         `json:"titleMatch"`
	ContentMatch bool         `json:"contentMatch"`
	TagsMatch    bool         `json:"tagsMatch"`
	Excerpt      string       `json:"excerpt,omitempty"`
	Archived     bool         `json:"archived"`
}

const excerptContext = 30

// Query scans the active notes (and, when enabled, the archived notes)
// for case-insensitive substring matches and returns hits in discovery
// order. lookup resolves folder member ids across both collections and may
// be nil.
func Query(q string, notes, archived []*models.Note, opts Options) []Result {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}

	lookup := func(id string) *models.Note {
		for _, n := range notes {
			if n.ID == id {
				return n
			}
		}
		for _, n := range archived {
			if n.ID == id {
				return n
			}
		}
		return nil
	}

	var out []Result
	for _, n := range notes {
		if r, ok := match(n, q, opts, lookup, false); ok {
			out = append(out, r)
		}
	}
	if opts.IncludeArchived {
		for _, n := range archived {
			if r, ok := match(n, q, opts, lookup, true); ok {
				out = append(out, r)
			}
		}
	}
	return out
}

func match(n *models.Note, q string, opts Options, lookup func(string) *models.Note, archived bool) (Result, bool) {
	r := Result{Note: n, Archived: archived}

	if opts.Titles && n.Title != "" && strings.Contains(strings.ToLower(n.Title), q) {
		r.TitleMatch = true
	}
	if opts.Tags && len(n.Tags) > 0 {
		joined := strings.ToLower(strings.Join(n.Tags, " "))
		if strings.Contains(joined, q) {
			r.TagsMatch = true
		}
	}
	if opts.Content {
		body := searchableContent(n, lookup)
		if idx := strings.Index(strings.ToLower(body), q); idx >= 0 {
			r.ContentMatch = true
			r.Excerpt = excerpt(body, idx, len(q))
		}
	}

	return r, r.TitleMatch || r.ContentMatch || r.TagsMatch
}

// searchableContent flattens the type-specific payload into one searchable
// string. Folder notes match on the titles of the notes they contain; a
// member id that no longer resolves is skipped.
func searchableContent(n *models.Note, lookup func(string) *models.Note) string {
	switch n.Type {
	case models.TypeText:
		return n.Content
	case models.TypeWeb:
		return n.WebURL + " " + n.WebTitle + " " + n.WebDescription
	case models.TypeLocation:
		return n.LocationName + " " + n.LocationAddress + " " + n.LocationNotes
	case models.TypeReminder:
		return n.ReminderMessage
	case models.TypeTodo:
		parts := make([]string, 0, len(n.TodoItems))
		for _, item := range n.TodoItems {
			parts = append(parts, item.Text)
		}
		return strings.Join(parts, " ")
	case models.TypeTable:
		var parts []string
		for _, row := range n.TableData {
			parts = append(parts, row...)
		}
		return strings.Join(parts, " ")
	case models.TypeFile:
		return n.FilePath
	case models.TypeCode:
		return n.CodeContent
	case models.TypeFolder:
		if lookup == nil {
			return ""
		}
		var titles []string
		for _, id := range n.FolderItems {
			if item := lookup(id); item != nil && item.Title != "" {
				titles = append(titles, item.Title)
			}
		}
		return strings.Join(titles, " ")
	default:
		return n.Content
	}
}

func excerpt(body string, idx, qlen int) string {
	start := idx - excerptContext
	if start < 0 {
		start = 0
	}
	end := idx + qlen + excerptContext
	if end > len(body) {
		end = len(body)
	}
	if start > end {
		start = end
	}
	// The match index was found in the lowered body; case folding can shift
	// byte offsets, so snap the window to rune boundaries of the original.
	for start > 0 && !utf8.RuneStart(body[start]) {
		start--
	}
	for end < len(body) && !utf8.RuneStart(body[end]) {
		end++
	}
	return body[start:end]
}
