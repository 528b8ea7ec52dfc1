package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/marwold/stickpad/internal/models"
)

func textNote(id, title, content string, tags ...string) *models.Note {
	return &models.Note{ID: id, Type: models.TypeText, Title: title, Content: content, Tags: tags}
}

func TestQueryEmptyString(t *testing.T) {
	notes := []*models.Note{textNote("a", "Hello", "world")}
	if got := Query("", notes, nil, DefaultOptions()); got != nil {
		t.Errorf("empty query returned %d results", len(got))
	}
	if got := Query("   ", notes, nil, DefaultOptions()); got != nil {
		t.Errorf("whitespace query returned %d results", len(got))
	}
}

func TestQueryCaseInsensitive(t *testing.T) {
	notes := []*models.Note{textNote("a", "Groceries", "Buy MILK and eggs")}
	got := Query("milk", notes, nil, DefaultOptions())
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	if !got[0].ContentMatch {
		t.Error("expected content match")
	}
	if !strings.Contains(got[0].Excerpt, "MILK") {
		t.Errorf("excerpt = %q", got[0].Excerpt)
	}
}

func TestQueryTitleAndTags(t *testing.T) {
	notes := []*models.Note{
		textNote("a", "Project Alpha", "nothing relevant"),
		textNote("b", "Other", "irrelevant", "alpha", "work"),
	}
	got := Query("alpha", notes, nil, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if !got[0].TitleMatch {
		t.Error("first hit should match on title")
	}
	if !got[1].TagsMatch {
		t.Error("second hit should match on tags")
	}
}

func TestQueryFieldToggles(t *testing.T) {
	notes := []*models.Note{textNote("a", "needle", "haystack")}
	opts := Options{Content: true}
	if got := Query("needle", notes, nil, opts); len(got) != 0 {
		t.Errorf("title disabled but matched: %d", len(got))
	}
	opts = Options{Titles: true}
	if got := Query("needle", notes, nil, opts); len(got) != 1 {
		t.Errorf("title enabled, results = %d", len(got))
	}
}

func TestQueryArchivedExcludedByDefault(t *testing.T) {
	archived := []*models.Note{textNote("x", "archived needle", "")}
	if got := Query("needle", nil, archived, DefaultOptions()); len(got) != 0 {
		t.Errorf("archived leaked into default search: %d", len(got))
	}
	opts := DefaultOptions()
	opts.IncludeArchived = true
	got := Query("needle", nil, archived, opts)
	if len(got) != 1 || !got[0].Archived {
		t.Fatalf("results = %+v", got)
	}
}

func TestQueryTodoItems(t *testing.T) {
	n := &models.Note{ID: "t", Type: models.TypeTodo, TodoItems: []models.TodoItem{
		{Text: "water the plants"},
		{Text: "call dentist"},
	}}
	got := Query("dentist", []*models.Note{n}, nil, DefaultOptions())
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
}

func TestQueryTableCells(t *testing.T) {
	n := &models.Note{ID: "tb", Type: models.TypeTable, TableData: [][]string{
		{"Name", "Role"},
		{"Ada", "Engineer"},
	}}
	if got := Query("engineer", []*models.Note{n}, nil, DefaultOptions()); len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
}

func TestQueryFolderMatchesMemberTitles(t *testing.T) {
	member := textNote("m", "Quarterly Report", "")
	folder := &models.Note{ID: "f", Type: models.TypeFolder, FolderItems: []string{"m", "gone"}}
	got := Query("quarterly", []*models.Note{folder, member}, nil, DefaultOptions())

	foundFolder := false
	for _, r := range got {
		if r.Note.ID == "f" {
			foundFolder = true
		}
	}
	if !foundFolder {
		t.Error("folder should match via member title")
	}
}

func TestExcerptWindow(t *testing.T) {
	long := strings.Repeat("a", 100) + "needle" + strings.Repeat("b", 100)
	n := textNote("x", "", long)
	got := Query("needle", []*models.Note{n}, nil, DefaultOptions())
	if len(got) != 1 {
		t.Fatalf("results = %d", len(got))
	}
	ex := got[0].Excerpt
	if len(ex) != 30+len("needle")+30 {
		t.Errorf("excerpt len = %d", len(ex))
	}
	if !strings.Contains(ex, "needle") {
		t.Errorf("excerpt = %q", ex)
	}
}

func TestExcerptRuneBoundaries(t *testing.T) {
	// The window edge lands inside a two-byte rune; the excerpt must not
	// split it.
	long := "needle" + "a" + strings.Repeat("é", 40)
	n := textNote("x", "", long)
	got := Query("needle", []*models.Note{n}, nil, DefaultOptions())
	if len(got) != 1 {
		t.Fatalf("results = %d", len(got))
	}
	ex := got[0].Excerpt
	if !utf8.ValidString(ex) {
		t.Errorf("excerpt is not valid UTF-8: %q", ex)
	}
	if !strings.Contains(ex, "needle") {
		t.Errorf("excerpt = %q", ex)
	}
}

func TestQueryNonASCIIContent(t *testing.T) {
	n := textNote("x", "", "Straße İstanbul café needle")
	got := Query("needle", []*models.Note{n}, nil, DefaultOptions())
	if len(got) != 1 {
		t.Fatalf("results = %d", len(got))
	}
	if !utf8.ValidString(got[0].Excerpt) {
		t.Errorf("excerpt is not valid UTF-8: %q", got[0].Excerpt)
	}
	if !strings.Contains(got[0].Excerpt, "needle") {
		t.Errorf("excerpt = %q", got[0].Excerpt)
	}
}
