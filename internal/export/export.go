// Package export renders notes into the collaborator-facing formats:
// Markdown, flat JSON, plain share text, a full-workspace JSON backup, and
// a self-contained styled HTML snapshot.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/marwold/stickpad/internal/models"
)

// Lookup resolves a note id to a note across both collections; it returns
// nil for ids that no longer resolve (those are skipped, never an error).
type Lookup func(id string) *models.Note

// Markdown renders one note as Markdown with a type-specific body.
func Markdown(n *models.Note, lookup Lookup) string {
	var b strings.Builder

	if n.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", n.Title)
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n\n", strings.Join(n.Tags, ", "))
	}

	switch n.Type {
	case models.TypeCode:
		fmt.Fprintf(&b, "## Code (%s)\n\n", n.CodeLanguage)
		fmt.Fprintf(&b, "```%s\n%s\n```", n.CodeLanguage, n.CodeContent)
	case models.TypeTodo:
		b.WriteString("## Tasks\n\n")
		for _, item := range n.TodoItems {
			mark := " "
			if item.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, item.Text)
		}
	case models.TypeWeb:
		if n.WebURL != "" {
			label := n.WebTitle
			if label == "" {
				label = n.WebURL
			}
			fmt.Fprintf(&b, "**URL:** [%s](%s)\n\n", label, n.WebURL)
		}
		b.WriteString(n.WebDescription)
	case models.TypeLocation:
		if n.LocationName != "" {
			fmt.Fprintf(&b, "**Location:** %s\n\n", n.LocationName)
		}
		if n.LocationAddress != "" {
			fmt.Fprintf(&b, "**Address:** %s\n\n", n.LocationAddress)
		}
		b.WriteString(n.LocationNotes)
	case models.TypeReminder:
		if when, err := n.ReminderTime(); err == nil {
			fmt.Fprintf(&b, "**Reminder:** %s\n\n", when.Format("1/2/2006, 3:04 PM"))
		}
		b.WriteString(n.ReminderMessage)
	case models.TypeTable:
		for i, row := range n.TableData {
			fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
			if i == 0 {
				b.WriteString("|" + strings.Repeat(" --- |", len(row)) + "\n")
			}
		}
	case models.TypeFolder:
		b.WriteString("## Folder Contents\n\n")
		for _, id := range n.FolderItems {
			item := lookup(id)
			if item == nil {
				continue
			}
			title := item.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(&b, "- %s (%s)\n", title, item.Type)
		}
	default:
		b.WriteString(n.Content)
	}

	return b.String()
}

// JSON renders one note as a clean flat envelope plus its type-specific
// payload.
func JSON(n *models.Note) ([]byte, error) {
	doc := map[string]any{
		"id":        n.ID,
		"type":      n.Type,
		"title":     n.Title,
		"content":   n.Content,
		"tags":      n.Tags,
		"createdAt": n.CreatedAt,
	}
	for k, v := range typePayload(n) {
		doc[k] = v
	}
	return json.MarshalIndent(doc, "", "  ")
}

func typePayload(n *models.Note) map[string]any {
	switch n.Type {
	case models.TypeCode:
		return map[string]any{"codeContent": n.CodeContent, "codeLanguage": n.CodeLanguage}
	case models.TypeTodo:
		return map[string]any{"todoItems": n.TodoItems}
	case models.TypeWeb:
		return map[string]any{"webUrl": n.WebURL, "webTitle": n.WebTitle, "webDescription": n.WebDescription}
	case models.TypeLocation:
		return map[string]any{"locationName": n.LocationName, "locationAddress": n.LocationAddress, "locationNotes": n.LocationNotes}
	case models.TypeReminder:
		return map[string]any{"reminderDateTime": n.ReminderDateTime, "reminderMessage": n.ReminderMessage}
	case models.TypeTable:
		return map[string]any{"tableData": n.TableData}
	case models.TypeFolder:
		return map[string]any{"folderItems": n.FolderItems}
	case models.TypeFile:
		return map[string]any{"filePath": n.FilePath}
	default:
		return nil
	}
}

// Backup is the full-workspace export: both collections plus provenance.
type Backup struct {
	Notes         []*models.Note `json:"notes"`
	ArchivedNotes []*models.Note `json:"archivedNotes"`
	ExportedAt    time.Time      `json:"exportedAt"`
	Version       string         `json:"version"`
}

// BackupJSON renders a backup of both collections.
func BackupJSON(notes, archived []*models.Note) ([]byte, error) {
	return json.MarshalIndent(Backup{
		Notes:         notes,
		ArchivedNotes: archived,
		ExportedAt:    time.Now(),
		Version:       "1.0",
	}, "", "  ")
}

// ShareText renders one note as plain text suitable for pasting into
// messaging apps.
func ShareText(n *models.Note) string {
	var b strings.Builder

	if n.Title != "" {
		b.WriteString(n.Title + "\n")
		b.WriteString(strings.Repeat("=", len(n.Title)) + "\n\n")
	}
	b.WriteString(plainContent(n))
	if len(n.Tags) > 0 {
		b.WriteString("\n\nTags: " + strings.Join(n.Tags, ", "))
	}
	created := "Unknown"
	if !n.CreatedAt.IsZero() {
		created = n.CreatedAt.Format("1/2/2006, 3:04 PM")
	}
	b.WriteString("\n\n---\nCreated: " + created)
	b.WriteString("\nShared from stickpad")
	return b.String()
}

func plainContent(n *models.Note) string {
	switch n.Type {
	case models.TypeCode:
		return fmt.Sprintf("Code (%s):\n\n%s", n.CodeLanguage, n.CodeContent)
	case models.TypeTodo:
		if len(n.TodoItems) == 0 {
			return "No tasks"
		}
		lines := make([]string, 0, len(n.TodoItems))
		for _, item := range n.TodoItems {
			mark := "[ ]"
			if item.Completed {
				mark = "[x]"
			}
			lines = append(lines, mark+" "+item.Text)
		}
		return strings.Join(lines, "\n")
	case models.TypeWeb:
		return fmt.Sprintf("Website: %s\n\n%s", n.WebURL, n.WebDescription)
	case models.TypeLocation:
		var b strings.Builder
		if n.LocationName != "" {
			b.WriteString("Location: " + n.LocationName + "\n")
		}
		if n.LocationAddress != "" {
			b.WriteString("Address: " + n.LocationAddress + "\n")
		}
		if n.LocationNotes != "" {
			b.WriteString("\n" + n.LocationNotes)
		}
		return b.String()
	case models.TypeReminder:
		out := n.ReminderMessage
		if when, err := n.ReminderTime(); err == nil {
			out += "\n\nReminder: " + when.Format("1/2/2006, 3:04 PM")
		}
		return out
	default:
		return n.Content
	}
}
