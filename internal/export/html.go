package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/marwold/stickpad/internal/models"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders one note as a self-contained HTML document styled after the
// note's on-screen color.
func HTML(n *models.Note, lookup Lookup) ([]byte, error) {
	body, err := htmlBody(n, lookup)
	if err != nil {
		return nil, fmt.Errorf("export: render html body: %w", err)
	}

	title := n.DisplayTitle()
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: sans-serif; max-width: 42rem; margin: 2rem auto; padding: 0 1rem; }\n")
	fmt.Fprintf(&b, ".note { background: %s; border-radius: 8px; padding: 1.5rem; box-shadow: 0 2px 8px rgba(0,0,0,.15); }\n", html.EscapeString(n.Color))
	b.WriteString(".meta { color: #555; font-size: .85rem; margin-top: 1.5rem; }\n")
	b.WriteString("table { border-collapse: collapse; } td, th { border: 1px solid #999; padding: .25rem .5rem; }\n")
	b.WriteString("pre { overflow-x: auto; }\n")
	b.WriteString("li.done { text-decoration: line-through; color: #666; }\n")
	b.WriteString("</style>\n</head>\n<body>\n<div class=\"note\">\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	b.WriteString(body)
	b.WriteString("<div class=\"meta\">")
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s<br>", html.EscapeString(strings.Join(n.Tags, ", ")))
	}
	if !n.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Created: %s", n.CreatedAt.Format("1/2/2006, 3:04 PM"))
	}
	b.WriteString("</div>\n</div>\n</body>\n</html>\n")
	return []byte(b.String()), nil
}

func htmlBody(n *models.Note, lookup Lookup) (string, error) {
	switch n.Type {
	case models.TypeCode:
		var b strings.Builder
		lang := n.CodeLanguage
		if lang == "" {
			lang = "plaintext"
		}
		if err := quick.Highlight(&b, n.CodeContent, lang, "html", "github"); err != nil {
			return "", err
		}
		return b.String(), nil
	case models.TypeTodo:
		var b strings.Builder
		b.WriteString("<ul>\n")
		for _, item := range n.TodoItems {
			class := ""
			box := "&#9744;"
			if item.Completed {
				class = ` class="done"`
				box = "&#9745;"
			}
			fmt.Fprintf(&b, "<li%s>%s %s</li>\n", class, box, html.EscapeString(item.Text))
		}
		b.WriteString("</ul>\n")
		return b.String(), nil
	case models.TypeTable:
		var b strings.Builder
		b.WriteString("<table>\n")
		for i, row := range n.TableData {
			cell := "td"
			if i == 0 {
				cell = "th"
			}
			b.WriteString("<tr>")
			for _, c := range row {
				fmt.Fprintf(&b, "<%s>%s</%s>", cell, html.EscapeString(c), cell)
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</table>\n")
		return b.String(), nil
	case models.TypeWeb:
		var b strings.Builder
		if n.WebURL != "" {
			label := n.WebTitle
			if label == "" {
				label = n.WebURL
			}
			fmt.Fprintf(&b, "<p><a href=%q>%s</a></p>\n", n.WebURL, html.EscapeString(label))
		}
		if n.WebDescription != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(n.WebDescription))
		}
		return b.String(), nil
	case models.TypeFolder:
		var b strings.Builder
		b.WriteString("<ul>\n")
		for _, id := range n.FolderItems {
			item := lookup(id)
			if item == nil {
				continue
			}
			fmt.Fprintf(&b, "<li>%s (%s)</li>\n", html.EscapeString(item.DisplayTitle()), item.Type)
		}
		b.WriteString("</ul>\n")
		return b.String(), nil
	default:
		var b strings.Builder
		if err := markdown.Convert([]byte(n.Content), &b); err != nil {
			return "", err
		}
		return b.String(), nil
	}
}
