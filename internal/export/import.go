package export

import (
	"path/filepath"
	"strings"
)

// ParseMarkdown splits an imported Markdown document into a title and the
// remaining body. A leading level-one heading becomes the title; otherwise
// the filename without extension is used.
func ParseMarkdown(filename string, data []byte) (title, body string) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if after, ok := strings.CutPrefix(trimmed, "# "); ok {
			title = strings.TrimSpace(after)
			body = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
			return title, body
		}
		break
	}

	base := filepath.Base(filename)
	title = strings.TrimSuffix(base, filepath.Ext(base))
	return title, strings.TrimLeft(text, "\n")
}
