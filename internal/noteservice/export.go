package noteservice

import (
	"fmt"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/export"
	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/store"
)

// ExportMarkdown renders one note as Markdown.
func (s *Service) ExportMarkdown(id string) (string, error) {
	var out string
	var found bool
	s.store.View(func(d *store.Data) {
		n := d.FindAny(id)
		if n == nil {
			return
		}
		found = true
		out = export.Markdown(n, d.FindAny)
	})
	if !found {
		return "", fmt.Errorf("noteservice: export %s: %w", id, apperr.ErrNotFound)
	}
	return out, nil
}

// ExportJSON renders one note as a flat JSON document.
func (s *Service) ExportJSON(id string) ([]byte, error) {
	n, err := s.GetNote(id)
	if err != nil {
		return nil, err
	}
	return export.JSON(n)
}

// ExportHTML renders one note as a standalone HTML document.
func (s *Service) ExportHTML(id string) ([]byte, error) {
	var out []byte
	var renderErr error
	var found bool
	s.store.View(func(d *store.Data) {
		n := d.FindAny(id)
		if n == nil {
			return
		}
		found = true
		out, renderErr = export.HTML(n, d.FindAny)
	})
	if !found {
		return nil, fmt.Errorf("noteservice: export %s: %w", id, apperr.ErrNotFound)
	}
	return out, renderErr
}

// ExportText renders one note as plain share text.
func (s *Service) ExportText(id string) (string, error) {
	n, err := s.GetNote(id)
	if err != nil {
		return "", err
	}
	return export.ShareText(n), nil
}

// ExportBackup renders the current workspace's full backup document.
func (s *Service) ExportBackup() ([]byte, error) {
	var out []byte
	var err error
	s.store.View(func(d *store.Data) {
		out, err = export.BackupJSON(d.Notes, d.ArchivedNotes)
	})
	return out, err
}

// ImportMarkdown creates a text note from a Markdown document. A leading
// level-one heading becomes the title.
func (s *Service) ImportMarkdown(filename string, data []byte) (*models.Note, error) {
	title, body := export.ParseMarkdown(filename, data)
	n := models.New(models.TypeText, 240, 200)
	n.Title = title
	n.Content = body
	err := s.store.Update(func(d *store.Data) error {
		d.Notes = append(d.Notes, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broker.PublishNote("created", n.ID)
	return clone(n), nil
}
