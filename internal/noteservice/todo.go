package noteservice

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/store"
)

// AddTodoItem appends an unchecked item to a todo note's checklist.
func (s *Service) AddTodoItem(noteID, text string) (*models.Note, error) {
	return s.updateTodo(noteID, func(n *models.Note) error {
		n.TodoItems = append(n.TodoItems, models.TodoItem{ID: uuid.NewString(), Text: text})
		return nil
	})
}

// UpdateTodoItem changes an item's text, completion state, or both.
func (s *Service) UpdateTodoItem(noteID, itemID string, text *string, completed *bool) (*models.Note, error) {
	return s.updateTodo(noteID, func(n *models.Note) error {
		item := findTodoItem(n, itemID)
		if item == nil {
			return fmt.Errorf("noteservice: todo item %s: %w", itemID, apperr.ErrNotFound)
		}
		if text != nil {
			item.Text = *text
		}
		if completed != nil {
			item.Completed = *completed
		}
		return nil
	})
}

// ToggleTodoItem flips an item's completion state.
func (s *Service) ToggleTodoItem(noteID, itemID string) (*models.Note, error) {
	return s.updateTodo(noteID, func(n *models.Note) error {
		item := findTodoItem(n, itemID)
		if item == nil {
			return fmt.Errorf("noteservice: todo item %s: %w", itemID, apperr.ErrNotFound)
		}
		item.Completed = !item.Completed
		return nil
	})
}

// DeleteTodoItem removes an item from the checklist.
func (s *Service) DeleteTodoItem(noteID, itemID string) (*models.Note, error) {
	return s.updateTodo(noteID, func(n *models.Note) error {
		for i := range n.TodoItems {
			if n.TodoItems[i].ID == itemID {
				n.TodoItems = append(n.TodoItems[:i], n.TodoItems[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("noteservice: todo item %s: %w", itemID, apperr.ErrNotFound)
	})
}

// TodoProgress formats a todo note's checklist progress.
func (s *Service) TodoProgress(noteID string) (string, error) {
	n, err := s.GetNote(noteID)
	if err != nil {
		return "", err
	}
	if n.Type != models.TypeTodo {
		return "", fmt.Errorf("noteservice: progress of %s: %w", noteID, apperr.ErrInvalidType)
	}
	return n.TodoProgress(), nil
}

func (s *Service) updateTodo(noteID string, fn func(n *models.Note) error) (*models.Note, error) {
	var out *models.Note
	err := s.store.Update(func(d *store.Data) error {
		n := d.FindNote(noteID)
		if n == nil {
			return fmt.Errorf("noteservice: note %s: %w", noteID, apperr.ErrNotFound)
		}
		if n.Type != models.TypeTodo {
			return fmt.Errorf("noteservice: note %s: %w", noteID, apperr.ErrInvalidType)
		}
		if err := fn(n); err != nil {
			return err
		}
		out = clone(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broker.PublishNote("updated", noteID)
	return out, nil
}

func findTodoItem(n *models.Note, itemID string) *models.TodoItem {
	for i := range n.TodoItems {
		if n.TodoItems[i].ID == itemID {
			return &n.TodoItems[i]
		}
	}
	return nil
}
