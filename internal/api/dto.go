package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/noteservice"
	"github.com/marwold/stickpad/internal/search"
	"github.com/marwold/stickpad/internal/store"
	"github.com/marwold/stickpad/internal/timer"
)

// CreateNoteRequest is the request body for creating a note. X and Y are
// the canvas point the note is centered on.
type CreateNoteRequest struct {
	Type models.Type `json:"type"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

// Validate checks that the requested type is a member of the closed set.
func (r CreateNoteRequest) Validate() error {
	types := make([]any, len(models.AllTypes))
	for i, t := range models.AllTypes {
		types[i] = t
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(types...)),
	)
}

// UpdateNoteRequest is the partial-update request body (aliased from the
// domain layer).
type UpdateNoteRequest = noteservice.NotePatch

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []*models.Note `json:"notes"`
	Total int            `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []search.Result `json:"results"`
}

// WorkspaceResponse reports the current workspace.
type WorkspaceResponse struct {
	Workspace string `json:"workspace"`
}

// SwitchWorkspaceRequest is the request body for a workspace switch.
type SwitchWorkspaceRequest struct {
	Workspace string `json:"workspace"`
}

// Validate checks the target against the fixed workspace set.
func (r SwitchWorkspaceRequest) Validate() error {
	names := make([]any, len(store.Workspaces))
	for i, ws := range store.Workspaces {
		names[i] = ws
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Workspace, validation.Required, validation.In(names...)),
	)
}

// FolderItemRequest names the note a folder operation acts on.
type FolderItemRequest struct {
	NoteID string `json:"noteId"`
}

// Validate requires a note id.
func (r FolderItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NoteID, validation.Required),
	)
}

// TodoItemRequest is the request body for adding a checklist item.
type TodoItemRequest struct {
	Text string `json:"text"`
}

// TodoItemPatch is the request body for changing a checklist item.
type TodoItemPatch struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// TodoProgressResponse reports checklist progress.
type TodoProgressResponse struct {
	Progress string `json:"progress"`
}

// TimerPresetRequest is the request body for switching a timer preset.
type TimerPresetRequest struct {
	Preset  string `json:"preset"`
	Minutes int    `json:"minutes"`
}

// Validate checks the preset name.
func (r TimerPresetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Preset, validation.Required, validation.In(
			models.TimerPomodoro, models.TimerShortBreak, models.TimerLongBreak, models.TimerCustom,
		)),
	)
}

// TimerActionRequest is a detached-widget action delivered over HTTP.
type TimerActionRequest struct {
	Action timer.ActionKind `json:"action"`
}

// Validate checks the action kind.
func (r TimerActionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action, validation.Required, validation.In(
			timer.ActionToggle, timer.ActionComplete, timer.ActionReturn,
		)),
	)
}

// ImportMarkdownRequest is the request body for importing a Markdown
// document as a text note.
type ImportMarkdownRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Validate requires document content.
func (r ImportMarkdownRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}
