package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/noteservice"
	"github.com/marwold/stickpad/internal/search"
	"github.com/marwold/stickpad/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// respondErr maps domain errors to HTTP statuses.
func respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidType), errors.Is(err, apperr.ErrNotFolder):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrCycle), errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes := h.svc.ListNotes()
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// ListArchived handles GET /api/archive.
func (h *Handler) ListArchived(w http.ResponseWriter, r *http.Request) {
	notes := h.svc.ListArchived()
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	n, err := h.svc.CreateNote(req.Type, req.X, req.Y)
	if err != nil {
		respondErr(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.GetNote(noteID(r))
	if err != nil {
		respondErr(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// UpdateNote handles PATCH /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.svc.UpdateNote(noteID(r), req)
	if err != nil {
		respondErr(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(noteID(r)); err != nil {
		respondErr(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveNote handles POST /api/notes/{id}/archive.
func (h *Handler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Archive(noteID(r)); err != nil {
		respondErr(w, "archive note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreNote handles POST /api/notes/{id}/restore.
func (h *Handler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Restore(noteID(r)); err != nil {
		respondErr(w, "restore note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddToFolder handles POST /api/folders/{id}/items.
func (h *Handler) AddToFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderItemRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.AddToFolder(noteID(r), req.NoteID); err != nil {
		respondErr(w, "add to folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFromFolder handles DELETE /api/folders/{id}/items/{noteID}.
func (h *Handler) RemoveFromFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveFromFolder(noteID(r), chi.URLParam(r, "noteID")); err != nil {
		respondErr(w, "remove from folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FolderContents handles GET /api/folders/{id}/items.
func (h *Handler) FolderContents(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.FolderContents(noteID(r))
	if err != nil {
		respondErr(w, "folder contents", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// AddTodoItem handles POST /api/notes/{id}/todos.
func (h *Handler) AddTodoItem(w http.ResponseWriter, r *http.Request) {
	var req TodoItemRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.svc.AddTodoItem(noteID(r), req.Text)
	if err != nil {
		respondErr(w, "add todo item", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// UpdateTodoItem handles PATCH /api/notes/{id}/todos/{itemID}.
func (h *Handler) UpdateTodoItem(w http.ResponseWriter, r *http.Request) {
	var req TodoItemPatch
	if !decode(w, r, &req) {
		return
	}
	n, err := h.svc.UpdateTodoItem(noteID(r), chi.URLParam(r, "itemID"), req.Text, req.Completed)
	if err != nil {
		respondErr(w, "update todo item", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// ToggleTodoItem handles POST /api/notes/{id}/todos/{itemID}/toggle.
func (h *Handler) ToggleTodoItem(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ToggleTodoItem(noteID(r), chi.URLParam(r, "itemID"))
	if err != nil {
		respondErr(w, "toggle todo item", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteTodoItem handles DELETE /api/notes/{id}/todos/{itemID}.
func (h *Handler) DeleteTodoItem(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteTodoItem(noteID(r), chi.URLParam(r, "itemID"))
	if err != nil {
		respondErr(w, "delete todo item", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// TodoProgress handles GET /api/notes/{id}/todos/progress.
func (h *Handler) TodoProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.svc.TodoProgress(noteID(r))
	if err != nil {
		respondErr(w, "todo progress", err)
		return
	}
	writeJSON(w, http.StatusOK, TodoProgressResponse{Progress: progress})
}

// StartTimer handles POST /api/notes/{id}/timer/start.
func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StartTimer(noteID(r)); err != nil {
		respondErr(w, "start timer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PauseTimer handles POST /api/notes/{id}/timer/pause.
func (h *Handler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.PauseTimer(noteID(r)); err != nil {
		respondErr(w, "pause timer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetTimer handles POST /api/notes/{id}/timer/reset.
func (h *Handler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetTimer(noteID(r)); err != nil {
		respondErr(w, "reset timer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTimerPreset handles PUT /api/notes/{id}/timer/preset.
func (h *Handler) SetTimerPreset(w http.ResponseWriter, r *http.Request) {
	var req TimerPresetRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.SetTimerPreset(noteID(r), req.Preset, req.Minutes); err != nil {
		respondErr(w, "set timer preset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DetachTimer handles POST /api/notes/{id}/timer/detach.
func (h *Handler) DetachTimer(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DetachTimer(noteID(r)); err != nil {
		respondErr(w, "detach timer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReattachTimer handles POST /api/notes/{id}/timer/reattach.
func (h *Handler) ReattachTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ReattachTimer(noteID(r)); err != nil {
		respondErr(w, "reattach timer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TimerAction handles POST /api/notes/{id}/timer/action.
func (h *Handler) TimerAction(w http.ResponseWriter, r *http.Request) {
	var req TimerActionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.ApplyTimerAction(noteID(r), req.Action); err != nil {
		respondErr(w, "timer action", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetReminder handles POST /api/notes/{id}/reminder/reset.
func (h *Handler) ResetReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetReminder(noteID(r)); err != nil {
		respondErr(w, "reset reminder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TestReminder handles POST /api/notes/{id}/reminder/test.
func (h *Handler) TestReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.FireReminder(noteID(r)); err != nil {
		respondErr(w, "test reminder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	opts := search.DefaultOptions()
	if v := q.Get("archived"); v != "" {
		opts.IncludeArchived, _ = strconv.ParseBool(v)
	}
	if v := q.Get("titles"); v != "" {
		opts.Titles, _ = strconv.ParseBool(v)
	}
	if v := q.Get("content"); v != "" {
		opts.Content, _ = strconv.ParseBool(v)
	}
	if v := q.Get("tags"); v != "" {
		opts.Tags, _ = strconv.ParseBool(v)
	}
	results := h.svc.Search(query, opts)
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// GetWorkspace handles GET /api/workspace.
func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WorkspaceResponse{Workspace: h.svc.CurrentWorkspace()})
}

// SwitchWorkspace handles POST /api/workspace.
func (h *Handler) SwitchWorkspace(w http.ResponseWriter, r *http.Request) {
	var req SwitchWorkspaceRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.SwitchWorkspace(req.Workspace); err != nil {
		respondErr(w, "switch workspace", err)
		return
	}
	writeJSON(w, http.StatusOK, WorkspaceResponse{Workspace: req.Workspace})
}

// GetConfig handles GET /api/config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.AppConfig())
}

// PutConfig handles PUT /api/config.
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg store.AppConfig
	if !decode(w, r, &cfg) {
		return
	}
	if err := h.svc.SaveAppConfig(cfg); err != nil {
		respondErr(w, "save config", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ExportBackup handles GET /api/export/backup.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	raw, err := h.svc.ExportBackup()
	if err != nil {
		respondErr(w, "export backup", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="stickpad-backup.json"`)
	w.Write(raw)
}

// ExportNote handles GET /api/notes/{id}/export/{format}.
func (h *Handler) ExportNote(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	switch chi.URLParam(r, "format") {
	case "markdown":
		out, err := h.svc.ExportMarkdown(id)
		if err != nil {
			respondErr(w, "export note", err)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(out))
	case "json":
		out, err := h.svc.ExportJSON(id)
		if err != nil {
			respondErr(w, "export note", err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(out)
	case "html":
		out, err := h.svc.ExportHTML(id)
		if err != nil {
			respondErr(w, "export note", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(out)
	case "text":
		out, err := h.svc.ExportText(id)
		if err != nil {
			respondErr(w, "export note", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(out))
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown export format"))
	}
}

// ImportMarkdown handles POST /api/import/markdown.
func (h *Handler) ImportMarkdown(w http.ResponseWriter, r *http.Request) {
	var req ImportMarkdownRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	n, err := h.svc.ImportMarkdown(req.Filename, []byte(req.Content))
	if err != nil {
		respondErr(w, "import markdown", err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}
