package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marwold/stickpad/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD and lifecycle.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Patch("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Post("/notes/{id}/archive", h.ArchiveNote)
	r.Post("/notes/{id}/restore", h.RestoreNote)
	r.Get("/archive", h.ListArchived)

	// Folders.
	r.Get("/folders/{id}/items", h.FolderContents)
	r.Post("/folders/{id}/items", h.AddToFolder)
	r.Delete("/folders/{id}/items/{noteID}", h.RemoveFromFolder)

	// Todo checklists.
	r.Post("/notes/{id}/todos", h.AddTodoItem)
	r.Get("/notes/{id}/todos/progress", h.TodoProgress)
	r.Patch("/notes/{id}/todos/{itemID}", h.UpdateTodoItem)
	r.Post("/notes/{id}/todos/{itemID}/toggle", h.ToggleTodoItem)
	r.Delete("/notes/{id}/todos/{itemID}", h.DeleteTodoItem)

	// Timers.
	r.Post("/notes/{id}/timer/start", h.StartTimer)
	r.Post("/notes/{id}/timer/pause", h.PauseTimer)
	r.Post("/notes/{id}/timer/reset", h.ResetTimer)
	r.Put("/notes/{id}/timer/preset", h.SetTimerPreset)
	r.Post("/notes/{id}/timer/detach", h.DetachTimer)
	r.Post("/notes/{id}/timer/reattach", h.ReattachTimer)
	r.Post("/notes/{id}/timer/action", h.TimerAction)

	// Reminders.
	r.Post("/notes/{id}/reminder/reset", h.ResetReminder)
	r.Post("/notes/{id}/reminder/test", h.TestReminder)

	// Search.
	r.Get("/search", h.Search)

	// Workspace.
	r.Get("/workspace", h.GetWorkspace)
	r.Post("/workspace", h.SwitchWorkspace)

	// Settings.
	r.Get("/config", h.GetConfig)
	r.Put("/config", h.PutConfig)

	// Exports and import.
	r.Get("/export/backup", h.ExportBackup)
	r.Get("/notes/{id}/export/{format}", h.ExportNote)
	r.Post("/import/markdown", h.ImportMarkdown)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
