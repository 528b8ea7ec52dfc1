package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/noteservice"
	"github.com/marwold/stickpad/internal/sse"
	"github.com/marwold/stickpad/internal/testutil"
)

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	broker := sse.NewBroker()
	t.Cleanup(broker.Close)
	svc := noteservice.New(testutil.TestStore(t), broker, testutil.Logger(),
		noteservice.WithTickInterval(10*time.Millisecond))
	t.Cleanup(svc.Close)
	return NewRouter(svc, false, "", broker)
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createNote(t *testing.T, r chi.Router, typ models.Type) models.Note {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/notes", map[string]any{"type": typ, "x": 100, "y": 100})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var n models.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("decode note: %v", err)
	}
	return n
}

func TestCreateAndGetNote(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeText)

	rec := doJSON(t, r, http.MethodGet, "/notes/"+n.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got models.Note
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.ID != n.ID || got.Type != models.TypeText {
		t.Errorf("note = %+v", got)
	}
}

func TestCreateNoteValidation(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/notes", map[string]any{"type": "hologram"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, r, http.MethodPost, "/notes", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", rec.Code)
	}
}

func TestGetNoteNotFound(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/notes/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPatchNote(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeText)

	rec := doJSON(t, r, http.MethodPatch, "/notes/"+n.ID, map[string]any{
		"title":   "Renamed",
		"content": "patched body",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body)
	}
	var got models.Note
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Title != "Renamed" || got.Content != "patched body" {
		t.Errorf("note = %+v", got)
	}
}

func TestDeleteNote(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeText)

	rec := doJSON(t, r, http.MethodDelete, "/notes/"+n.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/notes/"+n.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", rec.Code)
	}
}

func TestArchiveFlow(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeText)

	rec := doJSON(t, r, http.MethodPost, "/notes/"+n.ID+"/archive", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("archive status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/archive", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list archive status = %d", rec.Code)
	}
	var list NoteListResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("archived total = %d", list.Total)
	}

	rec = doJSON(t, r, http.MethodPost, "/notes/"+n.ID+"/restore", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("restore status = %d", rec.Code)
	}
}

func TestFolderRoutes(t *testing.T) {
	r := testRouter(t)
	folder := createNote(t, r, models.TypeFolder)
	note := createNote(t, r, models.TypeText)

	rec := doJSON(t, r, http.MethodPost, "/folders/"+folder.ID+"/items", map[string]string{"noteId": note.ID})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, r, http.MethodGet, "/folders/"+folder.ID+"/items", nil)
	var list NoteListResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Total != 1 || list.Notes[0].ID != note.ID {
		t.Errorf("contents = %+v", list)
	}

	// Self-containment is a conflict.
	rec = doJSON(t, r, http.MethodPost, "/folders/"+folder.ID+"/items", map[string]string{"noteId": folder.ID})
	if rec.Code != http.StatusConflict {
		t.Errorf("cycle status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, r, http.MethodDelete, "/folders/"+folder.ID+"/items/"+note.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", rec.Code)
	}
}

func TestTodoRoutes(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeTodo)

	rec := doJSON(t, r, http.MethodPost, "/notes/"+n.ID+"/todos", map[string]string{"text": "task"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add todo status = %d", rec.Code)
	}
	var got models.Note
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got.TodoItems) != 2 {
		t.Fatalf("items = %d", len(got.TodoItems))
	}
	itemID := got.TodoItems[1].ID

	rec = doJSON(t, r, http.MethodPost, "/notes/"+n.ID+"/todos/"+itemID+"/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/notes/"+n.ID+"/todos/progress", nil)
	var progress TodoProgressResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &progress)
	if progress.Progress != "1/2 (50%)" {
		t.Errorf("progress = %q", progress.Progress)
	}
}

func TestTimerRoutes(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeTimer)

	rec := doJSON(t, r, http.MethodPut, "/notes/"+n.ID+"/timer/preset", map[string]any{"preset": "custom", "minutes": 2})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preset status = %d: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, r, http.MethodPost, "/notes/"+n.ID+"/timer/start", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("start status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodPost, "/notes/"+n.ID+"/timer/pause", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("pause status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPut, "/notes/"+n.ID+"/timer/preset", map[string]any{"preset": "nap"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad preset status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/notes/"+n.ID+"/timer/action", map[string]string{"action": "complete"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("action status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/notes/"+n.ID, nil)
	var got models.Note
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.TimerRemaining != 0 || got.TimerRunning {
		t.Errorf("after complete: %+v", got)
	}
}

func TestSearchRoute(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeText)
	doJSON(t, r, http.MethodPatch, "/notes/"+n.ID, map[string]string{"content": "find the needle here"})

	rec := doJSON(t, r, http.MethodGet, "/search?q=needle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d", rec.Code)
	}
	var res SearchResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if len(res.Results) != 1 {
		t.Fatalf("results = %d", len(res.Results))
	}

	rec = doJSON(t, r, http.MethodGet, "/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d", rec.Code)
	}
}

func TestWorkspaceRoutes(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/workspace", nil)
	var ws WorkspaceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &ws)
	if ws.Workspace != "home" {
		t.Errorf("workspace = %q", ws.Workspace)
	}

	rec = doJSON(t, r, http.MethodPost, "/workspace", map[string]string{"workspace": "work"})
	if rec.Code != http.StatusOK {
		t.Fatalf("switch status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, r, http.MethodPost, "/workspace", map[string]string{"workspace": "moon"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad workspace status = %d", rec.Code)
	}
}

func TestConfigRoutes(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get config status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Alt+Q") {
		t.Errorf("defaults missing: %s", rec.Body)
	}

	rec = doJSON(t, r, http.MethodPut, "/config", map[string]any{
		"hotkeys": map[string]string{"toggleOverlay": "F1"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put config status = %d", rec.Code)
	}
}

func TestExportRoutes(t *testing.T) {
	r := testRouter(t)
	n := createNote(t, r, models.TypeText)
	doJSON(t, r, http.MethodPatch, "/notes/"+n.ID, map[string]string{"title": "Doc", "content": "body"})

	for _, format := range []string{"markdown", "json", "html", "text"} {
		rec := doJSON(t, r, http.MethodGet, fmt.Sprintf("/notes/%s/export/%s", n.ID, format), nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", format, rec.Code)
		}
		if rec.Body.Len() == 0 {
			t.Errorf("%s body empty", format)
		}
	}

	rec := doJSON(t, r, http.MethodGet, "/notes/"+n.ID+"/export/pdf", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/export/backup", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("backup status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"version": "1.0"`) {
		t.Errorf("backup body = %s", rec.Body)
	}
}

func TestImportMarkdownRoute(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/import/markdown", map[string]string{
		"filename": "plan.md",
		"content":  "# The Plan\n\nstep one",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body)
	}
	var n models.Note
	_ = json.Unmarshal(rec.Body.Bytes(), &n)
	if n.Title != "The Plan" {
		t.Errorf("title = %q", n.Title)
	}

	rec = doJSON(t, r, http.MethodPost, "/import/markdown", map[string]string{"filename": "x.md"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty content status = %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	broker := sse.NewBroker()
	t.Cleanup(broker.Close)
	svc := noteservice.New(testutil.TestStore(t), broker, testutil.Logger())
	t.Cleanup(svc.Close)
	r := NewRouter(svc, true, "secret", nil)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token status = %d", rec.Code)
	}
}
