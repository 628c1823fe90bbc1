package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"venturescope-engine/internal/workspace"
)

type NotesHandler struct {
	Workspace *workspace.Workspace
}

// ByPath serves GET and PUT /notes/{company}.
func (h NotesHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	company := strings.TrimPrefix(r.URL.Path, "/notes/")
	if company == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_company", "company name missing from path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		content, err := h.Workspace.Note(r.Context(), company)
		if err != nil {
			writeWorkspaceError(w, r, err)
			return
		}
		writeJSON(w, map[string]string{"company": company, "content": content})
	case http.MethodPut:
		var req struct {
			Content string `json:"content"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if err := h.Workspace.SetNote(r.Context(), company, req.Content); err != nil {
			writeWorkspaceError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type SavedHandler struct {
	Workspace *workspace.Workspace
}

func (h SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.Workspace.SavedCompanies(r.Context())
	if err != nil {
		writeWorkspaceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"companies": names})
}

func (h SavedHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	saved, err := h.Workspace.ToggleSaved(r.Context(), req.Name)
	if err != nil {
		writeWorkspaceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"company": req.Name, "saved": saved})
}

type SearchesHandler struct {
	Workspace *workspace.Workspace
}

func (h SearchesHandler) List(w http.ResponseWriter, r *http.Request) {
	searches, err := h.Workspace.SavedSearches(r.Context())
	if err != nil {
		writeWorkspaceError(w, r, err)
		return
	}
	writeJSON(w, searches)
}

func (h SearchesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var cfg workspace.SearchConfig
	if !readJSON(w, r, &cfg) {
		return
	}
	s, err := h.Workspace.SaveSearch(r.Context(), cfg)
	if err != nil {
		writeWorkspaceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// ByPath serves DELETE /searches/{id} and POST /searches/{id}/apply.
func (h SearchesHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/searches/")
	idStr, sub, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid saved search id")
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodDelete:
		if err := h.Workspace.RemoveSearch(r.Context(), id); err != nil {
			writeWorkspaceError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "id": id})
	case sub == "apply" && r.Method == http.MethodPost:
		s, ok, err := h.Workspace.FindSearch(r.Context(), id)
		if err != nil {
			writeWorkspaceError(w, r, err)
			return
		}
		if !ok {
			WriteError(w, r, http.StatusNotFound, "search_not_found", "saved search not found")
			return
		}
		// The activation tells the caller to adopt these filters and
		// leave any list view it was showing.
		writeJSON(w, s.Apply())
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown search operation")
	}
}

func writeWorkspaceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, workspace.ErrEmptyCompany) {
		WriteError(w, r, http.StatusBadRequest, "empty_company", "company name is empty")
		return
	}
	WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
}
