package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"venturescope-engine/internal/catalog"
	"venturescope-engine/internal/export"
	"venturescope-engine/internal/workspace"
)

type ListsHandler struct {
	Workspace *workspace.Workspace
	Catalog   *catalog.Catalog
}

func (h ListsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Workspace.Lists(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"lists":       lists,
		"active_list": h.Workspace.ActiveList(),
	})
}

func (h ListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if err := h.Workspace.CreateList(r.Context(), req.Name); err != nil {
		writeListError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "name": strings.TrimSpace(req.Name)})
}

// ByPath dispatches everything under /lists/{name}...: membership
// changes, rename, delete, and the two export downloads.
func (h ListsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/lists/")
	name, sub, _ := strings.Cut(rest, "/")
	if name == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_name", "list name missing from path")
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, r, name)
	case sub == "companies" && r.Method == http.MethodPost:
		h.addCompany(w, r, name)
	case strings.HasPrefix(sub, "companies/") && r.Method == http.MethodDelete:
		h.removeCompany(w, r, name, strings.TrimPrefix(sub, "companies/"))
	case sub == "rename" && r.Method == http.MethodPost:
		h.rename(w, r, name)
	case sub == "export.csv" && r.Method == http.MethodGet:
		h.export(w, r, name, "csv")
	case sub == "export.json" && r.Method == http.MethodGet:
		h.export(w, r, name, "json")
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown list operation")
	}
}

func (h ListsHandler) addCompany(w http.ResponseWriter, r *http.Request, name string) {
	var req struct {
		Company string `json:"company"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if err := h.Workspace.AddToList(r.Context(), name, req.Company); err != nil {
		writeListError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h ListsHandler) removeCompany(w http.ResponseWriter, r *http.Request, name, company string) {
	if err := h.Workspace.RemoveFromList(r.Context(), name, company); err != nil {
		writeListError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h ListsHandler) rename(w http.ResponseWriter, r *http.Request, oldName string) {
	var req struct {
		NewName string `json:"new_name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if err := h.Workspace.RenameList(r.Context(), oldName, req.NewName); err != nil {
		writeListError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "active_list": h.Workspace.ActiveList()})
}

// delete requires ?confirm=true; the confirmation dialog lives in the
// UI, the engine only accepts its verdict.
func (h ListsHandler) delete(w http.ResponseWriter, r *http.Request, name string) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	deleted, err := h.Workspace.DeleteList(r.Context(), name, confirmed)
	if err != nil {
		writeListError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"deleted":     deleted,
		"active_list": h.Workspace.ActiveList(),
	})
}

func (h ListsHandler) export(w http.ResponseWriter, r *http.Request, name, format string) {
	lists, err := h.Workspace.Lists(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	names, ok := lists[name]
	if !ok {
		WriteError(w, r, http.StatusNotFound, "list_not_found", "list not found")
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "csv":
		data, err = export.CSV(names, h.Catalog)
		contentType = "text/csv"
	default:
		data, err = export.JSON(names, h.Catalog)
		contentType = "application/json"
	}
	if errors.Is(err, export.ErrEmptyList) {
		WriteError(w, r, http.StatusConflict, "list_empty", "list has no companies to export")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(name, format)+`"`)
	_, _ = w.Write(data)
}

func writeListError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, workspace.ErrEmptyName):
		WriteError(w, r, http.StatusBadRequest, "empty_name", "list name is empty")
	case errors.Is(err, workspace.ErrEmptyCompany):
		WriteError(w, r, http.StatusBadRequest, "empty_company", "company name is empty")
	case errors.Is(err, workspace.ErrListExists):
		WriteError(w, r, http.StatusConflict, "list_exists", "List already exists")
	case errors.Is(err, workspace.ErrAlreadyInList):
		WriteError(w, r, http.StatusConflict, "already_in_list", "Already in list")
	case errors.Is(err, workspace.ErrListNotFound):
		WriteError(w, r, http.StatusNotFound, "list_not_found", "list not found")
	default:
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
	}
}
