package httpapi

import (
	"net/http"
	"strconv"

	"venturescope-engine/internal/catalog"
	"venturescope-engine/internal/directory"
	"venturescope-engine/internal/workspace"
)

type DirectoryHandler struct {
	Index     *directory.Index
	Catalog   *catalog.Catalog
	Workspace *workspace.Workspace
}

// List serves GET /companies. The page parameter is 1-based; the UI
// resets it to 1 whenever a filter or sort input changes.
func (h DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := directory.Query{
		Search:         q.Get("search"),
		IndustryFilter: q.Get("industry"),
		StageFilter:    q.Get("stage"),
		ShowSavedOnly:  q.Get("saved_only") == "true",
		SortBy:         directory.SortKey(q.Get("sort")),
		SortOrder:      directory.SortOrder(q.Get("order")),
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	var saved func(string) bool
	if query.ShowSavedOnly {
		set, err := h.Workspace.SavedSet(r.Context())
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
			return
		}
		saved = func(name string) bool { return set[name] }
	}

	writeJSON(w, h.Index.Run(query, saved, page))
}

// Filters serves GET /companies/filters with the distinct dropdown
// values.
func (h DirectoryHandler) Filters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"industries": h.Catalog.Industries(),
		"stages":     h.Catalog.Stages(),
	})
}

// Select serves POST /companies/select: it records the company the
// user is viewing so late enrichment responses for a previous company
// can be recognized and dropped.
func (h DirectoryHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteError(w, r, http.StatusBadRequest, "name_missing", "Company name missing")
		return
	}
	if _, ok := h.Catalog.FindByName(req.Name); !ok {
		WriteError(w, r, http.StatusNotFound, "company_not_found", "company not in catalog")
		return
	}
	writeJSON(w, h.Workspace.Select(req.Name))
}

// Selection serves GET /companies/selection: the current selection
// plus the cached enrichment for it, if one has been attached. Lets
// the UI restore the detail panel without re-enriching.
func (h DirectoryHandler) Selection(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"selection": h.Workspace.Selected()}
	if res, ok := h.Workspace.CurrentEnrichment(); ok {
		resp["enrichment"] = res
	}
	writeJSON(w, resp)
}
