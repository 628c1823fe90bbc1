package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturescope-engine/internal/catalog"
	"venturescope-engine/internal/config"
	"venturescope-engine/internal/directory"
	"venturescope-engine/internal/enrich"
	"venturescope-engine/internal/events"
	"venturescope-engine/internal/kvstore"
	"venturescope-engine/internal/workspace"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	cat, err := catalog.New([]catalog.Company{
		{ID: 1, Name: "Acme", Industry: "AI", Stage: "Seed", Location: "SF", Website: "https://acme.ai"},
		{ID: 2, Name: "Zenith", Industry: "Fintech", Stage: "Series B", Location: "London, UK", Website: "https://zenith.com"},
	})
	require.NoError(t, err)

	hub := events.NewHub()
	ws := workspace.New(kvstore.NewMemory(), hub)
	require.NoError(t, ws.Bootstrap(context.Background()))

	var cfgVal atomic.Value
	cfg, _ := config.NormalizeAndValidate(config.Config{})
	cfgVal.Store(cfg)

	return NewMux(Deps{
		Workspace:   ws,
		Catalog:     cat,
		Index:       directory.NewIndex(cat),
		Enricher:    enrich.New(enrich.Config{}),
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: "/tmp/config.yml",
		LoadCfg:     func() (config.Config, error) { return cfg, nil },
	})
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e APIError
	decode(t, w, &e)
	return e.Error.Code
}

func TestHealth(t *testing.T) {
	mux := newTestMux(t)
	w := do(t, mux, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListsFlow(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/lists", `{"name":"Pipeline"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, mux, http.MethodPost, "/lists", `{"name":"Pipeline"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "list_exists", errCode(t, w))

	w = do(t, mux, http.MethodPost, "/lists/Pipeline/companies", `{"company":"Acme"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, mux, http.MethodPost, "/lists/Pipeline/companies", `{"company":"Acme"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_in_list", errCode(t, w))

	w = do(t, mux, http.MethodGet, "/lists", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Lists      map[string][]string `json:"lists"`
		ActiveList string              `json:"active_list"`
	}
	decode(t, w, &got)
	assert.Equal(t, "Pipeline", got.ActiveList)
	assert.Equal(t, []string{"Acme"}, got.Lists["Pipeline"])
}

func TestListRename(t *testing.T) {
	mux := newTestMux(t)

	do(t, mux, http.MethodPost, "/lists", `{"name":"Old"}`)
	w := do(t, mux, http.MethodPost, "/lists/Old/rename", `{"new_name":"New"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, mux, http.MethodPost, "/lists/Old/rename", `{"new_name":"Other"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "list_not_found", errCode(t, w))
}

func TestListDeleteNeedsConfirm(t *testing.T) {
	mux := newTestMux(t)
	do(t, mux, http.MethodPost, "/lists", `{"name":"Doomed"}`)

	w := do(t, mux, http.MethodDelete, "/lists/Doomed", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Deleted bool `json:"deleted"`
	}
	decode(t, w, &res)
	assert.False(t, res.Deleted)

	w = do(t, mux, http.MethodDelete, "/lists/Doomed?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.True(t, res.Deleted)
}

func TestListExportCSV(t *testing.T) {
	mux := newTestMux(t)
	do(t, mux, http.MethodPost, "/lists", `{"name":"Out"}`)
	do(t, mux, http.MethodPost, "/lists/Out/companies", `{"company":"Acme"}`)
	do(t, mux, http.MethodPost, "/lists/Out/companies", `{"company":"Zenith"}`)

	w := do(t, mux, http.MethodGet, "/lists/Out/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Out.csv"`, w.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Industry,Stage,Location,Website", lines[0])
	assert.Contains(t, lines[2], `"London, UK"`)
}

func TestListExportEmptyIsConflict(t *testing.T) {
	mux := newTestMux(t)
	do(t, mux, http.MethodPost, "/lists", `{"name":"Bare"}`)

	w := do(t, mux, http.MethodGet, "/lists/Bare/export.json", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "list_empty", errCode(t, w))

	w = do(t, mux, http.MethodGet, "/lists/Nope/export.csv", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompaniesQueryParams(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/companies?industry=AI&sort=name&order=asc&page=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page directory.Page
	decode(t, w, &page)
	require.Len(t, page.Companies, 1)
	assert.Equal(t, "Acme", page.Companies[0].Name)
	assert.Equal(t, 1, page.TotalPages)
}

func TestCompaniesSavedOnly(t *testing.T) {
	mux := newTestMux(t)
	do(t, mux, http.MethodPost, "/saved/toggle", `{"name":"Zenith"}`)

	w := do(t, mux, http.MethodGet, "/companies?saved_only=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page directory.Page
	decode(t, w, &page)
	require.Len(t, page.Companies, 1)
	assert.Equal(t, "Zenith", page.Companies[0].Name)
}

func TestCompaniesFilters(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/companies/filters", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Industries []string `json:"industries"`
		Stages     []string `json:"stages"`
	}
	decode(t, w, &got)
	assert.Equal(t, []string{"AI", "Fintech"}, got.Industries)
	assert.Equal(t, []string{"Seed", "Series B"}, got.Stages)
}

func TestSelectUnknownCompany(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/companies/select", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "company_not_found", errCode(t, w))

	w = do(t, mux, http.MethodPost, "/companies/select", `{"name":"Acme"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var sel workspace.Selection
	decode(t, w, &sel)
	assert.Equal(t, "Acme", sel.Name)
}

func TestSelectionEndpoint(t *testing.T) {
	mux := newTestMux(t)

	do(t, mux, http.MethodPost, "/companies/select", `{"name":"Acme"}`)
	w := do(t, mux, http.MethodGet, "/companies/selection", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Selection  workspace.Selection `json:"selection"`
		Enrichment *enrich.Result      `json:"enrichment"`
	}
	decode(t, w, &got)
	assert.Equal(t, "Acme", got.Selection.Name)
	// Nothing enriched yet.
	assert.Nil(t, got.Enrichment)
}

func TestNotesRoundTrip(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPut, "/notes/Acme", `{"content":"strong team"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, mux, http.MethodGet, "/notes/Acme", "")
	require.Equal(t, http.StatusOK, w.Code)
	var note struct {
		Company string `json:"company"`
		Content string `json:"content"`
	}
	decode(t, w, &note)
	assert.Equal(t, "strong team", note.Content)
}

func TestSavedToggleEndpoint(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/saved/toggle", `{"name":"Acme"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Saved bool `json:"saved"`
	}
	decode(t, w, &res)
	assert.True(t, res.Saved)

	w = do(t, mux, http.MethodPost, "/saved/toggle", `{"name":"Acme"}`)
	decode(t, w, &res)
	assert.False(t, res.Saved)
}

func TestSearchesLifecycle(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/searches",
		`{"search":"ai","industryFilter":"AI","stageFilter":"All","sortBy":"name","sortOrder":"asc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var saved workspace.SavedSearch
	decode(t, w, &saved)
	require.NotZero(t, saved.ID)

	w = do(t, mux, http.MethodPost, "/searches/"+itoa(saved.ID)+"/apply", "")
	require.Equal(t, http.StatusOK, w.Code)
	var act workspace.SearchActivation
	decode(t, w, &act)
	assert.Equal(t, "AI", act.Query.IndustryFilter)
	assert.False(t, act.ShowListView)

	w = do(t, mux, http.MethodDelete, "/searches/"+itoa(saved.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, mux, http.MethodPost, "/searches/"+itoa(saved.ID)+"/apply", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "search_not_found", errCode(t, w))
}

func TestSearchesInvalidID(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodDelete, "/searches/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", errCode(t, w))
}

func TestEnrichRequiresCompanyName(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/enrich", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name_missing", errCode(t, w))
}

func TestInvalidJSONBody(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/lists", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_json", errCode(t, w))
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodDelete, "/companies", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestConfigGet(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cfg config.Config
	decode(t, w, &cfg)
	assert.Equal(t, 38472, cfg.App.Port)
}

func TestConfigTokenNeedsAccount(t *testing.T) {
	mux := newTestMux(t)

	// No keyring account configured; the keychain is never touched.
	w := do(t, mux, http.MethodPut, "/config/token", `{"token":"abc"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_keyring_account", errCode(t, w))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
