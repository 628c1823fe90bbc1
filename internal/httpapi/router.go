package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown
// (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	// Directory
	dh := DirectoryHandler{Index: d.Index, Catalog: d.Catalog, Workspace: d.Workspace}
	mux.HandleFunc("/companies", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.List,
	}))
	mux.HandleFunc("/companies/filters", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Filters,
	}))
	mux.HandleFunc("/companies/select", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Select,
	}))
	mux.HandleFunc("/companies/selection", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Selection,
	}))

	// Lists
	lh := ListsHandler{Workspace: d.Workspace, Catalog: d.Catalog}
	mux.HandleFunc("/lists", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  lh.Collection,
		http.MethodPost: lh.Create,
	}))
	mux.HandleFunc("/lists/", lh.ByPath)

	// Notes
	nh := NotesHandler{Workspace: d.Workspace}
	mux.HandleFunc("/notes/", nh.ByPath)

	// Saved companies
	sh := SavedHandler{Workspace: d.Workspace}
	mux.HandleFunc("/saved", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.List,
	}))
	mux.HandleFunc("/saved/toggle", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Toggle,
	}))

	// Saved searches
	srh := SearchesHandler{Workspace: d.Workspace}
	mux.HandleFunc("/searches", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  srh.List,
		http.MethodPost: srh.Save,
	}))
	mux.HandleFunc("/searches/", srh.ByPath)

	// Enrichment
	eh := EnrichHandler{Client: d.Enricher, Workspace: d.Workspace, Hub: d.Hub}
	mux.HandleFunc("/enrich", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: eh.Enrich,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))
	mux.HandleFunc("/config/token", ch.Token)

	// SSE events
	evh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: evh.ServeSSE,
	}))

	// Store maintenance
	dbh := DBHandler{KV: d.KV}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	return mux
}
