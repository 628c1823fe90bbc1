package httpapi

import (
	"errors"
	"net/http"

	"venturescope-engine/internal/enrich"
	"venturescope-engine/internal/events"
	"venturescope-engine/internal/workspace"
)

type EnrichHandler struct {
	Client    *enrich.Client
	Workspace *workspace.Workspace
	Hub       *events.Hub
}

// Enrich serves POST /enrich: 200 with the enrichment payload, 400
// when the company name is missing, 500 on unexpected faults. Fetch
// failures are not faults; they surface as the fallback branch inside
// a 200.
func (h EnrichHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Website string `json:"website"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	// The request rides on whatever the user is looking at now. If
	// the selection moves while the fetch is in flight, the result is
	// returned to this caller but not attached to the workspace.
	at := h.Workspace.Selected()

	res, err := h.Client.Enrich(r.Context(), req.Name, req.Website)
	if errors.Is(err, enrich.ErrMissingName) {
		WriteError(w, r, http.StatusBadRequest, "name_missing", "Company name missing")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "enrichment_failed", "Enrichment failed")
		return
	}

	if at.Name == req.Name && h.Workspace.AttachEnrichment(at, res) {
		reqID := RequestIDFrom(r.Context())
		h.Hub.Publish(events.MakeEvent(reqID, "enrichment_ready", 1, map[string]any{
			"company": req.Name,
			"verdict": res.Verdict,
		}))
	}

	writeJSON(w, res)
}
