package workspace

import "venturescope-engine/internal/enrich"

// Selection identifies the currently viewed company plus a generation
// token. An enrichment response carries the token it was requested
// under; if the user navigated away while the request was in flight,
// the tokens no longer match and the response is dropped instead of
// applied.
type Selection struct {
	Name string `json:"name"`
	Gen  uint64 `json:"gen"`
}

// Select makes the company current. Selecting a different company
// bumps the generation and discards any cached enrichment; re-
// selecting the same company keeps both.
func (w *Workspace) Select(name string) Selection {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selection.Name != name {
		w.selection = Selection{Name: name, Gen: w.selection.Gen + 1}
		w.enrichment = nil
	}
	return w.selection
}

func (w *Workspace) Selected() Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection
}

// AttachEnrichment caches the result for display if the selection is
// unchanged since the request started. Returns false when the result
// is stale and was discarded.
func (w *Workspace) AttachEnrichment(at Selection, res enrich.Result) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selection != at {
		return false
	}
	copied := res
	w.enrichment = &copied
	return true
}

// CurrentEnrichment returns the cached result for the selected
// company, if any. Enrichment results are ephemeral; they never touch
// the store.
func (w *Workspace) CurrentEnrichment() (enrich.Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enrichment == nil {
		return enrich.Result{}, false
	}
	return *w.enrichment, true
}
