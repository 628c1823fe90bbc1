package workspace

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"venturescope-engine/internal/directory"
)

// SavedSearch is a persisted snapshot of the directory filter/sort
// configuration. Immutable once created; its id is a millisecond
// timestamp kept strictly monotonic so two rapid saves never collide.
type SavedSearch struct {
	ID             int64  `json:"id"`
	Search         string `json:"search"`
	IndustryFilter string `json:"industryFilter"`
	StageFilter    string `json:"stageFilter"`
	SortBy         string `json:"sortBy"`
	SortOrder      string `json:"sortOrder"`
}

// SearchConfig is the five-field filter/sort state a save captures.
type SearchConfig struct {
	Search         string `json:"search"`
	IndustryFilter string `json:"industryFilter"`
	StageFilter    string `json:"stageFilter"`
	SortBy         string `json:"sortBy"`
	SortOrder      string `json:"sortOrder"`
}

// SearchActivation is what applying a saved search hands back: the
// query the directory should adopt, plus the explicit instruction to
// leave any list view the caller may be showing. The view reset is
// part of the contract, not a side effect buried in a handler.
type SearchActivation struct {
	Query        directory.Query `json:"query"`
	ShowListView bool            `json:"show_list_view"`
}

// Apply is a pure projection; it touches no state.
func (s SavedSearch) Apply() SearchActivation {
	return SearchActivation{
		Query: directory.Query{
			Search:         s.Search,
			IndustryFilter: s.IndustryFilter,
			StageFilter:    s.StageFilter,
			SortBy:         directory.SortKey(s.SortBy),
			SortOrder:      directory.SortOrder(s.SortOrder),
		},
		ShowListView: false,
	}
}

func (w *Workspace) SavedSearches(ctx context.Context) ([]SavedSearch, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadSearches(ctx)
}

// SaveSearch appends a new snapshot and persists the full sequence.
func (w *Workspace) SaveSearch(ctx context.Context, cfg SearchConfig) (SavedSearch, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	searches, err := w.loadSearches(ctx)
	if err != nil {
		return SavedSearch{}, err
	}

	s := SavedSearch{
		ID:             w.nextSearchID(),
		Search:         cfg.Search,
		IndustryFilter: cfg.IndustryFilter,
		StageFilter:    cfg.StageFilter,
		SortBy:         cfg.SortBy,
		SortOrder:      cfg.SortOrder,
	}
	searches = append(searches, s)
	if err := saveJSON(ctx, w.store, keySavedSearches, searches); err != nil {
		return SavedSearch{}, err
	}
	w.publish("search_saved", map[string]any{"id": s.ID})
	return s, nil
}

// RemoveSearch filters the sequence by id. Unknown id is a no-op.
func (w *Workspace) RemoveSearch(ctx context.Context, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	searches, err := w.loadSearches(ctx)
	if err != nil {
		return err
	}

	kept := searches[:0:0]
	for _, s := range searches {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(searches) {
		return nil
	}
	if kept == nil {
		kept = []SavedSearch{}
	}

	if err := saveJSON(ctx, w.store, keySavedSearches, kept); err != nil {
		return err
	}
	w.publish("search_removed", map[string]any{"id": id})
	return nil
}

// FindSearch resolves a saved search by id.
func (w *Workspace) FindSearch(ctx context.Context, id int64) (SavedSearch, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	searches, err := w.loadSearches(ctx)
	if err != nil {
		return SavedSearch{}, false, err
	}
	for _, s := range searches {
		if s.ID == id {
			return s, true, nil
		}
	}
	return SavedSearch{}, false, nil
}

// savedSearchJSON decodes with pointer fields so a record missing any
// of the five required fields is detectable and can be rejected at
// load time, rather than trusting arbitrary stored JSON.
type savedSearchJSON struct {
	ID             *int64  `json:"id"`
	Search         *string `json:"search"`
	IndustryFilter *string `json:"industryFilter"`
	StageFilter    *string `json:"stageFilter"`
	SortBy         *string `json:"sortBy"`
	SortOrder      *string `json:"sortOrder"`
}

func (w *Workspace) loadSearches(ctx context.Context) ([]SavedSearch, error) {
	raw, err := loadJSON(ctx, w.store, keySavedSearches, []json.RawMessage{})
	if err != nil {
		return nil, err
	}

	searches := make([]SavedSearch, 0, len(raw))
	for i, blob := range raw {
		var rec savedSearchJSON
		if err := json.Unmarshal(blob, &rec); err != nil {
			log.Printf("[workspace] dropping unreadable saved search %d: %v", i, err)
			continue
		}
		if rec.ID == nil || rec.Search == nil || rec.IndustryFilter == nil ||
			rec.StageFilter == nil || rec.SortBy == nil || rec.SortOrder == nil {
			log.Printf("[workspace] dropping partially-shaped saved search %d", i)
			continue
		}
		searches = append(searches, SavedSearch{
			ID:             *rec.ID,
			Search:         *rec.Search,
			IndustryFilter: *rec.IndustryFilter,
			StageFilter:    *rec.StageFilter,
			SortBy:         *rec.SortBy,
			SortOrder:      *rec.SortOrder,
		})
	}
	return searches, nil
}

func (w *Workspace) nextSearchID() int64 {
	id := time.Now().UnixMilli()
	if id <= w.lastSearchID {
		id = w.lastSearchID + 1
	}
	w.lastSearchID = id
	return id
}
