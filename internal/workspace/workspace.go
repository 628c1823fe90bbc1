package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"

	"venturescope-engine/internal/enrich"
	"venturescope-engine/internal/events"
	"venturescope-engine/internal/kvstore"
)

// Reserved store keys. Notes live under a disjoint prefix so a bare
// company name can never collide with one of the reserved keys (or
// with another store's value).
const (
	keyLists          = "vcLists"
	keySavedSearches  = "savedSearches"
	keySavedCompanies = "savedCompanies"
	notePrefix        = "note:"
)

// Validation and conflict errors. These report user mistakes; nothing
// is mutated when one is returned.
var (
	ErrEmptyName     = errors.New("list name is empty")
	ErrEmptyCompany  = errors.New("company name is empty")
	ErrListExists    = errors.New("list already exists")
	ErrListNotFound  = errors.New("list not found")
	ErrAlreadyInList = errors.New("company already in list")
)

// Workspace owns all mutable user state: lists, saved searches,
// notes, starred companies, and the current selection. Every mutation
// re-reads the persisted value, merges, and writes straight through
// to the store, so independent operations never clobber each other
// with a stale snapshot.
//
// The UI drives the engine one action at a time; the mutex only
// serializes the HTTP handlers that deliver those actions.
type Workspace struct {
	mu    sync.Mutex
	store kvstore.Store
	hub   *events.Hub // optional; nil in most tests

	active       string // active list name, "" when none
	selection    Selection
	enrichment   *enrich.Result // ephemeral, cleared on navigation
	lastSearchID int64
}

func New(store kvstore.Store, hub *events.Hub) *Workspace {
	return &Workspace{store: store, hub: hub}
}

// Bootstrap derives the transient state that is not persisted: the
// active-list pointer starts at the first list name, and the saved-
// search id watermark is advanced past everything already stored.
func (w *Workspace) Bootstrap(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.loadLists(ctx)
	if err != nil {
		return err
	}
	if names := sortedKeys(lists); len(names) > 0 {
		w.active = names[0]
	}

	searches, err := w.loadSearches(ctx)
	if err != nil {
		return err
	}
	for _, s := range searches {
		if s.ID > w.lastSearchID {
			w.lastSearchID = s.ID
		}
	}
	return nil
}

func (w *Workspace) publish(typ string, data any) {
	if w.hub == nil {
		return
	}
	w.hub.Publish(events.MakeEvent("", typ, 1, data))
}

// loadJSON decodes one store's persisted blob. A corrupt blob resets
// that store to its zero value and logs a warning; other stores are
// untouched (per-store isolation).
func loadJSON[T any](ctx context.Context, store kvstore.Store, key string, zero T) (T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, nil
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Printf("[workspace] corrupt %s store, resetting: %v", key, err)
		if derr := store.Delete(ctx, key); derr != nil {
			return zero, derr
		}
		return zero, nil
	}
	return v, nil
}

func saveJSON(ctx context.Context, store kvstore.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(b))
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
