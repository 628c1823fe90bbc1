package workspace

import (
	"context"
	"strings"
)

// SavedCompanies returns the starred names in the order they were
// starred.
func (w *Workspace) SavedCompanies(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadSaved(ctx)
}

// SavedSet returns starred names as a membership set, the shape the
// directory's saved-only predicate wants.
func (w *Workspace) SavedSet(ctx context.Context) (map[string]bool, error) {
	w.mu.Lock()
	names, err := w.loadSaved(ctx)
	w.mu.Unlock()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

// ToggleSaved stars or unstars a company and reports the new state.
func (w *Workspace) ToggleSaved(ctx context.Context, companyName string) (bool, error) {
	if strings.TrimSpace(companyName) == "" {
		return false, ErrEmptyCompany
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	names, err := w.loadSaved(ctx)
	if err != nil {
		return false, err
	}

	kept := names[:0:0]
	found := false
	for _, n := range names {
		if n == companyName {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		kept = append(kept, companyName)
	}
	if kept == nil {
		kept = []string{}
	}

	if err := saveJSON(ctx, w.store, keySavedCompanies, kept); err != nil {
		return false, err
	}
	w.publish("saved_toggled", map[string]any{"company": companyName, "saved": !found})
	return !found, nil
}

func (w *Workspace) loadSaved(ctx context.Context) ([]string, error) {
	return loadJSON(ctx, w.store, keySavedCompanies, []string{})
}
