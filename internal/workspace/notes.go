package workspace

import (
	"context"
	"strings"
)

// Note returns the stored note for the company, or "" when none
// exists.
func (w *Workspace) Note(ctx context.Context, companyName string) (string, error) {
	if strings.TrimSpace(companyName) == "" {
		return "", ErrEmptyCompany
	}
	v, _, err := w.store.Get(ctx, notePrefix+companyName)
	return v, err
}

// SetNote overwrites the note and persists immediately. Last write
// wins; there is no versioning and no merge.
func (w *Workspace) SetNote(ctx context.Context, companyName, content string) error {
	if strings.TrimSpace(companyName) == "" {
		return ErrEmptyCompany
	}
	if err := w.store.Set(ctx, notePrefix+companyName, content); err != nil {
		return err
	}
	w.publish("note_saved", map[string]any{"company": companyName})
	return nil
}
