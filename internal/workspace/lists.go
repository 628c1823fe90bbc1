package workspace

import (
	"context"
	"strings"
)

// ListCollection maps list name to the ordered company-name
// references it holds. The whole mapping round-trips through the
// store under one reserved key.
type ListCollection map[string][]string

// Lists returns the current persisted collection.
func (w *Workspace) Lists(ctx context.Context) (ListCollection, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadLists(ctx)
}

// ActiveList is the current target of "add to list" actions, or ""
// when no list exists.
func (w *Workspace) ActiveList() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Workspace) SetActiveList(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = name
}

// CreateList inserts an empty list and makes it active. Name
// collisions are case-sensitive exact-string checks.
func (w *Workspace) CreateList(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.loadLists(ctx)
	if err != nil {
		return err
	}
	if _, exists := lists[name]; exists {
		return ErrListExists
	}

	lists[name] = []string{}
	if err := w.saveLists(ctx, lists); err != nil {
		return err
	}
	w.active = name
	w.publish("list_created", map[string]any{"name": name})
	return nil
}

// AddToList appends a company reference, preserving insertion order.
// A company appears at most once per list; a duplicate add is a
// rejected no-op. Adding to a list that does not exist creates it.
func (w *Workspace) AddToList(ctx context.Context, listName, companyName string) error {
	if strings.TrimSpace(listName) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(companyName) == "" {
		return ErrEmptyCompany
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.loadLists(ctx)
	if err != nil {
		return err
	}

	entries := lists[listName]
	for _, n := range entries {
		if n == companyName {
			return ErrAlreadyInList
		}
	}

	lists[listName] = append(entries, companyName)
	if err := w.saveLists(ctx, lists); err != nil {
		return err
	}
	w.publish("list_updated", map[string]any{"name": listName, "added": companyName})
	return nil
}

// RemoveFromList drops the (only) occurrence of the company. Absent
// company or absent list is a silent no-op.
func (w *Workspace) RemoveFromList(ctx context.Context, listName, companyName string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.loadLists(ctx)
	if err != nil {
		return err
	}

	entries, ok := lists[listName]
	if !ok {
		return nil
	}

	kept := entries[:0:0]
	removed := false
	for _, n := range entries {
		if n == companyName && !removed {
			removed = true
			continue
		}
		kept = append(kept, n)
	}
	if !removed {
		return nil
	}
	if kept == nil {
		kept = []string{}
	}

	lists[listName] = kept
	if err := w.saveLists(ctx, lists); err != nil {
		return err
	}
	w.publish("list_updated", map[string]any{"name": listName, "removed": companyName})
	return nil
}

// RenameList moves the entries to the new key and retargets the
// active pointer if it referenced the old name.
func (w *Workspace) RenameList(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.loadLists(ctx)
	if err != nil {
		return err
	}

	entries, ok := lists[oldName]
	if !ok {
		return ErrListNotFound
	}
	if _, exists := lists[newName]; exists {
		return ErrListExists
	}

	lists[newName] = entries
	delete(lists, oldName)
	if err := w.saveLists(ctx, lists); err != nil {
		return err
	}
	if w.active == oldName {
		w.active = newName
	}
	w.publish("list_renamed", map[string]any{"old": oldName, "new": newName})
	return nil
}

// DeleteList removes the list once the caller has confirmed. With
// confirmed=false nothing happens. When the deleted list was active,
// the pointer falls back to the first remaining name or to "".
func (w *Workspace) DeleteList(ctx context.Context, name string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.loadLists(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := lists[name]; !ok {
		return false, ErrListNotFound
	}

	delete(lists, name)
	if err := w.saveLists(ctx, lists); err != nil {
		return false, err
	}

	if w.active == name {
		w.active = ""
		if names := sortedKeys(lists); len(names) > 0 {
			w.active = names[0]
		}
	}
	w.publish("list_deleted", map[string]any{"name": name})
	return true, nil
}

func (w *Workspace) loadLists(ctx context.Context) (ListCollection, error) {
	lists, err := loadJSON(ctx, w.store, keyLists, ListCollection{})
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = ListCollection{}
	}
	return lists, nil
}

func (w *Workspace) saveLists(ctx context.Context, lists ListCollection) error {
	return saveJSON(ctx, w.store, keyLists, lists)
}
