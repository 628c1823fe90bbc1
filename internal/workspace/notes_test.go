package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRoundTrip(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t)

	note, err := w.Note(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "", note)

	require.NoError(t, w.SetNote(ctx, "Acme", "met the founder at a demo day"))
	note, err = w.Note(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "met the founder at a demo day", note)

	// Last write wins, including clearing.
	require.NoError(t, w.SetNote(ctx, "Acme", ""))
	note, err = w.Note(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "", note)
}

func TestNoteRejectsEmptyCompany(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t)

	_, err := w.Note(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyCompany)
	assert.ErrorIs(t, w.SetNote(ctx, "", "x"), ErrEmptyCompany)
}

func TestNoteKeysDoNotCollideWithReservedStores(t *testing.T) {
	ctx := context.Background()
	w, mem := newTestWorkspace(t)

	// A company literally named like a reserved key must store its note
	// under the prefixed key, leaving the reserved key alone.
	require.NoError(t, w.SetNote(ctx, "vcLists", "tricky"))

	_, ok, err := mem.Get(ctx, "vcLists")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := mem.Get(ctx, "note:vcLists")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tricky", got)
}
