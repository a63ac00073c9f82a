// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/sarkar-tui/internal/api"
)

func chatFixture(id int64, title, first string) *api.Chat {
	return &api.Chat{
		ID:    id,
		Title: title,
		Messages: []api.ChatMessage{
			{Content: first, IsUser: true},
		},
	}
}

func TestEnsureAddsNewChatAtFront(t *testing.T) {
	s := New()
	s.Ensure(chatFixture(1, "First", "hello"))
	s.Ensure(chatFixture(2, "Second", "more"))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.True(t, entries[0].Active)
	assert.False(t, entries[1].Active)
}

func TestEnsureExistingChatIsNoOpBesidesActive(t *testing.T) {
	s := New()
	s.Ensure(chatFixture(1, "First", "hello"))
	s.Ensure(chatFixture(2, "Second", "more"))

	s.Ensure(chatFixture(1, "Renamed upstream", "changed"))
	entries := s.Entries()
	require.Len(t, entries, 2)
	// Order and summary are untouched; only the active mark moves.
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, "First", entries[1].Title)
	assert.True(t, entries[1].Active)
	assert.False(t, entries[0].Active)
}

func TestEnsurePreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	s := New()
	s.Ensure(chatFixture(1, "T", long))

	preview := s.Entries()[0].Preview
	assert.Equal(t, strings.Repeat("a", 50)+"...", preview)
}

func TestEnsureDefaults(t *testing.T) {
	s := New()
	s.Ensure(&api.Chat{ID: 5})
	e := s.Entries()[0]
	assert.Equal(t, DefaultTitle, e.Title)
	assert.Equal(t, "New conversation", e.Preview)
}

func TestEnsureNilChat(t *testing.T) {
	s := New()
	s.Ensure(nil)
	assert.True(t, s.IsEmpty())
}

func TestRetitle(t *testing.T) {
	s := New()
	s.Ensure(chatFixture(1, "New Chat", "hello"))

	s.Retitle(1, "Greetings")
	assert.Equal(t, "Greetings", s.Entries()[0].Title)

	// Unknown id and empty title are ignored.
	s.Retitle(99, "nope")
	s.Retitle(1, "")
	assert.Equal(t, "Greetings", s.Entries()[0].Title)
}

func TestRemoveReportsActive(t *testing.T) {
	s := New()
	s.Ensure(chatFixture(1, "A", "a"))
	s.Ensure(chatFixture(2, "B", "b"))

	assert.False(t, s.Remove(1))
	assert.True(t, s.Remove(2))
	assert.True(t, s.IsEmpty())
}

func TestRemoveAll(t *testing.T) {
	s := New()
	s.Ensure(chatFixture(1, "A", "a"))
	s.RemoveAll()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, int64(0), s.ActiveID())
}

func TestSetActive(t *testing.T) {
	s := New()
	s.Ensure(chatFixture(1, "A", "a"))
	s.Ensure(chatFixture(2, "B", "b"))

	s.SetActive(1)
	assert.Equal(t, int64(1), s.ActiveID())

	s.ClearActive()
	assert.Equal(t, int64(0), s.ActiveID())
}
