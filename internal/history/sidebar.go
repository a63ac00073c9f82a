// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history maintains the sidebar list of past conversations.
//
// The server is authoritative; the sidebar is a cheap client-side
// mirror that gets reconciled when a new chat appears mid-stream
// instead of refetching the whole list.
package history

import (
	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/util"
)

// PreviewRunes is how much of the first message shows under the title.
const PreviewRunes = 50

// DefaultTitle is used until the server produces a generated title.
const DefaultTitle = "New Chat"

// Entry is one sidebar row.
type Entry struct {
	ID      int64
	Title   string
	Preview string
	Active  bool
}

// Sidebar is the ordered entry list, newest first.
type Sidebar struct {
	entries []Entry
}

// New creates an empty sidebar.
func New() *Sidebar {
	return &Sidebar{}
}

// Entries returns the rows in display order.
func (s *Sidebar) Entries() []Entry {
	return s.entries
}

// IsEmpty reports whether the placeholder should render.
func (s *Sidebar) IsEmpty() bool {
	return len(s.entries) == 0
}

// Contains reports whether the chat already has a row.
func (s *Sidebar) Contains(id int64) bool {
	for _, e := range s.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Ensure reconciles a chat into the sidebar. Existing rows are left in
// place (only re-marked active); a new chat is summarized from its
// fetched content and prepended.
func (s *Sidebar) Ensure(chat *api.Chat) {
	if chat == nil {
		return
	}
	if s.Contains(chat.ID) {
		s.SetActive(chat.ID)
		return
	}

	title := chat.Title
	if title == "" {
		title = DefaultTitle
	}
	preview := "New conversation"
	if len(chat.Messages) > 0 {
		preview = util.TruncateRunes(chat.Messages[0].Content, PreviewRunes)
	}

	s.ClearActive()
	s.entries = append([]Entry{{
		ID:      chat.ID,
		Title:   title,
		Preview: preview,
		Active:  true,
	}}, s.entries...)
}

// SetActive marks the given chat active and clears every other mark.
func (s *Sidebar) SetActive(id int64) {
	for i := range s.entries {
		s.entries[i].Active = s.entries[i].ID == id
	}
}

// ClearActive removes the active mark from every row.
func (s *Sidebar) ClearActive() {
	for i := range s.entries {
		s.entries[i].Active = false
	}
}

// ActiveID returns the active chat id, or 0.
func (s *Sidebar) ActiveID() int64 {
	for _, e := range s.entries {
		if e.Active {
			return e.ID
		}
	}
	return 0
}

// ActiveTitle returns the active chat's title, or "".
func (s *Sidebar) ActiveTitle() string {
	for _, e := range s.entries {
		if e.Active {
			return e.Title
		}
	}
	return ""
}

// Retitle updates a row's title in place, for the async retitle result.
// Unknown ids are ignored; the row may have been deleted meanwhile.
func (s *Sidebar) Retitle(id int64, title string) {
	if title == "" {
		return
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Title = title
			return
		}
	}
}

// Remove deletes a row and reports whether it was the active chat.
func (s *Sidebar) Remove(id int64) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return e.Active
		}
	}
	return false
}

// RemoveAll clears the sidebar back to its placeholder state.
func (s *Sidebar) RemoveAll() {
	s.entries = nil
}
