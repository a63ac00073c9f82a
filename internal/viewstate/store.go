// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewstate persists the last view position between runs.
//
// All of it is convenience state: which chat was open, which view was
// showing, and the scroll offsets. Every failure is swallowed and reads
// fall back to zero values, so a broken or missing state file can never
// block startup.
package viewstate

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// View names persisted in the state file.
const (
	ViewWelcome = "welcome"
	ViewChat    = "chat"
)

// State is the persisted snapshot.
type State struct {
	LastChatID    int64  `json:"last_chat_id,omitempty"`
	LastView      string `json:"last_view,omitempty"`
	LastMsgScroll int    `json:"last_msg_scroll,omitempty"`
	LastWinScroll int    `json:"last_win_scroll,omitempty"`
}

// Store reads and writes the snapshot file.
type Store struct {
	path string
}

// NewStore creates a store at path (typically <state dir>/session.json).
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored snapshot, or a zero State when the file is
// missing or unreadable.
func (s *Store) Load() State {
	var state State
	data, err := os.ReadFile(s.path)
	if err != nil {
		return State{}
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}
	}
	return state
}

// Save writes the full snapshot. Errors are swallowed.
func (s *Store) Save(state State) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}

// SetChatID persists the active chat id. Zero clears it.
func (s *Store) SetChatID(id int64) {
	state := s.Load()
	state.LastChatID = id
	s.Save(state)
}

// SetView persists the active view name.
func (s *Store) SetView(view string) {
	state := s.Load()
	state.LastView = view
	s.Save(state)
}

// SetScroll persists both scroll offsets.
func (s *Store) SetScroll(msgScroll, winScroll int) {
	state := s.Load()
	state.LastMsgScroll = msgScroll
	state.LastWinScroll = winScroll
	s.Save(state)
}

// Clear removes the snapshot entirely.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}
