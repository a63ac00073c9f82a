// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/config"
)

// ErrorText is the fixed message shown in place of a failed response.
const ErrorText = "Sorry, I encountered an error. Please try again."

// =============================================================================
// STREAM MESSAGES
// =============================================================================

// StreamStartMsg announces the server-assigned chat id for this stream.
type StreamStartMsg struct {
	ChatID int64
}

// StreamChunkMsg delivers the next slice of assistant text.
type StreamChunkMsg struct {
	Content string
}

// StreamEndMsg signals normal stream completion.
type StreamEndMsg struct{}

// StreamErrorMsg signals a failed stream (transport, malformed frame,
// or early EOF).
type StreamErrorMsg struct {
	Err error
}

// =============================================================================
// CHAT / HISTORY MESSAGES
// =============================================================================

// ChatLoadedMsg carries the result of an explicit chat load.
type ChatLoadedMsg struct {
	Chat *api.Chat
	Err  error
}

// chatFetchedMsg carries the background fetch used to reconcile the
// sidebar. Chat is nil when the fetch failed; the failure is swallowed.
type chatFetchedMsg struct {
	Chat *api.Chat
}

// RetitledMsg carries the async title generation result. Failures never
// produce this message; the provisional title simply stays.
type RetitledMsg struct {
	ChatID int64
	Title  string
}

// ChatDeletedMsg reports a single-chat delete.
type ChatDeletedMsg struct {
	ID  int64
	Err error
}

// AllChatsDeletedMsg reports a delete-everything.
type AllChatsDeletedMsg struct {
	Err error
}

// RetryResultMsg carries the regenerated assistant response.
type RetryResultMsg struct {
	Content string
	Err     error
}

// ProfileSavedMsg reports a profile update round trip.
type ProfileSavedMsg struct {
	Update api.ProfileUpdate
	Err    error
}

// ExportDoneMsg reports a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ConfigReloadedMsg carries a fresh config after the file changed on
// disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// TICK MESSAGES
// =============================================================================

// PaneDebounceMsg re-checks the message pane scroll position after the
// quiet period.
type PaneDebounceMsg struct {
	At time.Time
}

// WindowDebounceMsg re-checks the window scroll position.
type WindowDebounceMsg struct {
	At time.Time
}
