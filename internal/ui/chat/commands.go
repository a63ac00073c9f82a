// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/render"
	"github.com/morganforge/sarkar-tui/internal/scroll"
)

// requestTimeout bounds the non-streaming API calls issued from the UI.
const requestTimeout = 30 * time.Second

// =============================================================================
// STREAMING
// =============================================================================

// startStreamCmd launches the send on a goroutine and bridges its
// frames into the Bubble Tea loop through a channel. The returned
// command delivers the first message; every stream handler re-issues
// waitStream to pull the next one.
func (m *Model) startStreamCmd(text string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan tea.Msg, 32)
	m.streamCh = ch
	m.cancelStream = cancel

	chatID := m.chatID
	client := m.client

	go func() {
		defer close(ch)
		err := client.SendMessage(ctx, text, chatID, func(f api.Frame) error {
			switch f.Type {
			case api.FrameStart:
				ch <- StreamStartMsg{ChatID: f.ChatID}
			case api.FrameChunk:
				ch <- StreamChunkMsg{Content: f.Content}
			}
			return nil
		})
		if err != nil {
			ch <- StreamErrorMsg{Err: err}
			return
		}
		ch <- StreamEndMsg{}
	}()

	return waitStream(ch)
}

// waitStream receives the next stream message. A closed channel yields
// nil, which ends the receive loop.
func waitStream(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// loadChatCmd fetches a chat for display. Loading the already-active
// chat is a no-op so repeated history clicks never refetch.
func (m *Model) loadChatCmd(id int64) tea.Cmd {
	if id == m.chatID && !m.transcript.IsEmpty() {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		chat, err := client.GetChat(ctx, id)
		return ChatLoadedMsg{Chat: chat, Err: err}
	}
}

// fetchChatCmd fetches a chat to reconcile the sidebar. Failures are
// swallowed; the sidebar just keeps its provisional entry.
func (m *Model) fetchChatCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		chat, err := client.GetChat(ctx, id)
		if err != nil {
			return chatFetchedMsg{}
		}
		return chatFetchedMsg{Chat: chat}
	}
}

// retitleCmd asks the server for a generated title. Fire and forget:
// errors produce no message at all.
func (m *Model) retitleCmd(chatID int64, firstMessage string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		title, err := client.RetitleChat(ctx, chatID, firstMessage)
		if err != nil || title == "" {
			return nil
		}
		return RetitledMsg{ChatID: chatID, Title: title}
	}
}

func (m *Model) deleteChatCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ChatDeletedMsg{ID: id, Err: client.DeleteChat(ctx, id)}
	}
}

func (m *Model) deleteAllCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return AllChatsDeletedMsg{Err: client.DeleteAllChats(ctx)}
	}
}

func (m *Model) retryCmd(anchor string, truncated int) tea.Cmd {
	client := m.client
	req := api.RetryRequest{
		AnchorUserText: anchor,
		ChatID:         m.chatID,
		Truncate:       truncated,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		content, err := client.Retry(ctx, req)
		return RetryResultMsg{Content: content, Err: err}
	}
}

// feedbackCmd records thumbs up/down. Fire and forget, matching the
// optimistic local toggle.
func (m *Model) feedbackCmd(chatID int64, feedback, content string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_ = client.SendFeedback(ctx, chatID, feedback, content)
		return nil
	}
}

func (m *Model) profileCmd(update api.ProfileUpdate) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ProfileSavedMsg{Update: update, Err: client.UpdateProfile(ctx, update)}
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// exportCmd writes the transcript as standalone HTML next to the
// working directory.
func (m *Model) exportCmd() tea.Cmd {
	tr := m.transcript
	title := m.sidebar.ActiveTitle()
	if title == "" {
		title = "Conversation"
	}
	return func() tea.Msg {
		html, err := render.ExportHTML(tr, title)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		name := "sarkar-chat-" + time.Now().Format("20060102-150405") + ".html"
		path := filepath.Join(".", name)
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// =============================================================================
// DEBOUNCE TICKS
// =============================================================================

func (m *Model) paneDebounceCmd() tea.Cmd {
	return tea.Tick(scroll.PaneDebounce, func(t time.Time) tea.Msg {
		return PaneDebounceMsg{At: t}
	})
}

func (m *Model) windowDebounceCmd() tea.Cmd {
	return tea.Tick(scroll.WindowDebounce, func(t time.Time) tea.Msg {
		return WindowDebounceMsg{At: t}
	})
}
