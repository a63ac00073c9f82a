// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/sarkar-tui/internal/alert"
	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/config"
	"github.com/morganforge/sarkar-tui/internal/ui/styles"
	"github.com/morganforge/sarkar-tui/internal/viewstate"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

// testBackend is a fake server covering the endpoints the model hits.
type testBackend struct {
	t *testing.T

	getChatCount atomic.Int64
	lastRetry    atomic.Pointer[api.RetryRequest]

	streamChatID int64
	streamChunks []string
	retryContent string
}

func (b *testBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/send_message", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: {\"type\": \"start\", \"chat_id\": %d}\n\n", b.streamChatID)
		for _, c := range b.streamChunks {
			fmt.Fprintf(w, "data: {\"type\": \"chunk\", \"content\": %q}\n\n", c)
		}
		fmt.Fprint(w, "data: {\"type\": \"end\"}\n\n")
	})

	mux.HandleFunc("GET /api/get_chat/", func(w http.ResponseWriter, r *http.Request) {
		b.getChatCount.Add(1)
		id := strings.TrimPrefix(r.URL.Path, "/api/get_chat/")
		fmt.Fprintf(w, `{"chat": {"id": %s, "title": "Test Chat", "messages": [
			{"content": "hi", "is_user": true},
			{"content": "hello there", "is_user": false}
		]}}`, id)
	})

	mux.HandleFunc("POST /api/retitle_chat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title": "Generated Title"}`)
	})

	mux.HandleFunc("POST /api/retry", func(w http.ResponseWriter, r *http.Request) {
		var req api.RetryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.lastRetry.Store(&req)
		fmt.Fprintf(w, `{"ai_message": {"content": %q}}`, b.retryContent)
	})

	mux.HandleFunc("DELETE /api/delete_chat/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("DELETE /api/delete_all_chats", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("POST /api/feedback", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("POST /api/update_profile", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	return mux
}

func newTestModel(t *testing.T, backend *testBackend) *Model {
	t.Helper()
	t.Setenv("SARKAR_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	theme := styles.NewTheme("dark")
	client := api.NewClient(srv.URL, 5*time.Second)
	store := viewstate.NewStore(filepath.Join(t.TempDir(), "session.json"))

	m := New(theme, client, store, cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// drain executes commands until the queue empties, feeding each
// resulting message back through Update. Timer-driven ticks are skipped
// so streaming tests terminate.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not terminate")

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, alert.TickMsg:
			continue
		default:
			_, out := m.Update(msg)
			queue = append(queue, out)
		}
	}
}

// =============================================================================
// SENDING AND STREAMING
// =============================================================================

func TestSendStreamsResponse(t *testing.T) {
	backend := &testBackend{streamChatID: 7, streamChunks: []string{"Hel", "lo"}}
	m := newTestModel(t, backend)

	m.input.SetValue("Hi there")
	drain(t, m, m.send(m.input.Value()))

	assert.False(t, m.Busy())
	assert.Equal(t, int64(7), m.CurrentChatID())
	assert.Equal(t, ViewChat, m.view)

	last := m.transcript.LastAssistant()
	require.NotNil(t, last)
	assert.Equal(t, "Hello", last.Text())
	assert.False(t, last.IsStreaming)

	// The sidebar reconciled the new chat and the async retitle landed.
	assert.True(t, m.sidebar.Contains(7))
	assert.Equal(t, "Generated Title", m.sidebar.ActiveTitle())
}

func TestSendDroppedWhileBusy(t *testing.T) {
	backend := &testBackend{streamChatID: 7}
	m := newTestModel(t, backend)

	m.busy = true
	before := m.transcript.Len()
	cmd := m.send("second message")

	assert.Nil(t, cmd)
	assert.Equal(t, before, m.transcript.Len())
}

func TestSendIgnoresBlankInput(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	assert.Nil(t, m.send("   \n  "))
	assert.True(t, m.transcript.IsEmpty())
	assert.False(t, m.Busy())
}

func TestStreamErrorShowsFixedMessage(t *testing.T) {
	backend := &testBackend{streamChatID: 7}
	m := newTestModel(t, backend)

	m.busy = true
	m.setView(ViewChat)
	m.transcript.AppendUser("hi")
	m.streamID = m.transcript.BeginAssistant().ID

	_, _ = m.handleStreamError(StreamErrorMsg{Err: fmt.Errorf("boom")})

	assert.False(t, m.Busy())
	last := m.transcript.Last()
	require.NotNil(t, last)
	assert.True(t, last.IsError)
	assert.Equal(t, ErrorText, last.Text())
}

func TestStaleChunkIgnored(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.setView(ViewChat)
	m.streamID = "nonexistent"

	before := m.transcript.Len()
	_, _ = m.handleStreamChunk(StreamChunkMsg{Content: "late"})
	assert.Equal(t, before, m.transcript.Len())
}

// =============================================================================
// CHAT LOADING
// =============================================================================

func TestLoadChatPopulatesTranscript(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)

	drain(t, m, m.loadChatCmd(5))

	assert.Equal(t, int64(5), m.CurrentChatID())
	assert.Equal(t, ViewChat, m.view)
	assert.Equal(t, 2, m.transcript.Len())
	assert.True(t, m.transcript.Messages()[0].IsUser)
	assert.Equal(t, "hello there", m.transcript.Messages()[1].Text())
}

func TestLoadChatIdempotent(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)

	drain(t, m, m.loadChatCmd(5))
	drain(t, m, m.loadChatCmd(5))

	assert.Equal(t, int64(1), backend.getChatCount.Load())
}

func TestNewChatReturnsToWelcome(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)
	drain(t, m, m.loadChatCmd(5))

	m.newChat()

	assert.Equal(t, ViewWelcome, m.view)
	assert.True(t, m.transcript.IsEmpty(), "welcome view requires an empty transcript")
	assert.Equal(t, int64(0), m.CurrentChatID())
	assert.Equal(t, int64(0), m.sidebar.ActiveID())
}

func TestNewChatIgnoredWhileBusy(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)
	drain(t, m, m.loadChatCmd(5))

	m.busy = true
	m.newChat()

	assert.Equal(t, ViewChat, m.view)
	assert.Equal(t, int64(5), m.CurrentChatID())
}

func TestDeleteActiveChatReturnsToWelcome(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)
	drain(t, m, m.loadChatCmd(5))

	_, _ = m.handleChatDeleted(ChatDeletedMsg{ID: 5})

	assert.Equal(t, ViewWelcome, m.view)
	assert.True(t, m.transcript.IsEmpty())
	assert.False(t, m.sidebar.Contains(5))
}

func TestDeleteOtherChatKeepsView(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)
	drain(t, m, m.loadChatCmd(5))
	m.sidebar.Ensure(&api.Chat{ID: 9, Title: "Other"})
	m.sidebar.SetActive(5)

	_, _ = m.handleChatDeleted(ChatDeletedMsg{ID: 9})

	assert.Equal(t, ViewChat, m.view)
	assert.Equal(t, int64(5), m.CurrentChatID())
}

// =============================================================================
// RETRY
// =============================================================================

func TestRetryTruncatesAndSendsAnchor(t *testing.T) {
	backend := &testBackend{retryContent: "Better answer"}
	m := newTestModel(t, backend)
	m.setView(ViewChat)
	m.chatID = 7

	m.transcript.AppendUser("A")
	target := m.transcript.AppendAssistant("B")
	m.transcript.AppendAssistant("C")

	drain(t, m, m.retry(target))

	req := backend.lastRetry.Load()
	require.NotNil(t, req)
	assert.Equal(t, "A", req.AnchorUserText)
	assert.Equal(t, int64(7), req.ChatID)
	assert.Equal(t, 2, req.Truncate)

	// B and C are gone, replaced by the regenerated response. The
	// anchor user message stays and is not re-added.
	require.Equal(t, 2, m.transcript.Len())
	assert.Equal(t, "A", m.transcript.Messages()[0].Text())
	assert.Equal(t, "Better answer", m.transcript.Messages()[1].Text())
	assert.False(t, m.Busy())
}

func TestRetryWithoutAnchorIsNoop(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.setView(ViewChat)
	target := m.transcript.AppendAssistant("orphan")

	assert.Nil(t, m.retry(target))
	assert.Equal(t, 1, m.transcript.Len())
	assert.False(t, m.Busy())
}

func TestRetryBlockedWhileBusy(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.setView(ViewChat)
	m.transcript.AppendUser("A")
	target := m.transcript.AppendAssistant("B")
	m.busy = true

	assert.Nil(t, m.retry(target))
	assert.Equal(t, 2, m.transcript.Len())
}

func TestRetryErrorAppendsErrorMessage(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.setView(ViewChat)
	m.transcript.AppendUser("A")
	m.busy = true

	_, _ = m.handleRetryResult(RetryResultMsg{Err: fmt.Errorf("offline")})

	assert.False(t, m.Busy())
	last := m.transcript.Last()
	require.NotNil(t, last)
	assert.True(t, last.IsError)
	assert.Equal(t, ErrorText, last.Text())
}

// =============================================================================
// PANELS
// =============================================================================

func TestPanelsAreExclusive(t *testing.T) {
	m := newTestModel(t, &testBackend{})

	m.togglePanel(PanelHistory)
	assert.Equal(t, PanelHistory, m.panel)

	m.togglePanel(PanelSettings)
	assert.Equal(t, PanelSettings, m.panel)

	m.togglePanel(PanelSettings)
	assert.Equal(t, PanelNone, m.panel)
}

func TestConfirmGuardsDelete(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)
	drain(t, m, m.loadChatCmd(5))

	m.confirm.ShowDeleteChat(5, "Test Chat")
	_, cmd := m.handleConfirmKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.Nil(t, cmd)
	assert.False(t, m.confirm.IsVisible())
	assert.Equal(t, int64(5), m.CurrentChatID())
}

func TestConfirmYesDeletes(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)
	drain(t, m, m.loadChatCmd(5))

	m.confirm.ShowDeleteChat(5, "Test Chat")
	_, cmd := m.handleConfirmKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	drain(t, m, cmd)

	assert.Equal(t, ViewWelcome, m.view)
	assert.False(t, m.sidebar.Contains(5))
}

// =============================================================================
// FEEDBACK AND PROFILE
// =============================================================================

func TestFeedbackTogglesOff(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.setView(ViewChat)
	m.chatID = 7
	m.transcript.AppendUser("q")
	target := m.transcript.AppendAssistant("a")

	_, cmd := m.handleFeedback(true)
	assert.Equal(t, "up", target.Feedback)
	assert.NotNil(t, cmd)

	// Same thumb again clears it and reports nothing.
	_, cmd = m.handleFeedback(true)
	assert.Equal(t, "", target.Feedback)
	assert.Nil(t, cmd)
}

func TestProfileSaveAppliesTheme(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	pref := "light"
	name := "Asha"

	_, _ = m.handleProfileSaved(ProfileSavedMsg{Update: api.ProfileUpdate{
		DisplayName:     &name,
		ThemePreference: &pref,
	}})

	assert.Equal(t, "Asha", m.cfg.UI.DisplayName)
	assert.Equal(t, "light", m.cfg.UI.Theme)
	assert.False(t, m.theme.IsDark)
}

// =============================================================================
// VIEW STATE PERSISTENCE
// =============================================================================

func TestSessionRestoredOnStartup(t *testing.T) {
	backend := &testBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.json")
	store := viewstate.NewStore(path)
	store.SetChatID(5)
	store.SetView(viewstate.ViewChat)

	cfg := config.DefaultConfig()
	m := New(styles.NewTheme("dark"), api.NewClient(srv.URL, 5*time.Second), store, cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, ViewChat, m.view)
	drain(t, m, m.Init())
	assert.Equal(t, int64(5), m.CurrentChatID())
	assert.Equal(t, 2, m.transcript.Len())
}
