// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat view: sending, streaming,
// history, retry and the settings panel.
package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sarkar-tui/internal/alert"
	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/config"
	"github.com/morganforge/sarkar-tui/internal/history"
	"github.com/morganforge/sarkar-tui/internal/render"
	"github.com/morganforge/sarkar-tui/internal/scroll"
	"github.com/morganforge/sarkar-tui/internal/transcript"
	"github.com/morganforge/sarkar-tui/internal/ui/components"
	"github.com/morganforge/sarkar-tui/internal/ui/styles"
	"github.com/morganforge/sarkar-tui/internal/viewstate"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// ViewMode is which main view is showing.
type ViewMode int

const (
	// ViewWelcome is the empty state. The transcript is always empty
	// in this mode.
	ViewWelcome ViewMode = iota
	// ViewChat shows the conversation.
	ViewChat
)

// Panel is the exclusive side panel state. At most one panel can be
// open; the type makes two-open unrepresentable.
type Panel int

const (
	PanelNone Panel = iota
	PanelHistory
	PanelSettings
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole chat UI.
type Model struct {
	theme  *styles.Theme
	client *api.Client
	store  *viewstate.Store
	cfg    *config.Config

	// State
	view   ViewMode
	panel  Panel
	busy   bool
	chatID int64

	// Conversation
	transcript    *transcript.Transcript
	sidebar       *history.Sidebar
	renderer      *render.Renderer
	historyCursor int

	// Streaming
	streamID     string
	streamCh     chan tea.Msg
	cancelStream func()

	// Scroll
	pane *scroll.Controller
	win  *scroll.Controller
	// pendingScroll restores a persisted offset after the next load.
	pendingScroll int

	// Components
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	toasts   *alert.Manager
	welcome  components.Welcome
	status   components.StatusBar
	confirm  components.ConfirmModal
	settings components.Settings

	width  int
	height int
}

// New creates the chat model and restores the persisted view state.
func New(theme *styles.Theme, client *api.Client, store *viewstate.Store, cfg *config.Config) *Model {
	input := textinput.New()
	input.Placeholder = "Message SARKAR AI..."
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	welcome := components.NewWelcome(theme)
	welcome.SetDisplayName(cfg.UI.DisplayName)
	welcome.SetServerURL(client.BaseURL())

	m := &Model{
		theme:         theme,
		client:        client,
		store:         store,
		cfg:           cfg,
		view:          ViewWelcome,
		panel:         PanelNone,
		transcript:    transcript.New(),
		sidebar:       history.New(),
		renderer:      render.NewRenderer(80, cfg.UI.Markdown),
		pane:          scroll.NewPaneController(),
		win:           scroll.NewWindowController(),
		pendingScroll: -1,
		viewport:      viewport.New(80, 20),
		input:         input,
		spin:          spin,
		toasts:        alert.NewManager(),
		welcome:       welcome,
		status:        components.NewStatusBar(theme),
		confirm:       components.NewConfirmModal(theme),
		settings:      components.NewSettings(theme, cfg.UI.DisplayName, cfg.UI.Theme),
	}

	// Restore the last session so returning users land where they left
	// off instead of flashing through the welcome screen.
	if state := store.Load(); state.LastView == viewstate.ViewChat && state.LastChatID != 0 {
		m.view = ViewChat
		m.pendingScroll = state.LastMsgScroll
	}

	return m
}

// Init starts blinking and, when a previous session was restored,
// loads its chat.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if state := m.store.Load(); m.view == ViewChat && state.LastChatID != 0 {
		cmds = append(cmds, m.loadChatCmd(state.LastChatID))
	}
	return tea.Batch(cmds...)
}

// CurrentChatID returns the active server chat id, 0 when none.
func (m *Model) CurrentChatID() int64 {
	return m.chatID
}

// Busy reports whether a send or retry is in flight.
func (m *Model) Busy() bool {
	return m.busy
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)
	case StreamChunkMsg:
		return m.handleStreamChunk(msg)
	case StreamEndMsg:
		return m.handleStreamEnd()
	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case ChatLoadedMsg:
		return m.handleChatLoaded(msg)
	case chatFetchedMsg:
		m.sidebar.Ensure(msg.Chat)
		return m, nil
	case RetitledMsg:
		m.sidebar.Retitle(msg.ChatID, msg.Title)
		return m, nil
	case ChatDeletedMsg:
		return m.handleChatDeleted(msg)
	case AllChatsDeletedMsg:
		return m.handleAllChatsDeleted(msg)
	case RetryResultMsg:
		return m.handleRetryResult(msg)
	case ProfileSavedMsg:
		return m.handleProfileSaved(msg)
	case ExportDoneMsg:
		if msg.Err != nil {
			m.toasts.Error("Export failed: " + msg.Err.Error())
		} else {
			m.toasts.Success("Exported to " + msg.Path)
		}
		return m, alert.TickCmd()

	case PaneDebounceMsg:
		m.pane.DebounceCheck(m.viewport.YOffset, m.viewport.Height, m.viewport.TotalLineCount(), msg.At)
		m.persistScroll()
		return m, nil
	case WindowDebounceMsg:
		m.win.DebounceCheck(m.win.Offset(), m.viewport.Height, m.viewport.TotalLineCount(), msg.At)
		return m, nil

	case ConfigReloadedMsg:
		m.cfg.UI = msg.Config.UI
		*m.theme = *styles.NewTheme(m.cfg.UI.Theme)
		m.welcome.SetDisplayName(m.cfg.UI.DisplayName)
		m.renderer.SetMarkdown(m.cfg.UI.Markdown)
		m.refreshViewport()
		return m, nil

	case alert.TickMsg:
		m.toasts.Expire(msg.Time)
		if m.toasts.HasToasts() {
			return m, alert.TickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.welcome.SetSize(msg.Width, msg.Height)

	contentWidth := msg.Width
	if m.panel == PanelHistory {
		contentWidth -= sidebarWidth
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = msg.Height - chromeHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = contentWidth - 6
	m.renderer.SetWidth(contentWidth - 2)
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view != ViewChat {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.observePane()
	return m, tea.Batch(cmd, m.paneDebounceCmd(), m.windowObserve())
}

// =============================================================================
// SENDING
// =============================================================================

// send starts a message send. While one is in flight further sends are
// dropped, not queued.
func (m *Model) send(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" || m.busy {
		return nil
	}

	m.busy = true
	m.input.SetValue("")
	m.setView(ViewChat)

	m.transcript.AppendUser(text)
	placeholder := m.transcript.BeginAssistant()
	m.streamID = placeholder.ID

	m.pane.ForceBottom()
	m.win.ForceBottom()
	m.refreshViewport()

	return tea.Batch(m.startStreamCmd(text), m.spin.Tick)
}

func (m *Model) handleStreamStart(msg StreamStartMsg) (tea.Model, tea.Cmd) {
	wasNew := m.chatID == 0
	m.chatID = msg.ChatID
	m.store.SetChatID(msg.ChatID)

	cmds := []tea.Cmd{waitStream(m.streamCh)}

	// Reconcile the sidebar without refetching the whole list.
	if m.sidebar.Contains(msg.ChatID) {
		m.sidebar.SetActive(msg.ChatID)
	} else {
		cmds = append(cmds, m.fetchChatCmd(msg.ChatID))
	}

	// A brand-new chat gets its title generated in the background.
	// The result updates the sidebar whenever (or if ever) it lands.
	if wasNew {
		if anchor, ok := m.firstUserText(); ok {
			cmds = append(cmds, m.retitleCmd(msg.ChatID, anchor))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleStreamChunk(msg StreamChunkMsg) (tea.Model, tea.Cmd) {
	if m.streamID == "" || !m.transcript.AppendChunk(m.streamID, msg.Content) {
		// Stale stream; keep draining so the goroutine can finish.
		return m, waitStream(m.streamCh)
	}
	m.refreshViewport()
	return m, waitStream(m.streamCh)
}

func (m *Model) handleStreamEnd() (tea.Model, tea.Cmd) {
	m.transcript.Finalize(m.streamID)
	m.finishStream()
	m.refreshViewport()
	return m, textinput.Blink
}

func (m *Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if m.streamID != "" {
		m.transcript.Fail(m.streamID, ErrorText)
	}
	m.finishStream()
	m.refreshViewport()
	return m, textinput.Blink
}

// finishStream clears streaming state and refocuses input. Every exit
// path from a stream funnels through here so the busy flag can never
// stay stuck.
func (m *Model) finishStream() {
	m.streamID = ""
	m.busy = false
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.streamCh = nil
	m.input.Focus()
}

func (m *Model) firstUserText() (string, bool) {
	for _, msg := range m.transcript.Messages() {
		if msg.IsUser {
			return msg.Text(), true
		}
	}
	return "", false
}

// =============================================================================
// CHAT LOADING AND LIFECYCLE
// =============================================================================

func (m *Model) handleChatLoaded(msg ChatLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.Error("Could not load chat: " + msg.Err.Error())
		return m, alert.TickCmd()
	}

	chat := msg.Chat
	m.chatID = chat.ID
	m.store.SetChatID(chat.ID)
	m.view = ViewChat
	m.store.SetView(viewstate.ViewChat)
	m.panel = PanelNone

	m.transcript.Clear()
	for _, cm := range chat.Messages {
		if cm.IsUser {
			m.transcript.AppendUser(cm.Content)
		} else {
			m.transcript.AppendAssistant(cm.Content)
		}
	}
	m.sidebar.Ensure(chat)

	m.refreshViewport()
	if m.pendingScroll >= 0 {
		m.viewport.SetYOffset(m.pendingScroll)
		m.pendingScroll = -1
	} else {
		m.viewport.GotoBottom()
	}
	return m, nil
}

// newChat returns to the welcome state. The transcript is cleared to
// hold the welcome-mode invariant.
func (m *Model) newChat() {
	if m.busy {
		return
	}
	m.chatID = 0
	m.store.SetChatID(0)
	m.transcript.Clear()
	m.setView(ViewWelcome)
	m.sidebar.ClearActive()
	m.pane.Reset()
	m.win.Reset()
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) setView(v ViewMode) {
	m.view = v
	switch v {
	case ViewWelcome:
		m.transcript.Clear()
		m.store.SetView(viewstate.ViewWelcome)
	case ViewChat:
		m.store.SetView(viewstate.ViewChat)
	}
}

func (m *Model) handleChatDeleted(msg ChatDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.Error("Could not delete chat: " + msg.Err.Error())
		return m, alert.TickCmd()
	}
	wasActive := m.sidebar.Remove(msg.ID)
	if wasActive || msg.ID == m.chatID {
		m.newChat()
	}
	m.toasts.Success("Chat deleted")
	return m, alert.TickCmd()
}

func (m *Model) handleAllChatsDeleted(msg AllChatsDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.Error("Could not delete chats: " + msg.Err.Error())
		return m, alert.TickCmd()
	}
	m.sidebar.RemoveAll()
	m.newChat()
	m.toasts.Success("All chats deleted")
	return m, alert.TickCmd()
}

// =============================================================================
// RETRY
// =============================================================================

// retry regenerates the response at target. The target and everything
// after it leave the transcript; the anchor user message stays and is
// not re-added.
func (m *Model) retry(target *transcript.Message) tea.Cmd {
	if target == nil || target.IsUser || m.busy {
		return nil
	}
	anchor, ok := m.transcript.PrecedingUserText(target.ID)
	if !ok {
		return nil
	}
	removed := m.transcript.TruncateFrom(target.ID)

	m.busy = true
	m.pane.ForceBottom()
	m.refreshViewport()

	return tea.Batch(m.retryCmd(anchor, removed), m.spin.Tick)
}

func (m *Model) handleRetryResult(msg RetryResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.input.Focus()

	if msg.Err != nil {
		errMsg := m.transcript.AppendAssistant(ErrorText)
		errMsg.IsError = true
	} else {
		m.transcript.AppendAssistant(msg.Content)
	}
	m.pane.ForceBottom()
	m.refreshViewport()
	return m, textinput.Blink
}

// =============================================================================
// PROFILE
// =============================================================================

func (m *Model) handleProfileSaved(msg ProfileSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.Error("Profile update failed: " + msg.Err.Error())
		return m, alert.TickCmd()
	}

	if msg.Update.DisplayName != nil {
		m.cfg.UI.DisplayName = *msg.Update.DisplayName
		m.welcome.SetDisplayName(*msg.Update.DisplayName)
	}
	if msg.Update.ThemePreference != nil {
		m.cfg.UI.Theme = *msg.Update.ThemePreference
		// Rebuild in place; every component shares this pointer.
		*m.theme = *styles.NewTheme(*msg.Update.ThemePreference)
	}
	_ = m.cfg.Save()

	m.settings.ClearPasswords()
	m.toasts.Success("Profile updated")
	return m, alert.TickCmd()
}

// =============================================================================
// SCROLL PLUMBING
// =============================================================================

func (m *Model) observePane() {
	m.pane.Observe(m.viewport.YOffset, m.viewport.Height, m.viewport.TotalLineCount(), time.Now())
}

// windowObserve treats coarse wheel movement as window-level scrolling
// with its own shorter debounce.
func (m *Model) windowObserve() tea.Cmd {
	m.win.Observe(m.viewport.YOffset, m.viewport.Height, m.viewport.TotalLineCount(), time.Now())
	return m.windowDebounceCmd()
}

func (m *Model) persistScroll() {
	m.store.SetScroll(m.viewport.YOffset, m.win.Offset())
}
