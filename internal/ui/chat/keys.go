// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sarkar-tui/internal/alert"
	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/render"
	"github.com/morganforge/sarkar-tui/internal/transcript"
	"github.com/morganforge/sarkar-tui/internal/ui/components"
)

// handleKey routes keys by priority: modal, then open panel, then the
// main view. Ctrl+C always quits.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.persistScroll()
		return m, tea.Quit
	}

	if m.confirm.IsVisible() {
		return m.handleConfirmKey(msg)
	}

	switch m.panel {
	case PanelHistory:
		return m.handleHistoryKey(msg)
	case PanelSettings:
		return m.handleSettingsKey(msg)
	}

	return m.handleMainKey(msg)
}

// =============================================================================
// CONFIRM MODAL
// =============================================================================

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.confirm.Action()
		target := m.confirm.TargetID()
		m.confirm.Hide()
		switch action {
		case components.ConfirmDeleteChat:
			return m, m.deleteChatCmd(target)
		case components.ConfirmDeleteAll:
			return m, m.deleteAllCmd()
		}
	case "n", "N", "esc":
		m.confirm.Hide()
	}
	return m, nil
}

// =============================================================================
// HISTORY PANEL
// =============================================================================

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sidebar.Entries()

	switch msg.String() {
	case "esc", "ctrl+b":
		m.closePanel()
		return m, nil

	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		return m, nil

	case "down", "j":
		if m.historyCursor < len(entries)-1 {
			m.historyCursor++
		}
		return m, nil

	case "enter":
		if m.historyCursor >= 0 && m.historyCursor < len(entries) {
			id := entries[m.historyCursor].ID
			m.closePanel()
			return m, m.loadChatCmd(id)
		}
		return m, nil

	case "d", "x":
		if m.historyCursor >= 0 && m.historyCursor < len(entries) {
			e := entries[m.historyCursor]
			m.confirm.ShowDeleteChat(e.ID, e.Title)
		}
		return m, nil

	case "D":
		if len(entries) > 0 {
			m.confirm.ShowDeleteAll()
		}
		return m, nil
	}

	return m, nil
}

// =============================================================================
// SETTINGS PANEL
// =============================================================================

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePanel()
		return m, nil

	case "enter":
		update := m.settings.Submit(m.cfg.UI.DisplayName)
		if update == nil {
			// Validation errors stay visible in the panel; a no-change
			// submit just closes it.
			if !m.settings.HasErrors() {
				m.closePanel()
			}
			return m, nil
		}
		m.closePanel()
		return m, m.profileCmd(*update)
	}

	var cmd tea.Cmd
	m.settings, cmd = m.settings.Update(msg)
	return m, cmd
}

// =============================================================================
// MAIN VIEW
// =============================================================================

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.send(m.input.Value())

	case "ctrl+n":
		m.newChat()
		return m, textinput.Blink

	case "ctrl+b":
		m.togglePanel(PanelHistory)
		return m, nil

	case "ctrl+g":
		m.togglePanel(PanelSettings)
		return m, nil

	case "ctrl+r":
		return m, m.retry(m.transcript.LastAssistant())

	case "ctrl+y":
		m.copyLastCode()
		return m, alert.TickCmd()

	case "ctrl+e":
		if m.transcript.IsEmpty() {
			return m, nil
		}
		return m, m.exportCmd()

	case "alt+up", "alt+down":
		return m.handleFeedback(msg.String() == "alt+up")

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		if m.view != ViewChat {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.observePane()
		return m, tea.Batch(cmd, m.paneDebounceCmd())

	case "1", "2", "3", "4":
		// Number keys fire the welcome suggestions, but only when the
		// input is empty so typed digits still work.
		if m.view == ViewWelcome && m.input.Value() == "" {
			idx := int(msg.Runes[0] - '1')
			suggestions := m.welcome.Suggestions()
			if idx >= 0 && idx < len(suggestions) {
				return m, m.send(suggestions[idx])
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleFeedback toggles thumbs on the last assistant message and
// reports the new state to the server.
func (m *Model) handleFeedback(up bool) (tea.Model, tea.Cmd) {
	target := m.transcript.LastAssistant()
	if target == nil || target.IsStreaming {
		return m, nil
	}
	feedback := transcript.FeedbackDown
	apiValue := api.FeedbackDown
	if up {
		feedback = transcript.FeedbackUp
		apiValue = api.FeedbackUp
	}
	m.transcript.SetFeedback(target.ID, feedback)
	m.refreshViewport()
	if target.Feedback == transcript.FeedbackNone {
		// Toggled off; nothing to report.
		return m, nil
	}
	return m, m.feedbackCmd(m.chatID, apiValue, target.Text())
}

// copyLastCode copies the last code block of the most recent assistant
// message to the clipboard.
func (m *Model) copyLastCode() {
	target := m.transcript.LastAssistant()
	if target == nil {
		m.toasts.Info("Nothing to copy")
		return
	}
	blocks := render.ParseCodeBlocks(target.Text())
	if len(blocks) == 0 {
		m.toasts.Info("No code block in the last response")
		return
	}
	_, err := render.CopyCode(target, len(blocks)-1)
	switch {
	case err == nil:
		m.toasts.Success("Code copied to clipboard")
	case errors.Is(err, render.ErrCopyTooLarge):
		m.toasts.Error("Code block is too large to copy")
	default:
		m.toasts.Error("Copy failed: " + err.Error())
	}
}

// =============================================================================
// PANELS
// =============================================================================

// togglePanel opens a panel, closing whichever was open. Panels are
// exclusive.
func (m *Model) togglePanel(p Panel) {
	if m.panel == p {
		m.closePanel()
		return
	}
	m.panel = p
	if p == PanelHistory {
		m.historyCursor = 0
	}
	m.input.Blur()
	m.syncViewportWidth()
}

func (m *Model) closePanel() {
	m.panel = PanelNone
	m.input.Focus()
	m.syncViewportWidth()
}
