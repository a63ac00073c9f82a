// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sarkar-tui/internal/alert"
	"github.com/morganforge/sarkar-tui/internal/transcript"
	"github.com/morganforge/sarkar-tui/internal/util"
)

const (
	// sidebarWidth is the history panel width in cells.
	sidebarWidth = 34
	// chromeHeight is the rows taken by input box and status bar.
	chromeHeight = 5
)

// View renders the full screen.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	contentHeight := m.height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	switch {
	case m.confirm.IsVisible():
		content = m.confirm.View(m.contentWidth(), contentHeight)
	case m.panel == PanelSettings:
		content = m.settings.View(m.contentWidth(), contentHeight)
	case m.view == ViewWelcome:
		m.welcome.SetSize(m.contentWidth(), contentHeight)
		content = m.welcome.View()
	default:
		content = m.viewport.View()
	}

	if m.panel == PanelHistory {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(contentHeight), content)
	}

	var sb strings.Builder
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(m.renderInput())
	sb.WriteString("\n")
	sb.WriteString(m.status.View(m.width, m.busy))

	screen := sb.String()
	if m.toasts.HasToasts() {
		screen = lipgloss.JoinVertical(lipgloss.Left,
			content,
			alert.RenderStack(m.toasts.Active(), m.width, 0),
			m.renderInput(),
			m.status.View(m.width, m.busy),
		)
	}
	return screen
}

func (m *Model) contentWidth() int {
	if m.panel == PanelHistory {
		return m.width - sidebarWidth
	}
	return m.width
}

// syncViewportWidth recomputes layout after a panel opens or closes.
func (m *Model) syncViewportWidth() {
	if m.width == 0 {
		return
	}
	w := m.contentWidth()
	m.viewport.Width = w
	m.input.Width = w - 6
	m.renderer.SetWidth(w - 2)
	m.refreshViewport()
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshViewport re-renders the transcript into the viewport. When the
// pane controller is following, the viewport sticks to the bottom.
func (m *Model) refreshViewport() {
	if m.view != ViewChat {
		return
	}

	var sb strings.Builder
	for i, msg := range m.transcript.Messages() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())

	if m.pane.Following() {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderMessage(msg *transcript.Message) string {
	t := m.theme

	label := t.AssistantLabel.Render("SARKAR AI")
	if msg.IsUser {
		name := m.cfg.UI.DisplayName
		if name == "" {
			name = "You"
		}
		label = t.UserLabel.Render(name)
	}

	body := m.renderer.Message(msg)
	if msg.IsStreaming {
		if body == "" {
			body = m.spin.View() + " thinking..."
		} else {
			body += " " + m.spin.View()
		}
	}

	bubble := t.AssistantBubble
	if msg.IsUser {
		bubble = t.UserBubble
	} else if msg.IsError {
		bubble = t.ErrorBubble
	}

	out := label + "\n" + bubble.Render(body)
	if caption := feedbackCaption(msg); caption != "" {
		out += "\n" + t.FeedbackCaption.Render(caption)
	}
	return out
}

func feedbackCaption(msg *transcript.Message) string {
	switch msg.Feedback {
	case transcript.FeedbackUp:
		return "👍 marked helpful"
	case transcript.FeedbackDown:
		return "👎 marked unhelpful"
	}
	return ""
}

// =============================================================================
// SIDEBAR AND INPUT
// =============================================================================

func (m *Model) renderSidebar(height int) string {
	t := m.theme

	var sb strings.Builder
	sb.WriteString(t.SidebarTitle.Render("History"))
	sb.WriteString("\n\n")

	entries := m.sidebar.Entries()
	if len(entries) == 0 {
		sb.WriteString(t.SidebarEmpty.Render("No conversations yet"))
	}
	for i, e := range entries {
		style := t.SidebarEntry
		if e.Active {
			style = t.SidebarEntryActive
		}
		cursor := "  "
		if i == m.historyCursor {
			cursor = "> "
		}
		sb.WriteString(cursor + style.Render(util.TruncateWidth(e.Title, sidebarWidth-6)))
		sb.WriteString("\n")
		if e.Preview != "" {
			sb.WriteString("  " + t.SidebarPreview.Render(util.TruncateWidth(e.Preview, sidebarWidth-6)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(t.ShortcutKey.Render("[enter]"))
	sb.WriteString(t.ShortcutDesc.Render(" open "))
	sb.WriteString(t.ShortcutKey.Render("[d]"))
	sb.WriteString(t.ShortcutDesc.Render(" delete "))
	sb.WriteString(t.ShortcutKey.Render("[D]"))
	sb.WriteString(t.ShortcutDesc.Render(" delete all"))

	return t.Sidebar.Width(sidebarWidth - 2).Height(height - 2).Render(sb.String())
}

func (m *Model) renderInput() string {
	t := m.theme
	prompt := t.InputPrompt.Render("> ")
	if m.busy {
		prompt = m.spin.View() + " "
	}
	line := prompt + m.input.View()
	return t.InputContainer.Width(m.contentWidth() - 2).Render(line)
}

// Title returns the window title for the active chat.
func (m *Model) Title() string {
	if title := m.sidebar.ActiveTitle(); title != "" {
		return fmt.Sprintf("SARKAR AI - %s", title)
	}
	return "SARKAR AI"
}
