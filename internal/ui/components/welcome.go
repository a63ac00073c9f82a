// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the sarkar-tui.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sarkar-tui/internal/ui/styles"
)

// DefaultSuggestions are the starter prompts on the welcome screen.
var DefaultSuggestions = []string{
	"What can you help me with?",
	"Summarize a long document for me",
	"Help me write an email",
	"Explain a technical concept simply",
}

// Welcome is the empty-state screen shown before any conversation.
type Welcome struct {
	theme       *styles.Theme
	width       int
	height      int
	displayName string
	serverURL   string
	suggestions []string
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		theme:       theme,
		suggestions: DefaultSuggestions,
	}
}

// SetSize records the terminal dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// SetDisplayName sets the greeting name.
func (w *Welcome) SetDisplayName(name string) {
	w.displayName = name
}

// SetServerURL sets the backend shown in the footer.
func (w *Welcome) SetServerURL(url string) {
	w.serverURL = url
}

// Suggestions returns the starter prompts, for number-key selection.
func (w *Welcome) Suggestions() []string {
	return w.suggestions
}

// View renders the welcome screen.
func (w *Welcome) View() string {
	t := w.theme

	greeting := "How can I help you today?"
	if w.displayName != "" {
		greeting = fmt.Sprintf("Hello %s, how can I help you today?", w.displayName)
	}

	var sb strings.Builder
	sb.WriteString(t.HeaderTitle.Render("SARKAR AI"))
	sb.WriteString("\n")
	sb.WriteString(t.HeaderSubtitle.Render(greeting))
	sb.WriteString("\n\n")

	for i, s := range w.suggestions {
		sb.WriteString(t.ShortcutKey.Render(fmt.Sprintf("[%d]", i+1)))
		sb.WriteString(" ")
		sb.WriteString(t.ShortcutDesc.Render(s))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(t.HeaderSubtitle.Render("Type a message and press Enter to start"))
	if w.serverURL != "" {
		sb.WriteString("\n")
		sb.WriteString(t.StatusBar.Render(w.serverURL))
	}

	content := sb.String()
	if w.width > 0 && w.height > 0 {
		return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
