// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/morganforge/sarkar-tui/internal/ui/styles"
)

// StatusBar renders the bottom key-hint line.
type StatusBar struct {
	theme *styles.Theme
}

// NewStatusBar creates the status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

type shortcut struct {
	key  string
	desc string
}

var chatShortcuts = []shortcut{
	{"enter", "send"},
	{"ctrl+n", "new chat"},
	{"ctrl+b", "history"},
	{"ctrl+g", "settings"},
	{"ctrl+r", "retry"},
	{"ctrl+y", "copy code"},
	{"ctrl+e", "export"},
	{"ctrl+c", "quit"},
}

// View renders the shortcuts, with a busy indicator while streaming.
func (s *StatusBar) View(width int, busy bool) string {
	t := s.theme

	var parts []string
	if busy {
		parts = append(parts, t.ShortcutKey.Render(styles.StatusIndicators.Busy)+t.ShortcutDesc.Render(" streaming"))
	}
	for _, sc := range chatShortcuts {
		parts = append(parts, t.ShortcutKey.Render(sc.key)+t.ShortcutDesc.Render(" "+sc.desc))
	}

	line := strings.Join(parts, "  ")
	return t.StatusBar.Width(width).Render(line)
}
