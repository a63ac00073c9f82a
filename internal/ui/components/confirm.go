// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sarkar-tui/internal/ui/styles"
)

// ConfirmAction identifies what a confirm modal will do.
type ConfirmAction int

const (
	// ConfirmNone means no modal is pending.
	ConfirmNone ConfirmAction = iota
	// ConfirmDeleteChat deletes a single chat (TargetID).
	ConfirmDeleteChat
	// ConfirmDeleteAll deletes every chat.
	ConfirmDeleteAll
)

// ConfirmModal asks before destructive operations. Deletes are
// irreversible server-side, so they never run on a single keypress.
type ConfirmModal struct {
	theme    *styles.Theme
	visible  bool
	action   ConfirmAction
	targetID int64
	title    string
	body     string
}

// NewConfirmModal creates a hidden modal.
func NewConfirmModal(theme *styles.Theme) ConfirmModal {
	return ConfirmModal{theme: theme}
}

// ShowDeleteChat arms the modal for a single-chat delete.
func (c *ConfirmModal) ShowDeleteChat(id int64, title string) {
	c.visible = true
	c.action = ConfirmDeleteChat
	c.targetID = id
	c.title = "Delete chat?"
	body := "This will permanently delete the conversation."
	if title != "" {
		body = "This will permanently delete \"" + title + "\"."
	}
	c.body = body
}

// ShowDeleteAll arms the modal for delete-everything.
func (c *ConfirmModal) ShowDeleteAll() {
	c.visible = true
	c.action = ConfirmDeleteAll
	c.targetID = 0
	c.title = "Delete all chats?"
	c.body = "This will permanently delete every conversation."
}

// Hide disarms the modal.
func (c *ConfirmModal) Hide() {
	c.visible = false
	c.action = ConfirmNone
	c.targetID = 0
}

// IsVisible reports whether the modal is showing.
func (c *ConfirmModal) IsVisible() bool {
	return c.visible
}

// Action returns the armed action.
func (c *ConfirmModal) Action() ConfirmAction {
	return c.action
}

// TargetID returns the chat id for ConfirmDeleteChat.
func (c *ConfirmModal) TargetID() int64 {
	return c.targetID
}

// View renders the modal centered in the given area.
func (c *ConfirmModal) View(width, height int) string {
	if !c.visible {
		return ""
	}
	t := c.theme

	content := t.ModalTitle.Render(c.title) + "\n\n" +
		c.body + "\n\n" +
		t.ShortcutKey.Render("[y]") + t.ShortcutDesc.Render(" Delete  ") +
		t.ShortcutKey.Render("[n]") + t.ShortcutDesc.Render(" Cancel")

	box := t.ModalBox.Render(content)
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
