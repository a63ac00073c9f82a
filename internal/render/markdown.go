// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns transcript messages into displayable text.
//
// Assistant messages get the full markdown treatment; user messages are
// always rendered verbatim. Whatever the user typed must appear exactly
// as typed, never interpreted as markup.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/sarkar-tui/internal/transcript"
)

// Renderer renders message content at a given width.
type Renderer struct {
	width    int
	markdown bool
	tr       *glamour.TermRenderer
}

// NewRenderer creates a renderer. markdown toggles rich assistant
// rendering; when off, fenced code is still highlighted but prose stays
// plain.
func NewRenderer(width int, markdown bool) *Renderer {
	r := &Renderer{width: width, markdown: markdown}
	r.rebuild()
	return r
}

// SetWidth resizes the renderer; glamour word-wraps at render time so
// the underlying renderer is rebuilt.
func (r *Renderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.rebuild()
}

// SetMarkdown toggles rich assistant rendering.
func (r *Renderer) SetMarkdown(markdown bool) {
	r.markdown = markdown
}

func (r *Renderer) rebuild() {
	width := r.width
	if width < 20 {
		width = 20
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		r.tr = nil
		return
	}
	r.tr = tr
}

// Message renders a single message. The streaming accumulator is
// re-rendered whole on every chunk: late chunks can close a code fence
// and retroactively change the structure of everything before them.
func (r *Renderer) Message(m *transcript.Message) string {
	if m.IsUser || m.IsError {
		return Plain(m.Text())
	}
	return r.Assistant(m.Text())
}

// Assistant renders assistant markdown.
func (r *Renderer) Assistant(text string) string {
	if !r.markdown {
		return highlightFences(text, r.width)
	}
	if r.tr == nil {
		return Plain(text)
	}
	out, err := r.tr.Render(text)
	if err != nil {
		return Plain(text)
	}
	return strings.TrimRight(out, "\n")
}

// Plain renders text verbatim, normalizing line endings only.
func Plain(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}
