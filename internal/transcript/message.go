// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript holds the in-memory conversation state.
//
// The transcript is the single source of truth for what is on screen:
// views render from it, streaming appends into it, and retry truncates
// it. Nothing else stores message content.
package transcript

import (
	"strings"

	"github.com/google/uuid"

	"github.com/morganforge/sarkar-tui/internal/util"
)

// Feedback values a finalized assistant message can carry.
const (
	FeedbackNone = ""
	FeedbackUp   = "up"
	FeedbackDown = "down"
)

// Message is a single chat message.
type Message struct {
	ID     string
	IsUser bool
	// IsError marks an assistant slot that ended in failure; rendered
	// with error styling and always as plain text.
	IsError bool
	// IsStreaming is true while chunks are still arriving.
	IsStreaming bool
	Feedback    string

	// Content is the final text. While streaming, text accumulates in
	// buf and Content stays empty until FinalizeStream.
	Content string
	buf     strings.Builder
}

// NewUserMessage creates a finalized user message.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:      uuid.NewString(),
		IsUser:  true,
		Content: content,
	}
}

// NewStreamingMessage creates an assistant placeholder awaiting chunks.
func NewStreamingMessage() *Message {
	return &Message{
		ID:          uuid.NewString(),
		IsStreaming: true,
	}
}

// AppendChunk adds streamed content. No-op once finalized.
func (m *Message) AppendChunk(chunk string) {
	if !m.IsStreaming {
		return
	}
	m.buf.WriteString(chunk)
}

// FinalizeStream moves the accumulated text into Content and clears the
// streaming flag.
func (m *Message) FinalizeStream() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.buf.String()
	m.IsStreaming = false
	m.buf.Reset()
}

// Fail finalizes the message as an error with the given display text.
func (m *Message) Fail(errText string) {
	m.Content = errText
	m.IsError = true
	m.IsStreaming = false
	m.buf.Reset()
}

// Text returns the display text: the accumulator while streaming, the
// final content afterwards.
func (m *Message) Text() string {
	if m.IsStreaming {
		return m.buf.String()
	}
	return m.Content
}

// Preview returns the first maxRunes runes of the message with an
// ellipsis appended when cut.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(m.Text(), maxRunes)
}
