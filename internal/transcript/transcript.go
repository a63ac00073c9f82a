// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import "github.com/google/uuid"

// Transcript is an ordered message sequence. It is only mutated from the
// UI event loop, so it carries no locking.
type Transcript struct {
	msgs []*Message
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Messages returns the live message slice in order. Callers must not
// reorder it.
func (t *Transcript) Messages() []*Message {
	return t.msgs
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.msgs)
}

// IsEmpty reports whether the transcript has no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.msgs) == 0
}

// AppendUser appends a finalized user message and returns it.
func (t *Transcript) AppendUser(content string) *Message {
	m := NewUserMessage(content)
	t.msgs = append(t.msgs, m)
	return m
}

// BeginAssistant appends a streaming assistant placeholder and returns it.
func (t *Transcript) BeginAssistant() *Message {
	m := NewStreamingMessage()
	t.msgs = append(t.msgs, m)
	return m
}

// AppendAssistant appends an already-complete assistant message (used by
// history loads and retry responses).
func (t *Transcript) AppendAssistant(content string) *Message {
	m := &Message{ID: uuid.NewString(), Content: content}
	t.msgs = append(t.msgs, m)
	return m
}

// Find returns the message with the given id and its index, or nil, -1.
func (t *Transcript) Find(id string) (*Message, int) {
	for i, m := range t.msgs {
		if m.ID == id {
			return m, i
		}
	}
	return nil, -1
}

// AppendChunk routes streamed content to the identified message.
// Returns false when the message is gone (stale stream).
func (t *Transcript) AppendChunk(id, chunk string) bool {
	m, _ := t.Find(id)
	if m == nil {
		return false
	}
	m.AppendChunk(chunk)
	return true
}

// Finalize completes the identified streaming message.
func (t *Transcript) Finalize(id string) *Message {
	m, _ := t.Find(id)
	if m == nil {
		return nil
	}
	m.FinalizeStream()
	return m
}

// Fail marks the identified message as a failed response.
func (t *Transcript) Fail(id, errText string) {
	if m, _ := t.Find(id); m != nil {
		m.Fail(errText)
	}
}

// Remove deletes the identified message.
func (t *Transcript) Remove(id string) {
	if _, i := t.Find(id); i >= 0 {
		t.msgs = append(t.msgs[:i], t.msgs[i+1:]...)
	}
}

// TruncateFrom removes the identified message and everything after it,
// returning how many messages were removed. Used by retry, which drops
// the stale response and any follow-ups before regenerating.
func (t *Transcript) TruncateFrom(id string) int {
	_, i := t.Find(id)
	if i < 0 {
		return 0
	}
	removed := len(t.msgs) - i
	t.msgs = t.msgs[:i]
	return removed
}

// PrecedingUserText walks backwards from the identified message for the
// nearest user message and returns its text.
func (t *Transcript) PrecedingUserText(id string) (string, bool) {
	_, i := t.Find(id)
	if i < 0 {
		return "", false
	}
	for j := i - 1; j >= 0; j-- {
		if t.msgs[j].IsUser {
			return t.msgs[j].Text(), true
		}
	}
	return "", false
}

// SetFeedback records feedback on the identified message. Passing the
// same value again clears it (toggle), matching the feedback buttons.
func (t *Transcript) SetFeedback(id, feedback string) {
	m, _ := t.Find(id)
	if m == nil {
		return
	}
	if m.Feedback == feedback {
		m.Feedback = FeedbackNone
		return
	}
	m.Feedback = feedback
}

// Last returns the final message, or nil when empty.
func (t *Transcript) Last() *Message {
	if len(t.msgs) == 0 {
		return nil
	}
	return t.msgs[len(t.msgs)-1]
}

// LastAssistant returns the most recent non-user, non-error message.
func (t *Transcript) LastAssistant() *Message {
	for i := len(t.msgs) - 1; i >= 0; i-- {
		if !t.msgs[i].IsUser && !t.msgs[i].IsError {
			return t.msgs[i]
		}
	}
	return nil
}

// Clear removes every message. The welcome view requires an empty
// transcript, so mode switches call this.
func (t *Transcript) Clear() {
	t.msgs = nil
}
