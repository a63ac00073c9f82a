// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import "testing"

func TestStreamingAccumulation(t *testing.T) {
	tr := New()
	tr.AppendUser("hi")
	m := tr.BeginAssistant()

	if !m.IsStreaming {
		t.Fatal("Expected placeholder to be streaming")
	}

	tr.AppendChunk(m.ID, "Hel")
	tr.AppendChunk(m.ID, "lo")
	if got := m.Text(); got != "Hello" {
		t.Errorf("Expected accumulated text %q, got %q", "Hello", got)
	}
	if m.Content != "" {
		t.Errorf("Content should be empty while streaming, got %q", m.Content)
	}

	tr.Finalize(m.ID)
	if m.IsStreaming {
		t.Error("Expected message finalized")
	}
	if m.Content != "Hello" {
		t.Errorf("Expected final content %q, got %q", "Hello", m.Content)
	}
}

func TestAppendChunkStaleID(t *testing.T) {
	tr := New()
	if tr.AppendChunk("missing", "x") {
		t.Error("Expected false for unknown message id")
	}
}

func TestAppendAfterFinalizeIgnored(t *testing.T) {
	m := NewStreamingMessage()
	m.AppendChunk("done")
	m.FinalizeStream()
	m.AppendChunk("late")
	if m.Text() != "done" {
		t.Errorf("Expected %q, got %q", "done", m.Text())
	}
}

func TestFail(t *testing.T) {
	tr := New()
	m := tr.BeginAssistant()
	tr.AppendChunk(m.ID, "partial")
	tr.Fail(m.ID, "Sorry, I encountered an error. Please try again.")

	if !m.IsError {
		t.Error("Expected error flag set")
	}
	if m.IsStreaming {
		t.Error("Expected streaming cleared")
	}
	if m.Text() != "Sorry, I encountered an error. Please try again." {
		t.Errorf("Unexpected error text %q", m.Text())
	}
}

func TestTruncateFromRemovesTargetAndFollowing(t *testing.T) {
	tr := New()
	tr.AppendUser("A")
	b := tr.AppendAssistant("B")
	c := tr.AppendAssistant("C")
	c.IsError = true

	removed := tr.TruncateFrom(b.ID)
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}
	if tr.Len() != 1 {
		t.Fatalf("Expected 1 message left, got %d", tr.Len())
	}
	if !tr.Messages()[0].IsUser || tr.Messages()[0].Content != "A" {
		t.Error("Expected only the user message to survive")
	}
}

func TestTruncateFromUnknownID(t *testing.T) {
	tr := New()
	tr.AppendUser("A")
	if removed := tr.TruncateFrom("nope"); removed != 0 {
		t.Errorf("Expected 0 removed, got %d", removed)
	}
	if tr.Len() != 1 {
		t.Error("Transcript should be untouched")
	}
}

func TestPrecedingUserText(t *testing.T) {
	tr := New()
	tr.AppendUser("first question")
	tr.AppendAssistant("answer")
	b := tr.AppendAssistant("follow-up answer")

	text, ok := tr.PrecedingUserText(b.ID)
	if !ok {
		t.Fatal("Expected a preceding user message")
	}
	if text != "first question" {
		t.Errorf("Expected %q, got %q", "first question", text)
	}
}

func TestPrecedingUserTextNone(t *testing.T) {
	tr := New()
	a := tr.AppendAssistant("orphan answer")
	if _, ok := tr.PrecedingUserText(a.ID); ok {
		t.Error("Expected no preceding user message")
	}
}

func TestSetFeedbackToggles(t *testing.T) {
	tr := New()
	m := tr.AppendAssistant("answer")

	tr.SetFeedback(m.ID, FeedbackUp)
	if m.Feedback != FeedbackUp {
		t.Errorf("Expected up, got %q", m.Feedback)
	}

	// Switching replaces.
	tr.SetFeedback(m.ID, FeedbackDown)
	if m.Feedback != FeedbackDown {
		t.Errorf("Expected down, got %q", m.Feedback)
	}

	// Same value again clears.
	tr.SetFeedback(m.ID, FeedbackDown)
	if m.Feedback != FeedbackNone {
		t.Errorf("Expected cleared feedback, got %q", m.Feedback)
	}
}

func TestClear(t *testing.T) {
	tr := New()
	tr.AppendUser("A")
	tr.AppendAssistant("B")
	tr.Clear()
	if !tr.IsEmpty() {
		t.Error("Expected empty transcript after Clear")
	}
}

func TestPreview(t *testing.T) {
	m := NewUserMessage("this is a moderately long first message for the sidebar preview test")
	got := m.Preview(50)
	if len([]rune(got)) != 53 {
		t.Errorf("Expected 50 runes plus ellipsis, got %d runes (%q)", len([]rune(got)), got)
	}
}

func TestLastAssistant(t *testing.T) {
	tr := New()
	tr.AppendUser("q")
	a := tr.AppendAssistant("good")
	bad := tr.BeginAssistant()
	tr.Fail(bad.ID, "boom")

	if got := tr.LastAssistant(); got != a {
		t.Error("Expected the non-error assistant message")
	}
}
