// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// FRAME TYPES
// =============================================================================

// Frame type discriminators sent by the backend.
const (
	FrameStart = "start"
	FrameChunk = "chunk"
	FrameEnd   = "end"
)

// Frame is one decoded streaming event.
//
// The wire format is SSE-like: each frame is a "data: <json>" line
// terminated by a blank line. The JSON payload carries a type tag plus
// the fields relevant to that type.
type Frame struct {
	Type    string `json:"type"`
	ChatID  int64  `json:"chat_id,omitempty"` // set on "start"
	Content string `json:"content,omitempty"` // set on "chunk"
}

// ErrMalformedFrame indicates a complete frame whose payload could not be
// decoded. The stream is aborted rather than guessing at content.
var ErrMalformedFrame = errors.New("malformed stream frame")

// MaxFrameSize bounds a single frame to protect against unbounded buffering.
const MaxFrameSize = 64 * 1024

// StreamError wraps a stream failure together with any content that was
// already received, so callers can keep the partial response.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream interrupted after %d chars: %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream failed: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// FRAME DECODER
// =============================================================================

// FrameDecoder incrementally decodes frames from arbitrary byte chunks.
// Network reads do not align with frame boundaries, so a partial frame
// tail is retained across Write calls.
type FrameDecoder struct {
	buf []byte
}

// Write consumes the next chunk of bytes and returns every frame that
// completed. A malformed payload returns the frames decoded before it
// along with ErrMalformedFrame; the decoder should not be reused after.
func (d *FrameDecoder) Write(p []byte) ([]Frame, error) {
	d.buf = append(d.buf, p...)

	var frames []Frame
	for {
		idx := bytes.Index(d.buf, []byte("\n\n"))
		if idx < 0 {
			break
		}
		raw := d.buf[:idx]
		d.buf = d.buf[idx+2:]

		frame, ok, err := decodeBlock(raw)
		if err != nil {
			return frames, err
		}
		if ok {
			frames = append(frames, frame)
		}
	}

	if len(d.buf) > MaxFrameSize {
		return frames, fmt.Errorf("%w: frame exceeds %d bytes", ErrMalformedFrame, MaxFrameSize)
	}
	return frames, nil
}

// Pending reports whether an incomplete frame tail is buffered.
func (d *FrameDecoder) Pending() bool {
	return len(bytes.TrimSpace(d.buf)) > 0
}

// Reset discards any buffered partial frame.
func (d *FrameDecoder) Reset() {
	d.buf = nil
}

// decodeBlock decodes one blank-line-delimited block. Blocks without a
// data line (comments, keep-alives) are skipped, not errors.
func decodeBlock(raw []byte) (Frame, bool, error) {
	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		s := string(line)
		if !strings.HasPrefix(s, "data:") {
			continue
		}
		payload := strings.TrimPrefix(strings.TrimPrefix(s, "data:"), " ")

		var frame Frame
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			return Frame{}, false, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		switch frame.Type {
		case FrameStart, FrameChunk, FrameEnd:
			return frame, true, nil
		default:
			return Frame{}, false, fmt.Errorf("%w: unknown type %q", ErrMalformedFrame, frame.Type)
		}
	}
	return Frame{}, false, nil
}

// =============================================================================
// STREAMING SEND
// =============================================================================

// SendMessage posts a user message and streams the response frames to
// onFrame in arrival order. chatID of 0 means "no chat yet" and is sent
// as null so the server creates one (announced by the start frame).
//
// A transport failure, malformed frame, or onFrame error aborts the
// stream; the returned *StreamError carries the content received so far.
func (c *Client) SendMessage(ctx context.Context, message string, chatID int64, onFrame func(Frame) error) error {
	req := struct {
		Message string `json:"message"`
		ChatID  *int64 `json:"chat_id"`
	}{Message: message}
	if chatID != 0 {
		req.ChatID = &chatID
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/send_message", bytes.NewReader(data))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.stream.Do(httpReq)
	if err != nil {
		return &StreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StreamError{Err: decodeError(resp)}
	}

	var (
		decoder FrameDecoder
		partial strings.Builder
		buf     = make([]byte, 4096)
	)
	for {
		select {
		case <-ctx.Done():
			return &StreamError{Partial: partial.String(), Err: ctx.Err()}
		default:
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			frames, decErr := decoder.Write(buf[:n])
			for _, frame := range frames {
				if frame.Type == FrameChunk {
					partial.WriteString(frame.Content)
				}
				if err := onFrame(frame); err != nil {
					return &StreamError{Partial: partial.String(), Err: err}
				}
				if frame.Type == FrameEnd {
					return nil
				}
			}
			if decErr != nil {
				return &StreamError{Partial: partial.String(), Err: decErr}
			}
		}
		if readErr != nil {
			// EOF without an end frame means the server died mid-stream.
			return &StreamError{Partial: partial.String(), Err: fmt.Errorf("stream ended early: %w", readErr)}
		}
	}
}
