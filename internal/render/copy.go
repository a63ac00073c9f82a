// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/morganforge/sarkar-tui/internal/transcript"
)

// MaxCopyChars caps a single clipboard payload. A malformed or hostile
// response should not be able to stuff megabytes into the clipboard.
const MaxCopyChars = 1_000_000

var (
	// ErrNoSuchBlock means the requested code block does not exist in
	// the message as parsed right now.
	ErrNoSuchBlock = errors.New("no such code block")
	// ErrCopyTooLarge means the payload exceeded MaxCopyChars.
	ErrCopyTooLarge = errors.New("copy payload too large")
)

// writeClipboard is swappable for tests; headless CI has no clipboard.
var writeClipboard = clipboard.WriteAll

// CopyCode copies the blockIdx-th fenced block of a message. The block
// list is re-parsed at invocation time rather than trusting whatever
// was rendered earlier; the message may have changed since.
func CopyCode(m *transcript.Message, blockIdx int) (string, error) {
	if m == nil {
		return "", ErrNoSuchBlock
	}
	blocks := ParseCodeBlocks(m.Text())
	if blockIdx < 0 || blockIdx >= len(blocks) {
		return "", ErrNoSuchBlock
	}

	code := blocks[blockIdx].Code
	if len(code) > MaxCopyChars {
		return "", fmt.Errorf("%w: %d chars", ErrCopyTooLarge, len(code))
	}
	if err := writeClipboard(code); err != nil {
		return "", fmt.Errorf("clipboard: %w", err)
	}
	return code, nil
}

// CopyText copies a whole message body, with the same size ceiling.
func CopyText(text string) error {
	if len(text) > MaxCopyChars {
		return fmt.Errorf("%w: %d chars", ErrCopyTooLarge, len(text))
	}
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
