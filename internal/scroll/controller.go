// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scroll decides when the chat view follows new output.
//
// While a response streams, the view sticks to the bottom. A deliberate
// scroll up detaches it so the user can read without being yanked back
// down; scrolling near the bottom, or pausing there, re-attaches.
package scroll

import "time"

// Tuning constants, in terminal rows (the web origin of these numbers
// used pixels; the ratios are what matter).
const (
	// DetachThreshold is the minimum single upward jump that counts as
	// deliberate reading rather than cursor drift.
	DetachThreshold = 50
	// BottomSlack is how close to the bottom counts as "at the bottom".
	BottomSlack = 100
	// PaneDebounce is the quiet period after pane scrolling before the
	// position is re-checked for re-attachment.
	PaneDebounce = 1000 * time.Millisecond
	// WindowDebounce is the same quiet period for whole-window scrolls.
	WindowDebounce = 500 * time.Millisecond
)

// Controller tracks one scrollable region.
type Controller struct {
	debounce time.Duration

	following     bool
	userScrolling bool
	lastOffset    int
	lastEventAt   time.Time
}

// NewPaneController returns a controller for the message pane.
func NewPaneController() *Controller {
	return &Controller{debounce: PaneDebounce, following: true}
}

// NewWindowController returns a controller for whole-window scrolling.
func NewWindowController() *Controller {
	return &Controller{debounce: WindowDebounce, following: true}
}

// Following reports whether new content should auto-scroll the region.
func (c *Controller) Following() bool {
	return c.following
}

// UserScrolling reports whether the user is mid-scroll.
func (c *Controller) UserScrolling() bool {
	return c.userScrolling
}

// Offset returns the last observed offset, for persistence.
func (c *Controller) Offset() int {
	return c.lastOffset
}

// Observe processes one scroll event. offset is the distance scrolled
// from the top, viewHeight the visible extent, contentHeight the total.
func (c *Controller) Observe(offset, viewHeight, contentHeight int, now time.Time) {
	delta := c.lastOffset - offset
	if delta > DetachThreshold {
		c.userScrolling = true
		c.following = false
	}

	if distanceFromBottom(offset, viewHeight, contentHeight) < BottomSlack {
		c.following = true
		c.userScrolling = false
	}

	c.lastOffset = offset
	c.lastEventAt = now
}

// DebounceCheck re-evaluates the position once scrolling has been quiet
// for the debounce window. The caller supplies the current geometry; a
// position near the bottom re-attaches following.
func (c *Controller) DebounceCheck(offset, viewHeight, contentHeight int, now time.Time) {
	if c.lastEventAt.IsZero() || now.Sub(c.lastEventAt) < c.debounce {
		return
	}
	c.userScrolling = false
	if distanceFromBottom(offset, viewHeight, contentHeight) < BottomSlack {
		c.following = true
	}
}

// Debounce returns the quiet period for this region, for scheduling the
// re-check tick.
func (c *Controller) Debounce() time.Duration {
	return c.debounce
}

// ForceBottom re-attaches unconditionally. Used when the user acts
// (sending, retrying) and the result must be visible.
func (c *Controller) ForceBottom() {
	c.following = true
	c.userScrolling = false
}

// Reset restores the initial attached state for a fresh conversation.
func (c *Controller) Reset() {
	c.following = true
	c.userScrolling = false
	c.lastOffset = 0
	c.lastEventAt = time.Time{}
}

func distanceFromBottom(offset, viewHeight, contentHeight int) int {
	d := contentHeight - (offset + viewHeight)
	if d < 0 {
		return 0
	}
	return d
}
