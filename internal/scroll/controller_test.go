// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scroll

import (
	"testing"
	"time"
)

func TestDetachOnLargeUpwardScroll(t *testing.T) {
	c := NewPaneController()
	now := time.Now()

	// Sitting deep in a long conversation, then jumping 60 up.
	c.Observe(500, 40, 2000, now)
	c.Observe(440, 40, 2000, now.Add(10*time.Millisecond))

	if c.Following() {
		t.Error("Expected following disabled after 60-row upward scroll")
	}
	if !c.UserScrolling() {
		t.Error("Expected userScrolling set")
	}
}

func TestSmallUpwardScrollDoesNotDetach(t *testing.T) {
	c := NewPaneController()
	now := time.Now()

	c.Observe(500, 40, 2000, now)
	c.Observe(470, 40, 2000, now.Add(10*time.Millisecond))

	if !c.Following() {
		t.Error("Expected 30-row scroll to stay attached")
	}
}

func TestReattachNearBottom(t *testing.T) {
	c := NewPaneController()
	now := time.Now()

	c.Observe(500, 40, 2000, now)
	c.Observe(400, 40, 2000, now.Add(10*time.Millisecond))
	if c.Following() {
		t.Fatal("Expected detached")
	}

	// Scroll back to within 100 of the bottom: 2000 - (1870 + 40) = 90.
	c.Observe(1870, 40, 2000, now.Add(20*time.Millisecond))
	if !c.Following() {
		t.Error("Expected following re-enabled within bottom slack")
	}
	if c.UserScrolling() {
		t.Error("Expected userScrolling cleared")
	}
}

func TestDebounceReattachesOnlyAfterQuietPeriod(t *testing.T) {
	c := NewPaneController()
	now := time.Now()

	c.Observe(500, 40, 2000, now)
	c.Observe(400, 40, 2000, now.Add(10*time.Millisecond))

	// Too early: nothing changes even near the bottom.
	c.DebounceCheck(1870, 40, 2000, now.Add(200*time.Millisecond))
	if c.Following() {
		t.Error("Expected debounce check before quiet period to be a no-op")
	}

	// After the quiet period, near-bottom position re-attaches.
	c.DebounceCheck(1870, 40, 2000, now.Add(10*time.Millisecond+PaneDebounce))
	if !c.Following() {
		t.Error("Expected re-attachment after debounce near bottom")
	}
}

func TestDebounceFarFromBottomStaysDetached(t *testing.T) {
	c := NewPaneController()
	now := time.Now()

	c.Observe(500, 40, 2000, now)
	c.Observe(400, 40, 2000, now.Add(10*time.Millisecond))

	c.DebounceCheck(400, 40, 2000, now.Add(2*time.Second))
	if c.Following() {
		t.Error("Expected to stay detached far from bottom")
	}
	if c.UserScrolling() {
		t.Error("Expected userScrolling cleared after quiet period")
	}
}

func TestForceBottomBypassesState(t *testing.T) {
	c := NewPaneController()
	now := time.Now()

	c.Observe(500, 40, 2000, now)
	c.Observe(300, 40, 2000, now.Add(10*time.Millisecond))
	if c.Following() {
		t.Fatal("Expected detached")
	}

	c.ForceBottom()
	if !c.Following() {
		t.Error("Expected ForceBottom to re-attach")
	}
}

func TestWindowControllerDebounce(t *testing.T) {
	c := NewWindowController()
	if c.Debounce() != WindowDebounce {
		t.Errorf("Expected %v, got %v", WindowDebounce, c.Debounce())
	}
	if NewPaneController().Debounce() != PaneDebounce {
		t.Error("Expected pane debounce constant")
	}
}

func TestReset(t *testing.T) {
	c := NewPaneController()
	c.Observe(500, 40, 2000, time.Now())
	c.Observe(300, 40, 2000, time.Now())
	c.Reset()
	if !c.Following() || c.UserScrolling() || c.Offset() != 0 {
		t.Error("Expected pristine state after Reset")
	}
}
