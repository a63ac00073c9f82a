// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package alert implements transient, non-blocking notifications.
//
// Toasts stack in the bottom-right corner and auto-dismiss after their
// duration, so failures never trap the user behind a modal.
package alert

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sarkar-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// Kind classifies a toast.
type Kind int

const (
	// KindInfo is an informational toast (cyan).
	KindInfo Kind = iota
	// KindSuccess is a success toast (emerald).
	KindSuccess
	// KindError is an error toast (rose).
	KindError
)

// DefaultDuration is the auto-dismiss time when none is given.
const DefaultDuration = 5 * time.Second

// Toast is one notification.
type Toast struct {
	ID        int
	Message   string
	Kind      Kind
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast should be dismissed at now.
func (t *Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the active toast stack.
type Manager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{nextID: 1, maxToasts: 5}
}

// Notify adds a toast with the default duration and returns its id.
func (m *Manager) Notify(message string, kind Kind) int {
	return m.NotifyFor(message, kind, DefaultDuration)
}

// NotifyFor adds a toast with an explicit duration and returns its id.
func (m *Manager) NotifyFor(message string, kind Kind, duration time.Duration) int {
	if duration <= 0 {
		duration = DefaultDuration
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// Error adds an error toast.
func (m *Manager) Error(message string) int {
	return m.Notify(message, KindError)
}

// Success adds a success toast.
func (m *Manager) Success(message string) int {
	return m.Notify(message, KindSuccess)
}

// Info adds an informational toast.
func (m *Manager) Info(message string) int {
	return m.Notify(message, KindInfo)
}

// Dismiss removes a toast by id before its timer fires.
func (m *Manager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Expire prunes expired toasts and returns those still active.
func (m *Manager) Expire(now time.Time) []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return append([]Toast(nil), m.toasts...)
}

// Active returns a copy of the current stack.
func (m *Manager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Toast(nil), m.toasts...)
}

// HasToasts reports whether anything is showing.
func (m *Manager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// =============================================================================
// TICK
// =============================================================================

// TickMsg drives toast expiry.
type TickMsg struct {
	Time time.Time
}

// TickCmd schedules the next expiry check.
func TickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// Render draws one toast.
func Render(toast Toast, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var color lipgloss.AdaptiveColor
	var icon string
	switch toast.Kind {
	case KindError:
		color = styles.Rose
		icon = styles.StatusIndicators.Error
	case KindSuccess:
		color = styles.Emerald
		icon = styles.StatusIndicators.Success
	default:
		color = styles.Cyan
		icon = styles.StatusIndicators.Info
	}

	iconStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	messageStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)

	message := toast.Message
	if len(message) > maxWidth-10 {
		message = wrap(message, maxWidth-10)
	}
	content := iconStyle.Render(icon+" ") + messageStyle.Render(message)

	box := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return box.Render(content)
}

// RenderStack draws all toasts anchored bottom-right.
func RenderStack(toasts []Toast, width, height int) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, Render(t, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	positioned := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(stack)

	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, positioned)
	}
	return positioned
}

// wrap word-wraps long toast messages for narrow terminals.
func wrap(text string, maxWidth int) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}
	words := strings.Fields(text)
	var lines []string
	var line strings.Builder
	for _, w := range words {
		if line.Len() > 0 && line.Len()+1+len(w) > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
