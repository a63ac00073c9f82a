// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for sarkar-tui.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLOR PALETTE
// =============================================================================

var (
	// Accent colors
	Indigo  = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}
	Cyan    = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	Rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

	// Text colors
	TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F9FAFB"}
	TextMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	// Surfaces
	Surface    = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1F2937"}
	SurfaceDim = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"}
	Border     = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)

// StatusIndicators are the glyphs used by toasts and the status bar.
var StatusIndicators = struct {
	Error   string
	Warning string
	Success string
	Info    string
	Busy    string
}{
	Error:   "✗",
	Warning: "⚠",
	Success: "✓",
	Info:    "ℹ",
	Busy:    "●",
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// Header
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	FeedbackCaption lipgloss.Style

	// Sidebar
	Sidebar            lipgloss.Style
	SidebarTitle       lipgloss.Style
	SidebarEntry       lipgloss.Style
	SidebarEntryActive lipgloss.Style
	SidebarPreview     lipgloss.Style
	SidebarEmpty       lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Modal / panel
	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
	PanelBox   lipgloss.Style
	PanelTitle lipgloss.Style
	FieldError lipgloss.Style

	// Code
	CodeLangBadge lipgloss.Style
}

// NewTheme builds the theme, detecting terminal capabilities. preference
// is "auto", "dark" or "light"; auto asks the terminal.
func NewTheme(preference string) *Theme {
	isDark := true
	switch preference {
	case "light":
		isDark = false
	case "dark":
		isDark = true
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(TextMuted)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceDim).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)
	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(Rose).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose)
	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.FeedbackCaption = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.SidebarEntry = lipgloss.NewStyle().Foreground(TextPrimary)
	t.SidebarEntryActive = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.SidebarPreview = lipgloss.NewStyle().Foreground(TextMuted)
	t.SidebarEmpty = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Bold(true).Foreground(Indigo)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 2)
	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.PanelBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.FieldError = lipgloss.NewStyle().Foreground(Rose)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(SurfaceDim).
		Background(Cyan).
		Padding(0, 1)

	return t
}

// SetSize records the current terminal dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
