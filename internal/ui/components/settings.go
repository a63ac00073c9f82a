// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/ui/styles"
	"github.com/morganforge/sarkar-tui/internal/validate"
)

// Settings field indexes, in tab order.
const (
	fieldDisplayName = iota
	fieldCurrentPassword
	fieldNewPassword
	fieldConfirmPassword
	fieldCount
)

// Settings is the profile panel: display name, theme and password change.
type Settings struct {
	theme  *styles.Theme
	inputs [fieldCount]textinput.Model
	errors [fieldCount]string
	focus  int

	themePref  string // "auto", "dark", "light"
	themeDirty bool
}

// NewSettings creates the panel pre-filled with the current profile.
func NewSettings(theme *styles.Theme, displayName, themePref string) Settings {
	s := Settings{theme: theme, themePref: themePref}
	if s.themePref == "" {
		s.themePref = "auto"
	}

	labels := [fieldCount]string{"Display name", "Current password", "New password", "Confirm new password"}
	for i := range s.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 128
		in.Width = 32
		if i != fieldDisplayName {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		s.inputs[i] = in
	}
	s.inputs[fieldDisplayName].SetValue(displayName)
	s.inputs[fieldDisplayName].Focus()
	return s
}

// ThemePreference returns the currently selected theme.
func (s *Settings) ThemePreference() string {
	return s.themePref
}

// Update routes key events to the focused input. Tab cycles, ctrl+t
// cycles the theme preference.
func (s Settings) Update(msg tea.Msg) (Settings, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			s.setFocus((s.focus + 1) % fieldCount)
			return s, nil
		case "shift+tab", "up":
			s.setFocus((s.focus + fieldCount - 1) % fieldCount)
			return s, nil
		case "ctrl+t":
			s.cycleTheme()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *Settings) setFocus(i int) {
	s.inputs[s.focus].Blur()
	s.focus = i
	s.inputs[s.focus].Focus()
}

func (s *Settings) cycleTheme() {
	switch s.themePref {
	case "auto":
		s.themePref = "dark"
	case "dark":
		s.themePref = "light"
	default:
		s.themePref = "auto"
	}
	s.themeDirty = true
}

// Submit validates the panel and builds the profile update to send.
// Returns nil when validation failed (field errors are set) or when
// nothing changed.
func (s *Settings) Submit(currentDisplayName string) *api.ProfileUpdate {
	for i := range s.errors {
		s.errors[i] = ""
	}

	update := &api.ProfileUpdate{}
	changed := false

	if name := strings.TrimSpace(s.inputs[fieldDisplayName].Value()); name != currentDisplayName {
		nameField := &validate.Field{Name: "display_name", Value: name}
		if !validate.Username(nameField) {
			s.errors[fieldDisplayName] = nameField.Error
			return nil
		}
		update.DisplayName = &name
		changed = true
	}

	if s.themeDirty {
		pref := s.themePref
		update.ThemePreference = &pref
		changed = true
	}

	current := s.inputs[fieldCurrentPassword].Value()
	newPass := s.inputs[fieldNewPassword].Value()
	confirm := s.inputs[fieldConfirmPassword].Value()
	if current != "" || newPass != "" || confirm != "" {
		form := validate.PasswordChangeForm{
			Current: &validate.Field{Name: "current_password", Value: current},
			New:     &validate.Field{Name: "new_password", Value: newPass},
			Confirm: &validate.Field{Name: "confirm_password", Value: confirm},
		}
		if !form.Validate() {
			s.errors[fieldCurrentPassword] = form.Current.Error
			s.errors[fieldNewPassword] = form.New.Error
			s.errors[fieldConfirmPassword] = form.Confirm.Error
			return nil
		}
		update.CurrentPassword = &current
		update.NewPassword = &newPass
		changed = true
	}

	if !changed {
		return nil
	}
	return update
}

// HasErrors reports whether the last submit left field errors.
func (s *Settings) HasErrors() bool {
	for _, e := range s.errors {
		if e != "" {
			return true
		}
	}
	return false
}

// ClearPasswords empties the password fields after a submit.
func (s *Settings) ClearPasswords() {
	s.inputs[fieldCurrentPassword].SetValue("")
	s.inputs[fieldNewPassword].SetValue("")
	s.inputs[fieldConfirmPassword].SetValue("")
}

// View renders the panel.
func (s *Settings) View(width, height int) string {
	t := s.theme

	var sb strings.Builder
	sb.WriteString(t.PanelTitle.Render("Settings"))
	sb.WriteString("\n\n")

	labels := [fieldCount]string{"Display name", "Current password", "New password", "Confirm new password"}
	for i := range s.inputs {
		sb.WriteString(t.ShortcutDesc.Render(labels[i]))
		sb.WriteString("\n")
		sb.WriteString(s.inputs[i].View())
		sb.WriteString("\n")
		if s.errors[i] != "" {
			sb.WriteString(t.FieldError.Render(s.errors[i]))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(t.ShortcutDesc.Render("Theme: "))
	sb.WriteString(t.ShortcutKey.Render(s.themePref))
	sb.WriteString(t.ShortcutDesc.Render("  (ctrl+t to change)"))
	sb.WriteString("\n\n")
	sb.WriteString(t.ShortcutKey.Render("[enter]"))
	sb.WriteString(t.ShortcutDesc.Render(" Save  "))
	sb.WriteString(t.ShortcutKey.Render("[esc]"))
	sb.WriteString(t.ShortcutDesc.Render(" Close"))

	box := t.PanelBox.Render(sb.String())
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
