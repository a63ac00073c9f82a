// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validate implements the client-side form validation rules.
//
// Validation is advisory: the server revalidates everything. Rules run
// on a go-playground/validator engine with custom tags where the
// built-ins are stricter or looser than the UI contract.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error messages shown next to fields.
const (
	MsgUsernameRequired = "Username is required"
	MsgUsernameTooShort = "Username must be at least 3 characters"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgPasswordMismatch = "Passwords do not match"
)

// Field is one form field with its inline error slot. A nil *Field is
// tolerated everywhere and validates as true, so forms with optional
// fields share the same composite validators.
type Field struct {
	Name  string
	Value string
	Error string
}

// ClearError removes any annotation on the field.
func (f *Field) ClearError() {
	if f != nil {
		f.Error = ""
	}
}

func (f *Field) fail(msg string) bool {
	f.Error = msg
	return false
}

var engine = newEngine()

// newEngine builds the validator with the chat_email rule: at least one
// character before '@', at least one '.' in the domain, no whitespace.
// The built-in "email" tag accepts dotless domains, which the UI rejects.
func newEngine() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("chat_email", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.ContainsAny(s, " \t\n") {
			return false
		}
		at := strings.Index(s, "@")
		if at <= 0 || at == len(s)-1 {
			return false
		}
		domain := s[at+1:]
		if strings.Contains(domain, "@") {
			return false
		}
		dot := strings.Index(domain, ".")
		return dot > 0 && dot < len(domain)-1
	})
	return v
}

// =============================================================================
// FIELD RULES
// =============================================================================

// Username checks the username field: required after trimming, minimum
// 3 characters.
func Username(f *Field) bool {
	if f == nil {
		return true
	}
	f.ClearError()
	value := strings.TrimSpace(f.Value)
	if value == "" {
		return f.fail(MsgUsernameRequired)
	}
	if err := engine.Var(value, "min=3"); err != nil {
		return f.fail(MsgUsernameTooShort)
	}
	return true
}

// Email checks the email field: required after trimming, then the
// simple local@domain.tld shape.
func Email(f *Field) bool {
	if f == nil {
		return true
	}
	f.ClearError()
	value := strings.TrimSpace(f.Value)
	if value == "" {
		return f.fail(MsgEmailRequired)
	}
	if err := engine.Var(value, "chat_email"); err != nil {
		return f.fail(MsgEmailInvalid)
	}
	return true
}

// Password checks the password field: required, minimum 6 characters.
// No trimming; leading and trailing spaces are legal password content.
func Password(f *Field) bool {
	if f == nil {
		return true
	}
	f.ClearError()
	if f.Value == "" {
		return f.fail(MsgPasswordRequired)
	}
	if err := engine.Var(f.Value, "min=6"); err != nil {
		return f.fail(MsgPasswordTooShort)
	}
	return true
}

// PasswordMatch checks the confirm field against the password. An empty
// confirm field is valid so no mismatch shows while the user is still
// typing; the composite form validators require both on submit.
func PasswordMatch(password, confirm *Field) bool {
	if confirm == nil {
		return true
	}
	confirm.ClearError()
	if confirm.Value == "" {
		return true
	}
	if password != nil && password.Value != confirm.Value {
		return confirm.fail(MsgPasswordMismatch)
	}
	return true
}

// =============================================================================
// COMPOSITE FORMS
// =============================================================================

// RegisterForm is the signup form.
type RegisterForm struct {
	Username *Field
	Email    *Field
	Password *Field
	Confirm  *Field
}

// Validate clears all errors then runs every rule so each invalid field
// is annotated, not just the first.
func (r *RegisterForm) Validate() bool {
	r.Username.ClearError()
	r.Email.ClearError()
	r.Password.ClearError()
	r.Confirm.ClearError()

	results := []bool{
		Username(r.Username),
		Email(r.Email),
		Password(r.Password),
		PasswordMatch(r.Password, r.Confirm),
	}
	// Submit requires a confirm value; mid-typing tolerance only applies
	// to live validation.
	if r.Confirm != nil && r.Confirm.Value == "" && r.Password != nil && r.Password.Value != "" {
		results = append(results, r.Confirm.fail(MsgPasswordMismatch))
	}

	ok := true
	for _, res := range results {
		ok = ok && res
	}
	return ok
}

// LoginForm is the signin form.
type LoginForm struct {
	Email    *Field
	Password *Field
}

// Validate runs every rule without short-circuiting.
func (l *LoginForm) Validate() bool {
	results := []bool{
		Email(l.Email),
		Password(l.Password),
	}
	ok := true
	for _, res := range results {
		ok = ok && res
	}
	return ok
}

// PasswordChangeForm is the settings-panel password change.
type PasswordChangeForm struct {
	Current *Field
	New     *Field
	Confirm *Field
}

// Validate checks the new password and its confirmation. The current
// password only needs to be present; the server verifies it.
func (p *PasswordChangeForm) Validate() bool {
	results := make([]bool, 0, 3)

	if p.Current != nil {
		p.Current.ClearError()
		if p.Current.Value == "" {
			results = append(results, p.Current.fail(MsgPasswordRequired))
		}
	}
	results = append(results, Password(p.New))
	results = append(results, PasswordMatch(p.New, p.Confirm))
	if p.Confirm != nil && p.Confirm.Value == "" && p.New != nil && p.New.Value != "" {
		results = append(results, p.Confirm.fail(MsgPasswordMismatch))
	}

	ok := true
	for _, res := range results {
		ok = ok && res
	}
	return ok
}
