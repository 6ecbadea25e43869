// Package validate holds the small set of field rules shared by the auth and
// payment paths, with messages in the same "The <field> ..." register.
//
//	errs := validate.Errors{}
//	errs.Check("email", validate.Email(email), validate.EmailMessage("email"))
//	errs.Check("name", validate.Required(name), validate.RequiredMessage("name"))
//	if errs.Has() { ... }
package validate

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email reports whether s looks like an email address.
func Email(s string) bool { return emailRE.MatchString(strings.TrimSpace(s)) }

// Required reports whether s has non-blank content.
func Required(s string) bool { return strings.TrimSpace(s) != "" }

// MinLen reports whether s has at least n characters.
func MinLen(s string, n int) bool { return utf8.RuneCountInString(s) >= n }

func RequiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

func EmailMessage(field string) string {
	return fmt.Sprintf("The %s must be a valid email address.", field)
}

func MinMessage(field string, n int) string {
	return fmt.Sprintf("The %s must be at least %d characters.", field, n)
}

// Errors maps a field name to its first failing rule message.
type Errors map[string]string

// Check records msg for field when ok is false. Only the first failure per
// field is kept.
func (e Errors) Check(field string, ok bool, msg string) {
	if ok {
		return
	}
	if _, exists := e[field]; exists {
		return
	}
	e[field] = msg
}

// Has returns true when at least one field failed.
func (e Errors) Has() bool { return len(e) > 0 }

// String renders the failures sorted by field name.
func (e Errors) String() string {
	parts := make([]string, 0, len(e))
	for _, field := range slices.Sorted(maps.Keys(e)) {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}
