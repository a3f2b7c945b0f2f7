// Package validation holds the pure client-side form rules the admin forms
// run before any network call. A rule maps a raw string value to an error
// message, empty meaning valid.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rule checks a single field value. It returns "" when the value is valid.
type Rule func(value string) string

// Required fails on values whose trimmed length is zero.
func Required(label string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("Please enter %s", label)
		}
		return ""
	}
}

// MaxLength fails when the raw value exceeds limit characters.
func MaxLength(limit int, label string) Rule {
	return func(value string) string {
		if utf8.RuneCountInString(value) > limit {
			return fmt.Sprintf("%s must be at most %d characters", label, limit)
		}
		return ""
	}
}

// ValidateForm evaluates each field's rules in order and records only the
// first failing message per field. Fields are independent; a failure in one
// never short-circuits another. A field absent from the result is valid.
func ValidateForm(data map[string]string, rules map[string][]Rule) map[string]string {
	errs := make(map[string]string)
	for field, fieldRules := range rules {
		value := data[field]
		for _, rule := range fieldRules {
			if msg := rule(value); msg != "" {
				errs[field] = msg
				break
			}
		}
	}
	return errs
}
