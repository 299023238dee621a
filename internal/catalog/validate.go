package catalog

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// packagePattern matches Android application identifiers such as
// "com.samsung.android.goodlock".
var packagePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every entry for required fields and valid values, and
// rejects duplicate package identifiers.
func Validate(entries []Entry) error {
	var errors []string
	seen := make(map[string]int, len(entries))

	for i, e := range entries {
		if err := validateEntry(i, e); err != nil {
			errors = append(errors, err.Error())
			continue
		}
		if first, ok := seen[e.Package]; ok {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("modules[%d].package", i),
				Message: fmt.Sprintf("duplicate package '%s' (first declared at modules[%d])", e.Package, first),
			}.Error())
			continue
		}
		seen[e.Package] = i
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateEntry(index int, e Entry) error {
	if e.Name == "" {
		return ValidationError{
			Field:   fmt.Sprintf("modules[%d].name", index),
			Message: "name is required",
		}
	}

	if !packagePattern.MatchString(e.Package) {
		return ValidationError{
			Field:   fmt.Sprintf("modules[%d].package", index),
			Message: fmt.Sprintf("invalid package identifier '%s'", e.Package),
		}
	}

	if err := e.Category.Validate(); err != nil {
		return ValidationError{
			Field:   fmt.Sprintf("modules[%d].category", index),
			Message: err.Error(),
		}
	}

	u, err := url.Parse(e.InfoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{
			Field:   fmt.Sprintf("modules[%d].info_url", index),
			Message: fmt.Sprintf("info_url must be an absolute http(s) URL, got '%s'", e.InfoURL),
		}
	}

	return nil
}
