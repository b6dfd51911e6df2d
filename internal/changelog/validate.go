package changelog

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError represents a changelog validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Validate checks the invariants a generated changelog must satisfy before
// it is written: at least one release, unique non-empty labels, and
// non-empty categories with OtherCategory last.
func Validate(c *Changelog) error {
	if len(c.Releases) == 0 {
		return &ValidationError{Field: "releases", Message: "at least one release is required"}
	}

	seen := make(map[string]bool, len(c.Releases))
	for i, r := range c.Releases {
		if r.Label == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("releases[%d].label", i),
				Message: "required field is empty",
			}
		}
		if seen[r.Label] {
			return &ValidationError{
				Field:   fmt.Sprintf("releases[%d].label", i),
				Message: fmt.Sprintf("duplicate release %q", r.Label),
			}
		}
		seen[r.Label] = true

		if err := validateCategories(r.Categories, i); err != nil {
			return err
		}
	}

	return nil
}

func validateCategories(categories []Category, releaseIndex int) error {
	if len(categories) == 0 {
		return &ValidationError{
			Field:   fmt.Sprintf("releases[%d].categories", releaseIndex),
			Message: "at least one category is required",
		}
	}

	for i, cat := range categories {
		field := fmt.Sprintf("releases[%d].categories[%d]", releaseIndex, i)
		if strings.TrimSpace(cat.Name) == "" {
			return &ValidationError{Field: field + ".name", Message: "required field is empty"}
		}
		if len(cat.Commits) == 0 {
			return &ValidationError{Field: field + ".commits", Message: "category cannot be empty"}
		}
		if cat.Name == OtherCategory && i != len(categories)-1 {
			return &ValidationError{Field: field, Message: "Other must be the last category"}
		}
	}

	return nil
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RenderYAML writes the changelog as YAML, newest release first, matching
// the order of the Markdown document.
func RenderYAML(c *Changelog, w io.Writer) error {
	doc := Changelog{Title: c.Title, Releases: c.Newest()}
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding changelog YAML: %w", err)
	}
	return enc.Close()
}

// LoadYAML reads a document written by RenderYAML and restores assembly
// order. The result is validated.
func LoadYAML(r io.Reader) (*Changelog, error) {
	var doc Changelog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing changelog YAML: %w", err)
	}

	log := &Changelog{Title: doc.Title, Releases: doc.Newest()}
	if err := Validate(log); err != nil {
		return nil, err
	}
	return log, nil
}
