package types

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// CategoryID represents a unique identifier for an opportunity category
type CategoryID string

// FieldID represents a unique identifier for a category field
type FieldID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NewCategoryID generates a random CategoryID
func NewCategoryID() CategoryID {
	return CategoryID(uuid.NewString())
}

// Validate checks if the CategoryID is valid
func (c CategoryID) Validate() error {
	if c == "" {
		return goerr.New("category ID cannot be empty")
	}
	if !idPattern.MatchString(string(c)) {
		return goerr.New("category ID must be lowercase alphanumeric with hyphens", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CategoryID
func (c CategoryID) String() string {
	return string(c)
}

// NewFieldID generates a random FieldID
func NewFieldID() FieldID {
	return FieldID(uuid.NewString())
}

// Validate checks if the FieldID is valid
func (f FieldID) Validate() error {
	if f == "" {
		return goerr.New("field ID cannot be empty")
	}
	if !idPattern.MatchString(string(f)) {
		return goerr.New("field ID must be lowercase alphanumeric with hyphens", goerr.V("id", f))
	}
	return nil
}

// String returns the string representation of FieldID
func (f FieldID) String() string {
	return string(f)
}
