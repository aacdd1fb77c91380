package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Category groups opportunities that share a dynamic field schema
type Category struct {
	ID          types.CategoryID
	Title       string
	Description string
	Icon        string
	Color       string // optional, #RGB or #RRGGBB
	Count       int    // number of opportunities in the category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the category's own attributes
func (c *Category) Validate() error {
	verr := NewValidationError()
	if err := c.ID.Validate(); err != nil {
		verr.Add("id", err.Error())
	}
	if strings.TrimSpace(c.Title) == "" {
		verr.Add("title", "title is required")
	}
	if c.Color != "" && !colorPattern.MatchString(c.Color) {
		verr.Add("color", "color must be a hex code like #1a2b3c")
	}
	if c.Count < 0 {
		return goerr.New("category count cannot be negative", goerr.V("category_id", c.ID), goerr.V("count", c.Count))
	}
	return verr.OrNil()
}
