package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// Limits on fixed opportunity fields
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
)

// Opportunity is a listing published by a company in a category
type Opportunity struct {
	ID          types.OpportunityID
	Title       string
	Description string
	CategoryID  types.CategoryID
	CompanyID   types.UserID
	Location    string
	Deadline    string // YYYY-MM-DD or RFC3339, empty when open-ended
	ApplyURL    string
	Status      types.OpportunityStatus
	Config      FieldValueRecord
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateFixed checks the fixed fields. Whether CategoryID refers to an
// existing category is checked by the caller.
func (o *Opportunity) ValidateFixed() *ValidationError {
	verr := NewValidationError()

	title := strings.TrimSpace(o.Title)
	switch {
	case title == "":
		verr.Add("title", "title is required")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		verr.Add("title", "title must be at most 200 characters")
	}

	if utf8.RuneCountInString(o.Description) > MaxDescriptionLength {
		verr.Add("description", "description must be at most 10000 characters")
	}

	if o.CategoryID == "" {
		verr.Add("category_id", "category is required")
	} else if err := o.CategoryID.Validate(); err != nil {
		verr.Add("category_id", "category ID is malformed")
	}

	if o.Deadline != "" {
		if _, err := ParseDate(o.Deadline); err != nil {
			verr.Add("deadline", "deadline must be a date (YYYY-MM-DD)")
		}
	}

	if o.ApplyURL != "" && !IsHTTPURL(o.ApplyURL) {
		verr.Add("apply_url", "apply URL must be an absolute http(s) URL")
	}

	if !o.Status.Normalize().IsValid() {
		verr.Add("status", "status must be open or closed")
	}

	return verr
}

// AcceptsApplications reports whether the opportunity is open and its
// deadline, if any, has not passed at now. A date-only deadline runs to the
// end of that day in UTC.
func (o *Opportunity) AcceptsApplications(now time.Time) bool {
	if o.Status.Normalize() != types.OpportunityStatusOpen {
		return false
	}
	if o.Deadline == "" {
		return true
	}
	deadline, err := ParseDate(o.Deadline)
	if err != nil {
		return true
	}
	if len(o.Deadline) == len(time.DateOnly) {
		deadline = deadline.Add(24 * time.Hour)
	}
	return now.Before(deadline)
}
