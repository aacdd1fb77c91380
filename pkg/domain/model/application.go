package model

import (
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// Application is a user's application to an opportunity
type Application struct {
	ID            types.ApplicationID
	OpportunityID types.OpportunityID
	UserID        types.UserID
	Status        types.ApplicationStatus
	CoverLetter   string
	ResumeURL     string
	Answers       FieldValueRecord // answers to the category's fields
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateFixed checks the non-dynamic attributes
func (a *Application) ValidateFixed() *ValidationError {
	verr := NewValidationError()
	if a.ResumeURL != "" && !IsHTTPURL(a.ResumeURL) {
		verr.Add("resume_url", "resume URL must be an absolute http(s) URL")
	}
	if len(a.CoverLetter) > MaxDescriptionLength {
		verr.Add("cover_letter", "cover letter must be at most 10000 characters")
	}
	if a.Status != "" && !a.Status.IsValid() {
		verr.Add("status", "invalid application status")
	}
	return verr
}
