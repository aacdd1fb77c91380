package types

import "github.com/m-mizutani/goerr/v2"

// ApplicationStatus represents the review state of an application
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

// AllApplicationStatuses returns all valid application statuses
func AllApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusReviewing,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
	}
}

// IsValid checks if the application status is valid
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending,
		ApplicationStatusReviewing,
		ApplicationStatusAccepted,
		ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// IsFinal reports whether no further transition is expected
func (s ApplicationStatus) IsFinal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

func (s ApplicationStatus) String() string {
	return string(s)
}

// ParseApplicationStatus parses a string into an ApplicationStatus
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	status := ApplicationStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid application status", goerr.V("status", s))
	}
	return status, nil
}
