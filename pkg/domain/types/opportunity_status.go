package types

import "github.com/m-mizutani/goerr/v2"

// OpportunityStatus represents whether an opportunity accepts applications
type OpportunityStatus string

const (
	OpportunityStatusOpen   OpportunityStatus = "open"
	OpportunityStatusClosed OpportunityStatus = "closed"
)

// IsValid checks if the opportunity status is valid
func (s OpportunityStatus) IsValid() bool {
	switch s {
	case OpportunityStatusOpen,
		OpportunityStatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as OpportunityStatusOpen
func (s OpportunityStatus) Normalize() OpportunityStatus {
	if s == "" {
		return OpportunityStatusOpen
	}
	return s
}

func (s OpportunityStatus) String() string {
	return string(s)
}

// ParseOpportunityStatus parses a string into an OpportunityStatus
func ParseOpportunityStatus(s string) (OpportunityStatus, error) {
	status := OpportunityStatus(s).Normalize()
	if !status.IsValid() {
		return "", goerr.New("invalid opportunity status", goerr.V("status", s))
	}
	return status, nil
}
