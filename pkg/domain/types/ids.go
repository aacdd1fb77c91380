package types

import "github.com/google/uuid"

// OpportunityID identifies an opportunity listing
type OpportunityID string

// ApplicationID identifies an application to an opportunity
type ApplicationID string

// UserID is the identity provider's subject of an authenticated user
type UserID string

func NewOpportunityID() OpportunityID {
	return OpportunityID(uuid.NewString())
}

func NewApplicationID() ApplicationID {
	return ApplicationID(uuid.NewString())
}

func (id OpportunityID) String() string { return string(id) }

func (id ApplicationID) String() string { return string(id) }

func (id UserID) String() string { return string(id) }
