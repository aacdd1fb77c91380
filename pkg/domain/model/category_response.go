package model

import (
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// CategoryResponse holds a user's answers to a category's fields
type CategoryResponse struct {
	CategoryID types.CategoryID
	UserID     types.UserID
	Config     FieldValueRecord
	UpdatedAt  time.Time
}
