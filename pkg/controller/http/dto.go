package http

import (
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
)

type categoryResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color,omitempty"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID.String(),
		Title:       c.Title,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		Count:       c.Count,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type fieldResponse struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Label       string    `json:"label"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Order       int       `json:"order"`
	Options     []string  `json:"options,omitempty"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	Step        *float64  `json:"step,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toFieldResponse(f *model.CategoryField) fieldResponse {
	spec := model.EncodeFieldSpec(f.Spec)
	return fieldResponse{
		ID:          f.ID.String(),
		CategoryID:  f.CategoryID.String(),
		Label:       f.Label,
		Name:        f.Name,
		Type:        spec.Type.String(),
		Required:    f.Required,
		Placeholder: f.Placeholder,
		Order:       f.Order,
		Options:     spec.Options,
		Min:         spec.Min,
		Max:         spec.Max,
		Step:        spec.Step,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

type opportunityResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	CategoryID  string                 `json:"category_id"`
	CompanyID   string                 `json:"company_id"`
	Location    string                 `json:"location,omitempty"`
	Deadline    string                 `json:"deadline,omitempty"`
	ApplyURL    string                 `json:"apply_url,omitempty"`
	Status      string                 `json:"status"`
	Config      model.FieldValueRecord `json:"config"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func toOpportunityResponse(o *model.Opportunity) opportunityResponse {
	config := o.Config
	if config == nil {
		config = model.FieldValueRecord{}
	}
	return opportunityResponse{
		ID:          o.ID.String(),
		Title:       o.Title,
		Description: o.Description,
		CategoryID:  o.CategoryID.String(),
		CompanyID:   o.CompanyID.String(),
		Location:    o.Location,
		Deadline:    o.Deadline,
		ApplyURL:    o.ApplyURL,
		Status:      o.Status.String(),
		Config:      config,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

type applicationResponse struct {
	ID            string                 `json:"id"`
	OpportunityID string                 `json:"opportunity_id"`
	UserID        string                 `json:"user_id"`
	Status        string                 `json:"status"`
	CoverLetter   string                 `json:"cover_letter,omitempty"`
	ResumeURL     string                 `json:"resume_url,omitempty"`
	Answers       model.FieldValueRecord `json:"answers"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func toApplicationResponse(a *model.Application) applicationResponse {
	answers := a.Answers
	if answers == nil {
		answers = model.FieldValueRecord{}
	}
	return applicationResponse{
		ID:            a.ID.String(),
		OpportunityID: a.OpportunityID.String(),
		UserID:        a.UserID.String(),
		Status:        a.Status.String(),
		CoverLetter:   a.CoverLetter,
		ResumeURL:     a.ResumeURL,
		Answers:       answers,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

type categoryAnswersResponse struct {
	CategoryID string                 `json:"category_id"`
	UserID     string                 `json:"user_id"`
	Config     model.FieldValueRecord `json:"config"`
	UpdatedAt  *time.Time             `json:"updated_at,omitempty"`
}

func toCategoryAnswersResponse(r *model.CategoryResponse) categoryAnswersResponse {
	resp := categoryAnswersResponse{
		CategoryID: r.CategoryID.String(),
		UserID:     r.UserID.String(),
		Config:     r.Config,
	}
	if resp.Config == nil {
		resp.Config = model.FieldValueRecord{}
	}
	if !r.UpdatedAt.IsZero() {
		resp.UpdatedAt = &r.UpdatedAt
	}
	return resp
}

type profileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name,omitempty"`
	Role        string    `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProfileResponse(p *model.Profile) profileResponse {
	return profileResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		FullName:    p.FullName,
		Role:        p.Role.Normalize().String(),
		CompanyName: p.CompanyName,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
