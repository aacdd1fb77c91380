package http

import (
	"net/http"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type opportunityRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	CategoryID  string                 `json:"category_id"`
	Location    string                 `json:"location"`
	Deadline    string                 `json:"deadline"`
	ApplyURL    string                 `json:"apply_url"`
	Status      string                 `json:"status"`
	Config      model.FieldValueRecord `json:"config"`
}

func (req opportunityRequest) input() usecase.OpportunityInput {
	return usecase.OpportunityInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  types.CategoryID(req.CategoryID),
		Location:    req.Location,
		Deadline:    req.Deadline,
		ApplyURL:    req.ApplyURL,
		Status:      types.OpportunityStatus(req.Status),
		Config:      req.Config,
	}
}

func opportunityIDParam(r *http.Request) types.OpportunityID {
	return types.OpportunityID(chi.URLParam(r, "opportunityID"))
}

func listOpportunitiesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		q := r.URL.Query()
		list, err := uc.Opportunity.ListOpportunities(r.Context(), usecase.ListOpportunitiesInput{
			CategoryID: types.CategoryID(q.Get("category_id")),
			CompanyID:  types.UserID(q.Get("company_id")),
			Status:     types.OpportunityStatus(q.Get("status")),
			Limit:      limit,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, mapSlice(list, toOpportunityResponse))
	}
}

func createOpportunityHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req opportunityRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		o, err := uc.Opportunity.CreateOpportunity(r.Context(), req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, toOpportunityResponse(o))
	}
}

func getOpportunityHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := uc.Opportunity.GetOpportunity(r.Context(), opportunityIDParam(r))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toOpportunityResponse(o))
	}
}

func updateOpportunityHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req opportunityRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		o, err := uc.Opportunity.UpdateOpportunity(r.Context(), opportunityIDParam(r), req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toOpportunityResponse(o))
	}
}

func deleteOpportunityHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Opportunity.DeleteOpportunity(r.Context(), opportunityIDParam(r)); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
