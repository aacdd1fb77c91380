package http

import (
	"net/http"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type applyRequest struct {
	CoverLetter string                 `json:"cover_letter"`
	ResumeURL   string                 `json:"resume_url"`
	Answers     model.FieldValueRecord `json:"answers"`
}

type updateApplicationStatusRequest struct {
	Status string `json:"status"`
}

func applyHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		app, err := uc.Application.Apply(r.Context(), opportunityIDParam(r), usecase.ApplyInput{
			CoverLetter: req.CoverLetter,
			ResumeURL:   req.ResumeURL,
			Answers:     req.Answers,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, toApplicationResponse(app))
	}
}

func listOpportunityApplicationsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := uc.Application.ListApplicationsForOpportunity(r.Context(), opportunityIDParam(r))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, mapSlice(list, toApplicationResponse))
	}
}

func listMyApplicationsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := uc.Application.ListMyApplications(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, mapSlice(list, toApplicationResponse))
	}
}

func updateApplicationStatusHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateApplicationStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		id := types.ApplicationID(chi.URLParam(r, "applicationID"))
		app, err := uc.Application.UpdateApplicationStatus(r.Context(), id, types.ApplicationStatus(req.Status))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toApplicationResponse(app))
	}
}
