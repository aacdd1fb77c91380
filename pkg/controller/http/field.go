package http

import (
	"net/http"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type createFieldRequest struct {
	Label       string   `json:"label"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Step        *float64 `json:"step"`
}

type reorderFieldsRequest struct {
	FieldIDs []string `json:"field_ids"`
}

func listFieldsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := uc.Field.ListFields(r.Context(), categoryIDParam(r))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, mapSlice(fields, toFieldResponse))
	}
}

func createFieldHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFieldRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		f, err := uc.Field.CreateField(r.Context(), categoryIDParam(r), usecase.FieldInput{
			Label:       req.Label,
			Name:        req.Name,
			Type:        types.FieldType(req.Type),
			Required:    req.Required,
			Placeholder: req.Placeholder,
			Options:     req.Options,
			Min:         req.Min,
			Max:         req.Max,
			Step:        req.Step,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, toFieldResponse(f))
	}
}

func reorderFieldsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderFieldsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		ids := make([]types.FieldID, len(req.FieldIDs))
		for i, id := range req.FieldIDs {
			ids[i] = types.FieldID(id)
		}

		fields, err := uc.Field.ReorderFields(r.Context(), categoryIDParam(r), ids)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, mapSlice(fields, toFieldResponse))
	}
}

func deleteFieldHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldID := types.FieldID(chi.URLParam(r, "fieldID"))
		if err := uc.Field.DeleteField(r.Context(), categoryIDParam(r), fieldID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// formHandler renders the category's form, prefilled from an opportunity
// when opportunity_id is given.
func formHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opportunityID := types.OpportunityID(r.URL.Query().Get("opportunity_id"))
		form, err := uc.Field.GetForm(r.Context(), categoryIDParam(r), opportunityID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, form)
	}
}
