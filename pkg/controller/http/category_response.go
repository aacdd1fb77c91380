package http

import (
	"net/http"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
)

type submitResponseRequest struct {
	Config model.FieldValueRecord `json:"config"`
}

func getResponseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := uc.Response.GetResponse(r.Context(), categoryIDParam(r))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toCategoryAnswersResponse(resp))
	}
}

func submitResponseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitResponseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		resp, err := uc.Response.SubmitResponse(r.Context(), categoryIDParam(r), req.Config)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toCategoryAnswersResponse(resp))
	}
}
