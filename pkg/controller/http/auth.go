package http

import (
	"net/http"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
)

type verifyAdminRequest struct {
	Secret string `json:"secret"`
}

type verifyAdminResponse struct {
	Valid bool `json:"valid"`
}

// meHandler returns the caller's profile
func meHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := uc.Auth.Me(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toProfileResponse(p))
	}
}

// verifyAdminHandler checks the caller's admin secret. A wrong secret is not
// an error; the response simply reports it as invalid.
func verifyAdminHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyAdminRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		ok, err := uc.Auth.VerifyAdminCredential(r.Context(), req.Secret)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, verifyAdminResponse{Valid: ok})
	}
}
