package http

import (
	"errors"
	"net/http"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/storage"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// multipartOverhead leaves room for boundaries and headers around the file
const multipartOverhead = 64 << 10

// uploadHandler stores the multipart "file" part and returns its URL
func uploadHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxObjectSize+multipartOverhead)

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				handleError(r.Context(), w, goerr.Wrap(storage.ErrTooLarge, "upload too large", goerr.V("limit", storage.MaxObjectSize)))
				return
			}
			handleError(r.Context(), w, goerr.Wrap(errBadRequest, "multipart field \"file\" is required", goerr.V("reason", err.Error())))
			return
		}
		defer safe.Close(r.Context(), file)

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		obj, err := uc.Upload(r.Context(), header.Filename, contentType, file)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, obj)
	}
}
