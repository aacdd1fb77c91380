package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/storage"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/errutil"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// maxBodySize bounds JSON request bodies
const maxBodySize = 1 << 20

var errBadRequest = goerr.New("bad request")

// statusCode maps an error returned by a use case to an HTTP status
func statusCode(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, storage.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, interfaces.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrConflict),
		errors.Is(err, usecase.ErrOpportunityClosed):
		return http.StatusConflict
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, usecase.ErrUploadDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusCode(err))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write response", "error", err)
	}
}

// decodeJSON reads a JSON request body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return goerr.Wrap(errBadRequest, "request body is empty")
		}
		return goerr.Wrap(errBadRequest, "invalid JSON body", goerr.V("reason", err.Error()))
	}
	return nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, goerr.Wrap(errBadRequest, "invalid query parameter", goerr.V("name", name), goerr.V("value", raw))
	}
	return n, nil
}
