package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"yatube/internal/service"
	"yatube/pkg/logger"
	"yatube/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const contentTypeJSON = "application/json; charset=utf-8"

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		code = http.StatusInternalServerError
		resp = errorResponse{Error: "internal error"}
	)

	switch {
	case errors.Is(err, service.ErrNotFound):
		code, resp.Error = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrInvalidRequest):
		code, resp.Error = http.StatusBadRequest, "invalid request"
		resp.Fields = fieldErrors(err)
	case errors.Is(err, service.ErrAlreadyExists):
		code, resp.Error = http.StatusConflict, "already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		code, resp.Error = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		code, resp.Error = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		code, resp.Error = http.StatusForbidden, "forbidden"
	}

	l := logger.FromContext(r.Context())
	if code == http.StatusInternalServerError {
		l.Error("request failed", "error", err)
	} else {
		l.Debug("request rejected", "status", code, "error", err)
	}
	writeJSON(w, code, resp)
}

// fieldErrors maps validation failures to field -> failed rule.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = fe.Tag()
		}
	}
	var ferr *service.FieldError
	if errors.As(err, &ferr) {
		out[ferr.Field] = ferr.Message
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func postIDVar(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["post_id"], 10, 64)
	return id, err == nil && id > 0
}

// optionalID parses an optional form id. Empty means unset.
func optionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func pageNumber(r *http.Request) int {
	return pagination.ParsePageNumber(r.URL.Query().Get("page"))
}
