package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"go-vidtube/internal/middleware"
	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// writeError is the single translator from domain errors to the error envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"
	var details []string

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		message = apiErr.Message
		details = append(details, apiErr.Details)
	} else if errors.Is(err, model.ErrTokenExpired) {
		status = http.StatusUnauthorized
		message = "token expired"
	} else if errors.Is(err, model.ErrInvalidToken) {
		status = http.StatusUnauthorized
		message = "invalid token"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		message = "unauthorized request"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	if status >= http.StatusInternalServerError && apiErr != nil {
		slog.Error("internal error", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.NewErrorResponse(status, message, details...))
}

func currentUser(r *http.Request) (model.User, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return model.User{}, model.ErrUnauthorized
	}
	return user, nil
}

// idParam reads a path parameter that must be a UUID.
func idParam(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apierror.BadRequest("invalid "+name, raw)
	}
	return id.String(), nil
}

func listQuery(r *http.Request) model.ListQuery {
	return model.ParseListQuery(r.URL.Query().Get)
}

// formFields holds the string fields of a JSON or url-encoded body. A key is
// present only when the client sent it, so optional updates can tell "absent"
// from "empty".
type formFields map[string]string

func (f formFields) get(key string) string {
	return strings.TrimSpace(f[key])
}

func (f formFields) optional(key string) *string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

// readFields accepts a JSON object or a url-encoded form.
func readFields(r *http.Request) (formFields, error) {
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	fields := formFields{}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, apierror.BadRequest("invalid form body", "")
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		return fields, nil
	default:
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return fields, nil
			}
			return nil, apierror.BadRequest("invalid JSON body", "")
		}
		for key, value := range raw {
			if s, ok := value.(string); ok {
				fields[key] = s
			}
		}
		return fields, nil
	}
}
