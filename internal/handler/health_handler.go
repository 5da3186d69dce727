package handler

import (
	"context"
	"net/http"
	"time"

	"go-vidtube/pkg/apierror"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "OK", "health check passed")
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "")
}

// Ready reports whether the database answers a ping within two seconds.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			writeError(w, apierror.New("NOT_READY", "database unavailable", "", http.StatusServiceUnavailable))
			return
		}
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, "")
}
