package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	env     string
	started time.Time
}

func NewHealthHandler(db Pinger, env string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		env:     env,
		started: time.Now(),
	}
}

type healthResponse struct {
	Status      string    `json:"status"`
	Uptime      float64   `json:"uptime"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

// Check godoc
// @Summary      Health check
// @Description  Reports uptime in seconds. Returns 503 when the database does not answer a ping.
// @Tags         health
// @Produce      json
// @Success      200
// @Failure      503
// @Router       /health [get]
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{
		Status:      "ok",
		Uptime:      time.Since(h.started).Seconds(),
		Timestamp:   time.Now().UTC(),
		Environment: h.env,
	}

	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check: database ping failed")
			status = http.StatusServiceUnavailable
			res.Status = "unavailable"
		}
	}
	writeJSON(w, status, res)
}
