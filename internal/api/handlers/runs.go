package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"transit-reachability-service/internal/api/dto"
	"transit-reachability-service/internal/logging"
	"transit-reachability-service/internal/services"

	"github.com/go-playground/validator/v10"
)

// Runner is satisfied by *services.Reachability.
type Runner interface {
	Run(ctx context.Context, req services.RunRequest) (*services.RunResult, error)
}

// RunHandler recomputes the pipeline on demand and replaces the served result.
type RunHandler struct {
	Runner   Runner
	Defaults services.RunRequest
	Results  *ResultStore
	Now      func() time.Time

	validate *validator.Validate
	running  sync.Mutex
}

func NewRunHandler(runner Runner, defaults services.RunRequest, results *ResultStore) *RunHandler {
	return &RunHandler{
		Runner:   runner,
		Defaults: defaults,
		Results:  results,
		Now:      time.Now,
		validate: validator.New(),
	}
}

// Create runs the pipeline once. The body is optional; an empty body reuses the
// configured destinations and ceiling.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RunRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}
	for i, n := range req.Destinations {
		req.Destinations[i] = strings.TrimSpace(n)
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "destinations must be non-empty names and max_duration greater than 1")
		return
	}

	svcReq := h.Defaults
	if len(req.Destinations) > 0 {
		svcReq.Destinations = req.Destinations
	}
	if req.MaxDuration != 0 {
		// The provider fetches up to the configured ceiling only.
		if req.MaxDuration > h.Defaults.MaxDuration {
			writeError(w, r, http.StatusBadRequest,
				fmt.Sprintf("max_duration must not exceed %d", h.Defaults.MaxDuration))
			return
		}
		svcReq.MaxDuration = req.MaxDuration
	}

	if !h.running.TryLock() {
		writeError(w, r, http.StatusConflict, "a run is already in progress")
		return
	}
	defer h.running.Unlock()

	result, err := h.Runner.Run(r.Context(), svcReq)
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "reachability run failed", err)
		writeError(w, r, http.StatusBadGateway, "reachability run failed")
		return
	}

	now := h.Now()
	h.Results.Store(result, now)

	names := make([]string, 0, len(result.Destinations))
	for _, d := range result.Destinations {
		names = append(names, d.Name)
	}
	logging.LogOperation(logging.FromContext(r.Context()), "reachability_run_stored",
		slog.Int("stops", len(result.Stops)),
		slog.Int("districts", len(result.Districts)))

	writeJSON(w, r, http.StatusOK, dto.RunResponse{
		Destinations: names,
		Stops:        len(result.Stops),
		Orphans:      len(result.Orphans),
		Districts:    len(result.Districts),
		MaxDuration:  result.MaxDuration,
		ComputedAt:   now,
	})
}
