// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"btc-sim/internal/config"
	"btc-sim/internal/logger"
	"btc-sim/internal/market"
	"btc-sim/internal/portfolio"
	"btc-sim/internal/sim"
	"btc-sim/internal/store"
	"btc-sim/internal/strategy"

	"github.com/gorilla/mux"
)

// maxBatchTrials caps POST /api/batch so a single request cannot pin the server.
const maxBatchTrials = 10000

// SimulationRequest overrides individual simulation parameters. Omitted
// fields keep the server's configured value.
type SimulationRequest struct {
	Days         *int     `json:"days,omitempty"`
	InitialPrice *float64 `json:"initialPrice,omitempty"`
	Volatility   *float64 `json:"volatility,omitempty"`
	Drift        *float64 `json:"drift,omitempty"`
	ShortWindow  *int     `json:"shortWindow,omitempty"`
	LongWindow   *int     `json:"longWindow,omitempty"`
	InitialCash  *float64 `json:"initialCash,omitempty"`
	Seed         *uint64  `json:"seed,omitempty"`
}

// BatchRequest is the body of POST /api/batch.
type BatchRequest struct {
	SimulationRequest
	Trials  int `json:"trials"`
	Workers int `json:"workers,omitempty"`
}

// RunSummary is the list view of a stored run.
type RunSummary struct {
	ID        string            `json:"id"`
	Seed      uint64            `json:"seed"`
	StartedAt time.Time         `json:"startedAt"`
	Params    config.Simulation `json:"params"`
	Summary   portfolio.Summary `json:"summary"`
}

// Apply returns base with every field set in the request replaced.
func (req SimulationRequest) Apply(base config.Simulation) config.Simulation {
	if req.Days != nil {
		base.Days = *req.Days
	}
	if req.InitialPrice != nil {
		base.InitialPrice = *req.InitialPrice
	}
	if req.Volatility != nil {
		base.Volatility = *req.Volatility
	}
	if req.Drift != nil {
		base.Drift = *req.Drift
	}
	if req.ShortWindow != nil {
		base.ShortWindow = *req.ShortWindow
	}
	if req.LongWindow != nil {
		base.LongWindow = *req.LongWindow
	}
	if req.InitialCash != nil {
		base.InitialCash = *req.InitialCash
	}
	if req.Seed != nil {
		base.Seed = *req.Seed
	}
	return base
}

// requestFromQuery reads the same overrides from URL query parameters.
func requestFromQuery(q url.Values) (SimulationRequest, error) {
	var req SimulationRequest
	ints := map[string]**int{"days": &req.Days, "shortWindow": &req.ShortWindow, "longWindow": &req.LongWindow}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("query parameter %s: %w", name, err)
			}
			*dst = &n
		}
	}
	floats := map[string]**float64{"initialPrice": &req.InitialPrice, "volatility": &req.Volatility, "drift": &req.Drift, "initialCash": &req.InitialCash}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return req, fmt.Errorf("query parameter %s: %w", name, err)
			}
			*dst = &f
		}
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("query parameter seed: %w", err)
		}
		req.Seed = &seed
	}
	return req, nil
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("error reading request body: %w", err)
	}
	defer r.Body.Close()

	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// RegisterSimulationRoutes registers the simulation endpoints. The stream
// route is registered before the {id} route so it is not captured by it.
func RegisterSimulationRoutes(router *mux.Router, s *Server) {
	router.HandleFunc("/api/simulations", s.createSimulationHandler).Methods("POST")
	router.HandleFunc("/api/simulations", s.listSimulationsHandler).Methods("GET")
	router.HandleFunc("/api/simulations/stream", s.streamSimulationHandler).Methods("GET")
	router.HandleFunc("/api/simulations/{id}", s.getSimulationHandler).Methods("GET")
	router.HandleFunc("/api/batch", s.batchHandler).Methods("POST")
}

// createSimulationHandler serves POST /api/simulations. The body holds
// optional parameter overrides; the finished run is stored and returned.
func (s *Server) createSimulationHandler(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := sim.Run(r.Context(), req.Apply(s.cfg.Simulation))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.runs.Save(res)
	s.metrics.ObserveRun(res)
	logger.Info("Simulation created", "id", res.ID, "seed", res.Seed, "profit", res.Summary.Profit)
	writeJSONResponse(w, http.StatusCreated, res)
}

// listSimulationsHandler serves GET /api/simulations?limit=N.
func (s *Server) listSimulationsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	runs := s.runs.List(limit)
	out := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunSummary{
			ID:        run.ID,
			Seed:      run.Seed,
			StartedAt: run.StartedAt,
			Params:    run.Params,
			Summary:   run.Summary,
		})
	}
	writeJSONResponse(w, http.StatusOK, out)
}

// getSimulationHandler serves GET /api/simulations/{id}.
func (s *Server) getSimulationHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res, err := s.runs.Get(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSONResponse(w, http.StatusOK, res)
}

// batchHandler serves POST /api/batch.
func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Trials > maxBatchTrials {
		writeError(w, http.StatusBadRequest, fmt.Errorf("trials must not exceed %d", maxBatchTrials))
		return
	}

	br, err := sim.Batch(r.Context(), req.Apply(s.cfg.Simulation), req.Trials, req.Workers, nil)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSONResponse(w, http.StatusOK, br)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, sim.ErrNoTrials),
		errors.Is(err, market.ErrInvalidParams),
		errors.Is(err, strategy.ErrInvalidWindows),
		errors.Is(err, portfolio.ErrInvalidCash):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
