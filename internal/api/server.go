// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package api implements the HTTP API of the simulator. It runs simulations
// on request, keeps a short history of finished runs and streams ledgers as
// server-sent events.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"btc-sim/internal/config"
	"btc-sim/internal/logger"
	"btc-sim/internal/metrics"
	"btc-sim/internal/store"
	"btc-sim/internal/web"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the state shared by the handlers.
type Server struct {
	cfg      config.Config
	runs     *store.RunStore
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

// NewServer builds a Server using cfg as the base for every request. reg
// receives the metric collectors; a nil reg uses a private registry.
func NewServer(cfg config.Config, reg *prometheus.Registry) (*Server, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		runs:     store.NewRunStore(cfg.Serve.HistorySize),
		metrics:  m,
		gatherer: reg,
	}, nil
}

// Router returns the fully wired HTTP handler.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.metrics.Middleware)

	RegisterSimulationRoutes(router, s)
	router.HandleFunc("/api/config", s.getConfigHandler).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// Serve the embedded live ledger page.
	// Must be registered after API routes to avoid conflicts
	router.PathPrefix("/").Handler(web.Handler())
	return router
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSONResponse writes a JSON response with CORS headers. The body is
// encoded before the status line goes out so an unencodable value becomes a
// 500 instead of an empty success.
func writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSONResponse(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) getConfigHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, s.cfg.Simulation)
}
