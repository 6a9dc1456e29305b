// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"btc-sim/internal/logger"
	"btc-sim/internal/portfolio"
	"btc-sim/internal/sim"
)

// writeEvent sends one server-sent event. data is marshalled to JSON unless
// it already is a string.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	var payload string
	switch v := data.(type) {
	case string:
		payload = strings.ReplaceAll(strings.TrimRight(v, " \t\r\n"), "\n", "\\n")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// streamSimulationHandler serves GET /api/simulations/stream.
//
// The simulation parameters come from query parameters (days, seed,
// initialPrice, volatility, drift, shortWindow, longWindow, initialCash).
// Events, in order:
//   - day: one ledger entry as JSON, in day order
//   - run: the run identifier and resolved seed
//   - summary: the final performance summary
//   - error: a failure message; the stream ends after it
//   - done: the stream is complete
//
// The run is stored once it finishes, so it can be fetched again by id.
func (s *Server) streamSimulationHandler(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg := req.Apply(s.cfg.Simulation)
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	res, err := sim.Stream(r.Context(), cfg, func(e portfolio.Entry) error {
		return writeEvent(w, flusher, "day", e)
	})
	if err != nil {
		logger.Warn("Simulation stream aborted", "error", err)
		_ = writeEvent(w, flusher, "error", err.Error())
		return
	}

	s.runs.Save(res)
	s.metrics.ObserveRun(res)

	_ = writeEvent(w, flusher, "run", map[string]any{"id": res.ID, "seed": res.Seed})
	_ = writeEvent(w, flusher, "summary", res.Summary)
	_ = writeEvent(w, flusher, "done", "Simulation finished")
}
