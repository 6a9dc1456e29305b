// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package store keeps finished simulation runs in memory.
package store

import (
	"errors"
	"sync"

	"btc-sim/internal/sim"
)

// ErrNotFound is returned when no run has the requested identifier.
var ErrNotFound = errors.New("simulation run not found")

// RunStore is a bounded, concurrency-safe history of runs. When full, the
// oldest run is evicted.
type RunStore struct {
	mu       sync.RWMutex
	capacity int
	runs     map[string]*sim.Result
	order    []string // oldest first
}

// NewRunStore returns a store holding at most capacity runs. A capacity
// below one keeps a single run.
func NewRunStore(capacity int) *RunStore {
	if capacity < 1 {
		capacity = 1
	}
	return &RunStore{
		capacity: capacity,
		runs:     make(map[string]*sim.Result),
	}
}

// Save stores r, replacing any run with the same identifier.
func (s *RunStore) Save(r *sim.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.runs[r.ID] = r

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
	}
}

// Get returns the run with identifier id.
func (s *RunStore) Get(id string) (*sim.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every stored run.
func (s *RunStore) List(limit int) []*sim.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*sim.Result, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.runs[s.order[i]])
	}
	return out
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
