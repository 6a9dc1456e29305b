// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package web embeds the live ledger page served by 'bsim serve'.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets/index.html
var assets embed.FS

// Handler serves the embedded page and its assets. The page is always
// revalidated so a new binary never shows a stale copy.
func Handler() http.Handler {
	root, err := fs.Sub(assets, "assets")
	if err != nil {
		// The directory is fixed at compile time.
		panic(err)
	}
	files := http.FileServerFS(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
