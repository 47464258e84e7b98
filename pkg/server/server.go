/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package server serves generated sitemap files over http.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var contentTypes = map[string]string{
	".xml": "application/xml; charset=utf-8",
	".gz":  "application/gzip",
	".txt": "text/plain; charset=utf-8",
}

type fileHandler struct {
	dir string
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	if name == "" || strings.HasSuffix(name, ".open") || filepath.Base(name) != name {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(h.dir, name)

	f, err := os.Open(path)
	if err != nil {
		logrus.Debugf("request for %s: %v", name, err)
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	if ct, ok := contentTypes[filepath.Ext(name)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, name, fi.ModTime(), f)
}

// Handler returns a http.Handler serving the sitemap files in dir.
// Only files directly in dir are served. Files still being written are hidden.
func Handler(dir string, middleware ...mux.MiddlewareFunc) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware...)
	r.Handle("/{file}", &fileHandler{dir: dir}).Methods(http.MethodGet, http.MethodHead)
	return r
}
