/*
Copyright © 2026 the ncplot authors.
This file is part of ncplot.

ncplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncplot.  If not, see <http://www.gnu.org/licenses/>.
*/

package ncplotutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncplot"
)

// maxUploadMemory is the part of an upload that is held in memory;
// the rest is buffered on disk.
const maxUploadMemory = 32 << 20

// DefaultMaxUploadBytes is the default limit on the size of an upload
// request.
const DefaultMaxUploadBytes = 1 << 30

// Server plots uploaded files and serves the resulting images.
type Server struct {
	cfg    *ncplot.Config
	log    logrus.FieldLogger
	router *mux.Router

	// MaxUploadBytes limits the size of an upload request body.
	MaxUploadBytes int64

	// mu makes sure only one file is processed at a time.
	mu sync.Mutex
}

// NewServer returns a server that processes files according to cfg.
func NewServer(cfg *ncplot.Config, log logrus.FieldLogger) *Server {
	s := &Server{cfg: cfg, log: log, MaxUploadBytes: DefaultMaxUploadBytes}
	r := mux.NewRouter()
	r.HandleFunc("/api/netcdf", s.upload).Methods("POST")
	prefix := "/"
	if p := strings.Trim(cfg.URLPrefix, "/"); p != "" {
		prefix = "/" + p + "/"
	}
	r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.OutputsDir)))).Methods("GET", "HEAD")
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// imagesResponse is the body returned for an upload.
type imagesResponse struct {
	Images ncplot.Mapping `json:"images"`
}

// upload saves the file in the "file" form field to the uploads
// directory and plots it. If the file can't be processed the response
// holds no images.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithField("request", uuid.New().String())
	if r.ContentLength > s.MaxUploadBytes {
		log.WithField("size", r.ContentLength).Warn("ncplot: upload too large")
		http.Error(w, fmt.Sprintf("ncplot: upload larger than %d bytes", s.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.WithError(err).Warn("ncplot: invalid upload")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, h, err := r.FormFile("file")
	if err != nil {
		log.WithError(err).Warn("ncplot: invalid upload")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer f.Close()
	name := filepath.Base(filepath.Clean("/" + filepath.FromSlash(h.Filename)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		http.Error(w, "ncplot: missing file name", http.StatusBadRequest)
		return
	}
	log = log.WithField("file", name)

	s.mu.Lock()
	defer s.mu.Unlock()

	var resp imagesResponse
	if err := s.save(name, f); err != nil {
		log.WithError(err).Error("ncplot: saving upload")
	} else if report, err := ncplot.Process(r.Context(), s.cfg, name, log); err != nil {
		log.WithError(err).Error("ncplot: processing upload")
	} else {
		resp.Images = report.Images
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("ncplot: writing response")
	}
}

// save writes the upload to the uploads directory.
func (s *Server) save(name string, r io.Reader) error {
	if err := os.MkdirAll(s.cfg.UploadsDir, os.ModePerm); err != nil {
		return err
	}
	path := filepath.Join(s.cfg.UploadsDir, name)
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return w.Close()
}
