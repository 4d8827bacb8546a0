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
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

// postFile uploads data as a multipart form file with the given name.
func postFile(t *testing.T, url, field, name string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url+"/api/netcdf", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeImages(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status %d: %s", resp.StatusCode, b)
	}
	var r struct {
		Images map[string]string `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatal(err)
	}
	return r.Images
}

func TestServer(t *testing.T) {
	cfg := testConfig(t)
	weather, err := os.ReadFile(filepath.Join(cfg.UploadsDir, "weather.nc"))
	if err != nil {
		t.Fatal(err)
	}
	log, _ := test.NewNullLogger()
	srv := httptest.NewServer(NewServer(cfg, log))
	defer srv.Close()

	t.Run("upload", func(t *testing.T) {
		images := decodeImages(t, postFile(t, srv.URL, "file", "storm.nc", weather))
		want := map[string]string{"t2": "/outputs/storm.nc_t2.png"}
		if !reflect.DeepEqual(images, want) {
			t.Fatalf("images = %v, want %v", images, want)
		}
		resp, err := http.Get(srv.URL + images["t2"])
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type %s", ct)
		}
	})
	t.Run("path in name", func(t *testing.T) {
		images := decodeImages(t, postFile(t, srv.URL, "file", "../../other.nc", weather))
		if images["t2"] != "/outputs/other.nc_t2.png" {
			t.Errorf("images = %v", images)
		}
		if _, err := os.Stat(filepath.Join(cfg.UploadsDir, "other.nc")); err != nil {
			t.Error(err)
		}
	})
	t.Run("not netcdf", func(t *testing.T) {
		images := decodeImages(t, postFile(t, srv.URL, "file", "notes.nc", []byte("not a netcdf file")))
		if images == nil || len(images) != 0 {
			t.Errorf("images = %v, want empty", images)
		}
	})
	t.Run("missing field", func(t *testing.T) {
		resp := postFile(t, srv.URL, "upload", "weather.nc", weather)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status %d", resp.StatusCode)
		}
	})
	t.Run("method", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/netcdf")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status %d", resp.StatusCode)
		}
	})
}

func TestServerUploadLimit(t *testing.T) {
	cfg := testConfig(t)
	weather, err := os.ReadFile(filepath.Join(cfg.UploadsDir, "weather.nc"))
	if err != nil {
		t.Fatal(err)
	}
	log, _ := test.NewNullLogger()
	s := NewServer(cfg, log)
	s.MaxUploadBytes = int64(len(weather)) / 2
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp := postFile(t, srv.URL, "file", "big.nc", weather)
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d, want %d", resp.StatusCode, http.StatusRequestEntityTooLarge)
	}
	if _, err := os.Stat(filepath.Join(cfg.UploadsDir, "big.nc")); !os.IsNotExist(err) {
		t.Errorf("oversized upload was saved: %v", err)
	}

	s.MaxUploadBytes = DefaultMaxUploadBytes
	if images := decodeImages(t, postFile(t, srv.URL, "file", "big.nc", weather)); len(images) != 1 {
		t.Errorf("images = %v", images)
	}
}

func TestServerRootPrefix(t *testing.T) {
	cfg := testConfig(t)
	cfg.URLPrefix = "/"
	weather, err := os.ReadFile(filepath.Join(cfg.UploadsDir, "weather.nc"))
	if err != nil {
		t.Fatal(err)
	}
	log, _ := test.NewNullLogger()
	srv := httptest.NewServer(NewServer(cfg, log))
	defer srv.Close()

	images := decodeImages(t, postFile(t, srv.URL, "file", "weather.nc", weather))
	if images["t2"] != "/weather.nc_t2.png" {
		t.Fatalf("images = %v", images)
	}
	resp, err := http.Get(srv.URL + images["t2"])
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d", resp.StatusCode)
	}
}
