package origin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"romhack-catalog/config"

	"go.uber.org/zap"
)

func testClient() *Client {
	return &Client{UserAgent: "romhacks-test", HTTPClient: &http.Client{Timeout: 2 * time.Second}}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(config.Config{}); err == nil {
		t.Error("expected error without user agent")
	}
	c, err := NewClient(config.Config{UserAgent: "ua", CheckTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.HTTPClient.Timeout != time.Second {
		t.Errorf("Timeout = %s", c.HTTPClient.Timeout)
	}
}

func TestCheckURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.Header.Get("User-Agent") != "romhacks-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/no-head", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte("listing page"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tests := []struct {
		path   string
		ok     bool
		status int
	}{
		{"/ok", true, http.StatusOK},
		{"/missing", false, http.StatusNotFound},
		{"/no-head", true, http.StatusOK},
	}
	c := testClient()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := c.CheckURL(context.Background(), srv.URL+tt.path)
			if res.OK != tt.ok || res.StatusCode != tt.status {
				t.Errorf("CheckURL(%s) = ok %v status %d err %v", tt.path, res.OK, res.StatusCode, res.Err)
			}
			if !tt.ok {
				var apiErr *APIError
				if !errors.As(res.Err, &apiErr) {
					t.Errorf("expected *APIError, got %T", res.Err)
				}
			}
		})
	}
}

func TestCheckURL_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := testClient().CheckURL(context.Background(), url)
	if res.OK || res.Err == nil {
		t.Errorf("expected failure for closed server, got %+v", res)
	}
	if res.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", res.StatusCode)
	}
}

func TestDownloadCover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fake png"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "covers")
	dest := filepath.Join(dir, "cover.png")
	log := zap.NewNop().Sugar()

	if err := testClient().DownloadCover(context.Background(), log, dest, srv.URL+"/cover.png"); err != nil {
		t.Fatalf("DownloadCover: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading cover: %v", err)
	}
	if string(data) != "fake png" {
		t.Errorf("cover content = %q", data)
	}

	missing := filepath.Join(dir, "missing.png")
	if err := testClient().DownloadCover(context.Background(), log, missing, srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Error("failed download left a file behind")
	}
	if _, err := os.Stat(missing + ".part"); !os.IsNotExist(err) {
		t.Error("failed download left a partial file behind")
	}
}
