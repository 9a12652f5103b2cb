package covers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hotker/blogcollector/internal/retry"
)

func TestParseUploadResponseShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"bare array src", `[{"src": "/i/abc.png"}]`, "/i/abc.png"},
		{"bare array url", `[{"url": "https://cdn.example/abc.png"}]`, "https://cdn.example/abc.png"},
		{"object direct", `{"src": "/i/def.png"}`, "/i/def.png"},
		{"status plus url", `{"status": true, "url": "https://cdn.example/def.png"}`, "https://cdn.example/def.png"},
		{"data object", `{"code": 0, "data": {"src": "/i/ghi.png"}}`, "/i/ghi.png"},
		{"data array", `{"code": 0, "data": [{"url": "https://cdn.example/ghi.png"}]}`, "https://cdn.example/ghi.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUploadResponse([]byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseUploadResponse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseUploadResponseNoUsableField(t *testing.T) {
	if _, err := ParseUploadResponse([]byte(`{"code": 500, "message": "fail"}`)); err == nil {
		t.Fatal("expected error for payload without src/url")
	}
}

func TestUploadJoinsRelativeSrc(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		fmt.Fprint(w, `[{"src": "i/xyz.png"}]`)
	}))
	defer server.Close()

	u := NewUploader(server.URL, "https://imagine.hotker.com/", server.Client(), retry.Config{MaxAttempts: 1, Delay: time.Millisecond})
	got, err := u.Upload(context.Background(), []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got != "https://imagine.hotker.com/i/xyz.png" {
		t.Errorf("Upload = %q", got)
	}
}

func TestUploadAbsoluteURLPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"url": "https://cdn.example/full.png"}`)
	}))
	defer server.Close()

	u := NewUploader(server.URL, "https://imagine.hotker.com", server.Client(), retry.Config{MaxAttempts: 1, Delay: time.Millisecond})
	got, err := u.Upload(context.Background(), []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got != "https://cdn.example/full.png" {
		t.Errorf("Upload = %q", got)
	}
}

func TestUploadClientErrorNotRetried(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	u := NewUploader(server.URL, "https://imagine.hotker.com", server.Client(), retry.Config{MaxAttempts: 3, Delay: time.Millisecond})
	if _, err := u.Upload(context.Background(), []byte("png-bytes")); err == nil {
		t.Fatal("expected error for 403 response")
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 for a client error", hits)
	}
}
