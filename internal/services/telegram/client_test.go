package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"clipvault/internal/testsupport"
)

func TestSendVideoHappyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottest:token/sendVideo") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if got := r.FormValue("chat_id"); got != "-1001234567890" {
			t.Errorf("chat_id = %q", got)
		}
		if got := r.FormValue("caption"); got != "🎬 https://k2s.cc/file/abc" {
			t.Errorf("caption = %q", got)
		}
		if got := r.FormValue("supports_streaming"); got != "true" {
			t.Errorf("supports_streaming = %q", got)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Errorf("video part: %v", err)
			http.Error(w, "missing video", http.StatusBadRequest)
			return
		}
		file.Close()
		if header.Filename != "demo_clip.mp4" {
			t.Errorf("filename = %q", header.Filename)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 55},
		})
	}))
	defer server.Close()

	client, err := New("test:token", "-1001234567890", server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := filepath.Join(t.TempDir(), "demo_clip.mp4")
	testsupport.WriteFile(t, path, 4096)

	link, err := client.SendVideo(context.Background(), path, "🎬 https://k2s.cc/file/abc")
	if err != nil {
		t.Fatalf("SendVideo: %v", err)
	}
	if link != "https://t.me/c/1234567890/55" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestSendVideoRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"description": "Bad Request: chat not found",
		})
	}))
	defer server.Close()

	client, err := New("test:token", "-100999", server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := filepath.Join(t.TempDir(), "demo_clip.mp4")
	testsupport.WriteFile(t, path, 64)

	_, err = client.SendVideo(context.Background(), path, "")
	if err == nil {
		t.Fatal("expected error for rejected send")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API description in error, got %v", err)
	}
}

func TestSendVideoMissingFile(t *testing.T) {
	client, err := New("test:token", "-100999", "https://api.telegram.org")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.SendVideo(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMessageLinkStripsChannelPrefix(t *testing.T) {
	client, err := New("test:token", "-1001234567890", "https://api.telegram.org")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := client.MessageLink(7); got != "https://t.me/c/1234567890/7" {
		t.Fatalf("MessageLink = %q", got)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", "-100999", "https://api.telegram.org"); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := New("test:token", "", "https://api.telegram.org"); err == nil {
		t.Fatal("expected error for empty channel")
	}
}
