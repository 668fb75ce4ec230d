package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opensound/internal/config"
	"opensound/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, <-chan captured) {
	t.Helper()
	ch := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ch <- captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte("nope"))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func serviceFor(url string) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = url
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBuildFailed(context.Background(), "id", errors.New("boom")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("expected nil config to yield noop, got %v", err)
	}
}

func TestNotifyBuildCompleted(t *testing.T) {
	srv, ch := newCaptureServer(t, http.StatusOK)
	svc := serviceFor(srv.URL)

	err := svc.NotifyBuildCompleted(context.Background(), notifications.BuildOutcome{
		BuildID:       "b1",
		Packages:      2,
		Distributable: "/srv/artifacts/opensound.zip",
		Duration:      1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	got := <-ch
	if got.title != "opensound - Build Complete" {
		t.Fatalf("title = %q", got.title)
	}
	if got.tags != "opensound,build,completed" {
		t.Fatalf("tags = %q", got.tags)
	}
	if want := "Built 2 packages in 2s\nDistributable: /srv/artifacts/opensound.zip"; got.body != want {
		t.Fatalf("body = %q, want %q", got.body, want)
	}
	if got.priority != "" {
		t.Fatalf("expected default priority, got %q", got.priority)
	}
}

func TestNotifyBuildFailed(t *testing.T) {
	srv, ch := newCaptureServer(t, http.StatusOK)
	svc := serviceFor(srv.URL)

	if err := svc.NotifyBuildFailed(context.Background(), "b2", errors.New("ffmpeg was not found")); err != nil {
		t.Fatalf("notify: %v", err)
	}
	got := <-ch
	if got.body != "Build failed (b2): ffmpeg was not found" {
		t.Fatalf("body = %q", got.body)
	}
	if got.priority != "high" {
		t.Fatalf("priority = %q", got.priority)
	}
}

func TestSendReportsHTTPErrors(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusForbidden)
	err := serviceFor(srv.URL).TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if err.Error() != "ntfy returned 403: nope" {
		t.Fatalf("unexpected error %q", err.Error())
	}
}
