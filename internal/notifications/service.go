package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"opensound/internal/config"
)

const userAgent = "opensound/0.1.0"

// BuildOutcome summarizes a finished build for delivery.
type BuildOutcome struct {
	BuildID       string
	Packages      int
	Distributable string
	Duration      time.Duration
}

// Service defines the notification surface used by the pipeline and CLI.
type Service interface {
	NotifyBuildCompleted(ctx context.Context, outcome BuildOutcome) error
	NotifyBuildFailed(ctx context.Context, buildID string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyBuildCompleted(ctx context.Context, outcome BuildOutcome) error {
	duration := outcome.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	message := fmt.Sprintf("Built %d packages in %s", outcome.Packages, duration)
	if dist := strings.TrimSpace(outcome.Distributable); dist != "" {
		message = fmt.Sprintf("%s\nDistributable: %s", message, dist)
	}
	data := payload{
		title:   "opensound - Build Complete",
		message: message,
		tags:    []string{"opensound", "build", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBuildFailed(ctx context.Context, buildID string, err error) error {
	var builder strings.Builder
	builder.WriteString("Build failed")
	if buildID = strings.TrimSpace(buildID); buildID != "" {
		builder.WriteString(" (")
		builder.WriteString(buildID)
		builder.WriteString(")")
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	data := payload{
		title:    "opensound - Build Failed",
		message:  builder.String(),
		tags:     []string{"opensound", "build", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "opensound - Test",
		message:  "Notification system test",
		tags:     []string{"opensound", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

// send posts the message body to the topic URL with ntfy's header fields.
func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("ntfy request: %w", err)
	}
	headers := map[string]string{
		"User-Agent":   userAgent,
		"Content-Type": "text/plain; charset=utf-8",
		"Title":        data.title,
		"Tags":         strings.Join(data.tags, ","),
		"Priority":     data.priority,
	}
	for key, value := range headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("ntfy publish: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyBuildCompleted(context.Context, BuildOutcome) error { return nil }
func (noopService) NotifyBuildFailed(context.Context, string, error) error   { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
