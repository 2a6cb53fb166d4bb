package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/salesstack/sales-sentinel/internal/models"
)

// WebhookSink posts incidents to an HTTP collector. It is an optional second
// sink next to the incidents table; an empty endpoint turns every write into
// a no-op.
type WebhookSink struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewWebhookSink constructs a sink targeting the configured collector.
func NewWebhookSink(endpoint, apiKey string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSink{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies this sink in write-outcome reports.
func (s *WebhookSink) Name() string {
	return "webhook"
}

// StoreIncident posts one incident as JSON.
func (s *WebhookSink) StoreIncident(ctx context.Context, incident models.Incident) error {
	if s == nil {
		return fmt.Errorf("webhook sink not initialised")
	}
	if s.endpoint == "" {
		return nil
	}

	payload := map[string]any{
		"id":         incident.ID,
		"kind":       string(incident.Kind),
		"severity":   string(incident.Severity),
		"message":    incident.Message,
		"context":    incident.Context,
		"created_at": incident.CreatedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal incident: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/incidents", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("store incident failed: %s", strings.TrimSpace(string(data)))
	}
	return nil
}
