package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arbor/internal/config"
	"arbor/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyIngestStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "ingest started",
			send: func(svc notifications.Service) error {
				return svc.NotifyIngestStarted(context.Background(), 4)
			},
			expectTitle:   "Arbor - Import Started",
			expectMessage: "Importing 4 new pictures",
			expectTags:    "arbor,ingest,started",
		},
		{
			name: "ingest completed",
			send: func(svc notifications.Service) error {
				return svc.NotifyIngestCompleted(context.Background(), 4, 90*time.Second)
			},
			expectTitle:   "Arbor - Import Complete",
			expectMessage: "Imported 4 pictures in 1m30s",
			expectTags:    "arbor,ingest,completed",
		},
		{
			name: "ingest completed empty",
			send: func(svc notifications.Service) error {
				return svc.NotifyIngestCompleted(context.Background(), 0, 0)
			},
			expectTitle:   "Arbor - Import Complete",
			expectMessage: "No new pictures found",
			expectTags:    "arbor,ingest,completed",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("remote listing failed"), "ingest")
			},
			expectTitle:    "Arbor - Error",
			expectMessage:  "Error with ingest: remote listing failed",
			expectTags:     "arbor,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsEventToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Ingest = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyIngestStarted(context.Background(), 1); err != nil {
		t.Fatalf("expected suppressed ingest event to return nil, got %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "ingest"); err != nil {
		t.Fatalf("expected suppressed error event to return nil, got %v", err)
	}
}
