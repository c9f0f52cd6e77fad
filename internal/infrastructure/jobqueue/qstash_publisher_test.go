package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gridironpicks/prediction-league/internal/platform/resilience"
)

func TestQStashPublisher_EnqueueScoreWeek(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	var capturedBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		raw, _ := io.ReadAll(r.Body)
		capturedBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.example.com",
		Retries:          3,
		InternalJobToken: "job-secret",
		CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: false},
	}, nil)

	if err := publisher.EnqueueScoreWeek(context.Background(), 12, 5*time.Minute); err != nil {
		t.Fatalf("EnqueueScoreWeek error: %v", err)
	}

	if captured == nil {
		t.Fatalf("no publish request received")
	}
	wantPath := "/v2/publish/https://api.example.com" + ScoreWeekJobPath
	if captured.URL.Path != wantPath {
		t.Fatalf("publish path = %q, want %q", captured.URL.Path, wantPath)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("authorization = %q", got)
	}
	if got := captured.Header.Get("Upstash-Delay"); got != "300s" {
		t.Fatalf("delay header = %q, want 300s", got)
	}
	if got := captured.Header.Get("Upstash-Deduplication-Id"); got != "score-week-12" {
		t.Fatalf("deduplication id = %q", got)
	}
	if got := captured.Header.Get("Upstash-Forward-X-Internal-Job-Token"); got != "job-secret" {
		t.Fatalf("forwarded job token = %q", got)
	}
	if !strings.Contains(capturedBody, `"week":12`) {
		t.Fatalf("body = %q, want week payload", capturedBody)
	}
}

func TestQStashPublisher_EnqueueRejectsInvalidWeekAndPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        "https://qstash.example.com",
		TargetBaseURL:  "https://api.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, nil)

	if err := publisher.EnqueueScoreWeek(context.Background(), 0, 0); err == nil {
		t.Fatalf("expected error for week 0")
	}
	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, ""); err == nil {
		t.Fatalf("expected error for blank path")
	}
}
