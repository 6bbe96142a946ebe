package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeAssistantsAPI はAssistants APIの最小限のフェイクサーバーです。
// runStatusesで指定したステータスをGETごとに順番に返します。
type fakeAssistantsAPI struct {
	runStatuses []string
	answer      string

	statusCalls  atomic.Int32
	deleteCalls  atomic.Int32
	messagePosts atomic.Int32
}

func (f *fakeAssistantsAPI) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/threads", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("OpenAI-Beta") != "assistants=v2" {
			t.Errorf("expected assistants=v2 beta header, got %q", r.Header.Get("OpenAI-Beta"))
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "thread_1"})
	})

	mux.HandleFunc("/v1/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			f.messagePosts.Add(1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["role"] != "user" {
				t.Errorf("expected user role, got %q", body["role"])
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg_user"})
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{
						"id":         "msg_answer",
						"role":       "assistant",
						"created_at": 2,
						"content": []map[string]any{
							{"type": "text", "text": map[string]string{"value": f.answer}},
						},
					},
					{
						"id":         "msg_user",
						"role":       "user",
						"created_at": 1,
						"content": []map[string]any{
							{"type": "text", "text": map[string]string{"value": "prompt"}},
						},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	mux.HandleFunc("/v1/threads/thread_1/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["assistant_id"] != "asst_test" {
			t.Errorf("expected assistant_id asst_test, got %q", body["assistant_id"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "queued"})
	})

	mux.HandleFunc("/v1/threads/thread_1/runs/run_1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		n := int(f.statusCalls.Add(1)) - 1
		status := f.runStatuses[len(f.runStatuses)-1]
		if n < len(f.runStatuses) {
			status = f.runStatuses[n]
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": status})
	})

	mux.HandleFunc("/v1/threads/thread_1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		f.deleteCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "thread_1", "deleted": true})
	})

	return mux
}

func newTestClient(baseURL string, maxAttempts int) *AssistantClient {
	cfg := Config{
		APIKey:          "test-key",
		AssistantID:     "asst_test",
		BaseURL:         baseURL,
		PollInterval:    time.Millisecond,
		PollMaxAttempts: maxAttempts,
	}
	return NewAssistantClient(cfg, &http.Client{})
}

func TestAssistantClient_GenerateAnswer_Success(t *testing.T) {
	t.Parallel()

	fake := &fakeAssistantsAPI{
		runStatuses: []string{"queued", "in_progress", "completed"},
		answer:      "1位はExample Inc.です。",
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	client := newTestClient(server.URL, 10)

	answer, err := client.GenerateAnswer(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "1位はExample Inc.です。" {
		t.Errorf("unexpected answer %q", answer)
	}
	if fake.messagePosts.Load() != 1 {
		t.Errorf("expected 1 message post, got %d", fake.messagePosts.Load())
	}
	if fake.statusCalls.Load() != 3 {
		t.Errorf("expected 3 status checks, got %d", fake.statusCalls.Load())
	}
	// スレッドはベストエフォートで削除される
	if fake.deleteCalls.Load() != 1 {
		t.Errorf("expected thread delete, got %d calls", fake.deleteCalls.Load())
	}
}

func TestAssistantClient_GenerateAnswer_TerminalFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
	}{
		{"failed", "failed"},
		{"cancelled", "cancelled"},
		{"expired", "expired"},
		{"incomplete", "incomplete"},
		{"requires action", "requires_action"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeAssistantsAPI{runStatuses: []string{"in_progress", tt.status}}
			server := httptest.NewServer(fake.handler(t))
			defer server.Close()

			client := newTestClient(server.URL, 10)

			_, err := client.GenerateAnswer(context.Background(), "prompt")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			// エラーには終端ステータスが診断情報として含まれる
			if !strings.Contains(err.Error(), tt.status) {
				t.Errorf("expected error carrying status %q, got %v", tt.status, err)
			}
			if fake.deleteCalls.Load() != 1 {
				t.Errorf("expected thread delete on failure path, got %d calls", fake.deleteCalls.Load())
			}
		})
	}
}

func TestAssistantClient_GenerateAnswer_AttemptBudgetExceeded(t *testing.T) {
	t.Parallel()

	fake := &fakeAssistantsAPI{runStatuses: []string{"in_progress"}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	start := time.Now()
	_, err := client.GenerateAnswer(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("expected attempt budget error, got %v", err)
	}
	if fake.statusCalls.Load() != 3 {
		t.Errorf("expected exactly 3 status checks, got %d", fake.statusCalls.Load())
	}
	// 試行上限により壁時計時間が有界であること（1msx3回+余裕）
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("poll loop not bounded: took %v", elapsed)
	}
}

func TestAssistantClient_GenerateAnswer_UpstreamHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	_, err := client.GenerateAnswer(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", statusErr.Code)
	}
}

func TestAssistantClient_GenerateAnswer_ContextCancelledDuringPoll(t *testing.T) {
	t.Parallel()

	fake := &fakeAssistantsAPI{runStatuses: []string{"in_progress"}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	cfg := Config{
		APIKey:          "test-key",
		AssistantID:     "asst_test",
		BaseURL:         server.URL,
		PollInterval:    time.Hour, // キャンセルが先に効くこと
		PollMaxAttempts: 10,
	}
	client := NewAssistantClient(cfg, &http.Client{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GenerateAnswer(ctx, "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	// キャンセル後もスレッド削除は試みられる
	if fake.deleteCalls.Load() != 1 {
		t.Errorf("expected thread delete after cancellation, got %d calls", fake.deleteCalls.Load())
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("expected poll interval %v, got %v", DefaultPollInterval, cfg.PollInterval)
	}
	if cfg.PollMaxAttempts != DefaultPollMaxAttempts {
		t.Errorf("expected max attempts %d, got %d", DefaultPollMaxAttempts, cfg.PollMaxAttempts)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
}

func TestLoadConfig_PollOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_POLL_INTERVAL", "250ms")
	t.Setenv("ASSISTANT_POLL_MAX_ATTEMPTS", "5")

	cfg := LoadConfig()

	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("expected poll interval 250ms, got %v", cfg.PollInterval)
	}
	if cfg.PollMaxAttempts != 5 {
		t.Errorf("expected max attempts 5, got %d", cfg.PollMaxAttempts)
	}
}
