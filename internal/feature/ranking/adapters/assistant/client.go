package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ranking_backend/internal/feature/ranking/adapters/assistant/dto"
	"ranking_backend/internal/feature/ranking/usecase"
)

// statusCompleted はランが正常終了したことを示すステータスです。
const statusCompleted = "completed"

// failureStatuses はポーリングを打ち切るべき異常終了ステータスの集合です。
var failureStatuses = map[string]bool{
	"failed":          true,
	"cancelled":       true,
	"expired":         true,
	"incomplete":      true,
	"requires_action": true,
}

// StatusError は2xx以外の応答を表すエラーです。
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assistant api http %d: %s", e.Code, e.Body)
}

// AssistantClient はOpenAI Assistants API (v2) を使用して回答を生成する
// AssistantRepository実装です。リクエストごとに新しいスレッドを作成し、
// 終了時にベストエフォートで削除します。
type AssistantClient struct {
	cfg    Config
	client *http.Client
}

// AssistantClientがAssistantRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.AssistantRepository = (*AssistantClient)(nil)

// NewAssistantClient は指定された設定とHTTPクライアントでAssistantClientの新しいインスタンスを生成します。
func NewAssistantClient(cfg Config, client *http.Client) *AssistantClient {
	return &AssistantClient{cfg: cfg, client: client}
}

// GenerateAnswer はスレッド作成→メッセージ投稿→ラン作成→ステータスポーリング→
// 最新メッセージ取得の順でアシスタントに問い合わせ、回答テキストを返します。
// ランがPollMaxAttempts回のチェックで完了しない場合、または異常終了ステータスに
// 達した場合はエラーを返します。
func (c *AssistantClient) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	thread, err := c.createThread(ctx)
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	// スレッドはリクエストごとに使い捨て。成否に関わらず削除を試みる。
	// 失敗してもリモート側の期限切れに任せ、結果には影響させない。
	defer func() {
		if err := c.deleteThread(context.WithoutCancel(ctx), thread.ID); err != nil {
			slog.Warn("スレッドの削除に失敗", "error", err, "thread_id", thread.ID)
		}
	}()

	if err := c.postMessage(ctx, thread.ID, prompt); err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	run, err := c.createRun(ctx, thread.ID)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}

	if err := c.waitForRun(ctx, thread.ID, run.ID); err != nil {
		return "", err
	}

	return c.latestAssistantText(ctx, thread.ID)
}

// waitForRun はランが終端ステータスに達するまで固定間隔でポーリングします。
// 試行回数の上限により、リモートのランが完了しない場合でも必ず終了します。
func (c *AssistantClient) waitForRun(ctx context.Context, threadID, runID string) error {
	status := "queued"
	for attempt := 0; attempt < c.cfg.PollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}

		run, err := c.getRun(ctx, threadID, runID)
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		status = run.Status

		if status == statusCompleted {
			return nil
		}
		if failureStatuses[status] {
			if run.LastError != nil {
				return fmt.Errorf("run terminal status %q: %s", status, run.LastError.Message)
			}
			return fmt.Errorf("run terminal status %q", status)
		}
	}
	return fmt.Errorf("run not completed after %d attempts (last status %q)", c.cfg.PollMaxAttempts, status)
}

// latestAssistantText はスレッドの最新のassistantメッセージから本文を取り出します。
func (c *AssistantClient) latestAssistantText(ctx context.Context, threadID string) (string, error) {
	var listing dto.MessageListing
	if err := c.doJSON(ctx, http.MethodGet, "/v1/threads/"+threadID+"/messages", nil, &listing); err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	// メッセージは新しい順で返される
	for _, msg := range listing.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, content := range msg.Content {
			if content.Type == "text" && content.Text.Value != "" {
				return content.Text.Value, nil
			}
		}
	}
	return "", errors.New("no assistant message in thread")
}

func (c *AssistantClient) createThread(ctx context.Context) (*dto.Thread, error) {
	var thread dto.Thread
	if err := c.doJSON(ctx, http.MethodPost, "/v1/threads", struct{}{}, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (c *AssistantClient) postMessage(ctx context.Context, threadID, content string) error {
	body := map[string]string{"role": "user", "content": content}
	return c.doJSON(ctx, http.MethodPost, "/v1/threads/"+threadID+"/messages", body, nil)
}

func (c *AssistantClient) createRun(ctx context.Context, threadID string) (*dto.Run, error) {
	body := map[string]string{"assistant_id": c.cfg.AssistantID}
	var run dto.Run
	if err := c.doJSON(ctx, http.MethodPost, "/v1/threads/"+threadID+"/runs", body, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *AssistantClient) getRun(ctx context.Context, threadID, runID string) (*dto.Run, error) {
	var run dto.Run
	if err := c.doJSON(ctx, http.MethodGet, "/v1/threads/"+threadID+"/runs/"+runID, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *AssistantClient) deleteThread(ctx context.Context, threadID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/threads/"+threadID, nil, nil)
}

// doJSON はAssistants APIへのJSONリクエストを実行し、2xx以外はStatusErrorを返します。
func (c *AssistantClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{Code: res.StatusCode, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
