package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"anchor-sync/internal/config"
)

var ErrDingTalk = errors.New("dingtalk api error")

// WebhookService delivers plain text to the operators' chat.
type WebhookService interface {
	// Enabled is false when no robot key is configured; Send is then a no-op.
	Enabled() bool
	Send(ctx context.Context, text string) error
}

type DingTalkWebhook struct {
	baseURL    string
	key        string
	HttpClient *http.Client
}

func NewWebhookService(cfg *config.Config) WebhookService {
	return NewDingTalkWebhook(cfg.DingTalkURL, cfg.DingKey)
}

func NewDingTalkWebhook(baseURL, key string) *DingTalkWebhook {
	return &DingTalkWebhook{
		baseURL: baseURL,
		key:     key,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *DingTalkWebhook) Enabled() bool {
	return s.key != ""
}

func (s *DingTalkWebhook) Send(ctx context.Context, text string) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(dingTalkMessage{
		MsgType: "text",
		Text:    textContent{Content: text},
	})
	if err != nil {
		return fmt.Errorf("marshal dingtalk message: %w", err)
	}

	endpoint := s.baseURL + "?access_token=" + url.QueryEscape(s.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create dingtalk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send dingtalk message: %w", err)
	}
	defer resp.Body.Close()

	var result dingTalkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode dingtalk response (HTTP %d): %w", resp.StatusCode, err)
	}
	if result.ErrCode != 0 {
		msg := result.ErrMsg
		if msg == "" {
			msg = "unknown error"
		}
		return fmt.Errorf("%w: %s", ErrDingTalk, msg)
	}
	return nil
}
