package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	notices "condo-portal/internal/notices/domain"
)

// WebhookPublisher mirrors posted notices to a webhook channel. Delivery
// is best effort; failures are logged and never surface to the poster.
type WebhookPublisher struct {
	url    string
	client *http.Client
	logger *log.Logger
}

type webhookPayload struct {
	MsgType string      `json:"msgtype"`
	Text    webhookText `json:"text"`
}

type webhookText struct {
	Content string `json:"content"`
}

// NewWebhookPublisher constructs a publisher.
func NewWebhookPublisher(url string, logger *log.Logger) *WebhookPublisher {
	return &WebhookPublisher{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Publish implements application.Publisher.
func (p *WebhookPublisher) Publish(ctx context.Context, notice notices.Notice) {
	if p == nil || p.url == "" {
		return
	}
	payload := webhookPayload{
		MsgType: "text",
		Text:    webhookText{Content: formatNotice(notice)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		if p.logger != nil {
			p.logger.Printf("notice webhook error: %v", err)
		}
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && p.logger != nil {
		p.logger.Printf("notice webhook status %d", resp.StatusCode)
	}
}

func formatNotice(notice notices.Notice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Notice] %s\n", notice.Title)
	if notice.AuthorName != "" {
		fmt.Fprintf(&b, "By: %s\n", notice.AuthorName)
	}
	b.WriteString(notice.Body)
	return strings.TrimSpace(b.String())
}
