package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebhookNotifier posts reminder summaries to a webhook.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

type webhookPayload struct {
	MsgType string      `json:"msgtype"`
	Text    webhookText `json:"text"`
}

type webhookText struct {
	Content string `json:"content"`
}

// NewWebhookNotifier constructs a notifier.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends a reminder summary to the webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, msg ReminderMessage) error {
	if n == nil || n.url == "" {
		return errors.New("webhook notifier: empty url")
	}
	payload := webhookPayload{
		MsgType: "text",
		Text:    webhookText{Content: formatReminder(msg)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("webhook notifier: non-2xx")
	}
	return nil
}

func formatReminder(msg ReminderMessage) string {
	var b strings.Builder
	b.WriteString("[Payment Reminder]\n")
	if msg.RunDate != "" {
		fmt.Fprintf(&b, "Date: %s\n", msg.RunDate)
	}
	fmt.Fprintf(&b, "Overdue fees: %d\n", msg.OverdueCount)
	if msg.OverdueTotal != "" {
		fmt.Fprintf(&b, "Overdue total: %s\n", msg.OverdueTotal)
	}
	fmt.Fprintf(&b, "Pending fees: %d\n", msg.PendingCount)
	return strings.TrimSpace(b.String())
}
