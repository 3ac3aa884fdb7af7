package alert

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/petalsafe/petalsafe-backend/internal/model"
)

// Webhook posts guardian alerts to a configured HTTP endpoint (the
// email/SMS bridge is an external collaborator behind that URL).
type Webhook struct {
	client *resty.Client
}

type notifyRequest struct {
	AccountID string    `json:"accountId"`
	RiskLevel string    `json:"riskLevel"`
	SentAt    time.Time `json:"sentAt"`
}

// NewWebhook builds a dispatcher posting to baseURL. retryCount is the
// channel's own retry policy for transient failures within a single
// Notify call.
func NewWebhook(baseURL string, timeout time.Duration, retryCount int) *Webhook {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Webhook{client: c}
}

// Notify delivers the alert. Any non-2xx response counts as a failed
// delivery so the caller never latches the alert flag on a dropped message.
func (w *Webhook) Notify(ctx context.Context, accountID string, level model.RiskLevel) error {
	body := notifyRequest{AccountID: accountID, RiskLevel: string(level), SentAt: time.Now().UTC()}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(&body).
		Post("")
	if err != nil {
		return fmt.Errorf("guardian webhook: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("guardian webhook status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
