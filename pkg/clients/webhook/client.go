package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/assetvista/internal/config"
)

// Client posts notification events to an HTTP endpoint.
type Client interface {
	Post(ctx context.Context, event Event) error
}

// Event is the JSON body sent to the webhook.
type Event struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client. The bearer token is optional.
func NewClient(cfg config.NotifyConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	if cfg.WebhookToken != "" {
		restyClient.SetAuthToken(cfg.WebhookToken)
	}

	return &APIClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Post sends event to the configured URL.
func (c *APIClient) Post(ctx context.Context, event Event) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
