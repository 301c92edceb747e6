package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
)

// Client представляет клиент сервиса уведомлений
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient создает новый клиент сервиса уведомлений
func NewClient(baseURL, secretKey string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Send отправляет уведомление пользователю
func (c *Client) Send(ctx context.Context, notification domain.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/v1/notification/",
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Auth", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewExternalServiceError("notification", "unavailable", "failed to send notification", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.NewExternalServiceError("notification", "bad_status", "failed to send notification", resp.StatusCode, nil)
	}

	c.log.Debugw("Notification sent", "to_id", notification.ToID, "content_key", notification.ContentKey)
	return nil
}
