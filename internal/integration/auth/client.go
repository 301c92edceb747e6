package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
)

// Client представляет клиент сервиса авторизации
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient создает новый клиент сервиса авторизации
func NewClient(baseURL, secretKey string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// roleIDBody тело запроса назначения или отзыва роли
type roleIDBody struct {
	ID string `json:"id"`
}

// GetRoles возвращает все роли, известные сервису авторизации
func (c *Client) GetRoles(ctx context.Context) ([]domain.Role, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/role/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Internal-Auth", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError("auth", "unavailable", "failed to list roles", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalServiceError("auth", "bad_status", "failed to list roles", resp.StatusCode, nil)
	}

	var roles []domain.Role
	if err := json.NewDecoder(resp.Body).Decode(&roles); err != nil {
		return nil, fmt.Errorf("failed to decode roles response: %w", err)
	}

	return roles, nil
}

// AssignRole назначает роль пользователю
func (c *Client) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	c.log.Debugw("Assigning role", "user_id", userID, "role_id", roleID)
	return c.postRole(ctx, "assign", userID, roleID)
}

// RevokeRole отзывает роль у пользователя
func (c *Client) RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error {
	c.log.Debugw("Revoking role", "user_id", userID, "role_id", roleID)
	return c.postRole(ctx, "revoke", userID, roleID)
}

func (c *Client) postRole(ctx context.Context, action string, userID, roleID uuid.UUID) error {
	payload, err := json.Marshal(roleIDBody{ID: roleID.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal role body: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/role/%s/%s", c.baseURL, action, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Auth", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewExternalServiceError("auth", "unavailable", "role "+action+" failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.NewExternalServiceError("auth", "bad_status", "role "+action+" failed", resp.StatusCode, nil)
	}

	return nil
}
