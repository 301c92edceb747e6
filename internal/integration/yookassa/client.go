package yookassa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
)

// Client представляет клиент для работы с API ЮKassa
type Client struct {
	baseURL     string
	redirectURL string
	authHeader  string
	httpClient  *http.Client
	log         *logger.Logger
}

// Config конфигурация для клиента ЮKassa
type Config struct {
	BaseURL     string
	ShopID      string
	SecretKey   string
	RedirectURL string
}

// NewClient создает новый клиент ЮKassa
func NewClient(cfg Config, log *logger.Logger) *Client {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.ShopID + ":" + cfg.SecretKey))

	return &Client{
		baseURL:     cfg.BaseURL,
		redirectURL: cfg.RedirectURL,
		authHeader:  "Basic " + auth,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

// apiError представляет тело ошибки API ЮKassa
type apiError struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) isError() bool {
	return e.Type == "error"
}

func (e *apiError) isNotFound() bool {
	return e.isError() && e.Code == "not_found"
}

// postJSON выполняет POST запрос к API ЮKassa с ключом идемпотентности
func (c *Client) postJSON(ctx context.Context, path string, idempotencyKey string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Idempotence-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewExternalServiceError("yookassa", "unavailable", "failed to execute request", 0, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// getJSON выполняет GET запрос к API ЮKassa
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewExternalServiceError("yookassa", "unavailable", "failed to execute request", 0, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// stateRedirectURL возвращает URL возврата пользователя после подтверждения операции
func (c *Client) stateRedirectURL(kind string, idempotencyKey string) string {
	return fmt.Sprintf("%s/api/v1/state/%s/%s", c.redirectURL, kind, idempotencyKey)
}

// amountBody представляет денежную сумму в формате API ЮKassa
type amountBody struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// confirmationBody представляет способ подтверждения операции пользователем
type confirmationBody struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

func redirectConfirmation(returnURL string) *confirmationBody {
	return &confirmationBody{Type: "redirect", ReturnURL: returnURL}
}
