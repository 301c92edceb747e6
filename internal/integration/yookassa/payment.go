package yookassa

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/google/uuid"
)

// PaymentResponse представляет ответ о платеже от API ЮKassa
type PaymentResponse struct {
	apiError

	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       *amountBody       `json:"amount,omitempty"`
	Confirmation *confirmationBody `json:"confirmation,omitempty"`
	PaymentMethod *struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Saved bool   `json:"saved"`
	} `json:"payment_method,omitempty"`
	CreatedAt string `json:"created_at"`
}

// createPaymentRequest представляет тело запроса на создание платежа
type createPaymentRequest struct {
	Amount            amountBody        `json:"amount"`
	Capture           bool              `json:"capture"`
	SavePaymentMethod bool              `json:"save_payment_method,omitempty"`
	Confirmation      *confirmationBody `json:"confirmation,omitempty"`
	PaymentMethodID   string            `json:"payment_method_id,omitempty"`
	Description       string            `json:"description,omitempty"`
}

// CreatePayment создает платеж с подтверждением через redirect пользователя
func (c *Client) CreatePayment(ctx context.Context, amount float64, currency, description string, idempotencyKey uuid.UUID) (*domain.PaymentState, error) {
	c.log.Debugw("Creating payment", "amount", amount, "currency", currency)

	body := createPaymentRequest{
		Amount:            amountBody{Value: formatAmount(amount), Currency: currency},
		Capture:           true,
		SavePaymentMethod: true,
		Confirmation:      redirectConfirmation(c.stateRedirectURL("payment", idempotencyKey.String())),
		Description:       description,
	}

	var resp PaymentResponse
	if err := c.postJSON(ctx, "/v3/payments", idempotencyKey.String(), body, &resp); err != nil {
		return nil, err
	}
	if resp.isError() {
		return nil, fmt.Errorf("yookassa API error: %s: %s", resp.Code, resp.Description)
	}

	state, err := mapPaymentState(&resp)
	if err != nil {
		return nil, err
	}

	c.log.Infow("Payment created", "payment_id", resp.ID, "status", resp.Status)
	return state, nil
}

// CreateAutopayment создает безакцептный платеж по сохраненному способу оплаты
func (c *Client) CreateAutopayment(ctx context.Context, amount float64, currency, paymentMethodID string, idempotencyKey uuid.UUID) (*domain.PaymentState, error) {
	c.log.Debugw("Creating autopayment", "payment_method_id", paymentMethodID, "amount", amount)

	body := createPaymentRequest{
		Amount:          amountBody{Value: formatAmount(amount), Currency: currency},
		Capture:         true,
		PaymentMethodID: paymentMethodID,
	}

	var resp PaymentResponse
	if err := c.postJSON(ctx, "/v3/payments", idempotencyKey.String(), body, &resp); err != nil {
		return nil, err
	}
	if resp.isError() {
		return nil, fmt.Errorf("yookassa API error: %s: %s", resp.Code, resp.Description)
	}

	state, err := mapPaymentState(&resp)
	if err != nil {
		return nil, err
	}

	c.log.Infow("Autopayment created", "payment_id", resp.ID, "status", resp.Status)
	return state, nil
}

// GetPayment возвращает текущее состояние платежа.
// Если платеж еще не виден на стороне ЮKassa, возвращает (nil, nil)
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentState, error) {
	var resp PaymentResponse
	if err := c.getJSON(ctx, "/v3/payments/"+paymentID, &resp); err != nil {
		return nil, err
	}
	if resp.isNotFound() {
		return nil, nil
	}
	if resp.isError() {
		return nil, fmt.Errorf("yookassa API error: %s: %s", resp.Code, resp.Description)
	}

	return mapPaymentState(&resp)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
