package yookassa

import (
	"context"
	"fmt"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/google/uuid"
)

// PaymentMethodResponse представляет ответ о способе оплаты от API ЮKassa
type PaymentMethodResponse struct {
	apiError

	ID           string            `json:"id"`
	MethodType   string            `json:"type"`
	Status       string            `json:"status"`
	Confirmation *confirmationBody `json:"confirmation,omitempty"`
}

// createPaymentMethodRequest представляет тело запроса на привязку способа оплаты
type createPaymentMethodRequest struct {
	MethodType   string            `json:"type"`
	Confirmation *confirmationBody `json:"confirmation"`
}

// CreatePaymentMethod привязывает банковскую карту с подтверждением через redirect
func (c *Client) CreatePaymentMethod(ctx context.Context, idempotencyKey uuid.UUID) (*domain.PaymentMethodState, error) {
	c.log.Debugw("Creating payment method", "idempotency_key", idempotencyKey)

	body := createPaymentMethodRequest{
		MethodType:   "bank_card",
		Confirmation: redirectConfirmation(c.stateRedirectURL("payment", idempotencyKey.String())),
	}

	var resp PaymentMethodResponse
	if err := c.postJSON(ctx, "/v3/payment_methods", idempotencyKey.String(), body, &resp); err != nil {
		return nil, err
	}
	if resp.isError() {
		return nil, fmt.Errorf("yookassa API error: %s: %s", resp.Code, resp.Description)
	}

	state, err := mapPaymentMethodState(&resp)
	if err != nil {
		return nil, err
	}

	c.log.Infow("Payment method created", "method_id", resp.ID, "status", resp.Status)
	return state, nil
}

// GetPaymentMethod возвращает текущее состояние способа оплаты.
// Если способ оплаты еще не виден на стороне ЮKassa, возвращает (nil, nil)
func (c *Client) GetPaymentMethod(ctx context.Context, methodID string) (*domain.PaymentMethodState, error) {
	var resp PaymentMethodResponse
	if err := c.getJSON(ctx, "/v3/payment_methods/"+methodID, &resp); err != nil {
		return nil, err
	}
	if resp.isNotFound() {
		return nil, nil
	}
	if resp.isError() {
		return nil, fmt.Errorf("yookassa API error: %s: %s", resp.Code, resp.Description)
	}

	return mapPaymentMethodState(&resp)
}
