package yookassa

import (
	"context"
	"fmt"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/google/uuid"
)

// RefundResponse представляет ответ о возврате от API ЮKassa
type RefundResponse struct {
	apiError

	ID        string      `json:"id"`
	PaymentID string      `json:"payment_id"`
	Status    string      `json:"status"`
	Amount    *amountBody `json:"amount,omitempty"`
	CreatedAt string      `json:"created_at"`
}

// createRefundRequest представляет тело запроса на создание возврата
type createRefundRequest struct {
	Amount    amountBody `json:"amount"`
	PaymentID string     `json:"payment_id"`
}

// CreateRefund создает возврат средств по ранее завершенному платежу
func (c *Client) CreateRefund(ctx context.Context, amount float64, currency, paymentID string, idempotencyKey uuid.UUID) (*domain.RefundState, error) {
	c.log.Debugw("Creating refund", "payment_id", paymentID, "amount", amount)

	body := createRefundRequest{
		Amount:    amountBody{Value: formatAmount(amount), Currency: currency},
		PaymentID: paymentID,
	}

	var resp RefundResponse
	if err := c.postJSON(ctx, "/v3/refunds", idempotencyKey.String(), body, &resp); err != nil {
		return nil, err
	}
	if resp.isError() {
		return nil, fmt.Errorf("yookassa API error: %s: %s", resp.Code, resp.Description)
	}

	state, err := mapRefundState(&resp)
	if err != nil {
		return nil, err
	}

	c.log.Infow("Refund created", "refund_id", resp.ID, "payment_id", paymentID, "status", resp.Status)
	return state, nil
}

// GetRefund возвращает текущее состояние возврата.
// Если возврат еще не виден на стороне ЮKassa, возвращает (nil, nil)
func (c *Client) GetRefund(ctx context.Context, refundID string) (*domain.RefundState, error) {
	var resp RefundResponse
	if err := c.getJSON(ctx, "/v3/refunds/"+refundID, &resp); err != nil {
		return nil, err
	}
	if resp.isNotFound() {
		return nil, nil
	}
	if resp.isError() {
		return nil, fmt.Errorf("yookassa API error: %s: %s", resp.Code, resp.Description)
	}

	return mapRefundState(&resp)
}
