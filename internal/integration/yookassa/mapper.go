package yookassa

import (
	"fmt"
	"strconv"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
)

// MapPaymentStatus преобразует статус платежа ЮKassa в статус движка
func MapPaymentStatus(status string) (domain.StatusCode, error) {
	switch status {
	case "pending":
		return domain.StatusProcessing, nil
	case "succeeded":
		return domain.StatusCompleted, nil
	case "canceled":
		return domain.StatusFailed, nil
	default:
		return 0, fmt.Errorf("%w: payment status %q", domain.ErrUnprocessableStatus, status)
	}
}

// MapPaymentMethodStatus преобразует статус способа оплаты ЮKassa в статус движка
func MapPaymentMethodStatus(status string) (domain.StatusCode, error) {
	switch status {
	case "pending":
		return domain.StatusProcessing, nil
	case "active":
		return domain.StatusCompleted, nil
	case "inactive":
		return domain.StatusFailed, nil
	default:
		return 0, fmt.Errorf("%w: payment method status %q", domain.ErrUnprocessableStatus, status)
	}
}

func mapPaymentState(resp *PaymentResponse) (*domain.PaymentState, error) {
	status, err := MapPaymentStatus(resp.Status)
	if err != nil {
		return nil, err
	}

	state := &domain.PaymentState{
		Status:    status,
		PaymentID: resp.ID,
	}
	if resp.Confirmation != nil {
		state.ConfirmationURL = resp.Confirmation.ConfirmationURL
	}
	if resp.PaymentMethod != nil {
		state.PaymentMethodID = resp.PaymentMethod.ID
	}

	return state, nil
}

func mapRefundState(resp *RefundResponse) (*domain.RefundState, error) {
	status, err := MapPaymentStatus(resp.Status)
	if err != nil {
		return nil, err
	}

	state := &domain.RefundState{
		Status:    status,
		PaymentID: resp.PaymentID,
		RefundID:  resp.ID,
	}
	if resp.Amount != nil {
		amount, err := strconv.ParseFloat(resp.Amount.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse refund amount %q: %w", resp.Amount.Value, err)
		}
		state.Amount = amount
		state.Currency = resp.Amount.Currency
	}

	return state, nil
}

func mapPaymentMethodState(resp *PaymentMethodResponse) (*domain.PaymentMethodState, error) {
	status, err := MapPaymentMethodStatus(resp.Status)
	if err != nil {
		return nil, err
	}

	state := &domain.PaymentMethodState{
		Status:   status,
		MethodID: resp.ID,
	}
	if resp.Confirmation != nil {
		state.ConfirmationURL = resp.Confirmation.ConfirmationURL
	}

	return state, nil
}
