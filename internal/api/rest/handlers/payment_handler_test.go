package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/internal/repository"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBillingService мок сервиса биллинговых операций
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) PayForSubscription(ctx context.Context, req domain.PaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBillingService) MakeAutopayment(ctx context.Context, req domain.AutopaymentRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockBillingService) RefundPayment(ctx context.Context, req domain.RefundRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBillingService) CreatePaymentMethod(ctx context.Context, req domain.PaymentMethodRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBillingService) RemovePaymentMethod(ctx context.Context, req domain.PaymentMethodRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBillingService) PaymentState(ctx context.Context, transactionID uuid.UUID) (*domain.PaymentState, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentState), args.Error(1)
}

func (m *MockBillingService) RefundState(ctx context.Context, transactionID uuid.UUID) (*domain.RefundState, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefundState), args.Error(1)
}

func (m *MockBillingService) PaymentMethodState(ctx context.Context, transactionID uuid.UUID) (*domain.PaymentMethodState, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethodState), args.Error(1)
}

func newPaymentRouter(billing *MockBillingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPaymentHandler(billing, logger.New(logger.ERROR))

	r := gin.New()
	r.POST("/payment/", handler.PayForSubscription)
	r.POST("/payment/autopayment/", handler.MakeAutopayment)
	r.POST("/refund/", handler.RefundPayment)
	r.POST("/payment-method/", handler.CreatePaymentMethod)
	r.DELETE("/payment-method/", handler.RemovePaymentMethod)
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPayForSubscriptionHandler(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.PaymentRequest{UserID: uuid.New(), SubscriptionID: uuid.New()}
	billing.On("PayForSubscription", mock.Anything, request).
		Return("https://gateway.example/confirm/pay-1", nil)

	w := performJSON(t, r, http.MethodPost, "/payment/", request)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"redirect_url": "https://gateway.example/confirm/pay-1"}`, w.Body.String())
}

func TestPayForSubscriptionHandlerRejectsIncompleteBody(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	w := performJSON(t, r, http.MethodPost, "/payment/", gin.H{"user_id": uuid.New()})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	billing.AssertNotCalled(t, "PayForSubscription", mock.Anything, mock.Anything)
}

func TestMakeAutopaymentHandler(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.AutopaymentRequest{UserSubscriptionID: uuid.New()}
	transactionID := uuid.New()
	billing.On("MakeAutopayment", mock.Anything, request).Return(transactionID, nil)

	w := performJSON(t, r, http.MethodPost, "/payment/autopayment/", request)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"status": "success", "payment_id": %q}`, transactionID), w.Body.String())
}

func TestMakeAutopaymentHandlerWithoutSavedMethod(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.AutopaymentRequest{UserSubscriptionID: uuid.New()}
	billing.On("MakeAutopayment", mock.Anything, request).
		Return(uuid.Nil, domain.ErrNoPaymentMethod)

	w := performJSON(t, r, http.MethodPost, "/payment/autopayment/", request)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRefundPaymentHandler(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.RefundRequest{
		UserID:        uuid.New(),
		TransactionID: uuid.New(),
		Amount:        100,
		Currency:      "RUB",
	}
	billing.On("RefundPayment", mock.Anything, request).Return(nil)

	w := performJSON(t, r, http.MethodPost, "/refund/", request)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result": "refunded successfully"}`, w.Body.String())
}

func TestRefundPaymentHandlerInvalidOperation(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.RefundRequest{
		UserID:        uuid.New(),
		TransactionID: uuid.New(),
		Amount:        100,
		Currency:      "RUB",
	}
	billing.On("RefundPayment", mock.Anything, request).
		Return(fmt.Errorf("%w: only completed transactions can be refunded", domain.ErrInvalidOperation))

	w := performJSON(t, r, http.MethodPost, "/refund/", request)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPayForSubscriptionHandlerInvalidData(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.PaymentRequest{UserID: uuid.New(), SubscriptionID: uuid.New()}
	billing.On("PayForSubscription", mock.Anything, request).
		Return("", fmt.Errorf("failed to create transaction: %w", repository.ErrInvalidData))

	w := performJSON(t, r, http.MethodPost, "/payment/", request)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayForSubscriptionHandlerGatewayUnavailable(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.PaymentRequest{UserID: uuid.New(), SubscriptionID: uuid.New()}
	billing.On("PayForSubscription", mock.Anything, request).
		Return("", domain.NewExternalServiceError(
			"yookassa", "unavailable", "failed to execute request", 0, errors.New("connection refused"),
		))

	w := performJSON(t, r, http.MethodPost, "/payment/", request)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreatePaymentMethodHandler(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.PaymentMethodRequest{UserSubscriptionID: uuid.New()}
	billing.On("CreatePaymentMethod", mock.Anything, request).
		Return("https://gateway.example/confirm/method-1", nil)

	w := performJSON(t, r, http.MethodPost, "/payment-method/", request)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"confirmation_url": "https://gateway.example/confirm/method-1"}`, w.Body.String())
}

func TestRemovePaymentMethodHandlerInternalError(t *testing.T) {
	billing := new(MockBillingService)
	r := newPaymentRouter(billing)

	request := domain.PaymentMethodRequest{UserSubscriptionID: uuid.New()}
	billing.On("RemovePaymentMethod", mock.Anything, request).
		Return(errors.New("database unavailable"))

	w := performJSON(t, r, http.MethodDelete, "/payment-method/", request)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
