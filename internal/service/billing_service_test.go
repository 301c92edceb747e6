package service

import (
	"context"
	"testing"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type billingMocks struct {
	transactionRepo  *MockTransactionRepository
	userSubsRepo     *MockUserSubscriptionRepository
	subscriptionRepo *MockSubscriptionRepository
	gateway          *MockPaymentGateway
}

func newBillingService(t *testing.T) (BillingService, *billingMocks) {
	t.Helper()
	m := &billingMocks{
		transactionRepo:  new(MockTransactionRepository),
		userSubsRepo:     new(MockUserSubscriptionRepository),
		subscriptionRepo: new(MockSubscriptionRepository),
		gateway:          new(MockPaymentGateway),
	}
	svc := NewBillingService(m.transactionRepo, m.userSubsRepo, m.subscriptionRepo, m.gateway, newTestLogger())
	return svc, m
}

func TestPayForSubscription(t *testing.T) {
	svc, m := newBillingService(t)
	ctx := context.Background()

	userID := uuid.New()
	subscriptionID := uuid.New()
	userSubsID := uuid.New()

	subscription := domain.Subscription{
		ID:       subscriptionID,
		Name:     "Premium",
		Amount:   500,
		Currency: "RUB",
		Period:   30,
	}

	m.subscriptionRepo.On("GetByID", ctx, subscriptionID).Return(subscription, nil)
	m.gateway.On("CreatePayment", ctx, 500.0, "RUB", "Premium", mock.AnythingOfType("uuid.UUID")).
		Return(&domain.PaymentState{
			Status:          domain.StatusProcessing,
			PaymentID:       "pay-123",
			ConfirmationURL: "https://gateway.example/confirm/pay-123",
		}, nil)
	m.userSubsRepo.On("GetOrCreate", ctx, userID, subscriptionID).
		Return(domain.UserSubscription{ID: userSubsID, UserID: userID, SubscriptionID: subscriptionID}, nil)
	m.transactionRepo.On("Create", ctx, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.UserID == userID &&
			tx.PaymentID == "pay-123" &&
			tx.UserSubscriptionID == userSubsID &&
			tx.Amount == 500 &&
			tx.StatusCode == domain.StatusProcessing &&
			tx.TransactionType == domain.TypePayment
	})).Return(domain.Transaction{}, nil)

	url, err := svc.PayForSubscription(ctx, domain.PaymentRequest{UserID: userID, SubscriptionID: subscriptionID})

	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/confirm/pay-123", url)
	m.transactionRepo.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
}

func TestMakeAutopaymentWithoutSavedMethod(t *testing.T) {
	svc, m := newBillingService(t)
	ctx := context.Background()

	userSubsID := uuid.New()
	m.userSubsRepo.On("GetByID", ctx, userSubsID).
		Return(domain.UserSubscription{ID: userSubsID}, nil)

	_, err := svc.MakeAutopayment(ctx, domain.AutopaymentRequest{UserSubscriptionID: userSubsID})

	assert.ErrorIs(t, err, domain.ErrNoPaymentMethod)
	m.gateway.AssertNotCalled(t, "CreateAutopayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMakeAutopayment(t *testing.T) {
	svc, m := newBillingService(t)
	ctx := context.Background()

	userID := uuid.New()
	subscriptionID := uuid.New()
	userSubsID := uuid.New()
	methodID := "method-42"

	m.userSubsRepo.On("GetByID", ctx, userSubsID).Return(domain.UserSubscription{
		ID:             userSubsID,
		UserID:         userID,
		SubscriptionID: subscriptionID,
		AutoPayID:      &methodID,
	}, nil)
	m.subscriptionRepo.On("GetByID", ctx, subscriptionID).
		Return(domain.Subscription{ID: subscriptionID, Amount: 300, Currency: "RUB", Period: 30}, nil)
	m.gateway.On("CreateAutopayment", ctx, 300.0, "RUB", methodID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.PaymentState{Status: domain.StatusProcessing, PaymentID: "pay-777"}, nil)
	m.transactionRepo.On("Create", ctx, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.PaymentID == "pay-777" && tx.TransactionType == domain.TypeAutopayment
	})).Return(domain.Transaction{}, nil)

	transactionID, err := svc.MakeAutopayment(ctx, domain.AutopaymentRequest{UserSubscriptionID: userSubsID})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, transactionID)
	m.transactionRepo.AssertExpectations(t)
}

func TestRefundPaymentValidation(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		transaction domain.Transaction
		request     domain.RefundRequest
	}{
		{
			name:        "pending transaction cannot be refunded",
			transaction: domain.Transaction{StatusCode: domain.StatusProcessing, TransactionType: domain.TypePayment, Currency: "RUB"},
			request:     domain.RefundRequest{UserID: userID, Amount: 100, Currency: "RUB"},
		},
		{
			name:        "refund transaction cannot be refunded",
			transaction: domain.Transaction{StatusCode: domain.StatusCompleted, TransactionType: domain.TypeRefund, Currency: "RUB"},
			request:     domain.RefundRequest{UserID: userID, Amount: 100, Currency: "RUB"},
		},
		{
			name:        "currency mismatch",
			transaction: domain.Transaction{StatusCode: domain.StatusCompleted, TransactionType: domain.TypePayment, Currency: "RUB"},
			request:     domain.RefundRequest{UserID: userID, Amount: 100, Currency: "EUR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBillingService(t)
			ctx := context.Background()

			transactionID := uuid.New()
			tt.request.TransactionID = transactionID
			m.transactionRepo.On("GetByID", ctx, transactionID).Return(tt.transaction, nil)

			err := svc.RefundPayment(ctx, tt.request)

			assert.ErrorIs(t, err, domain.ErrInvalidOperation)
			m.gateway.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRefundPayment(t *testing.T) {
	svc, m := newBillingService(t)
	ctx := context.Background()

	userID := uuid.New()
	transactionID := uuid.New()
	userSubsID := uuid.New()

	m.transactionRepo.On("GetByID", ctx, transactionID).Return(domain.Transaction{
		ID:                 transactionID,
		UserID:             userID,
		PaymentID:          "pay-123",
		UserSubscriptionID: userSubsID,
		Amount:             500,
		Currency:           "RUB",
		StatusCode:         domain.StatusCompleted,
		TransactionType:    domain.TypePayment,
		Ends:               time.Now().AddDate(0, 0, 20),
	}, nil)
	m.gateway.On("CreateRefund", ctx, 250.0, "RUB", "pay-123", mock.AnythingOfType("uuid.UUID")).
		Return(&domain.RefundState{Status: domain.StatusProcessing, PaymentID: "pay-123", RefundID: "ref-9"}, nil)
	m.transactionRepo.On("Create", ctx, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.PaymentID == "ref-9" &&
			tx.UserSubscriptionID == userSubsID &&
			tx.Amount == 250 &&
			tx.TransactionType == domain.TypeRefund &&
			tx.StatusCode == domain.StatusProcessing
	})).Return(domain.Transaction{}, nil)

	err := svc.RefundPayment(ctx, domain.RefundRequest{
		UserID:        userID,
		TransactionID: transactionID,
		Amount:        250,
		Currency:      "RUB",
	})

	require.NoError(t, err)
	m.transactionRepo.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
}

func TestRemovePaymentMethodWithoutSavedMethod(t *testing.T) {
	svc, m := newBillingService(t)
	ctx := context.Background()

	userSubsID := uuid.New()
	m.userSubsRepo.On("GetByID", ctx, userSubsID).
		Return(domain.UserSubscription{ID: userSubsID}, nil)

	err := svc.RemovePaymentMethod(ctx, domain.PaymentMethodRequest{UserSubscriptionID: userSubsID})

	assert.ErrorIs(t, err, domain.ErrNoPaymentMethod)
	m.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRemovePaymentMethod(t *testing.T) {
	svc, m := newBillingService(t)
	ctx := context.Background()

	userID := uuid.New()
	userSubsID := uuid.New()
	methodID := "method-42"

	m.userSubsRepo.On("GetByID", ctx, userSubsID).Return(domain.UserSubscription{
		ID:        userSubsID,
		UserID:    userID,
		AutoPayID: &methodID,
	}, nil)
	m.transactionRepo.On("Create", ctx, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.PaymentID == methodID && tx.TransactionType == domain.TypePaymentMethodRemove
	})).Return(domain.Transaction{}, nil)

	err := svc.RemovePaymentMethod(ctx, domain.PaymentMethodRequest{UserSubscriptionID: userSubsID})

	require.NoError(t, err)
	m.transactionRepo.AssertExpectations(t)
}

func TestPaymentStateNotVisibleOnGateway(t *testing.T) {
	svc, m := newBillingService(t)
	ctx := context.Background()

	transactionID := uuid.New()
	m.transactionRepo.On("GetByID", ctx, transactionID).
		Return(domain.Transaction{ID: transactionID, PaymentID: "pay-1"}, nil)
	m.gateway.On("GetPayment", ctx, "pay-1").Return(nil, nil)

	state, err := svc.PaymentState(ctx, transactionID)

	require.NoError(t, err)
	assert.Nil(t, state)
}
