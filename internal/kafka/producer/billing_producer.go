package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/IBM/sarama"
)

const (
	TopicTransactionCompleted = "transaction.completed"
	TopicTransactionFailed    = "transaction.failed"
	TopicTransactionTimeout   = "transaction.timeout"
)

// TransactionEvent представляет событие жизненного цикла транзакции для Kafka
type TransactionEvent struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	UserSubscriptionID string    `json:"user_subscription_id"`
	PaymentID          string    `json:"payment_id"`
	Amount             float64   `json:"amount"`
	Currency           string    `json:"currency"`
	TransactionType    string    `json:"transaction_type"`
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
}

// BillingProducer интерфейс для отправки событий жизненного цикла транзакций
type BillingProducer interface {
	TransactionCompleted(ctx context.Context, transaction domain.Transaction) error
	TransactionFailed(ctx context.Context, transaction domain.Transaction) error
	TransactionTimeout(ctx context.Context, transaction domain.Transaction) error
	Close() error
}

type kafkaBillingProducer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
}

// NewKafkaBillingProducer создает новый продюсер событий транзакций
func NewKafkaBillingProducer(producer sarama.SyncProducer, log *logger.Logger) BillingProducer {
	return &kafkaBillingProducer{
		producer: producer,
		log:      log,
	}
}

// TransactionCompleted публикует событие об успешном завершении транзакции
func (p *kafkaBillingProducer) TransactionCompleted(ctx context.Context, transaction domain.Transaction) error {
	return p.publishEvent(ctx, TopicTransactionCompleted, transaction, domain.StatusCompleted)
}

// TransactionFailed публикует событие о неуспешной транзакции
func (p *kafkaBillingProducer) TransactionFailed(ctx context.Context, transaction domain.Transaction) error {
	return p.publishEvent(ctx, TopicTransactionFailed, transaction, domain.StatusFailed)
}

// TransactionTimeout публикует событие о погашенной по таймауту транзакции
func (p *kafkaBillingProducer) TransactionTimeout(ctx context.Context, transaction domain.Transaction) error {
	return p.publishEvent(ctx, TopicTransactionTimeout, transaction, domain.StatusFailed)
}

// publishEvent публикует событие транзакции в Kafka
func (p *kafkaBillingProducer) publishEvent(ctx context.Context, topic string, transaction domain.Transaction, status domain.StatusCode) error {
	event := TransactionEvent{
		ID:                 transaction.ID.String(),
		UserID:             transaction.UserID.String(),
		UserSubscriptionID: transaction.UserSubscriptionID.String(),
		PaymentID:          transaction.PaymentID,
		Amount:             transaction.Amount,
		Currency:           transaction.Currency,
		TransactionType:    transaction.TransactionType.String(),
		Status:             status.String(),
		Timestamp:          time.Now(),
	}

	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	// Ключ по пользовательской подписке сохраняет порядок событий одной подписки
	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(transaction.UserSubscriptionID.String()),
		Value: sarama.ByteEncoder(messageValue),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(topic),
			},
		},
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}

	p.log.Info("Published transaction event to topic %s: partition=%d offset=%d",
		topic, partition, offset)

	return nil
}

// Close закрывает продюсер
func (p *kafkaBillingProducer) Close() error {
	return p.producer.Close()
}
