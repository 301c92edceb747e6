package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/kafka/producer"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	kafkaGo "github.com/segmentio/kafka-go"
)

// EnsureTopics проверяет и создает топики событий транзакций
func EnsureTopics(brokers []string, log *logger.Logger) error {
	requiredTopics := []kafkaGo.TopicConfig{
		{
			Topic:             producer.TopicTransactionCompleted,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
		{
			Topic:             producer.TopicTransactionFailed,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
		{
			Topic:             producer.TopicTransactionTimeout,
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}

	if len(brokers) == 0 || brokers[0] == "" {
		return errors.New("kafka broker address is empty")
	}

	connCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, err := kafkaGo.DialLeader(connCtx, "tcp", brokers[0], "", 0)
	if err != nil {
		return fmt.Errorf("kafka connection failed: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("kafka read partitions failed: %w", err)
	}

	existing := make(map[string]bool)
	for _, p := range partitions {
		existing[p.Topic] = true
	}

	var toCreate []kafkaGo.TopicConfig
	for _, topicConfig := range requiredTopics {
		if !existing[topicConfig.Topic] {
			toCreate = append(toCreate, topicConfig)
		}
	}
	if len(toCreate) == 0 {
		log.Debugw("All required Kafka topics already exist")
		return nil
	}

	if err := conn.CreateTopics(toCreate...); err != nil {
		if errors.Is(err, kafkaGo.TopicAlreadyExists) {
			log.Warnw("Kafka topics already existed during creation attempt")
			return nil
		}
		return fmt.Errorf("kafka create topics failed: %w", err)
	}

	log.Infow("Created Kafka topics", "count", len(toCreate))
	return nil
}
