package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Префиксы ключей дедупликации повторяющихся побочных эффектов
	autoPayKeyPrefix    = "subscription_auto_pay"
	expirationKeyPrefix = "subscription_expiration"
	expiredKeyPrefix    = "subscription_expired"

	seenValue = "1"
)

// DedupKey типизированный ключ дедупликации: один логический ивент,
// один ключ — форматы писателя и читателя не могут разойтись
type DedupKey string

// AutoPayKey ключ попытки автоплатежа по конкретному сроку истечения
func AutoPayKey(userSubscriptionID uuid.UUID, expires time.Time) DedupKey {
	return buildKey(autoPayKeyPrefix, userSubscriptionID, expires)
}

// ExpirationKey ключ уведомления о скором истечении подписки
func ExpirationKey(userSubscriptionID uuid.UUID, expires time.Time) DedupKey {
	return buildKey(expirationKeyPrefix, userSubscriptionID, expires)
}

// ExpiredKey ключ отзыва роли по просроченной подписке
func ExpiredKey(userSubscriptionID uuid.UUID, expires time.Time) DedupKey {
	return buildKey(expiredKeyPrefix, userSubscriptionID, expires)
}

func buildKey(prefix string, id uuid.UUID, expires time.Time) DedupKey {
	return DedupKey(fmt.Sprintf("%s_%s_%d", prefix, id, expires.Unix()))
}

// RedisDedupRepository реализация хранилища дедупликации через Redis
type RedisDedupRepository struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisDedupRepository создает новое хранилище дедупликации через Redis
func NewRedisDedupRepository(redisAddr, redisPassword string, redisDB int, log *logger.Logger) (*RedisDedupRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// Проверяем соединение с Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return &RedisDedupRepository{
		client: client,
		log:    log,
	}, nil
}

// Close закрывает соединение с Redis
func (r *RedisDedupRepository) Close() error {
	return r.client.Close()
}

// Seen проверяет, был ли ивент с таким ключом уже обработан
func (r *RedisDedupRepository) Seen(ctx context.Context, key DedupKey) (bool, error) {
	_, err := r.client.Get(ctx, string(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get dedup key: %w", err)
	}
	return true, nil
}

// Mark помечает ивент обработанным на срок ttl
func (r *RedisDedupRepository) Mark(ctx context.Context, key DedupKey, ttl time.Duration) error {
	if err := r.client.Set(ctx, string(key), seenValue, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set dedup key: %w", err)
	}

	r.log.Debugw("Dedup key marked", "key", key, "ttl", ttl)
	return nil
}
