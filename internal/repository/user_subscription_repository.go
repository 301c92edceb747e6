package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
)

const userSubscriptionColumns = `id, user_id, subscription_id, auto_pay_id, expires, created, modified`

// PostgresUserSubscriptionRepository реализация репозитория пользовательских подписок через PostgreSQL
type PostgresUserSubscriptionRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresUserSubscriptionRepository создает новый репозиторий пользовательских подписок через PostgreSQL
func NewPostgresUserSubscriptionRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresUserSubscriptionRepository {
	return &PostgresUserSubscriptionRepository{
		db:  db,
		log: log,
	}
}

func scanUserSubscription(row pgx.Row) (domain.UserSubscription, error) {
	var us domain.UserSubscription
	err := row.Scan(
		&us.ID,
		&us.UserID,
		&us.SubscriptionID,
		&us.AutoPayID,
		&us.Expires,
		&us.Created,
		&us.Modified,
	)
	return us, err
}

// GetByID возвращает пользовательскую подписку по ID
func (r *PostgresUserSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.UserSubscription, error) {
	query := `
		SELECT ` + userSubscriptionColumns + `
		FROM user_subscription
		WHERE id = $1
	`

	us, err := scanUserSubscription(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserSubscription{}, ErrNotFound
		}
		return domain.UserSubscription{}, fmt.Errorf("failed to get user subscription: %w", err)
	}

	return us, nil
}

// GetByUserID возвращает пользовательские подписки пользователя
func (r *PostgresUserSubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.UserSubscription, error) {
	query := `
		SELECT ` + userSubscriptionColumns + `
		FROM user_subscription
		WHERE user_id = $1
		ORDER BY created DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user subscriptions: %w", err)
	}
	defer rows.Close()

	return collectUserSubscriptions(rows)
}

// GetOrCreate возвращает пользовательскую подписку для пары (пользователь, план),
// создавая ее при первой попытке оплаты
func (r *PostgresUserSubscriptionRepository) GetOrCreate(ctx context.Context, userID, subscriptionID uuid.UUID) (domain.UserSubscription, error) {
	query := `
		SELECT ` + userSubscriptionColumns + `
		FROM user_subscription
		WHERE user_id = $1 AND subscription_id = $2
	`

	us, err := scanUserSubscription(r.db.QueryRow(ctx, query, userID, subscriptionID))
	if err == nil {
		return us, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.UserSubscription{}, fmt.Errorf("failed to get user subscription: %w", err)
	}

	now := time.Now()
	insert := `
		INSERT INTO user_subscription (id, user_id, subscription_id, auto_pay_id, expires, created, modified)
		VALUES ($1, $2, $3, NULL, $4, $5, $5)
		RETURNING ` + userSubscriptionColumns + `
	`

	// Новая подписка истекает "сейчас": срок действия добавит завершенная транзакция
	us, err = scanUserSubscription(r.db.QueryRow(ctx, insert, uuid.New(), userID, subscriptionID, now, now))
	if err != nil {
		return domain.UserSubscription{}, fmt.Errorf("failed to create user subscription: %w", err)
	}

	r.log.Debug("Created user subscription %s for user %s", us.ID, userID)
	return us, nil
}

// UpdateExpires обновляет срок действия пользовательской подписки
func (r *PostgresUserSubscriptionRepository) UpdateExpires(ctx context.Context, id uuid.UUID, expires time.Time) error {
	query := `
		UPDATE user_subscription
		SET expires = $1, modified = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, expires, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update user subscription expires: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateAutoPayID обновляет метод оплаты пользовательской подписки (nil очищает его)
func (r *PostgresUserSubscriptionRepository) UpdateAutoPayID(ctx context.Context, id uuid.UUID, autoPayID *string) error {
	query := `
		UPDATE user_subscription
		SET auto_pay_id = $1, modified = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, autoPayID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update user subscription auto_pay_id: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetSoonExpiring возвращает подписки, срок действия которых истекает в ближайшие days дней
func (r *PostgresUserSubscriptionRepository) GetSoonExpiring(ctx context.Context, days int) ([]domain.UserSubscription, error) {
	query := `
		SELECT ` + userSubscriptionColumns + `
		FROM user_subscription
		WHERE expires >= $1 AND expires < $2
	`

	now := time.Now()
	rows, err := r.db.Query(ctx, query, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("failed to query soon expiring subscriptions: %w", err)
	}
	defer rows.Close()

	return collectUserSubscriptions(rows)
}

// GetExpired возвращает просроченные подписки в пределах окна просмотра days дней
func (r *PostgresUserSubscriptionRepository) GetExpired(ctx context.Context, days int) ([]domain.UserSubscription, error) {
	query := `
		SELECT ` + userSubscriptionColumns + `
		FROM user_subscription
		WHERE expires < $1 AND expires > $2
	`

	now := time.Now()
	rows, err := r.db.Query(ctx, query, now, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("failed to query expired subscriptions: %w", err)
	}
	defer rows.Close()

	return collectUserSubscriptions(rows)
}

func collectUserSubscriptions(rows pgx.Rows) ([]domain.UserSubscription, error) {
	var subscriptions []domain.UserSubscription
	for rows.Next() {
		us, err := scanUserSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user subscription: %w", err)
		}
		subscriptions = append(subscriptions, us)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user subscriptions: %w", err)
	}

	return subscriptions, nil
}
