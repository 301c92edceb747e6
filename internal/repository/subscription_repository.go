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

// PostgresSubscriptionRepository реализация репозитория тарифных планов через PostgreSQL
type PostgresSubscriptionRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresSubscriptionRepository создает новый репозиторий тарифных планов через PostgreSQL
func NewPostgresSubscriptionRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{
		db:  db,
		log: log,
	}
}

// GetByID возвращает тарифный план по ID
func (r *PostgresSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	query := `
		SELECT id, role_id, name, description, amount, currency, period, actual, created, modified
		FROM subscription
		WHERE id = $1
	`

	var subscription domain.Subscription
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subscription.ID,
		&subscription.RoleID,
		&subscription.Name,
		&subscription.Description,
		&subscription.Amount,
		&subscription.Currency,
		&subscription.Period,
		&subscription.Actual,
		&subscription.Created,
		&subscription.Modified,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}

	return subscription, nil
}

// GetAll возвращает все актуальные тарифные планы
func (r *PostgresSubscriptionRepository) GetAll(ctx context.Context) ([]domain.Subscription, error) {
	query := `
		SELECT id, role_id, name, description, amount, currency, period, actual, created, modified
		FROM subscription
		WHERE actual
		ORDER BY created DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []domain.Subscription
	for rows.Next() {
		var subscription domain.Subscription
		err := rows.Scan(
			&subscription.ID,
			&subscription.RoleID,
			&subscription.Name,
			&subscription.Description,
			&subscription.Amount,
			&subscription.Currency,
			&subscription.Period,
			&subscription.Actual,
			&subscription.Created,
			&subscription.Modified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subscriptions = append(subscriptions, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subscriptions, nil
}

// GetActiveRoleIDs возвращает id ролей, на которые ссылаются актуальные тарифные планы
func (r *PostgresSubscriptionRepository) GetActiveRoleIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT role_id FROM subscription WHERE actual`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query role ids: %w", err)
	}
	defer rows.Close()

	var roleIDs []uuid.UUID
	for rows.Next() {
		var roleID uuid.UUID
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("failed to scan role id: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role ids: %w", err)
	}

	return roleIDs, nil
}

// DeactivateByRoleID помечает тарифные планы с указанной ролью неактуальными
func (r *PostgresSubscriptionRepository) DeactivateByRoleID(ctx context.Context, roleID uuid.UUID) error {
	query := `
		UPDATE subscription
		SET actual = false, modified = $1
		WHERE role_id = $2
	`

	// Ноль обновленных строк допустим: планы могли быть деактивированы
	// предыдущим проходом
	if _, err := r.db.Exec(ctx, query, time.Now(), roleID); err != nil {
		return fmt.Errorf("failed to deactivate subscriptions: %w", err)
	}

	return nil
}
