package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
)

const transactionColumns = `id, user_id, payment_id, user_subscription_id, amount, currency,
			status_code, transaction_type, starts, ends, created, modified`

// PostgresTransactionRepository реализация репозитория транзакций через PostgreSQL
type PostgresTransactionRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresTransactionRepository создает новый репозиторий транзакций через PostgreSQL
func NewPostgresTransactionRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{
		db:  db,
		log: log,
	}
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.PaymentID,
		&t.UserSubscriptionID,
		&t.Amount,
		&t.Currency,
		&t.StatusCode,
		&t.TransactionType,
		&t.Starts,
		&t.Ends,
		&t.Created,
		&t.Modified,
	)
	return t, err
}

// Create создает новую транзакцию
func (r *PostgresTransactionRepository) Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	query := `
		INSERT INTO transaction (
			id, user_id, payment_id, user_subscription_id, amount, currency,
			status_code, transaction_type, starts, ends, created, modified
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11
		)
		RETURNING ` + transactionColumns + `
	`

	created, err := scanTransaction(r.db.QueryRow(
		ctx,
		query,
		transaction.ID,
		transaction.UserID,
		transaction.PaymentID,
		transaction.UserSubscriptionID,
		transaction.Amount,
		transaction.Currency,
		transaction.StatusCode,
		transaction.TransactionType,
		transaction.Starts,
		transaction.Ends,
		time.Now(),
	))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Нарушение уникальности первичного ключа
			if pgErr.Code == "23505" {
				return domain.Transaction{}, ErrDuplicate
			}
			// Нарушение внешнего ключа
			if pgErr.Code == "23503" {
				return domain.Transaction{}, ErrNotFound
			}
			// Нарушение not-null или непригодное значение колонки
			if pgErr.Code == "23502" || pgErr.Code == "22P02" {
				return domain.Transaction{}, ErrInvalidData
			}
		}
		return domain.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return created, nil
}

// GetByID возвращает транзакцию по ID
func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transaction
		WHERE id = $1
	`

	transaction, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transaction{}, ErrNotFound
		}
		return domain.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}

	return transaction, nil
}

// GetByPaymentID возвращает транзакцию по идентификатору платежа на стороне шлюза
func (r *PostgresTransactionRepository) GetByPaymentID(ctx context.Context, paymentID string) (domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transaction
		WHERE payment_id = $1
	`

	transaction, err := scanTransaction(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transaction{}, ErrNotFound
		}
		return domain.Transaction{}, fmt.Errorf("failed to get transaction by payment id: %w", err)
	}

	return transaction, nil
}

// GetByStatus возвращает транзакции с указанным статусом в порядке создания
func (r *PostgresTransactionRepository) GetByStatus(ctx context.Context, status domain.StatusCode) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transaction
		WHERE status_code = $1
		ORDER BY created
	`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// GetByUserSubscriptionID возвращает транзакции пользовательской подписки
func (r *PostgresTransactionRepository) GetByUserSubscriptionID(ctx context.Context, userSubscriptionID uuid.UUID) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transaction
		WHERE user_subscription_id = $1
		ORDER BY created DESC
	`

	rows, err := r.db.Query(ctx, query, userSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// UpdateStatus обновляет статус транзакции
func (r *PostgresTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StatusCode) error {
	query := `
		UPDATE transaction
		SET status_code = $1, modified = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateWindow обновляет окно действия транзакции
func (r *PostgresTransactionRepository) UpdateWindow(ctx context.Context, id uuid.UUID, starts, ends time.Time) error {
	query := `
		UPDATE transaction
		SET starts = $1, ends = $2, modified = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, starts, ends, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction window: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// MarkRefunded помечает платежную транзакцию возвращенной и укорачивает ее окно действия
func (r *PostgresTransactionRepository) MarkRefunded(ctx context.Context, id uuid.UUID, ends time.Time) error {
	query := `
		UPDATE transaction
		SET status_code = $1, ends = $2, modified = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, domain.StatusRefunded, ends, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark transaction refunded: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ShiftPaymentWindows сдвигает окна действия платежных транзакций по пользовательской
// подписке, начинающихся не раньше from, на days дней (отрицательное значение
// сдвигает назад во времени)
func (r *PostgresTransactionRepository) ShiftPaymentWindows(ctx context.Context, userSubscriptionID uuid.UUID, from time.Time, days int) error {
	query := `
		UPDATE transaction
		SET starts = starts + ($1 * interval '1 day'),
			ends = ends + ($1 * interval '1 day'),
			modified = $2
		WHERE user_subscription_id = $3 AND starts >= $4 AND transaction_type = ANY($5)
	`

	paymentTypes := []int{int(domain.TypePayment), int(domain.TypeAutopayment)}
	_, err := r.db.Exec(ctx, query, days, time.Now(), userSubscriptionID, from, paymentTypes)
	if err != nil {
		return fmt.Errorf("failed to shift payment windows: %w", err)
	}

	return nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
