package domain

import (
	"errors"
	"fmt"
)

// Application errors
var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrInvalidOperation неверная операция
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnprocessableStatus шлюз вернул статус вне известного словаря
	ErrUnprocessableStatus = errors.New("unprocessable gateway status")

	// ErrNoPaymentMethod у подписки не подключен метод оплаты
	ErrNoPaymentMethod = errors.New("user subscription has no payment method")

	// ErrExternalServiceUnavailable внешний сервис недоступен
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
)

// ExternalServiceError представляет ошибку внешнего сервиса
type ExternalServiceError struct {
	Service     string
	Code        string
	Message     string
	StatusCode  int
	OriginalErr error
}

// Error реализует интерфейс error
func (e *ExternalServiceError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s service error [%s]: %s: %v", e.Service, e.Code, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("%s service error [%s]: %s", e.Service, e.Code, e.Message)
}

// Unwrap возвращает оригинальную ошибку
func (e *ExternalServiceError) Unwrap() error {
	return e.OriginalErr
}

// Is сопоставляет транспортные ошибки с ErrExternalServiceUnavailable
func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalServiceUnavailable && e.Code == "unavailable"
}

// NewExternalServiceError создает новую ошибку внешнего сервиса
func NewExternalServiceError(service, code, message string, statusCode int, err error) *ExternalServiceError {
	return &ExternalServiceError{
		Service:     service,
		Code:        code,
		Message:     message,
		StatusCode:  statusCode,
		OriginalErr: err,
	}
}

// ValidationError представляет ошибку валидации запроса на операцию
type ValidationError struct {
	Field   string
	Message string
}

// Error реализует интерфейс error
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
}

// NewValidationError создает новую ошибку валидации
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
