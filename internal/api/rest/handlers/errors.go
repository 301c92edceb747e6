package handlers

import (
	"errors"
	"net/http"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/internal/repository"
	"github.com/gin-gonic/gin"
)

// respondError переводит ошибку сервиса в HTTP статус
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, repository.ErrNotFound) || errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidOperation) || errors.Is(err, domain.ErrNoPaymentMethod):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, repository.ErrInvalidData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data"})
	case errors.Is(err, domain.ErrExternalServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "external service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
