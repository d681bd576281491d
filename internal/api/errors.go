package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
)

const (
	msgNotFound      = "Страница не найдена."
	msgForbidden     = "У вас недостаточно прав для выполнения данного действия."
	msgUnauthorized  = "Учетные данные не были предоставлены."
	msgNotAuthorized = "Вы не авторизованы"
	msgBadCreds      = "Невозможно войти с предоставленными учетными данными."
	msgBadRequest    = "Некорректный запрос."
	msgInternal      = "Внутренняя ошибка сервера"
)

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, conflict.Message)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": msgForbidden})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{msgBadCreds}})
	default:
		logging.FromContext(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgInternal})
	}
}

// badRequest reports a malformed request body or query.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": msgBadRequest, "errors": err.Error()})
}
