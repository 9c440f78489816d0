package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillverse/marketplace-backend/internal/logger"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: переводит AppError
// в HTTP статус и маскирует внутренние ошибки.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		}

		logRequestError(c, err, statusCode)

		c.JSON(statusCode, gin.H{"error": message})
	}
}

// logRequestError пишет ошибку запроса с уровнем по серьёзности:
// конфликты статусов и попытки запрещённых действий — предупреждение,
// всё необъяснённое — ошибка.
func logRequestError(c *gin.Context, err error, statusCode int) {
	if logger.Log == nil {
		return
	}

	fields := logrus.Fields{
		"error":  err.Error(),
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
		"status": statusCode,
	}

	switch {
	case statusCode >= http.StatusInternalServerError:
		logger.Log.WithFields(fields).Error("Request error")
	case apperror.IsInvalidTransition(err) || apperror.IsForbidden(err):
		logger.Log.WithFields(fields).Warn("Request rejected")
	default:
		logger.Log.WithFields(fields).Info("Request failed")
	}
}
