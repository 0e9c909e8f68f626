package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// APIError — тело ответа с ошибкой.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: APIError{Code: code, Message: message}})
}

// mapError переводит доменные ошибки в HTTP статус.
// Неразрешённая ссылка проверяется раньше not-found, так как оборачивает его.
func mapError(err error) (int, APIError) {
	switch {
	case errors.Is(err, domain.ErrUnresolvedReference):
		return http.StatusUnprocessableEntity, APIError{Code: "UNRESOLVED_REFERENCE", Message: err.Error()}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, APIError{Code: "INVALID_REQUEST", Message: err.Error()}
	case domain.IsNotFound(err):
		return http.StatusNotFound, APIError{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, APIError{Code: "FORBIDDEN", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict, APIError{Code: "CONFLICT", Message: err.Error()}
	default:
		return http.StatusInternalServerError, APIError{Code: "INTERNAL_ERROR", Message: "an internal error occurred"}
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, apiErr := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: apiErr})
}

func notFound(c *gin.Context, what string) {
	abortWithError(c, http.StatusNotFound, "NOT_FOUND", what+" not found")
}

func badRequest(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}
