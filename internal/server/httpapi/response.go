package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/backup"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

func badRequest(c *gin.Context, message string) { fail(c, http.StatusBadRequest, message) }

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrNotInTrash):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalid), errors.Is(err, backup.ErrOutsidePrefix):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, backup.ErrDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondErr writes err with its mapped status. Internal errors are logged
// and reported without detail.
func (h *handlers) respondErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err, "request_id", requestID(c))
		fail(c, status, "internal error")
		return
	}
	fail(c, status, err.Error())
}

// mutated answers a write. A persistence failure still means the change
// was applied in memory, so the reply succeeds with a warning.
func (h *handlers) mutated(c *gin.Context, status int, data any, err error) {
	if err == nil {
		c.JSON(status, Response{Success: true, Data: data})
		return
	}
	if errors.Is(err, ledger.ErrPersist) {
		h.logger.Warn(c.Request.Context(), "change kept in memory only", "error", err, "request_id", requestID(c))
		c.JSON(status, Response{Success: true, Message: "변경 사항이 메모리에만 반영되었습니다: " + err.Error(), Data: data})
		return
	}
	h.respondErr(c, err)
}
