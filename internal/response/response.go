package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recharge-travels/service-booking/internal/domain"
)

// Envelope is the uniform shape of every API response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable failure code and message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with items and paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data: gin.H{
			"items": items,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes a 204 response with no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps a domain error to its HTTP status and writes the envelope.
// Unknown errors become opaque 500s so internals never leak.
func Error(c *gin.Context, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: string(domain.CodeInternal), Message: "internal server error"},
		})
		return
	}

	c.JSON(statusOf(domainErr.Code), Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(domainErr.Code), Message: domainErr.Message},
	})
}

// BadRequest writes a 400 for malformed request bodies.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(domain.CodeValidation), Message: message},
	})
}

func statusOf(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation,
		domain.CodeInvalidSchedule,
		domain.CodeInvalidBasePrice,
		domain.CodeUnsupportedChannel,
		domain.CodeCapacityExceeded:
		return http.StatusBadRequest
	case domain.CodeAdmissionWindow:
		return http.StatusUnprocessableEntity
	case domain.CodeIllegalTransition, domain.CodePaymentIncomplete:
		return http.StatusConflict
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
