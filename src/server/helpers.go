package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock-trend/src/helpers"
	"stock-trend/src/utils"
)

// -----------------------------------------------------------------------------

// tickerParam reads ?ticker=, falling back to the default symbol.
func tickerParam(c *gin.Context) string {
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		return utils.DefaultTicker
	}
	return ticker
}

// -----------------------------------------------------------------------------

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	var ve *helpers.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case helpers.IsClientError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
