package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/SscSPs/facility_finance_app/internal/dto"
	"github.com/SscSPs/facility_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// retryAfterSeconds is advertised on contention responses.
const retryAfterSeconds = "1"

// respondError writes the error response for a failed service call. Server errors are
// logged and answered with fallback instead of the cause.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	switch {
	case apperrors.IsRetryable(err):
		logger.Warn("Request hit contention", slog.String("error", err.Error()))
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(status, dto.ErrorResponse{Error: err.Error(), Retryable: true})
	case status >= http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: fallback, RequestID: middleware.GetRequestIDFromCtx(c.Request.Context())})
	default:
		logger.Info("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
	}
}

// respondBindError answers a request whose body or query failed to bind.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		problems := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request: " + strings.Join(problems, "; ")})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt", "min":
		return fmt.Sprintf("%s must be at least %s", field, minBound(fe))
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func minBound(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		if n, err := strconv.Atoi(fe.Param()); err == nil {
			return strconv.Itoa(n + 1)
		}
	}
	return fe.Param()
}

// callerScope returns the scope set by the auth middleware, aborting with 401 when absent.
func callerScope(c *gin.Context) (domain.Scope, bool) {
	scope, ok := middleware.GetScopeFromCtx(c.Request.Context())
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Caller scope not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return domain.Scope{}, false
	}
	return scope, true
}

// idParam parses a positive integer path parameter, answering 400 when it is not one.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: fmt.Sprintf("%s must be a positive integer", name)})
		return 0, false
	}
	return id, true
}
