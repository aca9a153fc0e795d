package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/pkg/response"
	"github.com/qs3c/sports_content_server/internal/service"
)

// respondError 将业务错误映射为 HTTP 响应
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.ParamError(c, validationMessage(err))
	case errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrEmailExists):
		response.ParamError(c, capitalize(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		response.AuthError(c, "Invalid username or password")
	case errors.Is(err, service.ErrUnauthorized):
		response.AuthError(c, "Not authenticated")
	case errors.Is(err, service.ErrQuotaExceeded):
		response.PermissionError(c, "Monthly generation limit reached for your plan")
	case errors.Is(err, service.ErrContentForbidden):
		response.PermissionError(c, "Forbidden")
	case errors.Is(err, service.ErrContentNotFound):
		response.NotFoundError(c, "Content not found")
	case errors.Is(err, service.ErrOAuthDisabled):
		response.NotFoundError(c, "GitHub login is not configured")
	case errors.Is(err, service.ErrOAuthState):
		response.ParamError(c, "Invalid or expired OAuth state")
	case errors.Is(err, service.ErrInvalidAIResponse):
		logger.Warn("invalid completion response", zap.Error(err))
		response.ServerError(c, "Invalid response format from AI")
	case errors.Is(err, service.ErrUpstream):
		logger.Error("completion request failed", zap.Error(err))
		response.ServerError(c, "Content generation service unavailable")
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.ServerError(c, "")
	}
}

// bindError 请求体绑定失败
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.ParamError(c, "Invalid request format")
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	response.ParamError(c, "Invalid request format: "+strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// validationMessage 去掉哨兵错误前缀，保留具体原因
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	if msg == service.ErrValidation.Error() {
		return "Invalid request format"
	}
	return "Invalid request format: " + msg
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
