package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/service"
)

// errorStatusMap is the fixed translation from service error codes to
// HTTP statuses. Codes outside the map surface as 500.
var errorStatusMap = map[string]int{
	service.CodeInvalidPayload:          http.StatusBadRequest,
	service.CodeInvalidCredentials:      http.StatusUnauthorized,
	service.CodeEmailTaken:              http.StatusConflict,
	service.CodeRecipeNotFound:          http.StatusNotFound,
	service.CodeProductNotFound:         http.StatusNotFound,
	service.CodeProfileNotFound:         http.StatusNotFound,
	service.CodePreferenceNotFound:      http.StatusNotFound,
	service.CodePreferenceExists:        http.StatusConflict,
	service.CodeDuplicateIngredient:     http.StatusBadRequest,
	service.CodeInvalidIngredientUnit:   http.StatusBadRequest,
	service.CodeIngredientLimitExceeded: http.StatusUnprocessableEntity,
	service.CodeInstructionsTooLong:     http.StatusUnprocessableEntity,
	service.CodeIngredientsTooLong:      http.StatusUnprocessableEntity,
	service.CodeQuotaExhausted:          http.StatusTooManyRequests,
	service.CodeTimestampInPast:         http.StatusConflict,
	service.CodeInternalError:           http.StatusInternalServerError,
}

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// respondError writes the standard error envelope for a known code.
func respondError(c *gin.Context, code, message string) {
	status, ok := errorStatusMap[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// respondServiceError maps a service error onto the envelope. Internal
// errors are logged with their cause and stripped to a generic message
// so no infrastructure detail leaks to the client.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Code == service.CodeInternalError {
			logger.Error("internal service error",
				zap.String("path", c.FullPath()), zap.Error(err))
			respondError(c, service.CodeInternalError, "An internal server error occurred.")
			return
		}
		respondError(c, svcErr.Code, svcErr.Message)
		return
	}

	logger.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	respondError(c, service.CodeInternalError, "An internal server error occurred.")
}

// respondBindingError turns a gin binding failure into a 400 carrying
// the first validation issue's message.
func respondBindingError(c *gin.Context, err error) {
	message := "Submitted payload is invalid."

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		message = fe.Field() + " failed validation on the '" + fe.Tag() + "' rule."
	}

	c.JSON(http.StatusBadRequest, errorEnvelope{Error: errorBody{
		Code:    service.CodeInvalidPayload,
		Message: message,
	}})
}
