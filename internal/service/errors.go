package service

import "fmt"

// Error codes raised by the services. Handlers translate them to HTTP
// statuses through a fixed table; anything outside this set surfaces
// as internal_error.
const (
	CodeEmailTaken              = "email_taken"
	CodeInvalidCredentials      = "invalid_credentials"
	CodeRecipeNotFound          = "recipe_not_found"
	CodeProductNotFound         = "product_not_found"
	CodeProfileNotFound         = "profile_not_found"
	CodePreferenceNotFound      = "preference_not_found"
	CodePreferenceExists        = "preference_exists"
	CodeInstructionsTooLong     = "instructions_too_long"
	CodeIngredientsTooLong      = "ingredients_too_long"
	CodeIngredientLimitExceeded = "ingredient_limit_exceeded"
	CodeDuplicateIngredient     = "duplicate_ingredient"
	CodeInvalidIngredientUnit   = "invalid_ingredient_unit"
	CodeQuotaExhausted          = "quota_exhausted"
	CodeInvalidPayload          = "invalid_payload"
	CodeTimestampInPast         = "timestamp_in_past"
	CodeInternalError           = "internal_error"
)

// ServiceError is a domain error with a stable machine-readable code.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError builds a ServiceError with an optional message.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// WrapInternal hides an unexpected error behind internal_error while
// keeping the cause for logging.
func WrapInternal(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeInternalError, Message: message, Err: err}
}
