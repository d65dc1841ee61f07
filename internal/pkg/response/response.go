// Package response writes the JSON envelope every endpoint answers with and maps
// workflow errors onto it.
package response

import (
	"errors"

	"streamhub-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return success(c, fiber.StatusOK, message, data, metadata)
}

func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return success(c, fiber.StatusCreated, message, data, metadata)
}

// Paginated sends a 200 list response with the page metadata.
func Paginated(c *fiber.Ctx, message string, items interface{}, p domain.Pagination) error {
	return success(c, fiber.StatusOK, message, items, p)
}

func success(c *fiber.Ctx, status int, message string, data, metadata interface{}) error {
	if metadata == nil {
		metadata = fiber.Map{}
	}
	return c.Status(status).JSON(SuccessBody{Status: statusSuccess, Message: message, Data: data, Metadata: metadata})
}

// Error sends an error envelope. details defaults to an empty object.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = fiber.Map{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error:  ErrorDetail{Message: message, StatusCode: statusCode, Details: details},
	})
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}

// StatusFor maps a workflow error to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAuthorization),
		errors.Is(err, domain.ErrRoleMismatch),
		errors.Is(err, domain.ErrNotEligible):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrSelfApplication),
		errors.Is(err, domain.ErrSelfRental),
		errors.Is(err, domain.ErrListingNotOpen),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, domain.ErrDuplicateRequest):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError writes the error envelope for err with its code and, for field and
// state errors, the offending field or transition. Internal errors are logged and
// their text is never returned to the client.
func FromError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unhandled error")
		return Error(c, "Internal Server Error", status, nil)
	}

	details := fiber.Map{"code": domain.Code(err)}
	var fe *domain.FieldError
	var se *domain.StateError
	switch {
	case errors.As(err, &fe):
		details["field"] = fe.Field
	case errors.As(err, &se):
		details["entity"] = se.Entity
		details["from"] = se.From
		details["action"] = se.Action
	}
	return Error(c, err.Error(), status, details)
}
