package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AppError is the typed error every service returns. The controller layer maps
// it to a transport status; services never touch fiber directly.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewAppError(fiber.StatusUnauthorized, message)
}

func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(fiber.StatusForbidden, message)
}

func ErrNotFound(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return NewAppError(fiber.StatusNotFound, message)
}

func ErrConflict(message string) *AppError {
	if message == "" {
		message = "Conflict"
	}
	return NewAppError(fiber.StatusConflict, message)
}

func ErrValidation(message string) *AppError {
	if message == "" {
		message = "Validation failed"
	}
	return NewAppError(fiber.StatusUnprocessableEntity, message)
}

func ErrBadRequest(message string) *AppError {
	if message == "" {
		message = "Bad request"
	}
	return NewAppError(fiber.StatusBadRequest, message)
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// JsonAppError renders a service error. Unknown errors become a bare 500 so
// internals never leak to the client.
func JsonAppError(c *fiber.Ctx, err error) error {
	if ae, ok := AsAppError(err); ok {
		return JsonError(c, ae.Status, ae.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "Internal server error")
}

// IsUniqueViolation reports whether err is the store rejecting a duplicate row
// (Postgres 23505). Duplicate races are resolved here, not with locks: the
// second writer loses and the violation is mapped to a Conflict.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// lib/pq path, used by the sqlmock-backed tests
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
