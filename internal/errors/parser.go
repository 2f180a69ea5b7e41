package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ParsedError is a database error translated into an error code plus a
// message safe to show to clients.
type ParsedError struct {
	Code    string
	Message string
}

// ParseError translates gorm/postgres errors into API error codes.
// Anything unrecognized collapses to INTERNAL_DATABASE_ERROR.
func ParseError(err error) ParsedError {
	if err == nil {
		return ParsedError{}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ParsedError{Code: ResourceNotFound, Message: "Resource not found"}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ParsedError{Code: ResourceAlreadyExists, Message: "Resource already exists"}
		case "23503": // foreign_key_violation
			return ParsedError{Code: ResourceConflict, Message: "Referenced resource does not exist"}
		case "23502": // not_null_violation
			return ParsedError{Code: ValidationRequired, Message: "Required field is missing"}
		case "22001": // string_data_right_truncation
			return ParsedError{Code: ValidationInvalidRange, Message: "Value is too long"}
		}
	}

	// The sqlite driver used in tests reports constraint failures as
	// plain error strings.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return ParsedError{Code: ResourceAlreadyExists, Message: "Resource already exists"}
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return ParsedError{Code: ResourceConflict, Message: "Referenced resource does not exist"}
	}

	return ParsedError{Code: InternalDatabaseError, Message: "A database error occurred"}
}

// IsDuplicate reports whether the error is a unique constraint violation.
func IsDuplicate(err error) bool {
	return ParseError(err).Code == ResourceAlreadyExists
}

// IsNotFound reports whether the error is a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
