package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Machine-readable error codes surfaced to API clients.
const (
	CodeValidation    = "validation"
	CodeStateConflict = "state_conflict"
	CodeConflict      = "conflict"
	CodeNotFound      = "not_found"
	CodePrinterIO     = "printer_io"
)

// APIError is a deterministic rejection: no internal check behind it is ever
// retried. Status maps straight to the HTTP response code.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string { return e.Message }

func NewValidation(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

// NewStateConflict marks an activation attempt against an inactive ancestor.
func NewStateConflict(msg string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: CodeStateConflict, Message: msg}
}

func NewConflict(msg string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: CodeConflict, Message: msg}
}

func NewNotFound(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

func NewPrinterError(msg string) *APIError {
	return &APIError{Status: http.StatusBadGateway, Code: CodePrinterIO, Message: msg}
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsDuplicateEntry reports whether err is a MySQL unique-key violation
// (error 1062).
func IsDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite (tests) surfaces unique violations as plain errors.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsNotFound reports whether err is gorm's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
