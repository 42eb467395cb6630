package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest           ErrorCode = "BAD_REQUEST"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeStateConflict        ErrorCode = "STATE_CONFLICT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation           ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	ErrCodeSearchFailed         ErrorCode = "SEARCH_FAILED"
	ErrCodeNotificationDelivery ErrorCode = "NOTIFICATION_DELIVERY"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	// Expected и Actual заполняются только для STATE_CONFLICT.
	Expected []string
	Actual   string
}

func (e *AppError) Error() string {
	if e.Code == ErrCodeStateConflict && e.Actual != "" {
		return fmt.Sprintf("%s: %s (expected %v, actual %s)", e.Code, e.Message, e.Expected, e.Actual)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// StateConflict описывает переход из неподходящего статуса.
func StateConflict[S ~string](message string, actual S, expected ...S) *AppError {
	exp := make([]string, 0, len(expected))
	for _, s := range expected {
		exp = append(exp, string(s))
	}
	return &AppError{
		Code:       ErrCodeStateConflict,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(ErrCodeStateConflict),
		Expected:   exp,
		Actual:     string(actual),
	}
}

// Validation: короткая форма для ошибок входных данных.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Transient оборачивает инфраструктурную ошибку хранилища, запрос можно повторить.
func Transient(err error, message string) *AppError {
	return Wrap(err, ErrCodeDatabaseError, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeStateConflict:
		return http.StatusConflict
	case ErrCodeDatabaseError, ErrCodeSearchFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

func IsStateConflict(err error) bool {
	return hasCode(err, ErrCodeStateConflict)
}

// CodeOf возвращает код ошибки; для чужих ошибок INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsTransient сообщает, что операцию безопасно повторить.
func IsTransient(err error) bool {
	return hasCode(err, ErrCodeDatabaseError) || hasCode(err, ErrCodeSearchFailed)
}

var (
	ErrProfileNotFound      = New(ErrCodeNotFound, "профиль не найден")
	ErrFreelancerNotFound   = New(ErrCodeNotFound, "фрилансер не найден")
	ErrOfferNotFound        = New(ErrCodeNotFound, "предложение не найдено")
	ErrBookingNotFound      = New(ErrCodeNotFound, "бронирование не найдено")
	ErrReceivableNotFound   = New(ErrCodeNotFound, "запись о платеже не найдена")
	ErrPortfolioNotFound    = New(ErrCodeNotFound, "работа портфолио не найдена")
	ErrConversationNotFound = New(ErrCodeNotFound, "беседа не найдена")
	ErrNotificationNotFound = New(ErrCodeNotFound, "уведомление не найдено")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden            = New(ErrCodeForbidden, "недостаточно прав")
)
