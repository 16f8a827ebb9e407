package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeInvalidState  ErrorCode = "INVALID_STATE"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodePartial       ErrorCode = "PARTIAL"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
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

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeInvalidState:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsPartial(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodePartial
}

var (
	ErrGigNotFound        = New(ErrCodeNotFound, "задание не найдено")
	ErrBidNotFound        = New(ErrCodeNotFound, "отклик не найден")
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrNotGigOwner        = New(ErrCodeForbidden, "вы не являетесь владельцем задания")
	ErrNotBidOwner        = New(ErrCodeForbidden, "вы не являетесь автором отклика")
	ErrSelfBidForbidden   = New(ErrCodeForbidden, "нельзя откликнуться на собственное задание")
	ErrGigNotOpen         = New(ErrCodeInvalidState, "задание больше не принимает отклики")
	ErrGigAssigned        = New(ErrCodeInvalidState, "задание уже назначено исполнителю")
	ErrBidAlreadyDecided  = New(ErrCodeInvalidState, "отклик уже решён и не может быть изменён")
	ErrDuplicateBid       = New(ErrCodeConflict, "вы уже откликнулись на это задание")
	ErrAlreadyAssigned    = New(ErrCodeConflict, "исполнитель по этому заданию уже выбран")
	ErrEmailTaken         = New(ErrCodeConflict, "email уже зарегистрирован")
	// ErrPartialHire сигнализирует, что задание назначено, но каскад по откликам
	// не подтверждён. Возможен только при хранилище без многозаписных транзакций;
	// требуется фоновая сверка, а не показ успеха пользователю.
	ErrPartialHire = New(ErrCodePartial, "найм применён частично, требуется сверка откликов")
)
