package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "storefront/internal/repository"
)

// エラーの種類。HTTPErrorはどれか1つをKindに持つ。
var (
	ErrNotFound = errors.New("not found")
	// 注文明細の商品解決で見つからない（ErrNotFoundでもある）
	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrEmptyCart           = errors.New("cart is empty")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrConflict            = errors.New("conflict")
	ErrValidation          = errors.New("validation failed")
	ErrUnavailable         = errors.New("downstream unavailable")
)

type HTTPError struct {
	Status  int
	Message string
	Kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Kind
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 種類からステータスを決めて包む
func newError(kind error, message string) error {
	return &HTTPError{Status: statusOf(kind), Message: message, Kind: kind}
}

func statusOf(kind error) int {
	switch {
	case errors.Is(kind, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, ErrEmptyCart), errors.Is(kind, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, ErrConcurrencyConflict), errors.Is(kind, ErrConflict):
		return http.StatusConflict
	case errors.Is(kind, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func validationError(message string) error {
	return newError(ErrValidation, message)
}

// repositoryのエラーをusecaseのエラーにそろえる。
// 競合/障害の中身は外に出さない。
func fromRepo(err error, notFoundKind error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		if errors.Is(notFoundKind, ErrProductNotFound) {
			return newError(ErrProductNotFound, "product not found")
		}
		return newError(ErrNotFound, "not found")
	case errors.Is(err, repo.ErrConcurrencyConflict):
		return newError(ErrConcurrencyConflict, "the record was changed by someone else, please reload and try again")
	case errors.Is(err, repo.ErrAlreadyExists):
		return newError(ErrConflict, "already exists")
	default:
		return newError(ErrUnavailable, "service temporarily unavailable")
	}
}
