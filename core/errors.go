package core

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AppErrorBadInput         = "APPS_BAD_INPUT"
	AppErrorAlreadyExists    = "APPS_ALREADY_EXISTS"
	AppErrorNotFound         = "APPS_NOT_FOUND"
	AppErrorDeleted          = "APPS_DELETED"
	AppErrorDuplicateService = "APPS_DUPLICATE_SERVICE"
	AppErrorRefreshFailed    = "APPS_REFRESH_FAILED"
	AppErrorInternal         = "APPS_INTERNAL_ERROR"
)

func errBadInput(message string) error {
	return newAppError(message, goerrors.CategoryBadInput, AppErrorBadInput)
}

func errAlreadyExists(name string) error {
	return newAppError(
		fmt.Sprintf("core: app name %q already exists", name),
		goerrors.CategoryConflict,
		AppErrorAlreadyExists,
	)
}

func errNotFound(name string, knownNames []string) error {
	message := fmt.Sprintf("core: app %q does not exist", name)
	if len(knownNames) > 0 {
		sorted := append([]string(nil), knownNames...)
		sort.Strings(sorted)
		message += ". Available app names: " + strings.Join(sorted, ", ")
	}
	return newAppError(message, goerrors.CategoryNotFound, AppErrorNotFound)
}

func errDeleted(name string) error {
	return newAppError(
		fmt.Sprintf("core: app %q was deleted", name),
		goerrors.CategoryOperation,
		AppErrorDeleted,
	)
}

func errDuplicateService(id string) error {
	return newAppError(
		fmt.Sprintf("core: service %q is already attached", id),
		goerrors.CategoryConflict,
		AppErrorDuplicateService,
	)
}

func errRefreshFailed(err error) error {
	return ensureAppErrorEnvelope(
		goerrors.Wrap(err, goerrors.CategoryOperation, "core: token refresh failed").
			WithTextCode(AppErrorRefreshFailed),
	)
}

// IsAlreadyExists reports whether err is a duplicate-registration failure.
func IsAlreadyExists(err error) bool { return hasTextCode(err, AppErrorAlreadyExists) }

// IsNotFound reports whether err is an unknown-app lookup failure.
func IsNotFound(err error) bool { return hasTextCode(err, AppErrorNotFound) }

// IsDeleted reports whether err came from operating on a deleted App.
func IsDeleted(err error) bool { return hasTextCode(err, AppErrorDeleted) }

// IsDuplicateService reports whether err is a service id collision.
func IsDuplicateService(err error) bool { return hasTextCode(err, AppErrorDuplicateService) }

// IsRefreshFailure reports whether err wraps a credential provider failure.
func IsRefreshFailure(err error) bool { return hasTextCode(err, AppErrorRefreshFailed) }

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(richErr.TextCode), textCode)
}

type ErrorMapper func(err error) *goerrors.Error

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAppErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "already exists"):
		return newAppError(err.Error(), goerrors.CategoryConflict, AppErrorAlreadyExists)
	case strings.Contains(msg, "does not exist"), strings.Contains(msg, "not found"):
		return newAppError(err.Error(), goerrors.CategoryNotFound, AppErrorNotFound)
	case strings.Contains(msg, "was deleted"):
		return newAppError(err.Error(), goerrors.CategoryOperation, AppErrorDeleted)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newAppError(err.Error(), goerrors.CategoryBadInput, AppErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAppErrorEnvelope(mapped)
}

func newAppError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAppErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureAppErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = appHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAppTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAppTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AppErrorBadInput
	case goerrors.CategoryNotFound:
		return AppErrorNotFound
	case goerrors.CategoryConflict:
		return AppErrorAlreadyExists
	case goerrors.CategoryOperation:
		return AppErrorRefreshFailed
	default:
		return AppErrorInternal
	}
}

func appHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryOperation:
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}
