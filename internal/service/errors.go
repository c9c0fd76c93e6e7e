package service

import (
	"errors"
	"fmt"

	"filmorate/internal/store"
	"filmorate/internal/validation"
)

// NotFoundError идентификатор не положителен или не найден в хранилище.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id = %d was not found", e.Entity, e.ID)
}

// ValidationError входные данные нарушают правила предметной области.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func notFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// validate проверяет структуру тегами validator и оборачивает нарушения в ValidationError.
func validate(reason string, v any) error {
	err := validation.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return &ValidationError{Reason: reason, Err: fieldErrs}
	}
	return fmt.Errorf("failed to validate: %w", err)
}

// IsNotFound сообщает, что err означает отсутствующую сущность.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation сообщает, что err означает невалидные входные данные.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// translate переводит ошибки хранилища "не найдено" в NotFoundError.
func translate(err error, entity string, id int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrFilmNotFound),
		errors.Is(err, store.ErrReviewNotFound),
		errors.Is(err, store.ErrDirectorNotFound),
		errors.Is(err, store.ErrGenreNotFound),
		errors.Is(err, store.ErrMpaNotFound),
		errors.Is(err, store.ErrReferenceNotFound):
		return notFound(entity, id)
	}
	return err
}
