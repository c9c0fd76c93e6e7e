// Package validation содержит общий экземпляр go-playground/validator
// с правилами предметной области Filmorate.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"filmorate/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FirstReleaseDate дата первого публичного киносеанса; более ранние даты выхода недопустимы.
var FirstReleaseDate = domain.NewDate(1895, time.December, 5)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError ошибка валидации одного поля.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Errors набор ошибок валидации структуры.
type Errors []FieldError

func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, e.Error())
	}
	return strings.Join(messages, "; ")
}

// Get возвращает singleton валидатор с зарегистрированными правилами.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Теги проверяют domain.Date как time.Time
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(domain.Date); ok {
				return d.Time
			}
			return nil
		}, domain.Date{})

		// Имена полей в ошибках берем из json-тегов
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister("login", validateLogin)
		mustRegister("notblank", validateNotBlank)
		mustRegister("notfuture", validateNotFuture)
		mustRegister("releasedate", validateReleaseDate)
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct проверяет структуру и возвращает Errors либо nil.
func Struct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	result := make(Errors, 0, len(validationErrs))
	for _, fe := range validationErrs {
		result = append(result, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return result
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "login":
		return fmt.Sprintf("%s must not be empty or contain whitespace", fe.Field())
	case "notfuture":
		return fmt.Sprintf("%s must not be in the future", fe.Field())
	case "releasedate":
		return fmt.Sprintf("%s must not be before %s", fe.Field(), FirstReleaseDate)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

// IsValidLogin сообщает, что логин не пуст и не содержит пробельных символов.
func IsValidLogin(login string) bool {
	if login == "" {
		return false
	}
	return strings.IndexFunc(login, unicode.IsSpace) < 0
}

func validateLogin(fl validator.FieldLevel) bool {
	return IsValidLogin(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateNotFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	if t.IsZero() {
		return true
	}
	return !domain.NewDate(t.Year(), t.Month(), t.Day()).After(domain.Today())
}

func validateReleaseDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !domain.NewDate(t.Year(), t.Month(), t.Day()).Before(FirstReleaseDate)
}
