package service

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Messages reported when a list or follow operation conflicts with the
// current state.
const (
	MsgSubscribeFailed   = "Ошибка подписки"
	MsgUnsubscribeFailed = "Ошибка отписки"
	MsgAlreadyFavorited  = "Рецепт уже в избранном"
	MsgNotFavorited      = "Рецепта нет в списке избранного"
	MsgAlreadyInCart     = "Рецепт уже в списке покупок"
	MsgNotInCart         = "Рецепта нет в списке покупок"
)

// ConflictError is returned when a toggle operation finds the row already
// present, or absent on removal. It is reported to clients as a plain
// message with status 400. Missing marks the absent case, which also
// matches ErrNotFound.
type ConflictError struct {
	Message string
	Missing bool
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return e.Missing && target == ErrNotFound
}

// ValidationError maps field names to their error messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return strings.Join(parts, ", ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message to a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// fromValidation converts ozzo-validation errors into a ValidationError.
// Internal errors pass through unchanged.
func fromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	flatten(out, "", verrs)
	return out
}

func flatten(out *ValidationError, prefix string, verrs validation.Errors) {
	for field, ferr := range verrs {
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(ferr, &nested) {
			flatten(out, name, nested)
			continue
		}
		out.Add(name, ferr.Error())
	}
}

// isDuplicateKey reports whether err is a unique constraint violation.
// gorm translates it for postgres; sqlite errors are matched by text.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
