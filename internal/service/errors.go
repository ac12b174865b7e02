package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tteodorogustavo/athlos/internal/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrForbidden          = errors.New("Acesso negado")
	ErrInvalidCredentials = errors.New("Nenhuma conta ativa encontrada com as credenciais fornecidas")
	ErrTokenInvalid       = errors.New("O token é inválido ou expirou")
	ErrUnauthenticated    = errors.New("As credenciais de autenticação não foram fornecidas.")
)

// ProfileNotFoundError is returned when a role-specific view is requested by
// an account whose profile row is missing.
type ProfileNotFoundError struct {
	Kind string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("Perfil de %s não encontrado", e.Kind)
}

func (e *ProfileNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError collects per-field messages.
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
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Err returns e when at least one field failed, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalid(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// tooLong reports whether s has more than n characters, the way the
// varchar columns count them.
func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}
