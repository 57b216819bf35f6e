// Package validation wraps a shared go-playground/validator instance.
package validation

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the process-wide validator. It caches struct metadata, so
// a single instance is shared.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// Struct validates s using its `validate` tags.
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// FailedOn reports whether err contains a field error for the given tag.
func FailedOn(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}
