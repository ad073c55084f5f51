package validation

import (
	"math"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// maxSafeInteger is the largest integer a JSON number carries without loss.
const maxSafeInteger = 1 << 53

// New returns a validator with the custom "integral" rule registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// "integral" accepts whole numbers only; 2.5 fails, 2.0 passes.
	if err := v.RegisterValidation("integral", integral); err != nil {
		panic(err)
	}
	return v
}

func integral(fl validatorv10.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f) && math.Abs(f) <= maxSafeInteger
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// Checker applies field rules to decoded JSON values (string, float64,
// []any, map[string]any). A value of the wrong JSON type never passes.
type Checker struct {
	v *validatorv10.Validate
}

// NewChecker returns a Checker using New.
func NewChecker() *Checker {
	return &Checker{v: New()}
}

// NonEmptyString reports whether val is a string of non-zero length.
func (k *Checker) NonEmptyString(val any) bool {
	s, ok := val.(string)
	return ok && k.v.Var(s, "required") == nil
}

// PositiveInteger reports whether val is a whole JSON number greater than 0.
func (k *Checker) PositiveInteger(val any) bool {
	f, ok := val.(float64)
	return ok && k.v.Var(f, "gt=0,integral") == nil
}

// NonEmptyList reports whether val is an array with at least one element.
func (k *Checker) NonEmptyList(val any) ([]any, bool) {
	list, ok := val.([]any)
	return list, ok && k.v.Var(list, "required,min=1") == nil
}

// OneOf reports whether val is a string equal to one of allowed.
func (k *Checker) OneOf(val any, allowed ...string) bool {
	s, ok := val.(string)
	return ok && k.v.Var(s, "required,oneof="+strings.Join(allowed, " ")) == nil
}

// InvalidIndices returns the positions of list whose element is not an
// object with a positive integer under field.
func (k *Checker) InvalidIndices(list []any, field string) []int {
	var bad []int
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok || !k.PositiveInteger(obj[field]) {
			bad = append(bad, i)
		}
	}
	return bad
}
