package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Usernames must not contain whitespace.
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if r == ' ' || r == '\t' || r == '\n' {
				return false
			}
		}
		return true
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: err.Error()}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// FirstError formats the first validation failure, or returns "" if data is valid.
func FirstError(data interface{}) string {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return ""
	}
	e := errs[0]
	if e.Value != "" {
		return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s=%s'", e.FailedField, e.Tag, e.Value)
	}
	return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", e.FailedField, e.Tag)
}

// ParsePrice accepts a decoded JSON number that is >= 0. Strings and other
// types are rejected.
func ParsePrice(v any) (decimal.Decimal, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil || d.IsNegative() {
			return decimal.Zero, false
		}
		return d, true
	case int:
		f = float64(n)
	default:
		return decimal.Zero, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// ParseNonNegativeInt accepts a decoded JSON number with no fractional part
// that is >= 0.
func ParseNonNegativeInt(v any) (int, bool) {
	n, ok := parseInt(v)
	return n, ok && n >= 0
}

// ParsePositiveInt accepts a decoded JSON number with no fractional part that is > 0.
func ParsePositiveInt(v any) (int, bool) {
	n, ok := parseInt(v)
	return n, ok && n > 0
}

// ParseID is ParsePositiveInt that also takes a decimal string such as "5".
func ParseID(v any) (int, bool) {
	if str, ok := v.(string); ok {
		i, err := strconv.ParseInt(strings.TrimSpace(str), 10, 32)
		if err != nil || i <= 0 {
			return 0, false
		}
		return int(i), true
	}
	return ParsePositiveInt(v)
}

func parseInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 32)
		if err != nil {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case uint:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
