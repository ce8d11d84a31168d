package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindErrorMessage turns a binding failure into a client-facing message that
// names the JSON field without exposing request struct names.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errInvalidBody
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + ": this field is required"
	default:
		return field + ": invalid value"
	}
}
