// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"aurelux/internal/apperr"
)

// validate checks request payload structs. Field names in messages come
// from the json tag.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validatePayload validates p and returns the first failure as an
// apperr validation error.
func validatePayload(p any) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("Request payload is invalid.")
	}
	return apperr.Validation("%s", fieldMessage(verrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("%s is too long (max %s).", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s is too short (min %s).", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range.", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	case "numeric", "len":
		return fmt.Sprintf("%s is not valid.", field)
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}
