// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/campus/internal/models"
)

const errorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule. Field is the JSON name.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Errors collects the failures of one request body.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return strings.Join(e.messages(), "; ")
}

func (e Errors) messages() []string {
	out := make([]string, len(e))
	for i := range e {
		out[i] = e[i].Message
	}
	return out
}

// APIError renders the failures for the response envelope. One failure
// carries {"field", "tag"} details, several carry {"fields": [...]}.
func (e Errors) APIError() *models.APIError {
	switch len(e) {
	case 0:
		return &models.APIError{Code: errorCode, Message: "Validation failed"}
	case 1:
		return &models.APIError{
			Code:    errorCode,
			Message: e[0].Message,
			Details: map[string]interface{}{"field": e[0].Field, "tag": e[0].Tag},
		}
	}

	fields := make([]map[string]interface{}, len(e))
	for i := range e {
		fields[i] = map[string]interface{}{
			"field":   e[i].Field,
			"tag":     e[i].Tag,
			"message": e[i].Message,
		}
	}
	return &models.APIError{
		Code:    errorCode,
		Message: e.Error(),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the shared validator. It reports fields by their
// JSON names and knows the notblank tag.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		//nolint:errcheck // registration only fails for an empty tag
		_ = validate.RegisterValidation("notblank", notBlank)
	})
	return validate
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(fld.Name)
	}
	return name
}

// notBlank rejects strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// ValidateStruct checks s against its validate tags. It returns nil when s
// is valid.
func ValidateStruct(s interface{}) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "unknown", Tag: "unknown", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: describe(fe),
		}
	}
	return out
}

// describe words a failure for the API. min and max count characters for
// strings and items for collections.
func describe(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()

	var unit string
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "url":
		return field + " must be a valid URL"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
