// Package inputval validates form input declared with struct tags.
//
// Fields opt in with a `validate` tag listing rules, and a `label` tag
// giving the human name used in error messages:
//
//	type createShopInput struct {
//		Name  string `validate:"required,max=80" label:"Shop name"`
//		Email string `validate:"required,email" label:"Email address"`
//	}
//
// Rules are checked in declaration order and all failures are collected, so
// a form can show either the first problem or all of them.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every error message joined with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Validate runs the tagged rules over every string field of input, which
// must be a struct or pointer to one. Non-string and untagged fields are
// skipped. Values are trimmed before length and format checks, matching how
// handlers store them.
func Validate(input any) *Result {
	result := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return result
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		rules := field.Tag.Get("validate")
		if rules == "" || field.Type.Kind() != reflect.String {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := strings.TrimSpace(v.Field(i).String())

		for _, rule := range strings.Split(rules, ",") {
			checkRule(result, field.Name, label, value, strings.TrimSpace(rule))
		}
	}
	return result
}

func checkRule(result *Result, field, label, value, rule string) {
	name, arg, _ := strings.Cut(rule, "=")

	switch name {
	case "required":
		if value == "" {
			result.add(field, fmt.Sprintf("%s is required.", label))
		}
	case "max":
		n, err := strconv.Atoi(arg)
		if err == nil && len(value) > n {
			result.add(field, fmt.Sprintf("%s must be at most %d characters.", label, n))
		}
	case "min":
		n, err := strconv.Atoi(arg)
		if err == nil && value != "" && len(value) < n {
			result.add(field, fmt.Sprintf("%s must be at least %d characters.", label, n))
		}
	case "email":
		if value != "" && !IsValidEmail(value) {
			result.add(field, "A valid email address is required.")
		}
	case "objectid":
		if value != "" && !IsValidObjectID(value) {
			result.add(field, fmt.Sprintf("%s is not a valid identifier.", label))
		}
	case "httpurl":
		if value != "" && !IsValidHTTPURL(value) {
			result.add(field, fmt.Sprintf("%s must be an http or https URL.", label))
		}
	case "shoprole":
		if value != "" && !IsValidShopRole(value) {
			result.add(field, fmt.Sprintf("%s must be one of: %s.", label, strings.Join(AllowedShopRolesList(), ", ")))
		}
	}
}
