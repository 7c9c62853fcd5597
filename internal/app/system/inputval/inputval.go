// Package inputval validates form input.
//
// Structs declare their rules with a `validate` tag and a human readable
// `label` tag:
//
//	type ContactInput struct {
//	    Name  string `validate:"required,max=200" label:"Name"`
//	    Email string `validate:"required,email" label:"Email"`
//	}
//
// Supported rules: required, max=N (runes), email, httpurl.
package inputval

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// emailRE matches something@something.something with no whitespace and
// exactly one @.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address. The check
// runs on the trimmed, lowercased value.
func IsValidEmail(s string) bool {
	return emailRE.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Result collects the FieldErrors of a Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Failed reports whether rule failed on any field.
func (r *Result) Failed(rule string) bool {
	for _, e := range r.Errors {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

// Validate checks the exported string fields of the struct v against their
// `validate` tags. Rules after a failed required are skipped for that field.
func Validate(v any) *Result {
	res := &Result{}
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("validate")
		if tag == "" || !f.IsExported() || f.Type.Kind() != reflect.String {
			continue
		}
		label := f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		val := strings.TrimSpace(rv.Field(i).String())

		for _, rule := range strings.Split(tag, ",") {
			name, arg, _ := strings.Cut(strings.TrimSpace(rule), "=")
			if msg, ok := check(name, arg, label, val); !ok {
				res.Errors = append(res.Errors, FieldError{Field: f.Name, Rule: name, Message: msg})
				if name == "required" {
					break
				}
			}
		}
	}
	return res
}

func check(rule, arg, label, val string) (string, bool) {
	switch rule {
	case "required":
		if val == "" {
			return fmt.Sprintf("%s is required.", label), false
		}
	case "max":
		n, err := strconv.Atoi(arg)
		if err == nil && utf8.RuneCountInString(val) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n), false
		}
	case "email":
		if val != "" && !IsValidEmail(val) {
			return "A valid email address is required.", false
		}
	case "httpurl":
		if val != "" && !IsValidHTTPURL(val) {
			return fmt.Sprintf("%s must be an http or https URL.", label), false
		}
	}
	return "", true
}
