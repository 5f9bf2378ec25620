package seoblog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func bindError(err error, request interface{}) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return ErrBadRequest.New("Invalid request body")
	}
	fieldErr := validationErrors[0]
	if msg := messageTag(reflect.TypeOf(request), fieldErr.StructNamespace()); msg != "" {
		return ErrValidation.New(msg)
	}
	return ErrValidation.New(fieldErr.Field() + " is invalid")
}

// messageTag walks a validator namespace such as "RelatedRequest.Blog.ID"
// down the request type and returns the msg tag of the last field.
func messageTag(t reflect.Type, namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return ""
	}
	var field reflect.StructField
	for _, name := range parts[1:] {
		if idx := strings.IndexByte(name, '['); idx >= 0 {
			name = name[:idx]
		}
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return ""
		}
		f, ok := t.FieldByName(name)
		if !ok {
			return ""
		}
		field = f
		t = f.Type
	}
	return field.Tag.Get("msg")
}
