package seoblog

import (
	"reflect"
	"strings"
)

// getDocumentID returns the value of the field mapped to bson "_id".
func getDocumentID(doc interface{}) interface{} {
	val := reflect.ValueOf(doc)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("bson")
		if name, _, _ := strings.Cut(tag, ","); name == "_id" {
			return val.Field(i).Interface()
		}
	}

	if idField := val.FieldByName("ID"); idField.IsValid() {
		return idField.Interface()
	}
	return nil
}
