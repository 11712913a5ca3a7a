package search

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ExtractionError reports a document element of a type the extractor
// cannot flatten.
type ExtractionError struct {
	Type  string
	Index int // document index, or -1 when unknown
}

func (e *ExtractionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("search: cannot extract text from value of type %s", e.Type)
	}
	return fmt.Sprintf("search: document %d: cannot extract text from value of type %s", e.Index, e.Type)
}

// Recursive flattens maps, slices and scalars into one space-joined string.
// Map values are visited in sorted key order; map keys themselves are not
// part of the extract, except for sets (map[K]struct{}), whose keys are the
// elements. nil yields the empty string. Strings (including json.Number),
// integers, floats and booleans ("True" or "False") are supported; any other
// type fails with *ExtractionError.
func Recursive(doc Document) (string, error) {
	return extractValue(reflect.ValueOf(doc))
}

func extractValue(v reflect.Value) (string, error) {
	if !v.IsValid() {
		return "", nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return "", nil
		}
		return extractValue(v.Elem())

	case reflect.Map:
		if v.IsNil() {
			return "", nil
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		set := isEmptyStruct(v.Type().Elem())
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			elem := v.MapIndex(k)
			if set {
				elem = k
			}
			s, err := extractValue(elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return "", nil
		}
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			s, err := extractValue(v.Index(i))
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil

	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case reflect.Bool:
		if v.Bool() {
			return "True", nil
		}
		return "False", nil
	}
	return "", &ExtractionError{Type: v.Type().String(), Index: -1}
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}
