package tagstring

import (
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/itsatony/go-tagstring/internal"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// reflectLookup resolves name against v as an exported field or a getter
// method. The first letter of name is matched case-insensitively, so
// "name" finds the field Name, and the methods Name(), GetName() and
// IsName() in that order.
func reflectLookup(v any, name string) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || internal.IsNilPointer(v) {
		return nil, NewLookupError(ErrMsgNilScope, name, ScopeReflect)
	}

	exported := upperFirst(name)

	if field, ok := fieldByName(indirect(rv), exported); ok {
		return field.Interface(), nil
	}

	for _, methodName := range []string{exported, GetterPrefixGet + exported, GetterPrefixIs + exported} {
		method := rv.MethodByName(methodName)
		if !method.IsValid() {
			continue
		}
		if result, ok, err := callGetter(method); ok {
			if err != nil {
				return nil, NewEvaluationError(ErrMsgGetterFailed, name, err)
			}
			return result, nil
		}
	}

	return nil, NewLookupError(ErrMsgPropertyNotFound, name, ScopeReflect)
}

// fieldByName returns an exported struct field
func fieldByName(rv reflect.Value, name string) (reflect.Value, bool) {
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, false
	}
	field, err := rv.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return field, true
}

// callGetter calls a method taking no arguments and returning a value,
// optionally followed by an error. ok is false when the method has another shape.
func callGetter(method reflect.Value) (any, bool, error) {
	mt := method.Type()
	if mt.NumIn() != 0 {
		return nil, false, nil
	}
	switch mt.NumOut() {
	case 1:
		return method.Call(nil)[0].Interface(), true, nil
	case 2:
		if !mt.Out(1).Implements(errorType) {
			return nil, false, nil
		}
		out := method.Call(nil)
		if errVal := out[1]; !errVal.IsNil() {
			return nil, true, errVal.Interface().(error)
		}
		return out[0].Interface(), true, nil
	default:
		return nil, false, nil
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
