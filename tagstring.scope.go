package tagstring

import (
	"context"
	"reflect"
	"strconv"

	"github.com/itsatony/go-tagstring/internal"
)

// ScopeKind is the closed set of value shapes a path can navigate into
type ScopeKind int

const (
	// ScopeReflect navigates exported fields and getter methods
	ScopeReflect ScopeKind = iota
	// ScopeMap navigates map keys
	ScopeMap
	// ScopeSequence navigates slice indexes plus length and size
	ScopeSequence
	// ScopeArgs navigates an *Args bag by index or name
	ScopeArgs
	// ScopeArray navigates fixed-size array indexes plus length
	ScopeArray
	// ScopeEvaluator hands the remaining path to a value that is itself a Resolver
	ScopeEvaluator
)

// Scope kind names
const (
	ScopeKindNameReflect   = "reflect"
	ScopeKindNameMap       = "map"
	ScopeKindNameSequence  = "sequence"
	ScopeKindNameArgs      = "args"
	ScopeKindNameArray     = "array"
	ScopeKindNameEvaluator = "evaluator"
)

// String returns the name of the kind
func (k ScopeKind) String() string {
	switch k {
	case ScopeMap:
		return ScopeKindNameMap
	case ScopeSequence:
		return ScopeKindNameSequence
	case ScopeArgs:
		return ScopeKindNameArgs
	case ScopeArray:
		return ScopeKindNameArray
	case ScopeEvaluator:
		return ScopeKindNameEvaluator
	default:
		return ScopeKindNameReflect
	}
}

// KindOf maps a runtime value to its scope kind. Pointers to maps, slices
// and arrays are classified by their element.
func KindOf(v any) ScopeKind {
	switch v.(type) {
	case nil:
		return ScopeReflect
	case Resolver:
		if internal.IsNilPointer(v) {
			return ScopeReflect
		}
		return ScopeEvaluator
	case *Args:
		return ScopeArgs
	case map[string]any:
		return ScopeMap
	case []any:
		return ScopeSequence
	}

	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		return ScopeMap
	case reflect.Slice:
		return ScopeSequence
	case reflect.Array:
		return ScopeArray
	default:
		return ScopeReflect
	}
}

// ScopeOf returns the resolver used to navigate into v
func ScopeOf(v any) Resolver {
	if KindOf(v) == ScopeEvaluator {
		return v.(Resolver)
	}
	return NewContainerResolver(valueLookup(v))
}

// valueLookup binds v as a scope
func valueLookup(v any) Lookup {
	return LookupFunc(func(ctx context.Context, name string, args *Args) (any, error) {
		return lookupIn(ctx, v, name, args)
	})
}

// lookupIn resolves one segment against v according to its kind
func lookupIn(ctx context.Context, v any, name string, args *Args) (any, error) {
	switch kind := KindOf(v); kind {
	case ScopeEvaluator:
		return v.(Resolver).Evaluate(ctx, name, args)
	case ScopeArgs:
		return argsLookup(v.(*Args), name)
	case ScopeMap:
		if m, ok := v.(map[string]any); ok {
			return mapLookup(m)(ctx, name, args)
		}
		return reflectMapLookup(indirect(reflect.ValueOf(v)), name)
	case ScopeSequence, ScopeArray:
		return indexLookup(indirect(reflect.ValueOf(v)), name, kind)
	default:
		return reflectLookup(v, name)
	}
}

// mapLookup resolves keys of a string-keyed map
func mapLookup(m map[string]any) LookupFunc {
	return func(_ context.Context, name string, _ *Args) (any, error) {
		v, ok := m[name]
		if !ok {
			return nil, NewLookupError(ErrMsgKeyNotFound, name, ScopeMap)
		}
		return v, nil
	}
}

// reflectMapLookup resolves keys of any map whose key type is a string or integer kind
func reflectMapLookup(rv reflect.Value, name string) (any, error) {
	keyType := rv.Type().Key()
	var key reflect.Value

	switch keyType.Kind() {
	case reflect.String:
		key = reflect.ValueOf(name).Convert(keyType)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, keyType.Bits())
		if err != nil {
			return nil, NewLookupError(ErrMsgInvalidIndex, name, ScopeMap)
		}
		key = reflect.ValueOf(n).Convert(keyType)
	default:
		return nil, NewLookupError(ErrMsgUnsupportedMapKey, name, ScopeMap)
	}

	v := rv.MapIndex(key)
	if !v.IsValid() {
		return nil, NewLookupError(ErrMsgKeyNotFound, name, ScopeMap)
	}
	return v.Interface(), nil
}

// indexLookup resolves indexes of slices and arrays. Sequences also answer
// "length" and "size", arrays only "length".
func indexLookup(rv reflect.Value, name string, kind ScopeKind) (any, error) {
	if name == PropertyLength || (kind == ScopeSequence && name == PropertySize) {
		return rv.Len(), nil
	}
	i, err := strconv.Atoi(name)
	if err != nil {
		return nil, NewLookupError(ErrMsgInvalidIndex, name, kind)
	}
	if i < 0 || i >= rv.Len() {
		return nil, NewLookupError(ErrMsgIndexOutOfRange, name, kind)
	}
	return rv.Index(i).Interface(), nil
}

// argsLookup resolves names and indexes of an argument bag
func argsLookup(args *Args, name string) (any, error) {
	if v, ok := args.Get(name); ok {
		return v, nil
	}
	if name == PropertyLength {
		return args.Len(), nil
	}
	return nil, NewLookupError(ErrMsgKeyNotFound, name, ScopeArgs)
}

// indirect dereferences pointers and interfaces down to a concrete value
func indirect(rv reflect.Value) reflect.Value {
	for (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}
