package tagstring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected ScopeKind
	}{
		{name: "nil", value: nil, expected: ScopeReflect},
		{name: "struct", value: testUser(), expected: ScopeReflect},
		{name: "struct pointer", value: &address{}, expected: ScopeReflect},
		{name: "string map", value: map[string]any{}, expected: ScopeMap},
		{name: "typed map", value: map[int]string{}, expected: ScopeMap},
		{name: "map pointer", value: &map[string]int{}, expected: ScopeMap},
		{name: "any slice", value: []any{}, expected: ScopeSequence},
		{name: "typed slice", value: []string{}, expected: ScopeSequence},
		{name: "array", value: [2]int{}, expected: ScopeArray},
		{name: "args", value: NewArgs(), expected: ScopeArgs},
		{name: "resolver", value: MapResolver(nil), expected: ScopeEvaluator},
		{name: "nil resolver", value: (*ContainerResolver)(nil), expected: ScopeReflect},
		{name: "nil resolver func", value: ResolverFunc(nil), expected: ScopeReflect},
		{name: "scalar", value: 42, expected: ScopeReflect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.value))
		})
	}
}

func TestScopeKind_String(t *testing.T) {
	assert.Equal(t, ScopeKindNameReflect, ScopeReflect.String())
	assert.Equal(t, ScopeKindNameMap, ScopeMap.String())
	assert.Equal(t, ScopeKindNameSequence, ScopeSequence.String())
	assert.Equal(t, ScopeKindNameArgs, ScopeArgs.String())
	assert.Equal(t, ScopeKindNameArray, ScopeArray.String())
	assert.Equal(t, ScopeKindNameEvaluator, ScopeEvaluator.String())
}

func TestScopeOf_Navigation(t *testing.T) {
	ctx := context.Background()
	root := map[string]any{
		"user":    testUser(),
		"list":    []any{"a", map[string]any{"k": "deep"}},
		"arr":     [3]int{1, 2, 3},
		"byID":    map[int]string{7: "seven"},
		"named":   map[string]string{"x": "typed"},
		"nested":  MapResolver(map[string]any{"inner": "delegated"}),
		"boxed":   box{v: map[string]any{"k": "unboxed"}},
		"pointer": &map[string]any{"k": "through pointer"},
	}

	tests := []struct {
		path     string
		expected any
	}{
		{path: "user.name", expected: "Ada"},
		{path: "user.address.zip", expected: "N1"},
		{path: "user.tags.0", expected: "math"},
		{path: "user.tags.size", expected: 2},
		{path: "list.1.k", expected: "deep"},
		{path: "list.length", expected: 2},
		{path: "arr.2", expected: 3},
		{path: "arr.length", expected: 3},
		{path: "byID.7", expected: "seven"},
		{path: "named.x", expected: "typed"},
		{path: "nested.inner", expected: "delegated"},
		{path: "boxed.k", expected: "unboxed"},
		{path: "pointer.k", expected: "through pointer"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := ScopeOf(root).Evaluate(ctx, tt.path, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	failures := []struct {
		path string
		msg  string
	}{
		{path: "missing", msg: ErrMsgKeyNotFound},
		{path: "list.9", msg: ErrMsgIndexOutOfRange},
		{path: "list.-1", msg: ErrMsgIndexOutOfRange},
		{path: "list.x", msg: ErrMsgInvalidIndex},
		{path: "arr.size", msg: ErrMsgInvalidIndex},
		{path: "byID.x", msg: ErrMsgInvalidIndex},
		{path: "byID.8", msg: ErrMsgKeyNotFound},
		{path: "user.unknown", msg: ErrMsgPropertyNotFound},
		{path: "user.address.city.more", msg: ErrMsgPropertyNotFound},
	}
	for _, tt := range failures {
		t.Run(tt.path, func(t *testing.T) {
			_, err := ScopeOf(root).Evaluate(ctx, tt.path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, IsEvaluationError(err))
		})
	}
}

func TestScopeOf_NilPointer(t *testing.T) {
	var missing *address
	_, err := ScopeOf(map[string]any{"a": missing}).Evaluate(context.Background(), "a.city", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNilScope)
}

func TestScopeOf_NilResolver(t *testing.T) {
	scope := ScopeOf(map[string]any{"r": (*ContainerResolver)(nil)})

	require.NotPanics(t, func() {
		_, err := scope.Evaluate(context.Background(), "r.x", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilScope)
	})
}

func TestScopeOf_UnsupportedMapKey(t *testing.T) {
	_, err := ScopeOf(map[float64]string{1: "x"}).Evaluate(context.Background(), "1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnsupportedMapKey)
}

func TestContainerResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("empty expression", func(t *testing.T) {
		_, err := MapResolver(map[string]any{}).Evaluate(ctx, "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyExpression)
	})

	t.Run("custom path separator", func(t *testing.T) {
		r := MapResolver(map[string]any{"a.b": map[string]any{"c": "x"}}, WithPathSeparator("/"))
		v, err := r.Evaluate(ctx, "a.b/c", nil)
		require.NoError(t, err)
		assert.Equal(t, "x", v)
	})

	t.Run("exception resolver replaces a failed segment", func(t *testing.T) {
		fallback := ResolverFunc(func(_ context.Context, expr string, _ *Args) (any, error) {
			return map[string]any{"name": "fallback for " + expr}, nil
		})
		r := MapResolver(map[string]any{}, WithExceptionResolver(fallback))

		v, err := r.Evaluate(ctx, "ghost.name", nil)
		require.NoError(t, err)
		assert.Equal(t, "fallback for ghost", v)
	})

	t.Run("failing exception resolver keeps the original error", func(t *testing.T) {
		fallback := MapResolver(map[string]any{})
		r := MapResolver(map[string]any{}, WithExceptionResolver(fallback))

		_, err := r.Evaluate(ctx, "ghost", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgKeyNotFound)
	})

	t.Run("lookup receives args", func(t *testing.T) {
		var seen *Args
		r := NewContainerResolver(LookupFunc(func(_ context.Context, name string, args *Args) (any, error) {
			seen = args
			return name, nil
		}))
		args := NewArgs(1)
		_, err := r.Evaluate(ctx, "x", args)
		require.NoError(t, err)
		assert.Same(t, args, seen)
	})
}

func TestReflectLookup(t *testing.T) {
	u := testUser()

	tests := []struct {
		name     string
		expected any
	}{
		{name: "name", expected: "Ada"},
		{name: "Name", expected: "Ada"},
		{name: "greeting", expected: "Hi Ada"},
		{name: "role", expected: "admin"},
		{name: "active", expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := reflectLookup(u, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	t.Run("pointer receiver", func(t *testing.T) {
		v, err := reflectLookup(&u, "greeting")
		require.NoError(t, err)
		assert.Equal(t, "Hi Ada", v)
	})

	t.Run("unexported field", func(t *testing.T) {
		_, err := reflectLookup(u, "secret")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgPropertyNotFound)
	})

	t.Run("getter error", func(t *testing.T) {
		_, err := reflectLookup(u, "failing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgGetterFailed)
	})

	t.Run("nil value", func(t *testing.T) {
		_, err := reflectLookup(nil, "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilScope)
	})
}
