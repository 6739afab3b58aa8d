package internal

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnyToString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "s", "s"},
		{"bytes", []byte("b"), "b"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 1.5, "1.5"},
		{"stringer", point{}, "point"},
		{"error", errors.New("e"), "e"},
		{"slice", []int{1, 2}, "[1 2]"},
		{"nil time pointer", (*time.Time)(nil), ""},
		{"nil error pointer", (*os.PathError)(nil), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnyToString(tt.value))
		})
	}
}

func TestIsNilPointer(t *testing.T) {
	var m map[string]any
	assert.True(t, IsNilPointer((*time.Time)(nil)))
	assert.True(t, IsNilPointer(m))
	assert.False(t, IsNilPointer(nil))
	assert.False(t, IsNilPointer(&time.Time{}))
	assert.False(t, IsNilPointer(3))
}

func TestAnyToFloatAndInt(t *testing.T) {
	f, ok := AnyToFloat(uint8(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = AnyToFloat("x")
	assert.False(t, ok)

	n, ok := AnyToInt("9007199254740993")
	assert.True(t, ok)
	assert.Equal(t, int64(9007199254740993), n)

	n, ok = AnyToInt(2.9)
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)
}

func TestAnyToTime(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	got, ok := AnyToTime("2024-03-05")
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", got.Format(DateLayoutISO))

	got, ok = AnyToTime(want.Unix())
	assert.True(t, ok)
	assert.True(t, want.Equal(got))

	got, ok = AnyToTime(&want)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = AnyToTime("someday")
	assert.False(t, ok)
}

func TestIsTruthy(t *testing.T) {
	var nilPtr *point
	truthy := []any{true, "x", 1, int64(1), 0.5, []int{1}, map[string]int{"a": 1}, point{}, &point{}}
	falsy := []any{nil, false, "", "false", 0, int64(0), 0.0, []int{}, map[string]int{}, nilPtr}

	for _, v := range truthy {
		assert.True(t, IsTruthy(v), "%#v", v)
	}
	for _, v := range falsy {
		assert.False(t, IsTruthy(v), "%#v", v)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty([]string{}))
	assert.False(t, IsEmpty(0))
	assert.False(t, IsEmpty("a"))
}
