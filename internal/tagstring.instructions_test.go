package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProcessingExpression(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected ProcessingExpression
	}{
		{
			name:     "bare value",
			body:     "user",
			expected: ProcessingExpression{Value: "user"},
		},
		{
			name:     "single instruction",
			body:     "user:u",
			expected: ProcessingExpression{Value: "user", Instructions: []string{"u"}},
		},
		{
			name:     "chained instructions",
			body:     "user:.name:?active:u",
			expected: ProcessingExpression{Value: "user", Instructions: []string{".name", "?active", "u"}},
		},
		{
			name:     "separator inside formatter params",
			body:     `when:#date("15:04")`,
			expected: ProcessingExpression{Value: "when", Instructions: []string{`#date("15:04")`}},
		},
		{
			name:     "quoted literal value",
			body:     `"a:b":u`,
			expected: ProcessingExpression{Value: "a:b", Literal: true, Instructions: []string{"u"}},
		},
		{
			name:     "escaped quote in literal",
			body:     `"say \"hi\""`,
			expected: ProcessingExpression{Value: `say "hi"`, Literal: true},
		},
		{
			name:     "empty instruction kept",
			body:     "user:",
			expected: ProcessingExpression{Value: "user", Instructions: []string{""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseProcessingExpression(tt.body, ":"))
		})
	}
}

func TestParseProcessingExpression_CustomSeparator(t *testing.T) {
	expr := ParseProcessingExpression("user|u|?x", "|")
	assert.Equal(t, "user", expr.Value)
	assert.Equal(t, []string{"u", "?x"}, expr.Instructions)
}

func TestParseFormatterCall(t *testing.T) {
	tests := []struct {
		call   string
		name   string
		params []string
	}{
		{call: "upper", name: "upper"},
		{call: "upper()", name: "upper"},
		{call: "date(long, de)", name: "date", params: []string{"long", "de"}},
		{call: `default("a, b")`, name: "default", params: []string{"a, b"}},
		{call: ` truncate( 3 ) `, name: "truncate", params: []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			name, params := ParseFormatterCall(tt.call)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestApplyTextFormat(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    any
		expected any
	}{
		{name: "default stringifies", key: TextFormatDefault, value: 12, expected: "12"},
		{name: "upper", key: TextFormatUpper, value: "abc", expected: "ABC"},
		{name: "lower", key: TextFormatLower, value: "ABC", expected: "abc"},
		{name: "trim", key: TextFormatTrim, value: "  a  ", expected: "a"},
		{name: "capitalize", key: TextFormatCapitalize, value: "ada", expected: "Ada"},
		{name: "capitalize empty", key: TextFormatCapitalize, value: "", expected: ""},
		{name: "html", key: TextFormatHTML, value: "<b>", expected: "&lt;b&gt;"},
		{name: "quote", key: TextFormatQuote, value: `a"b`, expected: `"a\"b"`},
		{name: "json", key: TextFormatJSON, value: []int{1, 2}, expected: "[1,2]"},
		{name: "nil stays nil", key: TextFormatUpper, value: nil, expected: nil},
		{name: "nil to empty", key: TextFormatNilEmpty, value: nil, expected: ""},
		{name: "unknown key stringifies", key: "zz", value: true, expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplyTextFormat(tt.key, tt.value))
		})
	}
}
