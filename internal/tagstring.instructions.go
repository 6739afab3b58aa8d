package internal

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ProcessingExpression is a tag body split into its value expression and
// the processing instructions that follow it.
type ProcessingExpression struct {
	Value        string   // value expression, unquoted when Literal is set
	Literal      bool     // value expression was a double-quoted literal
	Instructions []string // instructions in application order, separator stripped
}

// ParseProcessingExpression splits body at every separator outside double
// quotes and parentheses. A leading double-quoted value is a literal.
func ParseProcessingExpression(body, separator string) ProcessingExpression {
	parts := splitOutside(body, separator)
	expr := ProcessingExpression{Value: parts[0]}
	if len(parts) > 1 {
		expr.Instructions = parts[1:]
	}
	if strings.HasPrefix(expr.Value, string(CharDoubleQuote)) {
		expr.Value = unquote(expr.Value)
		expr.Literal = true
	}
	return expr
}

// ParseFormatterCall splits "name(a, b)" into name and trimmed, unquoted params
func ParseFormatterCall(call string) (string, []string) {
	open := strings.IndexByte(call, CharOpenParen)
	if open < 0 {
		return strings.TrimSpace(call), nil
	}
	name := strings.TrimSpace(call[:open])
	inner := call[open+1:]
	if close := strings.LastIndexByte(inner, CharCloseParen); close >= 0 {
		inner = inner[:close]
	}
	if strings.TrimSpace(inner) == "" {
		return name, nil
	}

	raw := splitOutside(inner, string(CharComma))
	params := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, string(CharDoubleQuote)) {
			p = unquote(p)
		}
		params = append(params, p)
	}
	return name, params
}

// splitOutside splits s at sep, ignoring separators inside double quotes
// (with backslash escapes) and parentheses.
func splitOutside(s, sep string) []string {
	var parts []string
	depth := 0
	inQuote := false
	last := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote && ch == CharBackslash:
			i++
		case ch == CharDoubleQuote:
			inQuote = !inQuote
		case inQuote:
		case ch == CharOpenParen:
			depth++
		case ch == CharCloseParen && depth > 0:
			depth--
		case depth == 0 && sep != "" && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[last:i])
			i += len(sep) - 1
			last = i + 1
		}
	}
	return append(parts, s[last:])
}

// unquote strips the surrounding double quotes of s and resolves \" and \\.
// A missing closing quote is tolerated.
func unquote(s string) string {
	s = strings.TrimPrefix(s, string(CharDoubleQuote))
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == CharBackslash && i+1 < len(s) {
			i++
			sb.WriteByte(s[i])
			continue
		}
		if ch == CharDoubleQuote {
			break
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// Text format keys for single-character processing instructions
const (
	TextFormatDefault    = ""
	TextFormatUpper      = "u"
	TextFormatLower      = "l"
	TextFormatTrim       = "t"
	TextFormatCapitalize = "c"
	TextFormatHTML       = "h"
	TextFormatQuote      = "q"
	TextFormatJSON       = "j"
	TextFormatNilEmpty   = "n"
)

// ApplyTextFormat applies the string transform registered for key.
// Unknown keys and the empty key stringify the value; nil stays nil
// except under TextFormatNilEmpty.
func ApplyTextFormat(key string, value any) any {
	if value == nil {
		if key == TextFormatNilEmpty {
			return StringValueEmpty
		}
		return nil
	}
	s := AnyToString(value)
	switch key {
	case TextFormatUpper:
		return strings.ToUpper(s)
	case TextFormatLower:
		return strings.ToLower(s)
	case TextFormatTrim:
		return strings.TrimSpace(s)
	case TextFormatCapitalize:
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}
		return string(unicode.ToUpper(r)) + s[size:]
	case TextFormatHTML:
		return html.EscapeString(s)
	case TextFormatQuote:
		return strconv.Quote(s)
	case TextFormatJSON:
		data, err := json.Marshal(value)
		if err != nil {
			return s
		}
		return string(data)
	default:
		return s
	}
}
