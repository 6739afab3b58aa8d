package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Parameter index constants
const (
	ParamIndexFirst  = 0
	ParamIndexSecond = 1
)

// TruncateEllipsis is appended by the truncate formatter when it shortens a value
const TruncateEllipsis = "…"

// registerTextFormatters registers string manipulation formatters
func registerTextFormatters(r *FormatterRegistry) {
	// title(locale?) - title-cases the value
	r.MustRegister(&Formatter{
		Name:      FormatterNameTitle,
		MinParams: 0,
		MaxParams: 1,
		Fn: func(value any, params []string) (any, error) {
			tag, err := localeParam(params, ParamIndexFirst)
			if err != nil {
				return nil, err
			}
			return cases.Title(tag).String(AnyToString(value)), nil
		},
	})

	// upper(locale?)
	r.MustRegister(&Formatter{
		Name:      FormatterNameUpper,
		MinParams: 0,
		MaxParams: 1,
		Fn: func(value any, params []string) (any, error) {
			tag, err := localeParam(params, ParamIndexFirst)
			if err != nil {
				return nil, err
			}
			return cases.Upper(tag).String(AnyToString(value)), nil
		},
	})

	// lower(locale?)
	r.MustRegister(&Formatter{
		Name:      FormatterNameLower,
		MinParams: 0,
		MaxParams: 1,
		Fn: func(value any, params []string) (any, error) {
			tag, err := localeParam(params, ParamIndexFirst)
			if err != nil {
				return nil, err
			}
			return cases.Lower(tag).String(AnyToString(value)), nil
		},
	})

	// markdown() - renders the value as HTML
	r.MustRegister(&Formatter{
		Name:      FormatterNameMarkdown,
		MinParams: 0,
		MaxParams: 0,
		Fn: func(value any, params []string) (any, error) {
			var buf bytes.Buffer
			if err := goldmark.Convert([]byte(AnyToString(value)), &buf); err != nil {
				return nil, err
			}
			return strings.TrimSpace(buf.String()), nil
		},
	})

	// default(fallback) - replaces nil or empty values
	r.MustRegister(&Formatter{
		Name:      FormatterNameDefault,
		MinParams: 1,
		MaxParams: 1,
		Fn: func(value any, params []string) (any, error) {
			if IsEmpty(value) {
				return params[ParamIndexFirst], nil
			}
			return value, nil
		},
	})

	// truncate(n) - shortens to at most n runes
	r.MustRegister(&Formatter{
		Name:      FormatterNameTruncate,
		MinParams: 1,
		MaxParams: 1,
		Fn: func(value any, params []string) (any, error) {
			n, err := strconv.Atoi(params[ParamIndexFirst])
			if err != nil || n < 0 {
				return nil, errors.New(ErrMsgExpectedInteger)
			}
			runes := []rune(AnyToString(value))
			if len(runes) <= n {
				return string(runes), nil
			}
			return string(runes[:n]) + TruncateEllipsis, nil
		},
	})

	// json() - JSON-encodes the value
	r.MustRegister(&Formatter{
		Name:      FormatterNameJSON,
		MinParams: 0,
		MaxParams: 0,
		Fn: func(value any, params []string) (any, error) {
			data, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			return string(data), nil
		},
	})
}

// localeParam parses the locale parameter at index i, defaulting to DefaultLocale
func localeParam(params []string, i int) (language.Tag, error) {
	locale := DefaultLocale
	if i < len(params) && params[i] != "" {
		locale = params[i]
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und, errors.New(ErrMsgUnknownLocale + ": " + locale)
	}
	return tag, nil
}
