package internal

import (
	"errors"

	"github.com/dustin/go-humanize"
)

// registerHumanizeFormatters registers human-readable size and time formatters
func registerHumanizeFormatters(r *FormatterRegistry) {
	// bytes() - 82854982 -> "83 MB"
	r.MustRegister(&Formatter{
		Name:      FormatterNameBytes,
		MinParams: 0,
		MaxParams: 0,
		Fn: func(value any, params []string) (any, error) {
			n, ok := AnyToInt(value)
			if !ok || n < 0 {
				return nil, errors.New(ErrMsgExpectedNumber)
			}
			return humanize.Bytes(uint64(n)), nil
		},
	})

	// comma() - 1234567 -> "1,234,567"
	r.MustRegister(&Formatter{
		Name:      FormatterNameComma,
		MinParams: 0,
		MaxParams: 0,
		Fn: func(value any, params []string) (any, error) {
			n, ok := AnyToInt(value)
			if !ok {
				return nil, errors.New(ErrMsgExpectedNumber)
			}
			return humanize.Comma(n), nil
		},
	})

	// ago() - relative time, e.g. "3 days ago"
	r.MustRegister(&Formatter{
		Name:      FormatterNameAgo,
		MinParams: 0,
		MaxParams: 0,
		Fn: func(value any, params []string) (any, error) {
			t, ok := AnyToTime(value)
			if !ok {
				return nil, errors.New(ErrMsgExpectedTime)
			}
			return humanize.Time(t), nil
		},
	})
}
