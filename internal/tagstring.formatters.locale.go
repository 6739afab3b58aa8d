package internal

import (
	"errors"

	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// registerLocaleFormatters registers locale-aware number formatters
func registerLocaleFormatters(r *FormatterRegistry) {
	// number(locale?) - 1234567.5 -> "1,234,567.5"
	r.MustRegister(&Formatter{
		Name:      FormatterNameNumber,
		MinParams: 0,
		MaxParams: 1,
		Fn: func(value any, params []string) (any, error) {
			f, ok := AnyToFloat(value)
			if !ok {
				return nil, errors.New(ErrMsgExpectedNumber)
			}
			tag, err := localeParam(params, ParamIndexFirst)
			if err != nil {
				return nil, err
			}
			return message.NewPrinter(tag).Sprintf("%v", number.Decimal(f)), nil
		},
	})

	// percent(locale?) - 0.25 -> "25%"
	r.MustRegister(&Formatter{
		Name:      FormatterNamePercent,
		MinParams: 0,
		MaxParams: 1,
		Fn: func(value any, params []string) (any, error) {
			f, ok := AnyToFloat(value)
			if !ok {
				return nil, errors.New(ErrMsgExpectedNumber)
			}
			tag, err := localeParam(params, ParamIndexFirst)
			if err != nil {
				return nil, err
			}
			return message.NewPrinter(tag).Sprintf("%v", number.Percent(f)), nil
		},
	})

	// currency(code, locale?) - 12.5 with "EUR" -> "€ 12.50"
	r.MustRegister(&Formatter{
		Name:      FormatterNameCurrency,
		MinParams: 1,
		MaxParams: 2,
		Fn: func(value any, params []string) (any, error) {
			f, ok := AnyToFloat(value)
			if !ok {
				return nil, errors.New(ErrMsgExpectedNumber)
			}
			unit, err := currency.ParseISO(params[ParamIndexFirst])
			if err != nil {
				return nil, errors.New(ErrMsgUnknownCurrency + ": " + params[ParamIndexFirst])
			}
			tag, err := localeParam(params, ParamIndexSecond)
			if err != nil {
				return nil, err
			}
			return message.NewPrinter(tag).Sprintf("%v", currency.Symbol(unit.Amount(f))), nil
		},
	})
}
