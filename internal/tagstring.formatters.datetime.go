package internal

import (
	"errors"
	"strings"

	"github.com/goodsign/monday"
)

// Date style names accepted by the date formatter
const (
	DateStyleShort  = "short"
	DateStyleMedium = "medium"
	DateStyleLong   = "long"
	DateStyleFull   = "full"
	DateStyleISO    = "iso"
)

// ISO date layout
const DateLayoutISO = "2006-01-02"

// registerDateTimeFormatters registers date formatters
func registerDateTimeFormatters(r *FormatterRegistry) {
	// date(styleOrLayout?, locale?) - localized month and weekday names
	r.MustRegister(&Formatter{
		Name:      FormatterNameDate,
		MinParams: 0,
		MaxParams: 2,
		Fn: func(value any, params []string) (any, error) {
			t, ok := AnyToTime(value)
			if !ok {
				return nil, errors.New(ErrMsgExpectedTime)
			}
			locale := DefaultLocale
			if len(params) > ParamIndexSecond && params[ParamIndexSecond] != "" {
				locale = params[ParamIndexSecond]
			}
			mondayLocale := mondayLocaleFor(locale)

			style := DateStyleMedium
			if len(params) > ParamIndexFirst && params[ParamIndexFirst] != "" {
				style = params[ParamIndexFirst]
			}
			return monday.Format(t, dateLayoutFor(style, mondayLocale), mondayLocale), nil
		},
	})
}

// mondayLocaleFor maps a locale string to a monday.Locale, falling back
// to the language part and then to en_US.
func mondayLocaleFor(locale string) monday.Locale {
	locale = strings.ToLower(strings.ReplaceAll(locale, "-", "_"))

	localeMap := map[string]monday.Locale{
		"en":    monday.LocaleEnUS,
		"en_us": monday.LocaleEnUS,
		"en_gb": monday.LocaleEnGB,
		"de":    monday.LocaleDeDE,
		"de_de": monday.LocaleDeDE,
		"fr":    monday.LocaleFrFR,
		"fr_fr": monday.LocaleFrFR,
		"fr_ca": monday.LocaleFrCA,
		"es":    monday.LocaleEsES,
		"it":    monday.LocaleItIT,
		"pt":    monday.LocalePtPT,
		"pt_br": monday.LocalePtBR,
		"nl":    monday.LocaleNlNL,
		"ru":    monday.LocaleRuRU,
		"pl":    monday.LocalePlPL,
		"sv":    monday.LocaleSvSE,
		"ja":    monday.LocaleJaJP,
		"zh":    monday.LocaleZhCN,
		"ko":    monday.LocaleKoKR,
	}

	if loc, ok := localeMap[locale]; ok {
		return loc
	}
	if lang, _, found := strings.Cut(locale, "_"); found {
		if loc, ok := localeMap[lang]; ok {
			return loc
		}
	}
	return monday.LocaleEnUS
}

// dateLayoutFor returns the layout for a named style, or the style itself
// when it is already a Go layout.
func dateLayoutFor(style string, locale monday.Locale) string {
	dayFirst := locale != monday.LocaleEnUS
	switch style {
	case DateStyleISO:
		return DateLayoutISO
	case DateStyleShort:
		switch locale {
		case monday.LocaleEnUS:
			return "1/2/06"
		case monday.LocaleDeDE:
			return "02.01.06"
		default:
			return "02/01/06"
		}
	case DateStyleMedium:
		if dayFirst {
			return "2 Jan 2006"
		}
		return "Jan 2, 2006"
	case DateStyleLong:
		if dayFirst {
			return "2 January 2006"
		}
		return "January 2, 2006"
	case DateStyleFull:
		if dayFirst {
			return "Monday, 2 January 2006"
		}
		return "Monday, January 2, 2006"
	default:
		return style
	}
}
