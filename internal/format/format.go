// Package format renders dates and prices for listing cards and status messages.
//
// Every helper fails closed: bad input produces a sentinel string, never an error
// or a panic, because the output goes straight into user-facing text.
package format

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Sentinel strings returned for dates that cannot be rendered.
const (
	UnknownDate = "Unknown date"
	InvalidDate = "Invalid date"
)

const (
	longLayout      = "3pm on 2 January"
	shortLayout     = "2 Jan"
	yearSuffix      = " 2006"
	localDateTime   = "2006-01-02T15:04:05"
	localDateOnly   = "2006-01-02"
	defaultCurrency = "GBP"
)

// symbols covers the currencies partner stores trade in; anything else is
// prefixed with its ISO code.
var symbols = map[currency.Unit]string{
	currency.GBP: "£",
	currency.EUR: "€",
	currency.USD: "$",
	currency.AUD: "A$",
	currency.CAD: "CA$",
	currency.JPY: "¥",
}

// Options configures a Formatter. Zero values select en-GB, GBP, the local
// time zone and the wall clock.
type Options struct {
	Locale   language.Tag
	Currency currency.Unit
	Location *time.Location
	Now      func() time.Time
}

// Formatter renders dates and amounts for one locale, currency and zone.
// It is immutable and safe for concurrent use.
type Formatter struct {
	loc     *time.Location
	now     func() time.Time
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	scale   int
}

// New creates a Formatter from options.
func New(opts Options) *Formatter {
	if opts.Locale == language.Und {
		opts.Locale = language.BritishEnglish
	}
	if opts.Currency == (currency.Unit{}) {
		opts.Currency = currency.MustParseISO(defaultCurrency)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	scale, _ := currency.Standard.Rounding(opts.Currency)

	symbol, ok := symbols[opts.Currency]
	if !ok {
		symbol = opts.Currency.String() + " "
	}

	return &Formatter{
		loc:     opts.Location,
		now:     opts.Now,
		printer: message.NewPrinter(opts.Locale),
		unit:    opts.Currency,
		symbol:  symbol,
		scale:   scale,
	}
}

// Date renders an ISO 8601 timestamp as "3pm on 5 March", appending the year
// when it differs from the current one: "3pm on 5 March 2023".
func (f *Formatter) Date(iso string) string {
	return f.render(iso, longLayout)
}

// ShortDate renders an ISO 8601 timestamp as "5 Mar" (or "5 Mar 2023").
func (f *Formatter) ShortDate(iso string) string {
	return f.render(iso, shortLayout)
}

func (f *Formatter) render(iso, layout string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return UnknownDate
	}

	t, ok := f.parse(iso)
	if !ok {
		return InvalidDate
	}

	t = t.In(f.loc)
	if t.Year() != f.now().In(f.loc).Year() {
		layout += yearSuffix
	}
	return t.Format(layout)
}

// parse accepts RFC 3339 (fractional seconds optional) and, for payloads that
// omit the offset, local date-times and bare dates in the formatter's zone.
func (f *Formatter) parse(iso string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, iso); err == nil {
		return t, true
	}
	for _, layout := range []string{localDateTime, localDateOnly} {
		if t, err := time.ParseInLocation(layout, iso, f.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Currency renders an amount in the formatter's currency, e.g. "£1,234.50".
// A nil amount renders as zero.
func (f *Formatter) Currency(amount *float64) string {
	var v float64
	if amount != nil {
		v = *amount
	}
	return f.CurrencyValue(v)
}

// CurrencyValue renders a non-nil amount. NaN and infinities render as zero.
func (f *Formatter) CurrencyValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	pow := math.Pow10(f.scale)
	v = math.Round(v*pow) / pow

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	digits := f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(f.scale),
		number.MaxFractionDigits(f.scale),
	))
	return sign + f.symbol + digits
}

// Unit returns the currency the formatter renders amounts in.
func (f *Formatter) Unit() currency.Unit {
	return f.unit
}

var defaultFormatter = New(Options{})

// FormatDate renders iso with the default en-GB formatter. See Formatter.Date.
func FormatDate(iso string) string {
	return defaultFormatter.Date(iso)
}

// FormatShortDate renders iso with the default en-GB formatter. See Formatter.ShortDate.
func FormatShortDate(iso string) string {
	return defaultFormatter.ShortDate(iso)
}

// FormatCurrency renders amount in GBP. See Formatter.Currency.
func FormatCurrency(amount *float64) string {
	return defaultFormatter.Currency(amount)
}
