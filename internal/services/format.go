package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter turns raw numbers into display strings for one locale and
// currency.
type Formatter struct {
	currency string
	printer  *message.Printer
}

func NewFormatter(locale, currency string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{
		currency: strings.ToUpper(currency),
		printer:  message.NewPrinter(tag),
	}, nil
}

// Currency renders whole currency units, e.g. "NPR 45,000".
func (f *Formatter) Currency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + f.currency + " " + f.printer.Sprintf("%d", d.IntPart())
}

// Percentage renders a 0–100 value with one decimal, e.g. "12.5%".
func (f *Formatter) Percentage(value float64) string {
	d := decimal.NewFromFloat(value).Round(1)
	return f.printer.Sprintf("%.1f", d.InexactFloat64()) + "%"
}

// Number renders with locale grouping and at most three decimals.
func (f *Formatter) Number(value float64) string {
	d := decimal.NewFromFloat(value).Round(3)
	if d.Equal(d.Truncate(0)) {
		return f.printer.Sprintf("%d", d.IntPart())
	}
	return f.printer.Sprintf("%v", d.InexactFloat64())
}

// Date renders an ISO date as "Jan 2, 2006". Unparseable input is returned
// unchanged.
func (f *Formatter) Date(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}
