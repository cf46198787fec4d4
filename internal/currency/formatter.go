// Package currency renders monetary amounts for customer-facing quote
// documents. Amounts are stored as plain floats; formatting is applied
// only at the presentation edge.
package currency

import (
	"fmt"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formats amounts for a single locale and ISO 4217 currency.
type Formatter struct {
	printer *message.Printer
	unit    xcurrency.Unit
}

// NewFormatter builds a formatter for the given BCP 47 locale and ISO
// currency code, e.g. ("it-IT", "EUR").
func NewFormatter(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}, nil
}

// Format renders an amount with the currency symbol and locale-specific
// separators, e.g. 1234.56 as "€ 1.234,56" under it-IT/EUR.
func (f *Formatter) Format(amount float64) string {
	return f.printer.Sprintf("%v", xcurrency.Symbol(f.unit.Amount(amount)))
}

// Code returns the ISO 4217 code the formatter was built with.
func (f *Formatter) Code() string { return f.unit.String() }
