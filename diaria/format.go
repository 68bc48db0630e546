package diaria

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// =============================================================================
// CURRENCY FORMATTING (pt-BR)
// =============================================================================

// NoValuePlaceholder is rendered wherever an amount is zero or negative;
// the documents never show a formatted zero.
const NoValuePlaceholder = "—, --"

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders an amount as Brazilian currency ("R$ 4.800,00"),
// or the placeholder when the amount is not positive.
func FormatCurrency(v decimal.Decimal) string {
	if !v.IsPositive() {
		return NoValuePlaceholder
	}
	f, _ := v.Float64()
	return ptBR.Sprintf("R$ %v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// FormatDate renders a date as DD/MM/YYYY, the format used in documents and
// warnings.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
