package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balance status words.
const (
	StatusGetsBack = "gets back"
	StatusOwes     = "owes"
	StatusSettled  = "is settled"
)

// FormatAmount renders a currency amount with two decimals, e.g. "$12.50".
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// StatusOf classifies a net balance at cent precision.
func StatusOf(net decimal.Decimal) string {
	switch net.Round(2).Sign() {
	case 1:
		return StatusGetsBack
	case -1:
		return StatusOwes
	default:
		return StatusSettled
	}
}

// BalanceStatus renders "<name>: gets back $X", "<name>: owes $X" or "<name>: is settled".
func BalanceStatus(name string, net decimal.Decimal) string {
	status := StatusOf(net)
	if status == StatusSettled {
		return fmt.Sprintf("%s: %s", name, status)
	}
	return fmt.Sprintf("%s: %s %s", name, status, FormatAmount(net.Abs()))
}

// SettlementText renders "<debtor> should pay <creditor> $X".
func SettlementText(from, to string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s should pay %s %s", from, to, FormatAmount(amount))
}
