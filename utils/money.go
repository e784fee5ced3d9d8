package utils

import "github.com/shopspring/decimal"

// Monetary amounts are exact decimals end to end. Incoming amounts are
// normalized to two decimal places at the service boundary; ledger
// arithmetic itself never rounds.

// RoundMoney rounds an amount to two decimal places
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyDecimalPlaces)
}
