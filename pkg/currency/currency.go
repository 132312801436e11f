// Package currency provides standardized currency handling across the
// application. All monetary amounts are decimal.Decimal to avoid
// floating-point errors.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	INR Currency = "INR" // Indian Rupee
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	AED Currency = "AED" // UAE Dirham
	SGD Currency = "SGD" // Singapore Dollar
)

// DefaultCurrency is the default currency when none is specified.
const DefaultCurrency = INR

// Info contains metadata about a currency.
type Info struct {
	Code          Currency
	Name          string
	Symbol        string
	DecimalPlaces int
	SymbolBefore  bool
}

var currencies = map[Currency]Info{
	INR: {Code: INR, Name: "Indian Rupee", Symbol: "₹", DecimalPlaces: 2, SymbolBefore: true},
	USD: {Code: USD, Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, SymbolBefore: true},
	EUR: {Code: EUR, Name: "Euro", Symbol: "€", DecimalPlaces: 2, SymbolBefore: false},
	GBP: {Code: GBP, Name: "British Pound", Symbol: "£", DecimalPlaces: 2, SymbolBefore: true},
	AED: {Code: AED, Name: "UAE Dirham", Symbol: "AED", DecimalPlaces: 2, SymbolBefore: true},
	SGD: {Code: SGD, Name: "Singapore Dollar", Symbol: "$", DecimalPlaces: 2, SymbolBefore: true},
}

// SupportedCurrencies returns a list of all supported currency codes.
func SupportedCurrencies() []Currency {
	return []Currency{INR, USD, EUR, GBP, AED, SGD}
}

// SupportedCurrencyCodes returns all supported currency codes as strings.
func SupportedCurrencyCodes() []string {
	codes := SupportedCurrencies()
	result := make([]string, len(codes))
	for i, c := range codes {
		result[i] = string(c)
	}
	return result
}

// IsValid checks if a currency code is supported.
func IsValid(code string) bool {
	_, ok := currencies[Currency(code)]
	return ok
}

// GetInfo returns metadata for a currency code.
func GetInfo(code Currency) (Info, bool) {
	info, ok := currencies[code]
	return info, ok
}

// Format renders an amount with the currency's symbol and decimal places.
func Format(amount decimal.Decimal, code Currency) string {
	info, ok := GetInfo(code)
	if !ok {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), code)
	}

	rounded := amount.Round(int32(info.DecimalPlaces))
	if info.SymbolBefore {
		return fmt.Sprintf("%s%s", info.Symbol, rounded.StringFixed(int32(info.DecimalPlaces)))
	}
	return fmt.Sprintf("%s%s", rounded.StringFixed(int32(info.DecimalPlaces)), info.Symbol)
}
