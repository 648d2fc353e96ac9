package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
)

// CurrencyPlaces is the precision prices are rounded to after discounting.
const CurrencyPlaces int32 = 2

// Money is an amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: normalizeCurrency(currency)}
}

// ParseMoney builds Money from a decimal string such as "10.00".
func ParseMoney(amount, currency string) (Money, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid amount %q", amount))
	}
	return NewMoney(value, currency), nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(CurrencyPlaces), m.Currency)
}

// Equal compares by value; 8.0 USD equals 8.00 USD.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.Amount.LessThan(other.Amount), nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// Quantize rounds half away from zero to the currency precision.
func (m Money) Quantize() Money {
	return Money{Amount: m.Amount.Round(CurrencyPlaces), Currency: m.Currency}
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) Zero() Money {
	return Money{Amount: decimal.Zero, Currency: m.Currency}
}

// MinMoney returns the smallest of values. All values must share a currency.
func MinMoney(values ...Money) (Money, error) {
	if len(values) == 0 {
		return Money{}, pkgerrors.New(pkgerrors.CodeEmptyInput, "min of empty money list")
	}
	lowest := values[0]
	for _, candidate := range values[1:] {
		less, err := candidate.LessThan(lowest)
		if err != nil {
			return Money{}, err
		}
		if less {
			lowest = candidate
		}
	}
	return lowest, nil
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency == other.Currency {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeCurrencyMismatch, "cannot combine money in different currencies").
		WithDetails(map[string]any{"left": m.Currency, "right": other.Currency})
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
