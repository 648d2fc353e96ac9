package enums

import "fmt"

// SaleType represents how a sale's channel value reduces a price.
type SaleType string

const (
	SaleTypePercentage SaleType = "percentage"
	SaleTypeFixed      SaleType = "fixed"
)

var validSaleTypes = []SaleType{
	SaleTypePercentage,
	SaleTypeFixed,
}

// String implements fmt.Stringer.
func (s SaleType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SaleType.
func (s SaleType) IsValid() bool {
	for _, candidate := range validSaleTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSaleType converts raw input into a SaleType.
func ParseSaleType(value string) (SaleType, error) {
	for _, candidate := range validSaleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale type %q", value)
}
