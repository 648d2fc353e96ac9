package discounts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// Evaluator applies a discount snapshot to one variant price.
type Evaluator interface {
	DiscountedPrice(product models.Product, price types.Money, collectionIDs []int64, discounts []DiscountInfo, channelID int64) (types.Money, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(product models.Product, price types.Money, collectionIDs []int64, discounts []DiscountInfo, channelID int64) (types.Money, error)

func (f EvaluatorFunc) DiscountedPrice(product models.Product, price types.Money, collectionIDs []int64, discounts []DiscountInfo, channelID int64) (types.Money, error) {
	return f(product, price, collectionIDs, discounts, channelID)
}

// DefaultEvaluator is backed by CalculateDiscountedPrice.
var DefaultEvaluator Evaluator = EvaluatorFunc(CalculateDiscountedPrice)

// CalculateDiscountedPrice returns the lowest price obtainable from the sales
// that target the product and are listed in the channel in the price's
// currency. The price is returned unchanged when nothing applies. Variant-only sales never match here;
// their variant ids are used to pick which products to recompute.
func CalculateDiscountedPrice(product models.Product, price types.Money, collectionIDs []int64, discounts []DiscountInfo, channelID int64) (types.Money, error) {
	best := price
	for _, info := range discounts {
		if !info.AppliesTo(product, collectionIDs) {
			continue
		}
		listing, ok := info.ChannelListings[channelID]
		if !ok || !strings.EqualFold(strings.TrimSpace(listing.Currency), price.Currency) {
			continue
		}
		candidate, err := applySale(info.Sale.Type, listing, price)
		if err != nil {
			return types.Money{}, err
		}
		less, err := candidate.LessThan(best)
		if err != nil {
			return types.Money{}, err
		}
		if less {
			best = candidate
		}
	}
	return best, nil
}

func applySale(saleType enums.SaleType, listing models.SaleChannelListing, price types.Money) (types.Money, error) {
	switch saleType {
	case enums.SaleTypePercentage:
		percent := decimal.Min(decimal.Max(listing.DiscountValue, decimal.Zero), hundred)
		factor := hundred.Sub(percent).Div(hundred)
		return price.Mul(factor).Quantize(), nil
	case enums.SaleTypeFixed:
		reduced, err := price.Sub(types.NewMoney(listing.DiscountValue, listing.Currency))
		if err != nil {
			return types.Money{}, err
		}
		if reduced.IsNegative() {
			return reduced.Zero(), nil
		}
		return reduced.Quantize(), nil
	default:
		return types.Money{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sale type %q", saleType))
	}
}
