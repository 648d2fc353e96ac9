package pricing

import (
	"github.com/angelmondragon/catalog-pricing/internal/discounts"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
)

// selectDiscountedPrice discounts every price and returns the lowest result.
// Callers must not pass an empty price list.
func selectDiscountedPrice(
	eval discounts.Evaluator,
	prices []types.Money,
	product models.Product,
	collectionIDs []int64,
	snapshot []discounts.DiscountInfo,
	channelID int64,
) (types.Money, error) {
	if len(prices) == 0 {
		return types.Money{}, pkgerrors.New(pkgerrors.CodeEmptyInput, "no variant prices to discount")
	}
	candidates := make([]types.Money, 0, len(prices))
	for _, price := range prices {
		discounted, err := eval.DiscountedPrice(product, price, collectionIDs, snapshot, channelID)
		if err != nil {
			return types.Money{}, err
		}
		candidates = append(candidates, discounted)
	}
	return types.MinMoney(candidates...)
}
