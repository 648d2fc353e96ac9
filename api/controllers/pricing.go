package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/catalog-pricing/api/responses"
	"github.com/angelmondragon/catalog-pricing/api/validators"
	"github.com/angelmondragon/catalog-pricing/internal/pricing"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
)

type pricingService interface {
	UpdateProduct(ctx context.Context, productID int64, opts ...pricing.Option) (pricing.RunStats, error)
	UpdateCatalogues(ctx context.Context, filter pricing.CatalogueFilter, opts ...pricing.Option) (pricing.RunStats, error)
	UpdateDiscount(ctx context.Context, saleID int64, opts ...pricing.Option) (pricing.RunStats, error)
}

// AdminRecomputeProduct recomputes the discounted prices of one product.
func AdminRecomputeProduct(svc pricingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := svc.UpdateProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminRecomputeCatalogues recomputes every product touched by the posted id sets.
func AdminRecomputeCatalogues(svc pricingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		var filter pricing.CatalogueFilter
		if err := validators.DecodeJSONBody(r, &filter); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := svc.UpdateCatalogues(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminRecomputeDiscount recomputes the products a discount targets.
func AdminRecomputeDiscount(svc pricingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		discountID, err := validators.ParseIDParam(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := svc.UpdateDiscount(r.Context(), discountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
