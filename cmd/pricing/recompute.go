package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/catalog-pricing/internal/pricing"
)

func newProductCmd(rt *runtime, factory serviceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Recompute the discounted prices of one product",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			return withService(cmd, rt, factory, func(ctx context.Context, svc pricing.Service) (pricing.RunStats, error) {
				return svc.UpdateProduct(ctx, id)
			})
		},
	}
	cmd.Flags().Int64("id", 0, "Product id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newProductsCmd(rt *runtime, factory serviceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Recompute a set of products, or the whole catalogue with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, _ := cmd.Flags().GetInt64Slice("ids")
			all, _ := cmd.Flags().GetBool("all")
			if all == (len(ids) > 0) {
				return errors.New("exactly one of --ids or --all is required")
			}
			set := pricing.AllProducts()
			if !all {
				set = pricing.ProductsByIDs(ids...)
			}
			return withService(cmd, rt, factory, func(ctx context.Context, svc pricing.Service) (pricing.RunStats, error) {
				return svc.UpdateProducts(ctx, set)
			})
		},
	}
	cmd.Flags().Int64Slice("ids", nil, "Comma separated product ids")
	cmd.Flags().Bool("all", false, "Recompute every product")
	return cmd
}

func newCataloguesCmd(rt *runtime, factory serviceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogues",
		Short: "Recompute every product touched by the given catalogue ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter pricing.CatalogueFilter
			filter.ProductIDs, _ = cmd.Flags().GetInt64Slice("product-ids")
			filter.CategoryIDs, _ = cmd.Flags().GetInt64Slice("category-ids")
			filter.CollectionIDs, _ = cmd.Flags().GetInt64Slice("collection-ids")
			filter.VariantIDs, _ = cmd.Flags().GetInt64Slice("variant-ids")
			return withService(cmd, rt, factory, func(ctx context.Context, svc pricing.Service) (pricing.RunStats, error) {
				return svc.UpdateCatalogues(ctx, filter)
			})
		},
	}
	cmd.Flags().Int64Slice("product-ids", nil, "Product ids")
	cmd.Flags().Int64Slice("category-ids", nil, "Category ids")
	cmd.Flags().Int64Slice("collection-ids", nil, "Collection ids")
	cmd.Flags().Int64Slice("variant-ids", nil, "Variant ids")
	return cmd
}

func newDiscountCmd(rt *runtime, factory serviceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discount",
		Short: "Recompute every product a discount targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			return withService(cmd, rt, factory, func(ctx context.Context, svc pricing.Service) (pricing.RunStats, error) {
				return svc.UpdateDiscount(ctx, id)
			})
		},
	}
	cmd.Flags().Int64("id", 0, "Discount (sale) id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
