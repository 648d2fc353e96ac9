package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/catalog-pricing/internal/pricing"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
)

type stubPricingService struct {
	stats      pricing.RunStats
	err        error
	productID  int64
	discountID int64
	filter     pricing.CatalogueFilter
}

func (s *stubPricingService) UpdateProduct(ctx context.Context, productID int64, opts ...pricing.Option) (pricing.RunStats, error) {
	s.productID = productID
	return s.stats, s.err
}

func (s *stubPricingService) UpdateCatalogues(ctx context.Context, filter pricing.CatalogueFilter, opts ...pricing.Option) (pricing.RunStats, error) {
	s.filter = filter
	return s.stats, s.err
}

func (s *stubPricingService) UpdateDiscount(ctx context.Context, saleID int64, opts ...pricing.Option) (pricing.RunStats, error) {
	s.discountID = saleID
	return s.stats, s.err
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeStats(t *testing.T, rec *httptest.ResponseRecorder) pricing.RunStats {
	t.Helper()
	var envelope struct {
		Data pricing.RunStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Error.Code
}

func TestAdminRecomputeProductSuccess(t *testing.T) {
	svc := &stubPricingService{stats: pricing.RunStats{Batches: 1, Products: 1, ListingsUpdated: 2}}
	handler := AdminRecomputeProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pricing/products/12/recompute", nil)
	req = withURLParam(req, "productId", "12")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.productID != 12 {
		t.Fatalf("expected product 12 got %d", svc.productID)
	}
	if stats := decodeStats(t, rec); stats.ListingsUpdated != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAdminRecomputeProductInvalidID(t *testing.T) {
	svc := &stubPricingService{}
	handler := AdminRecomputeProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pricing/products/abc/recompute", nil)
	req = withURLParam(req, "productId", "abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.productID != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestAdminRecomputeProductNotFound(t *testing.T) {
	svc := &stubPricingService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := AdminRecomputeProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pricing/products/9/recompute", nil)
	req = withURLParam(req, "productId", "9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestAdminRecomputeCataloguesPassesFilter(t *testing.T) {
	svc := &stubPricingService{stats: pricing.RunStats{Batches: 1, Products: 3}}
	handler := AdminRecomputeCatalogues(svc, nil)

	body := `{"product_ids":[1,2],"category_ids":[5],"variant_ids":[40]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pricing/catalogues/recompute", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.filter.ProductIDs) != 2 || svc.filter.CategoryIDs[0] != 5 || svc.filter.VariantIDs[0] != 40 {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
	if len(svc.filter.CollectionIDs) != 0 {
		t.Fatalf("expected no collection ids got %v", svc.filter.CollectionIDs)
	}
	if stats := decodeStats(t, rec); stats.Products != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAdminRecomputeCataloguesRejectsNonPositiveIDs(t *testing.T) {
	svc := &stubPricingService{}
	handler := AdminRecomputeCatalogues(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pricing/catalogues/recompute", strings.NewReader(`{"collection_ids":[0]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestAdminRecomputeDiscount(t *testing.T) {
	svc := &stubPricingService{stats: pricing.RunStats{Batches: 2, Products: 4}}
	handler := AdminRecomputeDiscount(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pricing/discounts/3/recompute", nil)
	req = withURLParam(req, "discountId", "3")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.discountID != 3 {
		t.Fatalf("expected discount 3 got %d", svc.discountID)
	}
}

func TestAdminRecomputeDiscountDependencyFailure(t *testing.T) {
	svc := &stubPricingService{err: pkgerrors.New(pkgerrors.CodeDependency, "bulk update failed")}
	handler := AdminRecomputeDiscount(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pricing/discounts/3/recompute", nil)
	req = withURLParam(req, "discountId", "3")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
