package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/catalog-pricing/internal/discounts"
	"github.com/angelmondragon/catalog-pricing/internal/pricing"
	"github.com/angelmondragon/catalog-pricing/pkg/auth"
	"github.com/angelmondragon/catalog-pricing/pkg/config"
	"github.com/angelmondragon/catalog-pricing/pkg/db/dbtest"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/enums"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
)

type routerFixture struct {
	handler http.Handler
	cfg     *config.Config
	catalog *dbtest.Catalog
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gdb := dbtest.Open(t)
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	reg := prometheus.NewRegistry()

	svc, err := pricing.NewService(pricing.ServiceParams{
		Repository: pricing.NewRepository(gdb),
		Discounts:  discounts.NewRepository(gdb),
		Logger:     logg,
		Metrics:    metrics.NewPricingMetrics(reg),
	})
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "catalog-pricing", ExpirationMinutes: 5},
	}
	return &routerFixture{
		handler: NewRouter(cfg, logg, nil, nil, reg, svc),
		cfg:     cfg,
		catalog: dbtest.NewCatalog(t, gdb),
	}
}

func (f *routerFixture) token(t *testing.T, role enums.ActorRole) string {
	t.Helper()
	token, err := auth.MintAccessToken(f.cfg.JWT, time.Now(), auth.AccessTokenPayload{Subject: "ops", Role: role})
	require.NoError(t, err)
	return token
}

func (f *routerFixture) post(path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthLive(t *testing.T) {
	f := newRouterFixture(t)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouterReadyWithoutDatabase(t *testing.T) {
	f := newRouterFixture(t)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouterRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.post("/api/admin/v1/pricing/products/1/recompute", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.post("/api/admin/v1/pricing/products/1/recompute", f.token(t, enums.ActorRoleOperator), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterRecomputeProductEndToEnd(t *testing.T) {
	f := newRouterFixture(t)
	channel := f.catalog.Channel("USD")
	product := f.catalog.Product(nil)
	f.catalog.Listing(product, channel, "")
	f.catalog.Variant(product, map[*models.Channel]string{channel: "12.00"})
	f.catalog.Sale(enums.SaleTypePercentage, map[*models.Channel]string{channel: "50"}, dbtest.SaleTargets{
		Products: []*models.Product{product},
	})

	rec := f.post("/api/admin/v1/pricing/products/"+strconv.FormatInt(product.ID, 10)+"/recompute", f.token(t, enums.ActorRoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data pricing.RunStats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, 1, envelope.Data.Products)
	assert.Equal(t, 1, envelope.Data.ListingsUpdated)

	metricsRec := httptest.NewRecorder()
	f.handler.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "pricing_listings_updated_total 1")
}

func TestRouterRecomputeCataloguesValidation(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.post("/api/admin/v1/pricing/catalogues/recompute", f.token(t, enums.ActorRoleAdmin), `{"product_ids":[-1]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterRecomputeUnknownDiscount(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.post("/api/admin/v1/pricing/discounts/999/recompute", f.token(t, enums.ActorRoleAdmin), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
