package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	analyticsdomain "github.com/smallbiznis/farmstand/internal/analytics/domain"
	analyticsservice "github.com/smallbiznis/farmstand/internal/analytics/service"
	"github.com/smallbiznis/farmstand/internal/blob"
	"github.com/smallbiznis/farmstand/internal/clock"
	"github.com/smallbiznis/farmstand/internal/config"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	locationrepo "github.com/smallbiznis/farmstand/internal/location/repository"
	locationservice "github.com/smallbiznis/farmstand/internal/location/service"
	"github.com/smallbiznis/farmstand/internal/observability"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	orderrepo "github.com/smallbiznis/farmstand/internal/order/repository"
	orderservice "github.com/smallbiznis/farmstand/internal/order/service"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
	productrepo "github.com/smallbiznis/farmstand/internal/product/repository"
	productservice "github.com/smallbiznis/farmstand/internal/product/service"
	uploadservice "github.com/smallbiznis/farmstand/internal/upload/service"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}, make([]byte, 32)...)

type testServer struct {
	router    *gin.Engine
	locations locationdomain.Service
}

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	backend := recordstore.NewMemoryBackend()
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))

	locations := locationservice.New(locationservice.Params{
		Log:   log,
		Repo:  locationrepo.New(recordstore.New(backend, locationrepo.Collection, func() []locationdomain.Location { return nil })),
		Clock: clk,
	})
	products := productservice.New(productservice.Params{
		Log:       log,
		Repo:      productrepo.New(recordstore.New(backend, productrepo.Collection, func() []productdomain.Product { return nil })),
		Locations: locations,
		Clock:     clk,
	})
	orders := orderservice.New(orderservice.Params{
		Log:       log,
		Repo:      orderrepo.New(recordstore.New(backend, orderrepo.Collection, func() []orderdomain.Order { return nil })),
		Locations: locations,
		Products:  products,
		Clock:     clk,
	})
	dashboard := analyticsservice.New(analyticsservice.Params{
		Config:    config.Config{Analytics: config.AnalyticsConfig{Timezone: "UTC"}},
		Log:       log,
		Clock:     clk,
		Products:  products,
		Locations: locations,
		Orders:    orders,
	})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	uploads := uploadservice.New(uploadservice.Params{
		Log:    log,
		Blobs:  blob.NewMemory(),
		Policy: config.NewStaticUploadPolicy(config.DefaultUploadPolicy()),
		GenID:  node,
	})

	router := NewEngine(observability.Config{Environment: "test"}, nil, nil)
	NewServer(ServerParams{
		Gin:          router,
		Log:          log,
		LocationSvc:  locations,
		ProductSvc:   products,
		OrderSvc:     orders,
		AnalyticsSvc: dashboard,
		UploadSvc:    uploads,
	})
	return testServer{router: router, locations: locations}
}

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLocationProductCounterScenario(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/locations", map[string]any{"name": "Test Farm"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loc := decodeBody[locationdomain.Location](t, rec)
	assert.Equal(t, "test-farm", loc.ID)
	assert.Equal(t, 0, loc.Products)
	assert.True(t, loc.IsActive)

	rec = s.do(t, http.MethodPost, "/api/products", map[string]any{
		"title":      "Sweet Corn",
		"price":      "$4/dozen",
		"locationId": "test-farm",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody[productdomain.Product](t, rec)
	assert.Equal(t, "sweet-corn", created.Slug)
	require.NotNil(t, created.Location)
	assert.Equal(t, "Test Farm", created.Location.Name)

	rec = s.do(t, http.MethodGet, "/api/locations/test-farm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[locationdomain.Location](t, rec).Products)

	rec = s.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeBody[[]productdomain.Product](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "sweet-corn", listed[0].Slug)

	rec = s.do(t, http.MethodDelete, "/api/products?slug=sweet-corn", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product deleted successfully","success":true}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/locations/test-farm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[locationdomain.Location](t, rec).Products)
}

func TestUpdateProductAcceptsSlugInBody(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/products", map[string]any{"title": "Block Ice"}).Code)

	rec := s.do(t, http.MethodPut, "/api/products", map[string]any{"slug": "block-ice", "stock": 12})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 12, decodeBody[productdomain.Product](t, rec).Stock)

	rec = s.do(t, http.MethodPut, "/api/products?slug=block-ice", map[string]any{"featured": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[productdomain.Product](t, rec)
	assert.True(t, updated.Featured)
	assert.Equal(t, 12, updated.Stock)
}

func TestMissingKeyIsBadRequest(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method string
		path   string
		body   any
		field  string
	}{
		{http.MethodDelete, "/api/products", nil, "slug"},
		{http.MethodPut, "/api/products", map[string]any{"title": "x"}, "slug"},
		{http.MethodDelete, "/api/locations", nil, "id"},
		{http.MethodPut, "/api/locations", map[string]any{"name": "x"}, "id"},
		{http.MethodDelete, "/api/orders", nil, "id"},
		{http.MethodPut, "/api/orders", map[string]any{"status": "confirmed"}, "id"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody[errorResponse](t, rec)
			assert.Equal(t, "validation_error", body.Type)
			assert.Equal(t, tc.field+" is required", body.Error)
		})
	}
}

func TestUnknownKeyIsNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/products/nope", "/api/locations/nope", "/api/orders/nope", "/uploads/nope.png"} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "not_found", decodeBody[errorResponse](t, rec).Type, path)
	}

	rec := s.do(t, http.MethodDelete, "/api/products?slug=nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeBody[errorResponse](t, rec).Error)
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/locations", map[string]any{"name": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is required", decodeBody[errorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/api/products", map[string]any{"title": "Eggs", "stock": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "stock must not be negative", decodeBody[errorResponse](t, rec).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	out := httptest.NewRecorder()
	s.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/locations", map[string]any{"name": "Hilltop"}).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/products", map[string]any{"title": "Eggs", "locationId": "hilltop"}).Code)

	rec := s.do(t, http.MethodPost, "/api/orders", map[string]any{
		"productId":    "eggs",
		"customerName": "Ada",
		"quantity":     2,
		"totalAmount":  9.5,
		"locationId":   "missing",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody[orderdomain.Order](t, rec)
	assert.Equal(t, "ORD-1717232400000", created.ID)
	assert.Equal(t, orderdomain.StatusPending, created.Status)
	require.NotNil(t, created.Location)
	assert.Equal(t, "hilltop", created.Location.ID)
	assert.Contains(t, rec.Body.String(), `"totalAmount":9.5`)

	rec = s.do(t, http.MethodGet, "/api/products/eggs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[productdomain.Product](t, rec).Orders)

	rec = s.do(t, http.MethodPut, "/api/orders", map[string]any{"id": created.ID, "status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, orderdomain.StatusConfirmed, decodeBody[orderdomain.Order](t, rec).Status)

	rec = s.do(t, http.MethodPut, "/api/orders", map[string]any{"id": created.ID, "status": "shipped"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid status", decodeBody[errorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/api/orders?status=confirmed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]orderdomain.Order](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/api/orders?id="+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeBody[orderdomain.Order](t, rec).ID)

	rec = s.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestReconcileLocations(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/locations", map[string]any{"name": "Test Farm"}).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/products", map[string]any{"title": "Kale", "locationId": "test-farm"}).Code)
	require.NoError(t, s.locations.AdjustProductCount(context.Background(), "test-farm", 5))

	rec := s.do(t, http.MethodPost, "/api/locations/reconcile", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reconciled := decodeBody[[]locationdomain.Location](t, rec)
	require.Len(t, reconciled, 1)
	assert.Equal(t, 1, reconciled[0].Products)
}

func TestAnalyticsEndpoint(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/locations", map[string]any{"name": "Test Farm"}).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/products", map[string]any{"title": "Kale"}).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/orders", map[string]any{
		"productId": "kale", "customerName": "Bo", "totalAmount": 3,
	}).Code)

	rec := s.do(t, http.MethodGet, "/api/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[analyticsdomain.Analytics](t, rec)
	assert.Equal(t, 1, got.TotalOrders)
	assert.Equal(t, 1, got.OrdersToday)
	assert.Equal(t, "3", got.TotalRevenue.String())
	assert.Len(t, got.OrdersByStatus, len(orderdomain.Statuses()))
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(uploadFormField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadAndServe(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, multipartUpload(t, "photo.png", pngBytes))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "/uploads/"+res.Filename, res.URL)

	got := s.do(t, http.MethodGet, res.URL, nil)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "image/png", got.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, got.Body.Bytes())
}

func TestDeleteUpload(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, multipartUpload(t, "photo.png", pngBytes))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	got := s.do(t, http.MethodDelete, "/api/upload?filename="+res.Filename, nil)
	require.Equal(t, http.StatusOK, got.Code, got.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, res.URL, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/upload?filename="+res.Filename, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodDelete, "/api/upload", nil).Code)
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, multipartUpload(t, "notes.txt", []byte("just some text")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeBody[errorResponse](t, rec).Type)

	rec = s.do(t, http.MethodPost, "/api/upload", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decodeBody[errorResponse](t, rec).Error)
}

func TestMapError(t *testing.T) {
	status, body := mapError(fmt.Errorf("%w: write orders: disk full", recordstore.ErrPersistence))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "persistence_error", body.Type)
	assert.Contains(t, body.Details, "disk full")

	status, body = mapError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", body.Type)
	assert.Equal(t, "boom", body.Details)

	status, body = mapError(fmt.Errorf("update: %w", orderdomain.ErrInvalidTransition))
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "status", body.Errors[0].Field)

	status, _ = mapError(fmt.Errorf("get: %w", locationdomain.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestClassifyErrorForLog(t *testing.T) {
	kind, code := classifyErrorForLog(productdomain.ErrNotFound)
	assert.Equal(t, "not_found", kind)
	assert.Equal(t, "product_not_found", code)

	kind, code = classifyErrorForLog(missingParamError("slug"))
	assert.Equal(t, "validation_error", kind)
	assert.Equal(t, "required", code)

	kind, _ = classifyErrorForLog(recordstore.ErrPersistence)
	assert.Equal(t, "persistence_error", kind)
}
