package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floracare/storefront/api/controllers"
	cartsvc "github.com/floracare/storefront/internal/cart"
	checkoutsvc "github.com/floracare/storefront/internal/checkout"
	"github.com/floracare/storefront/pkg/config"
	"github.com/floracare/storefront/pkg/db/models"
	"github.com/floracare/storefront/pkg/enums"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCatalogService struct {
	products []models.Product
}

func (s stubCatalogService) Browse(ctx context.Context, query, category string) ([]models.Product, error) {
	return s.products, nil
}

func (s stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

type stubOrdersRepo struct {
	created []*models.Order
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (uuid.UUID, error) {
	s.created = append(s.created, order)
	return uuid.New(), nil
}

func (s *stubOrdersRepo) List(ctx context.Context) ([]models.Order, error) {
	result := make([]models.Order, 0, len(s.created))
	for _, order := range s.created {
		result = append(result, *order)
	}
	return result, nil
}

func newTestRouter(t *testing.T) (http.Handler, stubCatalogService, *stubOrdersRepo) {
	t.Helper()

	cfg := &config.Config{App: config.AppConfig{Env: "dev", Port: "8080"}}

	store, err := cartsvc.NewStore(cartsvc.NewMemoryKeyValue(), cartsvc.NewNotifier(nil), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	catalog := stubCatalogService{products: []models.Product{
		{
			ID:       uuid.New(),
			Name:     "Lavender Dream Soap",
			Price:    decimal.RequireFromString("7.00"),
			Category: enums.ProductCategorySoap,
		},
	}}

	ordersRepo := &stubOrdersRepo{}

	orch, err := checkoutsvc.NewOrchestrator(store, ordersRepo, time.Second, nil)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	router := NewRouter(Deps{
		Config:    cfg,
		Readiness: map[string]controllers.Pinger{"noop": stubPinger{}},
		Catalog:   catalog,
		CartStore: store,
		Checkout:  orch,
		Orders:    ordersRepo,
	})
	return router, catalog, ordersRepo
}

func TestHealthEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestProductsRoute(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRoundTripKeepsProfileCookie(t *testing.T) {
	router, catalog, _ := newTestRouter(t)

	body := strings.NewReader(`{"product_id":"` + catalog.products[0].ID.String() + `","quantity":2}`)
	addReq := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	addResp := httptest.NewRecorder()
	router.ServeHTTP(addResp, addReq)

	if addResp.Code != http.StatusOK {
		t.Fatalf("add item: expected 200 got %d body %s", addResp.Code, addResp.Body.String())
	}

	var profileCookie *http.Cookie
	for _, cookie := range addResp.Result().Cookies() {
		if cookie.Name == "floracare_profile" {
			profileCookie = cookie
		}
	}
	if profileCookie == nil {
		t.Fatal("expected profile cookie on first visit")
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	getReq.AddCookie(profileCookie)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, getReq)

	if getResp.Code != http.StatusOK {
		t.Fatalf("get cart: expected 200 got %d", getResp.Code)
	}
	var envelope struct {
		Data struct {
			ItemCount   int    `json:"item_count"`
			TotalAmount string `json:"total_amount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if envelope.Data.ItemCount != 2 || envelope.Data.TotalAmount != "14.00" {
		t.Fatalf("unexpected cart: %+v", envelope.Data)
	}
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	router, catalog, ordersRepo := newTestRouter(t)

	body := strings.NewReader(`{"product_id":"` + catalog.products[0].ID.String() + `","quantity":1}`)
	addReq := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	addResp := httptest.NewRecorder()
	router.ServeHTTP(addResp, addReq)
	if addResp.Code != http.StatusOK {
		t.Fatalf("add item: expected 200 got %d", addResp.Code)
	}

	var profileCookie *http.Cookie
	for _, cookie := range addResp.Result().Cookies() {
		if cookie.Name == "floracare_profile" {
			profileCookie = cookie
		}
	}
	if profileCookie == nil {
		t.Fatal("expected profile cookie")
	}

	reviewReq := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/review", nil)
	reviewReq.AddCookie(profileCookie)
	reviewResp := httptest.NewRecorder()
	router.ServeHTTP(reviewResp, reviewReq)
	if reviewResp.Code != http.StatusOK {
		t.Fatalf("review: expected 200 got %d body %s", reviewResp.Code, reviewResp.Body.String())
	}

	submitBody := strings.NewReader(`{
		"customer_name": "Marie Dupont",
		"customer_email": "marie@example.com",
		"delivery_address": "12 Rue des Fleurs, Lyon"
	}`)
	submitReq := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/submit", submitBody)
	submitReq.AddCookie(profileCookie)
	submitResp := httptest.NewRecorder()
	router.ServeHTTP(submitResp, submitReq)
	if submitResp.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201 got %d body %s", submitResp.Code, submitResp.Body.String())
	}

	if len(ordersRepo.created) != 1 {
		t.Fatalf("expected one order got %d", len(ordersRepo.created))
	}

	cartReq := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	cartReq.AddCookie(profileCookie)
	cartResp := httptest.NewRecorder()
	router.ServeHTTP(cartResp, cartReq)
	var envelope struct {
		Data struct {
			ItemCount int `json:"item_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(cartResp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if envelope.Data.ItemCount != 0 {
		t.Fatal("expected cart cleared after checkout")
	}
}

func TestUnknownRoute(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/does-not-exist", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
