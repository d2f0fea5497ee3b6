package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/auracommerce/storefront/internal/auth"
	"github.com/auracommerce/storefront/internal/cart"
	"github.com/auracommerce/storefront/internal/catalog"
	"github.com/auracommerce/storefront/internal/events"
	"github.com/auracommerce/storefront/internal/localstore"
	"github.com/auracommerce/storefront/internal/models"
	"github.com/auracommerce/storefront/internal/promo"
)

type testEnv struct {
	E *echo.Echo
	A *AuthHandler
	C *CartHandler
	P *ProductHandler
	S *EstimateHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	store, err := localstore.New(db)
	require.NoError(t, err)

	cat, err := catalog.New([]models.Product{
		{ID: "1", Name: "Blazer", Price: 289, Category: "Women", Brand: "Maison Noir", Rating: 4.8, Badge: models.BadgeSale, InStock: true},
		{ID: "2", Name: "Sweater", Price: 195, Category: "Women", Brand: "Lune Studio", Rating: 4.9, Badge: models.BadgeNew, InStock: true},
		{ID: "3", Name: "Boots", Price: 345, Category: "Shoes", Brand: "Artisan & Co", Rating: 4.7, InStock: true},
	})
	require.NoError(t, err)

	authSvc := &auth.Service{Store: store, JWTSecret: []byte("test-secret"), Events: events.NoopPublisher{}}

	return &testEnv{
		E: echo.New(),
		A: &AuthHandler{Auth: authSvc},
		C: &CartHandler{
			Carts:    cart.NewStore(),
			Catalog:  cat,
			Shipping: cart.ShippingPolicy{FreeThreshold: 99, Fee: 9.99},
			Events:   events.NoopPublisher{},
		},
		P: &ProductHandler{Catalog: cat},
		S: &EstimateHandler{Countdown: promo.NewDealCountdown(), Slides: promo.NewRotator(4, time.Second)},
	}
}

func (env *testEnv) doJSONRequest(method, path string, payload any) (*httptest.ResponseRecorder, echo.Context) {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"email": "ana@example.com", "password": "hunter2", "name": "Ana",
	})
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody(t, rec)
	require.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]any)
	require.Equal(t, "ana@example.com", user["email"])
	require.NotContains(t, user, "password")

	// Duplicate email is rejected with a conflict.
	_, c2 := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"email": "ana@example.com", "password": "other", "name": "Ana",
	})
	err := env.A.Register(c2)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)

	// Wrong password fails without hinting which field was wrong.
	_, c3 := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	err = env.A.Login(c3)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	recLogin, cLogin := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email": "ana@example.com", "password": "hunter2",
	})
	require.NoError(t, env.A.Login(cLogin))
	require.Equal(t, http.StatusOK, recLogin.Code)
	require.NotEmpty(t, decodeBody(t, recLogin)["token"])
}

func TestMeAndLogout(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/me", nil)
	require.NoError(t, env.A.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decodeBody(t, rec)["user"])

	_, cReg := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"email": "ana@example.com", "password": "hunter2", "name": "Ana",
	})
	require.NoError(t, env.A.Register(cReg))

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/api/v1/me", nil)
	require.NoError(t, env.A.Me(c2))
	require.NotNil(t, decodeBody(t, rec2)["user"])

	recOut, cOut := env.doJSONRequest(http.MethodPost, "/api/v1/logout", nil)
	require.NoError(t, env.A.Logout(cOut))
	require.Equal(t, http.StatusOK, recOut.Code)

	rec3, c3 := env.doJSONRequest(http.MethodGet, "/api/v1/me", nil)
	require.NoError(t, env.A.Me(c3))
	require.Nil(t, decodeBody(t, rec3)["user"])
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]string{
		"productId": "1", "selectedColor": "Black", "selectedSize": "M",
	})
	c.Request().Header.Set(CartIDHeader, "tab-1")
	require.NoError(t, env.C.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	require.Equal(t, float64(1), resp["itemCount"])
	require.InDelta(t, 289.0, resp["total"].(float64), 1e-9)
	require.InDelta(t, 0.0, resp["shipping"].(float64), 1e-9, "289 clears the free-shipping threshold")

	// Same variant again increments the line.
	rec2, c2 := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]string{
		"productId": "1", "selectedColor": "Black", "selectedSize": "M",
	})
	c2.Request().Header.Set(CartIDHeader, "tab-1")
	require.NoError(t, env.C.AddItem(c2))
	resp2 := decodeBody(t, rec2)
	require.Equal(t, float64(2), resp2["itemCount"])
	require.Len(t, resp2["items"].([]any), 1)

	// Unknown product is a 404.
	_, cBad := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]string{"productId": "999"})
	cBad.Request().Header.Set(CartIDHeader, "tab-1")
	err := env.C.AddItem(cBad)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)

	// Quantity zero removes the line.
	key := cart.LineKey("1", "Black", "M")
	rec3, c3 := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/key", map[string]int{"quantity": 0})
	c3.Request().Header.Set(CartIDHeader, "tab-1")
	c3.SetParamNames("key")
	c3.SetParamValues(key)
	require.NoError(t, env.C.UpdateQuantity(c3))
	resp3 := decodeBody(t, rec3)
	require.Equal(t, float64(0), resp3["itemCount"])
	require.InDelta(t, 9.99, resp3["shipping"].(float64), 1e-9)
}

func TestCartsAreIsolatedPerShopper(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]string{"productId": "2"})
	c.Request().Header.Set(CartIDHeader, "tab-1")
	require.NoError(t, env.C.AddItem(c))

	rec, c2 := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	c2.Request().Header.Set(CartIDHeader, "tab-2")
	require.NoError(t, env.C.GetCart(c2))
	require.Equal(t, float64(0), decodeBody(t, rec)["itemCount"])
}

func TestGetProductsFiltersAndPaginates(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products?brands=Lune+Studio&sort=price-asc", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	data := resp["data"].([]any)
	require.Len(t, data, 1)
	require.Equal(t, "2", data[0].(map[string]any)["id"])

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/api/v1/products?page=2&size=2", nil)
	require.NoError(t, env.P.GetProducts(c2))
	resp2 := decodeBody(t, rec2)
	require.Len(t, resp2["data"].([]any), 1)
	meta := resp2["meta"].(map[string]any)
	require.Equal(t, float64(3), meta["total"])
	require.Equal(t, true, meta["has_prev"])
	require.Equal(t, false, meta["has_next"])
}

func TestGetProductByID(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/3", nil)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, "Boots", decodeBody(t, rec)["name"])

	_, cMiss := env.doJSONRequest(http.MethodGet, "/api/v1/products/404", nil)
	cMiss.SetParamNames("id")
	cMiss.SetParamValues("404")
	err := env.P.GetProduct(cMiss)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestEstimateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/estimate", map[string]any{
		"width": 60, "height": 200, "depth": 55, "doors": 3,
	})
	require.NoError(t, env.S.Estimate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	require.Equal(t, float64(446), resp["total"])
	require.InDelta(t, 5.26, resp["area"].(float64), 1e-9)

	_, cBad := env.doJSONRequest(http.MethodPost, "/api/v1/estimate", map[string]any{
		"width": 10, "height": 200, "depth": 55, "doors": 3,
	})
	err := env.S.Estimate(cBad)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}
