package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdeals/marketplace-api/internal/api/handler"
	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/service"
	sqldb "github.com/campusdeals/marketplace-api/internal/infrastructure/db/sql"
)

type testServer struct {
	e     *echo.Echo
	creds *service.CredentialService
	now   time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqldb.Connect(ctx, sqldb.Config{Driver: sqldb.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, sqldb.Migrate(ctx, db))
	t.Cleanup(func() { _ = sqldb.Close(db) })

	ts := &testServer{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	log := zerolog.Nop()

	users := sqldb.NewUserRepository(db)
	products := sqldb.NewProductRepository(db)
	carts := sqldb.NewCartRepository(db)
	orders := sqldb.NewOrderRepository(db)

	ts.creds = service.NewCredentialService("test-secret", time.Hour,
		service.WithClock(func() time.Time { return ts.now }),
		service.WithBcryptCost(4),
	)
	gate := service.NewGate(ts.creds)

	authSvc := service.NewAuthService(users, ts.creds, nil, nil, log)
	require.NoError(t, authSvc.BootstrapAdmin(ctx, "admin@campus.test", "admin123"))

	ts.e = NewRouter(Dependencies{
		Log:         log,
		CORSOrigins: []string{"*"},
		Gate:        gate,
		Guard:       service.NewGuard(gate, users, time.Second),
		Audit:       service.NopAuditSink{},
		Auth:        authSvc,
		Users:       service.NewUserService(users, log),
		Products:    service.NewProductService(products, log),
		Carts:       service.NewCartService(carts, products, log),
		Orders:      service.NewOrderService(orders, products, log),
		Checks: []handler.DependencyCheck{
			{Name: "sql", Ping: func(ctx context.Context) error { return sqldb.Ping(ctx, db) }},
		},
		QueueDepth: func() int { return 0 },
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)

	var resp map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

// signup registers an account and returns its token and id.
func (ts *testServer) signup(t *testing.T, email, role string) (string, int64) {
	t.Helper()
	rec, resp := ts.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"user_name":"Test","user_email":"`+email+`","user_password":"secret1","role":"`+role+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := resp["user"].(map[string]any)
	return resp["token"].(string), int64(user["userId"].(float64))
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, resp := ts.do(t, http.MethodPost, "/api/auth/login", "",
		`{"user_email":"`+email+`","user_password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return resp["token"].(string)
}

const coatBody = `{"product_name":"white_lab_coat","product_variant":"M","product_price":349.5,"quantity":4}`

func TestRouter_SellRequiresSellerRole(t *testing.T) {
	ts := newTestServer(t)
	buyer, _ := ts.signup(t, "buyer@campus.test", "buyer")
	seller, sellerID := ts.signup(t, "seller@campus.test", "seller")

	rec, resp := ts.do(t, http.MethodPost, "/api/products", buyer, coatBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "FORBIDDEN", resp["code"])
	assert.Equal(t, "sell", resp["operation"])
	assert.Equal(t, "buyer", resp["current_role"])
	assert.Equal(t, []any{"seller", "admin"}, resp["required_roles"])

	rec, resp = ts.do(t, http.MethodPost, "/api/products", seller, coatBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := resp["product"].(map[string]any)
	assert.Equal(t, float64(sellerID), product["seller_id"])
	assert.Equal(t, "349.5", product["product_price"])
}

func TestRouter_CredentialFailures(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_MISSING", resp["code"])
	assert.Equal(t, "login_required", resp["action"])
	assert.Equal(t, "buy", resp["operation"])

	rec, resp = ts.do(t, http.MethodGet, "/api/cart", "not.a.token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "TOKEN_MALFORMED", resp["code"])

	token, err := ts.creds.MintWithTTL(1, "admin@campus.test", domain.RoleAdmin, time.Second)
	require.NoError(t, err)
	ts.now = ts.now.Add(2 * time.Second)

	rec, resp = ts.do(t, http.MethodGet, "/api/cart", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "TOKEN_EXPIRED", resp["code"])
}

func TestRouter_DeletedAccountIsRejected(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, "admin@campus.test", "admin123")
	buyer, buyerID := ts.signup(t, "gone@campus.test", "buyer")

	rec, _ := ts.do(t, http.MethodDelete, "/api/users/"+itoa(buyerID), admin, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp := ts.do(t, http.MethodPost, "/api/cart", buyer, `{"product_id":1,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", resp["code"])
	assert.Equal(t, "signup_required", resp["action"])
}

func TestRouter_AdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	buyer, _ := ts.signup(t, "buyer@campus.test", "buyer")
	admin := ts.login(t, "admin@campus.test", "admin123")

	rec, resp := ts.do(t, http.MethodGet, "/api/users", buyer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []any{"admin"}, resp["required_roles"])

	rec, resp = ts.do(t, http.MethodGet, "/api/users", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), resp["count"])
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestRouter_BuyFlow(t *testing.T) {
	ts := newTestServer(t)
	seller, _ := ts.signup(t, "seller@campus.test", "seller")
	buyer, _ := ts.signup(t, "buyer@campus.test", "buyer")
	other, _ := ts.signup(t, "other@campus.test", "buyer")

	_, resp := ts.do(t, http.MethodPost, "/api/products", seller, coatBody)
	productID := int64(resp["product"].(map[string]any)["product_id"].(float64))

	rec, resp := ts.do(t, http.MethodPost, "/api/cart", buyer, `{"product_id":`+itoa(productID)+`,"quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cartID := int64(resp["item"].(map[string]any)["cart_id"].(float64))

	rec, resp = ts.do(t, http.MethodGet, "/api/cart", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "699", resp["total"])

	rec, resp = ts.do(t, http.MethodPut, "/api/cart/"+itoa(cartID), other, `{"quantity":5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", resp["code"])
	rec, _ = ts.do(t, http.MethodDelete, "/api/cart/"+itoa(cartID), other, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/orders", buyer,
		`{"product_id":`+itoa(productID)+`,"total_amount":699,"payment_method":"upi"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, resp = ts.do(t, http.MethodDelete, "/api/products/"+itoa(productID), ts.login(t, "admin@campus.test", "admin123"), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PRODUCT_IN_USE", resp["code"])
}

func TestRouter_AdminManagesAnyCart(t *testing.T) {
	ts := newTestServer(t)
	seller, _ := ts.signup(t, "seller@campus.test", "seller")
	buyer, _ := ts.signup(t, "buyer@campus.test", "buyer")
	admin := ts.login(t, "admin@campus.test", "admin123")

	_, resp := ts.do(t, http.MethodPost, "/api/products", seller, coatBody)
	productID := int64(resp["product"].(map[string]any)["product_id"].(float64))
	_, resp = ts.do(t, http.MethodPost, "/api/cart", buyer, `{"product_id":`+itoa(productID)+`,"quantity":1}`)
	cartID := int64(resp["item"].(map[string]any)["cart_id"].(float64))

	rec, _ := ts.do(t, http.MethodPut, "/api/cart/"+itoa(cartID), admin, `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp = ts.do(t, http.MethodGet, "/api/cart", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, "1048.5", resp["total"])

	rec, _ = ts.do(t, http.MethodDelete, "/api/cart/"+itoa(cartID), admin, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, resp = ts.do(t, http.MethodGet, "/api/cart", buyer, "")
	assert.Equal(t, float64(0), resp["count"])
}

func TestRouter_ValidateTransaction(t *testing.T) {
	ts := newTestServer(t)
	buyer, _ := ts.signup(t, "buyer@campus.test", "buyer")

	rec, resp := ts.do(t, http.MethodPost, "/api/auth/validate-transaction", buyer, `{"operation":"buy"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, resp["valid"])

	rec, resp = ts.do(t, http.MethodPost, "/api/auth/validate-transaction?operation=sell", buyer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "sell", resp["operation"])

	rec, resp = ts.do(t, http.MethodPost, "/api/auth/validate-transaction", buyer, `{"operation":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "operation", resp["field"])
}

func TestRouter_ValidateTransactionAuthenticatesFirst(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []string{"", `{}`, `{"operation":"trade"}`, `{"operation":`} {
		rec, resp := ts.do(t, http.MethodPost, "/api/auth/validate-transaction", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, body)
		assert.Equal(t, "TOKEN_MISSING", resp["code"], body)
	}
}

func TestRouter_SignupValidation(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/auth/register", "",
		`{"user_name":"Eve","user_email":"eve@campus.test","user_password":"secret1","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", resp["code"])
	assert.Equal(t, "role", resp["field"])

	ts.signup(t, "dup@campus.test", "buyer")
	rec, resp = ts.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"user_name":"Dup","user_email":"DUP@campus.test","user_password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USER_EXISTS", resp["code"])

	rec, resp = ts.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"user_name":"Bob","user_email":"Bob <bob@campus.test>","user_password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_email", resp["field"])

	rec, resp = ts.do(t, http.MethodPost, "/api/auth/login", "", `{"user_email":"dup@campus.test","user_password":"wrong1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", resp["code"])
}

func TestRouter_Operations(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp["status"])

	rec, resp = ts.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, resp["dependencies"], "sql")

	rec, _ = ts.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketplace_audit_queue_depth")

	rec, resp = ts.do(t, http.MethodGet, "/api/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp["code"])
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
