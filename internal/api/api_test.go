package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"MiniShop/internal/api"
	"MiniShop/internal/auth"
	"MiniShop/internal/order"
	"MiniShop/internal/product"
	"MiniShop/internal/user"
)

const testSecret = "test-secret"

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	s := &api.Server{
		Log:      zap.NewNop(),
		Users:    user.NewStore(dir),
		Products: product.NewStore(dir),
		Orders:   order.NewStore(dir),
		JWT:      auth.NewTokenMaker(testSecret, 30*time.Minute),
	}

	ts := httptest.NewServer(api.NewHandler(s, api.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "api",
	}))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func register(t *testing.T, ts *httptest.Server, username, password, role string) {
	t.Helper()

	body := map[string]string{"username": username, "password": password}
	if role != "" {
		body["role"] = role
	}
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s: %s", username, raw)
}

func login(t *testing.T, ts *httptest.Server, username, password string) (token, role string) {
	t.Helper()

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login %s: %s", username, raw)

	var lr struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(raw, &lr))
	require.NotEmpty(t, lr.Token)
	return lr.Token, lr.Role
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "alice", "pw1", "")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/register", "", map[string]string{
		"username": "alice", "password": "other",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterMissingFields(t *testing.T) {
	ts := newTestAPI(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/register", "", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginTokenCarriesIdentity(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "admin", "adminpw", "admin")
	token, role := login(t, ts, "admin", "adminpw")
	require.Equal(t, "admin", role)

	claims, err := auth.NewTokenMaker(testSecret, 30*time.Minute).Parse(token)
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.Equal(t, "admin", claims.Role)

	ttl := time.Until(claims.ExpiresAt.Time)
	require.InDelta(t, (30 * time.Minute).Seconds(), ttl.Seconds(), 5)
}

func TestLoginFailures(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "alice", "pw1", "")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"username": "ghost", "password": "pw",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Missing credentials are 401 here, not 400.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredTokenRejected(t *testing.T) {
	ts := newTestAPI(t)

	expired, err := auth.NewTokenMaker(testSecret, -time.Minute).Issue(1, "user")
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/orders", expired, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrdersRequireToken(t *testing.T) {
	ts := newTestAPI(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductLifecycle(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "admin", "adminpw", "admin")
	register(t, ts, "alice", "pw1", "")
	adminTok, _ := login(t, ts, "admin", "adminpw")
	aliceTok, _ := login(t, ts, "alice", "pw1")

	// Non-admins cannot create.
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", aliceTok, map[string]any{
		"name": "Widget", "price": 10,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Missing price is rejected even for admins.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/products", adminTok, map[string]any{"name": "Widget"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/products", adminTok, map[string]any{
		"name": "Widget", "price": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Reads are public: no token needed.
	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []product.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Equal(t, []product.Product{{ID: 1, Name: "Widget", Price: 10}}, products)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/products/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/products/99", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/products/1", adminTok, map[string]any{"price": 12})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/products/1", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/products/1", adminTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderLifecycle(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "admin", "adminpw", "admin")
	register(t, ts, "alice", "pw1", "")
	register(t, ts, "bob", "pw2", "")
	adminTok, _ := login(t, ts, "admin", "adminpw")
	aliceTok, _ := login(t, ts, "alice", "pw1")
	bobTok, _ := login(t, ts, "bob", "pw2")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", adminTok, map[string]any{
		"name": "Widget", "price": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Unknown product fails order creation.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/orders", aliceTok, map[string]any{
		"product_name": "Gadget", "quantity": 1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Alice orders 3 Widgets at 10: price 30, status pending, owned by her.
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/orders", aliceTok, map[string]any{
		"product_name": "Widget", "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%s", raw)

	var created order.Order
	require.NoError(t, json.Unmarshal(raw, &created))
	require.Equal(t, 1, created.ID)
	require.Equal(t, 30.0, created.Price)
	require.Equal(t, "pending", created.Status)
	require.Equal(t, 2, created.UserID)

	// Price and status in a non-admin create are ignored.
	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/orders", bobTok, map[string]any{
		"product_name": "Widget", "quantity": 1, "price": 0.01, "status": "shipped",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var bobOrder order.Order
	require.NoError(t, json.Unmarshal(raw, &bobOrder))
	require.Equal(t, 10.0, bobOrder.Price)
	require.Equal(t, "pending", bobOrder.Status)

	// Admins may set both on creation.
	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/orders", adminTok, map[string]any{
		"product_name": "Widget", "quantity": 1, "price": 5, "status": "shipped",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var adminOrder order.Order
	require.NoError(t, json.Unmarshal(raw, &adminOrder))
	require.Equal(t, 5.0, adminOrder.Price)
	require.Equal(t, "shipped", adminOrder.Status)

	// Visibility: owners see their own orders, admins see all.
	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/orders", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var aliceOrders []order.Order
	require.NoError(t, json.Unmarshal(raw, &aliceOrders))
	require.Len(t, aliceOrders, 1)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/orders", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var allOrders []order.Order
	require.NoError(t, json.Unmarshal(raw, &allOrders))
	require.Len(t, allOrders, 3)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/orders/1", bobTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/orders/99", bobTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Bob cannot touch Alice's order, and it stays unchanged.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", bobTok, map[string]any{"quantity": 99})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, 3, getOrder(t, ts, aliceTok, 1).Quantity)

	// A non-admin status other than canceled is ignored but still a 200.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", aliceTok, map[string]any{"status": "shipped"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "pending", getOrder(t, ts, aliceTok, 1).Status)

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", aliceTok, map[string]any{"status": "canceled"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "canceled", getOrder(t, ts, aliceTok, 1).Status)

	// Owners never delete, even their own order.
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/orders/1", aliceTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, 1, getOrder(t, ts, aliceTok, 1).ID)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/orders/1", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/orders/1", adminTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderUpdateRepricing(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "admin", "adminpw", "admin")
	register(t, ts, "alice", "pw1", "")
	adminTok, _ := login(t, ts, "admin", "adminpw")
	aliceTok, _ := login(t, ts, "alice", "pw1")

	for _, p := range []map[string]any{
		{"name": "Widget", "price": 10},
		{"name": "Gadget", "price": 25},
	} {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", adminTok, p)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/orders", aliceTok, map[string]any{
		"product_name": "Widget", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Product switch reprices against the current quantity.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", aliceTok, map[string]any{"product_name": "Gadget"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 50.0, getOrder(t, ts, aliceTok, 1).Price)

	// Quantity change reprices too.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", aliceTok, map[string]any{"quantity": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 100.0, getOrder(t, ts, aliceTok, 1).Price)

	// Both at once: new product times new quantity.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", aliceTok, map[string]any{
		"product_name": "Widget", "quantity": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 50.0, getOrder(t, ts, aliceTok, 1).Price)

	// A non-admin explicit price is dropped; an admin's sticks.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", aliceTok, map[string]any{"price": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 50.0, getOrder(t, ts, aliceTok, 1).Price)

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/orders/1", adminTok, map[string]any{"price": 42})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 42.0, getOrder(t, ts, aliceTok, 1).Price)

	// Product price changes never retroactively touch existing orders.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/products/1", adminTok, map[string]any{"price": 999})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 42.0, getOrder(t, ts, aliceTok, 1).Price)
}

func TestUserEndpoints(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "admin", "adminpw", "admin")
	register(t, ts, "alice", "pw1", "")
	register(t, ts, "bob", "pw2", "")
	adminTok, _ := login(t, ts, "admin", "adminpw")
	aliceTok, _ := login(t, ts, "alice", "pw1")

	// Listing users is admin-only.
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/users", aliceTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/users", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []user.Public
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 3)

	// Self-read works, reading someone else does not.
	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/users/2", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alice user.Public
	require.NoError(t, json.Unmarshal(raw, &alice))
	require.Equal(t, user.Public{ID: 2, Username: "alice", Role: "user"}, alice)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/users/3", aliceTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/users/99", adminTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deleting users is admin-only; the role gate answers before existence.
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/users/3", aliceTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/users/3", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/users/3", adminTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSelfRoleEscalationIsSilentNoOp(t *testing.T) {
	ts := newTestAPI(t)

	register(t, ts, "admin", "adminpw", "admin")
	register(t, ts, "alice", "pw1", "")
	adminTok, _ := login(t, ts, "admin", "adminpw")
	aliceTok, _ := login(t, ts, "alice", "pw1")

	// Alice submits a role with her own update: 200, but the role stays.
	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/users/2", aliceTok, map[string]any{
		"password": "pw-new", "role": "admin",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/users/2", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alice user.Public
	require.NoError(t, json.Unmarshal(raw, &alice))
	require.Equal(t, "user", alice.Role)

	// The password half of the same request did apply.
	_, _ = login(t, ts, "alice", "pw-new")

	// Updating someone else is forbidden for non-admins.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/users/1", aliceTok, map[string]any{"password": "x"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// An admin-set role does apply.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/users/2", adminTok, map[string]any{"role": "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/users/2", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &alice))
	require.Equal(t, "admin", alice.Role)
}

func getOrder(t *testing.T, ts *httptest.Server, token string, id int) order.Order {
	t.Helper()

	resp, raw := doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d", ts.URL, id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "%s", raw)

	var o order.Order
	require.NoError(t, json.Unmarshal(raw, &o))
	return o
}
