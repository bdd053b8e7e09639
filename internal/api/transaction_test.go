package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"realestate_system/internal/analytics"
	"realestate_system/internal/domain"
	"realestate_system/internal/middleware"
	"realestate_system/internal/property"
	"realestate_system/internal/transaction"
	"realestate_system/internal/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret"

// testServer wires the real services behind the gin routes used in tests
type testServer struct {
	router     *gin.Engine
	properties *property.Service
	users      *user.Service
	txs        *transaction.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
	properties := property.NewService()
	users := user.NewService(testSecret)
	txs := transaction.NewService(properties, users, nil, transaction.Config{})
	// Pipeline intentionally not started: submitted transactions stay
	// PENDING, keeping handler assertions deterministic
	reporter := analytics.NewReporter(txs, properties)

	r := gin.New()
	r.POST("/user", RegisterHandler(users))
	r.GET("/user", LoginHandler(users))
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(testSecret))
	auth.POST("/transactions", InitiateTransactionHandler(txs, rdb))
	auth.POST("/transactions/:id/cancel", CancelTransactionHandler(txs, rdb))
	auth.GET("/transactions/:id", GetTransactionHandler(txs))
	auth.GET("/transactions/:id/status", GetTransactionStatusHandler(txs))
	auth.GET("/transactions", ListUserTransactionsHandler(txs, rdb))
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(testSecret), middleware.AdminOnlyMiddleware(users))
	admin.GET("/transactions", ListAllTransactionsHandler(txs, rdb))
	admin.GET("/stats", MarketStatsHandler(reporter, rdb))

	return &testServer{router: r, properties: properties, users: users, txs: txs}
}

// do runs a request and decodes the JSON response body
func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

// seed registers a buyer and a seller, lists a property and logs the buyer in
func (s *testServer) seed(t *testing.T) (buyerID, sellerID, propertyID, token string) {
	t.Helper()
	var err error
	buyerID, err = s.users.Register(domain.User{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}, "password123")
	require.NoError(t, err)
	sellerID, err = s.users.Register(domain.User{FirstName: "Rui", LastName: "Costa", Email: "rui@example.com"}, "password123")
	require.NoError(t, err)
	propertyID, err = s.properties.Add(domain.Property{
		Title: "Test listing",
		Type:  domain.PropertyResidential,
		Price: decimal.NewFromInt(800_000),
		Area:  1_200,
		City:  "Lisbon",
	})
	require.NoError(t, err)
	token, err = s.users.Login("ana@example.com", "password123")
	require.NoError(t, err)
	return
}

func TestInitiateAndQueryTransaction(t *testing.T) {
	srv := newTestServer(t)
	buyerID, sellerID, propertyID, token := srv.seed(t)

	code, body := srv.do(t, http.MethodPost, "/transactions", token, gin.H{
		"property_id": propertyID,
		"buyer_id":    buyerID,
		"seller_id":   sellerID,
		"amount":      "800000",
	})
	require.Equal(t, http.StatusAccepted, code)
	id := body["transaction_id"].(string)
	require.NotEmpty(t, id)

	// Visible immediately with status PENDING
	code, body = srv.do(t, http.MethodGet, "/transactions/"+id+"/status", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(domain.StatusPending), body["status"])

	code, body = srv.do(t, http.MethodGet, "/transactions/"+id, token, nil)
	assert.Equal(t, http.StatusOK, code)
	tx := body["transaction"].(map[string]any)
	assert.Equal(t, propertyID, tx["property_id"])
}

func TestInitiateRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)
	buyerID, sellerID, propertyID, token := srv.seed(t)

	t.Run("no token", func(t *testing.T) {
		code, _ := srv.do(t, http.MethodPost, "/transactions", "", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("zero amount", func(t *testing.T) {
		code, _ := srv.do(t, http.MethodPost, "/transactions", token, gin.H{
			"property_id": propertyID,
			"buyer_id":    buyerID,
			"seller_id":   sellerID,
			"amount":      "0",
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("negative amount", func(t *testing.T) {
		code, _ := srv.do(t, http.MethodPost, "/transactions", token, gin.H{
			"property_id": propertyID,
			"buyer_id":    buyerID,
			"seller_id":   sellerID,
			"amount":      "-5",
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown property", func(t *testing.T) {
		code, _ := srv.do(t, http.MethodPost, "/transactions", token, gin.H{
			"property_id": "missing",
			"buyer_id":    buyerID,
			"seller_id":   sellerID,
			"amount":      "100000",
		})
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestCancelEndpoint(t *testing.T) {
	srv := newTestServer(t)
	buyerID, sellerID, propertyID, token := srv.seed(t)

	_, body := srv.do(t, http.MethodPost, "/transactions", token, gin.H{
		"property_id": propertyID,
		"buyer_id":    buyerID,
		"seller_id":   sellerID,
		"amount":      "800000",
	})
	id := body["transaction_id"].(string)

	code, _ := srv.do(t, http.MethodPost, "/transactions/"+id+"/cancel", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = srv.do(t, http.MethodGet, "/transactions/"+id+"/status", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(domain.StatusCancelled), body["status"])

	// Second cancel conflicts
	code, _ = srv.do(t, http.MethodPost, "/transactions/"+id+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, code)

	// Unknown id
	code, _ = srv.do(t, http.MethodPost, "/transactions/missing/cancel", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListUserTransactionsUsesCache(t *testing.T) {
	srv := newTestServer(t)
	buyerID, sellerID, propertyID, token := srv.seed(t)

	_, _ = srv.do(t, http.MethodPost, "/transactions", token, gin.H{
		"property_id": propertyID,
		"buyer_id":    buyerID,
		"seller_id":   sellerID,
		"amount":      "800000",
	})

	code, body := srv.do(t, http.MethodGet, "/transactions", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, false, body["cached"])

	// Second read is served from the cache
	code, body = srv.do(t, http.MethodGet, "/transactions", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, true, body["cached"])

	// A new submission invalidates the buyer's cached list
	_, _ = srv.do(t, http.MethodPost, "/transactions", token, gin.H{
		"property_id": propertyID,
		"buyer_id":    buyerID,
		"seller_id":   sellerID,
		"amount":      "900000",
	})
	code, body = srv.do(t, http.MethodGet, "/transactions", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, false, body["cached"])
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	srv := newTestServer(t)
	_, _, _, token := srv.seed(t)

	code, _ := srv.do(t, http.MethodGet, "/admin/transactions", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Promote an admin and retry
	_, err := srv.users.Register(domain.User{
		FirstName: "Eva", LastName: "Reis", Email: "eva@example.com", Role: domain.RoleAdmin,
	}, "password123")
	require.NoError(t, err)
	adminToken, err := srv.users.Login("eva@example.com", "password123")
	require.NoError(t, err)

	code, body := srv.do(t, http.MethodGet, "/admin/transactions", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])

	code, body = srv.do(t, http.MethodGet, "/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, body["stats"])
}

func TestAdminStatusFilter(t *testing.T) {
	srv := newTestServer(t)
	buyerID, sellerID, propertyID, token := srv.seed(t)
	_, body := srv.do(t, http.MethodPost, "/transactions", token, gin.H{
		"property_id": propertyID,
		"buyer_id":    buyerID,
		"seller_id":   sellerID,
		"amount":      "800000",
	})
	id := body["transaction_id"].(string)
	_, _ = srv.do(t, http.MethodPost, "/transactions/"+id+"/cancel", token, nil)

	_, err := srv.users.Register(domain.User{
		FirstName: "Eva", LastName: "Reis", Email: "eva@example.com", Role: domain.RoleAdmin,
	}, "password123")
	require.NoError(t, err)
	adminToken, err := srv.users.Login("eva@example.com", "password123")
	require.NoError(t, err)

	code, body := srv.do(t, http.MethodGet, "/admin/transactions?status=cancelled", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = srv.do(t, http.MethodGet, "/admin/transactions?status=completed", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newTestServer(t)
	srv.router.POST("/logout", middleware.JWTAuthMiddleware(testSecret), LogoutHandler(srv.users))
	buyerID, sellerID, propertyID, token := srv.seed(t)

	code, _ := srv.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	// The JWT still parses, but the session is gone: Initiate rejects it
	code, _ = srv.do(t, http.MethodPost, "/transactions", token, gin.H{
		"property_id": propertyID,
		"buyer_id":    buyerID,
		"seller_id":   sellerID,
		"amount":      "100000",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}
