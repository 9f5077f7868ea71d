package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"simple-bank-ledger/config"
	"simple-bank-ledger/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	t.Setenv("BANK_DATABASE_DRIVER", "memory")
	t.Setenv("BANK_JWT_SECRET", "router-test-secret")
	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := app.Build(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return &apiClient{t: t, router: SetupRouter(RouterDeps{
		AuthSvc:        a.Auth,
		LedgerSvc:      a.Ledger,
		SessionSvc:     a.Sessions,
		TokenSvc:       a.Tokens,
		HealthCheckers: a.Health,
		AmountScale:    cfg.Ledger.AmountScale,
		Logger:         zerolog.Nop(),
	})}
}

func (api *apiClient) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	api.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(api.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(api.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (api *apiClient) register(fullName, username string) string {
	status, resp := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"full_name": fullName, "username": username, "password": "Secret123", "initial_deposit": "1000",
	})
	require.Equal(api.t, http.StatusCreated, status, resp)
	return resp["data"].(map[string]interface{})["account_number"].(string)
}

func (api *apiClient) login(username string) string {
	status, resp := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": "Secret123",
	})
	require.Equal(api.t, http.StatusOK, status, resp)
	return resp["data"].(map[string]interface{})["token"].(string)
}

func data(resp map[string]interface{}) map[string]interface{} {
	return resp["data"].(map[string]interface{})
}

func TestRouter_Health(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"memory"`)
}

func TestRouter_LedgerScenario(t *testing.T) {
	api := newAPI(t)

	api.register("Alice Smith", "alice")
	bobNumber := api.register("Bob Jones", "bob")
	alice := api.login("alice")

	status, resp := api.do(http.MethodPost, "/api/v1/accounts/me/deposit", alice, map[string]string{"amount": "500"})
	require.Equal(t, http.StatusOK, status, resp)
	assert.Equal(t, "1500.00", data(resp)["balance"])

	status, resp = api.do(http.MethodPost, "/api/v1/accounts/me/withdraw", alice, map[string]string{"amount": "2000"})
	assert.Equal(t, http.StatusPaymentRequired, status)
	assert.Equal(t, "LED_001", resp["error_code"])

	status, resp = api.do(http.MethodPost, "/api/v1/accounts/me/transfer", alice, map[string]string{
		"recipient_account_number": bobNumber, "amount": "700",
	})
	require.Equal(t, http.StatusOK, status, resp)
	assert.Equal(t, "800.00", data(resp)["balance"])
	assert.Equal(t, "Bob Jones", data(resp)["recipient_name"])

	status, resp = api.do(http.MethodGet, "/api/v1/accounts/me/transactions", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), data(resp)["total"])

	bob := api.login("bob")
	status, resp = api.do(http.MethodGet, "/api/v1/accounts/me/balance", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1700.00", data(resp)["balance"])

	status, resp = api.do(http.MethodGet, "/api/v1/accounts/me", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, bobNumber, data(resp)["account_number"])
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	api := newAPI(t)
	api.register("Alice Smith", "alice")
	token := api.login("alice")

	status, _ := api.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := api.do(http.MethodGet, "/api/v1/accounts/me/balance", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_004", resp["error_code"])
}

func TestRouter_RequiresToken(t *testing.T) {
	api := newAPI(t)

	status, resp := api.do(http.MethodGet, "/api/v1/accounts/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_003", resp["error_code"])
	assert.NotEmpty(t, resp["request_id"])
}

func TestRouter_DuplicateUsername(t *testing.T) {
	api := newAPI(t)
	api.register("Alice Smith", "alice")

	status, resp := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"full_name": "Alice Other", "username": "alice", "password": "Secret123", "initial_deposit": "1000",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "AUTH_002", resp["error_code"])
}
