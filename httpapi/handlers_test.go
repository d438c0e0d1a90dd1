package httpapi_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	streamless "github.com/streamless/streamless"
	"github.com/streamless/streamless/httpapi"
	schedmem "github.com/streamless/streamless/scheduler/memory"
	storemem "github.com/streamless/streamless/store/memory"
	custodymem "github.com/streamless/streamless/transfer/memory"
)

func newTestServer(t *testing.T) (*gin.Engine, *streamless.Engine, *custodymem.Custody) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	funds := custodymem.New()
	engine := streamless.New(storemem.New(), funds, schedmem.New(),
		streamless.WithLogger(slog.New(slog.DiscardHandler)),
	)

	handler := httpapi.NewHandler(engine, httpapi.WithFunder(
		func(_ context.Context, _ string, amount uint64) error {
			funds.Receive(amount)
			return nil
		},
	))
	router := gin.New()
	httpapi.SetupRouter(router, slog.New(slog.DiscardHandler), handler, engine)
	return router, engine, funds
}

func doJSON(t *testing.T, router *gin.Engine, method, path, who, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if who != "" {
		req.Header.Set("X-Caller", who)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPlanEndpoints(t *testing.T) {
	router, _, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/plans", "alice",
		`{"plan_id":"gold","amount":100,"frequency_days":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("missing caller rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/plans", "",
			`{"plan_id":"x","amount":1,"frequency_days":1}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate maps to 422", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/plans", "alice",
			`{"plan_id":"gold","amount":100,"frequency_days":30}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("get plan", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/plans/gold", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "alice", body["creator"])
		assert.Equal(t, "100", body["amount"])
		assert.Equal(t, true, body["active"])
	})

	t.Run("unknown plan maps to 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/plans/missing", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update requires ownership", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/plans/gold", "mallory",
			`{"amount":1,"frequency_days":1,"active":false}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestDepositAndSubscribeFlow(t *testing.T) {
	router, engine, funds := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/plans", "alice",
		`{"plan_id":"gold","amount":100,"frequency_days":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/deposits", "bob", `{"amount":250}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("funder keeps custody solvent", func(t *testing.T) {
		custody, err := funds.CustodyBalance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(250), custody)
	})

	rec = doJSON(t, router, http.MethodGet, "/api/v1/deposits/balance", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance":"250"}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/subscriptions", "bob", `{"plan_id":"gold"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("subscription visible", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/subscriptions/gold", "bob", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "active", body["status"])
	})

	t.Run("cancel", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/subscriptions/gold", "bob", "")
		require.Equal(t, http.StatusOK, rec.Code)

		sub, err := engine.GetSubscription(context.Background(), "bob", "gold")
		require.NoError(t, err)
		assert.False(t, sub.Active)
	})

	t.Run("overdraw maps to 422", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/deposits/withdrawals", "bob", `{"amount":900}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("payments empty before first cycle", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/payments", "bob", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"payments":[]}`, rec.Body.String())
	})
}
