package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kayszu18/yandex-market-bot/internal/auth"
	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
	"github.com/Kayszu18/yandex-market-bot/internal/logger"
	"github.com/Kayszu18/yandex-market-bot/internal/server/models"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/Kayszu18/yandex-market-bot/internal/storage/inmemory"
)

const adminPassword = "s3cret"

type fakeMedia struct {
	files map[string][]byte
}

func (f *fakeMedia) Download(_ context.Context, fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}

	return data, nil
}

func newTestHandlers(t *testing.T) (*Handlers, *lifecycle.Service, *fakeMedia) {
	t.Helper()

	store := storage.NewStorage(inmemory.NewStorage())

	svc := lifecycle.NewService(store,
		lifecycle.WithOrderReward(decimal.NewFromInt(10000)),
		lifecycle.WithReferralPercent(decimal.NewFromFloat(0.10)),
		lifecycle.WithMinWithdrawal(decimal.NewFromInt(1000)),
	)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)

	media := &fakeMedia{files: make(map[string][]byte)}

	h := NewHandlers(svc, store,
		WithAuth(auth.NewJWTAuth([]byte("testsecret"))),
		WithPasswordHash(hash),
		WithMedia(media),
		WithLogger(logger.NewLogger(logger.WithOutput(io.Discard))),
	)

	return h, svc, media
}

func TestPing(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	w := httptest.NewRecorder()
	h.Ping(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	t.Run("valid password", func(t *testing.T) {
		body, err := json.Marshal(models.LoginRequest{Login: "admin", Password: adminPassword})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		body, err := json.Marshal(models.LoginRequest{Login: "admin", Password: "nope"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStats(t *testing.T) {
	h, svc, _ := newTestHandlers(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, 100, "alice", 0)
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, 100, "https://market.example.com/product/42", "file1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.GetStats(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, 1, resp.Users)
	assert.Equal(t, 1, resp.PendingOrders)
	assert.Equal(t, "0", resp.TotalBalance)
}

func exportRequest(kind string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/export/"+kind, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("kind", kind)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestExport(t *testing.T) {
	h, svc, _ := newTestHandlers(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, 100, "alice", 0)
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, 100, "https://market.example.com/product/42", "file1")
	require.NoError(t, err)

	t.Run("orders", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Export(w, exportRequest("orders"))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("content-type"))

		records, err := csv.NewReader(w.Body).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("users", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Export(w, exportRequest("users"))

		require.Equal(t, http.StatusOK, w.Code)

		records, err := csv.NewReader(w.Body).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("unknown kind", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Export(w, exportRequest("payments"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderScreenshot(t *testing.T) {
	h, svc, media := newTestHandlers(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, 100, "alice", 0)
	require.NoError(t, err)

	order, err := svc.SubmitOrder(ctx, 100, "https://market.example.com/product/42", "file1")
	require.NoError(t, err)
	require.Equal(t, int64(1), order.ID())

	media.files["file1"] = []byte("\x89PNG fake image data")

	screenshotRequest := func(orderID string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID+"/screenshot", nil)

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("orderID", orderID)

		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.OrderScreenshot(w, screenshotRequest("1"))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []byte("\x89PNG fake image data"), w.Body.Bytes())
	})

	t.Run("unknown order", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.OrderScreenshot(w, screenshotRequest("999"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad order id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.OrderScreenshot(w, screenshotRequest("abc"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
