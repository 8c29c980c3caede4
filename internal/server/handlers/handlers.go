// Package handlers implements the operations HTTP API used by admins
// and monitoring, complementing the chat interface.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Kayszu18/yandex-market-bot/internal/auth"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/errmsg"
	"github.com/Kayszu18/yandex-market-bot/internal/export"
	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
	"github.com/Kayszu18/yandex-market-bot/internal/mediaclient"
	"github.com/Kayszu18/yandex-market-bot/internal/server/models"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
)

// Media downloads Telegram file content by file id.
type Media interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

type Handlers struct {
	svc          *lifecycle.Service
	store        storage.Storage
	media        Media
	log          *slog.Logger
	auth         *auth.JWTAuth
	passwordHash string
}

// NewHandlers returns a new Handlers instance.
func NewHandlers(svc *lifecycle.Service, store storage.Storage, opts ...Option) *Handlers {
	handlers := &Handlers{
		svc:   svc,
		store: store,
		log:   slog.New(&slog.JSONHandler{}),
		auth:  auth.NewJWTAuth([]byte("")),
	}

	// Apply options
	for _, opt := range opts {
		opt(handlers)
	}

	return handlers
}

// Option is a functional option for Handlers.
type Option func(h *Handlers)

// WithLogger is a option for Handlers that sets logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		h.log = logger
	}
}

func WithAuth(auth *auth.JWTAuth) Option {
	return func(h *Handlers) {
		h.auth = auth
	}
}

// WithPasswordHash sets the bcrypt hash logins are checked against.
func WithPasswordHash(hash string) Option {
	return func(h *Handlers) {
		h.passwordHash = hash
	}
}

// WithMedia sets the client used to fetch order screenshots.
func WithMedia(m Media) Option {
	return func(h *Handlers) {
		h.media = m
	}
}

type JSONResponse struct {
	Message any `json:"message,omitempty"`
	Error   any `json:"error,omitempty"`
}

func handleJSONResponse(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func handleError(w http.ResponseWriter, err errmsg.HTTPError) {
	resp := &JSONResponse{
		Error: err.Error(),
	}

	w.Header().Set("content-type", "application/json")
	w.WriteHeader(err.Code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error("storage.Ping", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	handleJSONResponse(w, http.StatusOK, &JSONResponse{Message: "ok"})
}

// Login exchanges the admin password for a JWT.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
			handleError(w, errmsg.ErrRequestPayloadEmpty)

			return
		}

		h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusBadRequest, err))

		return
	}

	defer r.Body.Close()

	if h.passwordHash == "" {
		handleError(w, errmsg.ErrCredentialsInvalid)

		return
	}

	if err := auth.CheckPassword(h.passwordHash, payload.Password); err != nil {
		h.log.Warn("login rejected", slog.String("login", payload.Login))
		handleError(w, errmsg.ErrCredentialsInvalid)

		return
	}

	token, err := h.auth.CreateJWTString(payload.Login)
	if err != nil {
		h.log.Error("auth.CreateJWTString", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	w.Header().Set("Authorization", "Bearer "+token)

	handleJSONResponse(w, http.StatusOK, &models.LoginResponse{Token: token})
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.log.Error("svc.Stats", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	handleJSONResponse(w, http.StatusOK, &models.StatsResponse{
		Users:              stats.Users,
		BlockedUsers:       stats.BlockedUsers,
		PendingOrders:      stats.PendingOrders,
		DecidedOrders:      stats.DecidedOrders,
		PendingWithdrawals: stats.PendingWithdrawals,
		PaidWithdrawals:    stats.PaidWithdrawals,
		TotalBalance:       stats.TotalBalance.String(),
	})
}

// Export streams a CSV dump of orders, withdrawals or users.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var buf bytes.Buffer

	var err error

	switch kind {
	case "orders":
		var ords []*orders.Order

		if ords, err = h.svc.AllOrders(r.Context()); err == nil {
			err = export.WriteOrders(&buf, ords)
		}

	case "withdrawals":
		var wds []*withdrawals.Withdrawal

		if wds, err = h.svc.AllWithdrawals(r.Context()); err == nil {
			err = export.WriteWithdrawals(&buf, wds)
		}

	case "users":
		var usrs []*users.User

		if usrs, err = h.svc.Users(r.Context()); err == nil {
			err = export.WriteUsers(&buf, usrs)
		}

	default:
		handleError(w, errmsg.ErrExportKindUnknown)

		return
	}

	if err != nil {
		h.log.Error("export failed", slog.String("kind", kind), slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	w.Header().Set("content-type", "text/csv")
	w.Header().Set("content-disposition", fmt.Sprintf("attachment; filename=%q", kind+".csv"))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error("response write failed", slog.Any("error", err))
	}
}

// OrderScreenshot fetches the purchase screenshot attached to an order.
func (h *Handlers) OrderScreenshot(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	order, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			handleError(w, errmsg.ErrOrderNotFound)

			return
		}

		h.log.Error("svc.GetOrder", slog.Int64("orderID", orderID), slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	if h.media == nil {
		handleError(w, errmsg.NewHTTPError(http.StatusServiceUnavailable, errors.New("media client unavailable")))

		return
	}

	data, err := h.media.Download(r.Context(), order.ScreenshotID())
	if err != nil {
		if errors.Is(err, mediaclient.ErrFileNotFound) {
			handleError(w, errmsg.NewHTTPError(http.StatusNotFound, err))

			return
		}

		h.log.Error("media.Download", slog.Int64("orderID", orderID), slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusBadGateway, err))

		return
	}

	w.Header().Set("content-type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		h.log.Error("response write failed", slog.Any("error", err))
	}
}
