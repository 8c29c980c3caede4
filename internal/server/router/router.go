package router

import (
	"log/slog"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/Kayszu18/yandex-market-bot/internal/auth"
	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
	"github.com/Kayszu18/yandex-market-bot/internal/server/handlers"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
)

type Options struct {
	log          *slog.Logger
	secret       []byte
	passwordHash string
	media        handlers.Media
}

func NewRouter(svc *lifecycle.Service, store storage.Storage, opts ...Option) chi.Router {
	r := chi.NewRouter()

	rOpts := Options{
		log:    slog.New(&slog.JSONHandler{}),
		secret: []byte(""),
	}

	for _, opt := range opts {
		opt(&rOpts)
	}

	tokenAuth := jwtauth.New("HS256", rOpts.secret, nil)

	r.Use(
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Logger,
	)

	h := handlers.NewHandlers(svc, store,
		handlers.WithLogger(rOpts.log),
		handlers.WithAuth(auth.NewJWTAuth(rOpts.secret)),
		handlers.WithPasswordHash(rOpts.passwordHash),
		handlers.WithMedia(rOpts.media),
	)

	r.Get("/ping", h.Ping)

	r.Group(func(r chi.Router) {
		r.Post("/api/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(
			jwtauth.Verifier(tokenAuth),
			jwtauth.Authenticator(tokenAuth),
		)

		r.Get("/api/stats", h.GetStats)
		r.Get("/api/export/{kind}", h.Export)
		r.Get("/api/orders/{orderID}/screenshot", h.OrderScreenshot)
	})

	return r
}

type Option func(r *Options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.log = logger
	}
}

func WithSecret(secret []byte) Option {
	return func(o *Options) {
		o.secret = secret
	}
}

func WithPasswordHash(hash string) Option {
	return func(o *Options) {
		o.passwordHash = hash
	}
}

func WithMedia(m handlers.Media) Option {
	return func(o *Options) {
		o.media = m
	}
}
