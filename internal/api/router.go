// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/middleware"
)

// Router wires handlers and middleware into a chi tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *auth.Middleware
	authz         *authz.Middleware
	websocket     http.Handler
}

// NewRouter creates a Router. authMw and authzMw guard catalog writes;
// when either is nil catalog writes are not routed. ws may be nil to
// disable the live metrics stream.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, authMw *auth.Middleware, authzMw *authz.Middleware, ws http.Handler) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
		auth:          authMw,
		authz:         authzMw,
		websocket:     ws,
	}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Method(http.MethodGet, "/metrics", router.handler.MetricsHandler())

	r.Get("/api/v1/health", router.handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Post("/recommend", router.handler.Recommend)
		r.Post("/click", router.handler.Click)
		r.Post("/reset_metrics", router.handler.ResetMetrics)

		if router.websocket != nil {
			r.Method(http.MethodGet, "/ws/metrics", router.websocket)
		}

		r.Route("/books", func(r chi.Router) {
			r.Get("/", router.handler.ListBooks)
			r.Get("/{id}", router.handler.GetBook)
			router.guarded(r, func(r chi.Router) {
				r.Post("/", router.handler.CreateBook)
				r.Delete("/{id}", router.handler.DeleteBook)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", router.handler.ListUsers)
			r.Get("/{id}", router.handler.GetUser)
			router.guarded(r, func(r chi.Router) {
				r.Post("/", router.handler.CreateUser)
				r.Delete("/{id}", router.handler.DeleteUser)
			})
		})
	})

	return r
}

// guarded registers routes behind authentication and authorization.
func (router *Router) guarded(r chi.Router, fn func(r chi.Router)) {
	if router.auth == nil || router.authz == nil {
		return
	}
	r.Group(func(r chi.Router) {
		r.Use(router.auth.Authenticate)
		r.Use(router.authz.AuthorizeRequest)
		fn(r)
	})
}
