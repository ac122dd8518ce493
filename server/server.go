// Package server exposes the claim cache over a small operational HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/amirrezaask/claimcache/claims"
	"github.com/amirrezaask/claimcache/errors"
	"github.com/amirrezaask/claimcache/httphandlers"
	"github.com/amirrezaask/claimcache/httpmiddlewares"
	"github.com/amirrezaask/claimcache/httpserver"
	"github.com/amirrezaask/claimcache/kv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cache    *claims.ClaimCache
	store    kv.Pinger
	gatherer prometheus.Gatherer
}

func New(cache *claims.ClaimCache, store kv.Pinger, gatherer prometheus.Gatherer) *Server {
	return &Server{cache: cache, store: store, gatherer: gatherer}
}

// Handler builds the routes wrapped in the recover and metrics middlewares.
func (s *Server) Handler(reg prometheus.Registerer, namespace string) http.Handler {
	mux := httpserver.New()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	mux.WithMiddlewares(httpserver.RequestLogger)
	mux.GET("/healthz", httphandlers.MakeHTTPHandler(s.healthz))
	mux.GET("/claims/{id}", httphandlers.MakeHTTPHandler(s.getClaim))
	mux.PUT("/claims/{id}", httphandlers.MakeHTTPHandler(s.putClaim))
	mux.DELETE("/claims/{id}", httphandlers.MakeHTTPHandler(s.deleteClaim))

	return middlewares(reg, namespace)(mux)
}

// middlewares puts the exporter outside Recover so recovered panics are counted as 500s.
func middlewares(reg prometheus.Registerer, namespace string) func(http.Handler) http.Handler {
	return httpmiddlewares.Chain(
		httpmiddlewares.PrometheusExporter(reg, namespace, "^/metrics$", "^/healthz$"),
		httpmiddlewares.Recover,
	)
}

func statusFor(err error) error {
	switch {
	case errors.Is(err, errors.ErrInvalidArgument):
		return httphandlers.NewError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, errors.ErrStoreUnavailable):
		return httphandlers.NewError(http.StatusServiceUnavailable, "cache store unavailable", err)
	}
	var de *errors.DeserializationError
	if errors.As(err, &de) {
		return httphandlers.NewError(http.StatusInternalServerError, "cached claim is unreadable", err)
	}
	return err
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) (int, any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		return 0, nil, statusFor(err)
	}
	return http.StatusOK, map[string]string{"status": "ok"}, nil
}

func (s *Server) getClaim(w http.ResponseWriter, r *http.Request) (int, any, error) {
	claim, ok, err := s.cache.GetClaim(r.Context(), r.PathValue("id"))
	if err != nil {
		return 0, nil, statusFor(err)
	}
	if !ok {
		return 0, nil, httphandlers.NewError(http.StatusNotFound, "claim is not cached", nil)
	}
	return http.StatusOK, claim, nil
}

func (s *Server) putClaim(w http.ResponseWriter, r *http.Request) (int, any, error) {
	var claim claims.Claim
	if err := httphandlers.DecodeBody(r, &claim); err != nil {
		return 0, nil, httphandlers.NewError(http.StatusBadRequest, "invalid claim body", err)
	}
	id := r.PathValue("id")
	if claim.ClaimID == "" {
		claim.ClaimID = id
	}
	if claim.ClaimID != id {
		return 0, nil, httphandlers.NewError(http.StatusBadRequest, "claim id does not match path", nil)
	}
	if err := s.cache.SetClaim(r.Context(), claim); err != nil {
		return 0, nil, statusFor(err)
	}
	return http.StatusNoContent, nil, nil
}

func (s *Server) deleteClaim(w http.ResponseWriter, r *http.Request) (int, any, error) {
	if err := s.cache.DeleteClaim(r.Context(), r.PathValue("id")); err != nil {
		return 0, nil, statusFor(err)
	}
	return http.StatusNoContent, nil, nil
}
