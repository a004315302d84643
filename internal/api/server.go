// Package api exposes the cache, the watchlist and refresh operations over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"WatchDesk/internal/cache"
	"WatchDesk/internal/recorder"
	"WatchDesk/internal/refresh"
	"WatchDesk/internal/watchlist"
)

var (
	errInvalidSymbol = errors.New("symbol must not be empty")
	errNotWatched    = errors.New("symbol is not on the watchlist")
)

// Deps are the shared components the handlers read and drive.
type Deps struct {
	Cache     *cache.Cache
	Refresher *refresh.Refresher
	Watchlist *watchlist.Watchlist
	Recorder  recorder.Recorder
	// Source names the upstream provider in health output.
	Source string
}

type healthOutput struct {
	Body struct {
		Status    string   `json:"status"`
		Source    string   `json:"source"`
		Watchlist int      `json:"watchlist"`
		Cached    int      `json:"cached"`
		InFlight  []string `json:"in_flight"`
	}
}

func NewServer(d Deps) http.Handler {
	if d.Recorder == nil {
		d.Recorder = recorder.NewNoopRecorder()
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("WatchDesk API", "1.0.0")
	api := humachi.New(router, cfg)

	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/healthz", Summary: "Liveness and cache stats", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			out.Body.Source = d.Source
			out.Body.Watchlist = d.Watchlist.Len()
			out.Body.Cached = len(d.Cache.Symbols())
			out.Body.InFlight = d.Refresher.InFlight()
			return out, nil
		})

	registerWatchlistHandlers(api, d)
	registerSymbolHandlers(api, d)
	registerRefreshHandlers(api, d)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, errInvalidSymbol):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, errNotWatched):
		return huma.Error404NotFound(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
