package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"WatchDesk/internal/model"
)

type watchlistOutput struct {
	Body struct {
		Symbols []string `json:"symbols"`
	}
}

type addSymbolOutput struct {
	Body struct {
		Symbol  string   `json:"symbol"`
		Added   bool     `json:"added"`
		Symbols []string `json:"symbols"`
	}
}

func registerWatchlistHandlers(api huma.API, d Deps) {
	huma.Register(api, huma.Operation{OperationID: "get-watchlist", Method: http.MethodGet, Path: "/api/v1/watchlist", Summary: "List watchlist symbols in order", Tags: []string{"Watchlist"}},
		func(ctx context.Context, input *struct{}) (*watchlistOutput, error) {
			out := &watchlistOutput{}
			out.Body.Symbols = d.Watchlist.Symbols()
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "add-watchlist-symbol", Method: http.MethodPost, Path: "/api/v1/watchlist", Summary: "Add a symbol to the watchlist", Tags: []string{"Watchlist"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Symbol string `json:"symbol" required:"true"`
			}
		}) (*addSymbolOutput, error) {
			sym := model.NormalizeSymbol(input.Body.Symbol)
			if sym == "" {
				return nil, mapErr(errInvalidSymbol)
			}
			out := &addSymbolOutput{}
			out.Body.Symbol = sym
			out.Body.Added = d.Watchlist.Add(sym)
			out.Body.Symbols = d.Watchlist.Symbols()
			return out, nil
		})

	// Removing a symbol keeps its cached data.
	huma.Register(api, huma.Operation{OperationID: "remove-watchlist-symbol", Method: http.MethodDelete, Path: "/api/v1/watchlist/{symbol}", Summary: "Remove a symbol from the watchlist", Tags: []string{"Watchlist"}},
		func(ctx context.Context, input *symbolInput) (*watchlistOutput, error) {
			if !d.Watchlist.Remove(input.Symbol) {
				return nil, mapErr(errNotWatched)
			}
			out := &watchlistOutput{}
			out.Body.Symbols = d.Watchlist.Symbols()
			return out, nil
		})
}
