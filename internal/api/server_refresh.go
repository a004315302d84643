package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"WatchDesk/internal/model"
	"WatchDesk/internal/recorder"
	"WatchDesk/internal/refresh"
)

type refreshSymbolOutput struct {
	Body struct {
		Outcome model.RefreshOutcome `json:"outcome"`
		Message string               `json:"message,omitempty"`
		Symbol  symbolView           `json:"symbol"`
	}
}

type refreshAllOutput struct {
	Body struct {
		HadAnyError bool                            `json:"had_any_error"`
		Failed      []string                        `json:"failed"`
		Message     string                          `json:"message,omitempty"`
		Symbols     []string                        `json:"symbols"`
		Outcomes    map[string]model.RefreshOutcome `json:"outcomes"`
		StartedAt   time.Time                       `json:"started_at"`
		FinishedAt  time.Time                       `json:"finished_at"`
	}
}

type historyOutput struct {
	Body struct {
		Records []recorder.RefreshRecord `json:"records"`
	}
}

// Refreshes run detached from the request: a client that disconnects does
// not stop in-flight fetches, and results still land in the cache.
func registerRefreshHandlers(api huma.API, d Deps) {
	huma.Register(api, huma.Operation{OperationID: "refresh-symbol", Method: http.MethodPost, Path: "/api/v1/symbols/{symbol}/refresh", Summary: "Refresh one symbol", Tags: []string{"Refresh"}},
		func(ctx context.Context, input *symbolInput) (*refreshSymbolOutput, error) {
			sym := model.NormalizeSymbol(input.Symbol)
			if sym == "" {
				return nil, mapErr(errInvalidSymbol)
			}
			outcome := d.Refresher.RefreshSymbol(context.WithoutCancel(ctx), sym)

			out := &refreshSymbolOutput{}
			out.Body.Outcome = outcome
			if outcome.Failed() {
				out.Body.Message = refresh.PartialFailureMessage
			}
			out.Body.Symbol = buildSymbolView(d, sym)
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "refresh-all", Method: http.MethodPost, Path: "/api/v1/refresh", Summary: "Refresh every watchlist symbol in order", Tags: []string{"Refresh"}},
		func(ctx context.Context, input *struct{}) (*refreshAllOutput, error) {
			agg := d.Refresher.RefreshAll(context.WithoutCancel(ctx), d.Watchlist.Symbols())

			out := &refreshAllOutput{}
			out.Body.HadAnyError = agg.HadAnyError
			out.Body.Failed = agg.Failed
			out.Body.Message = refresh.StatusMessage(agg)
			out.Body.Symbols = agg.Symbols
			out.Body.Outcomes = agg.Outcomes
			out.Body.StartedAt = agg.StartedAt
			out.Body.FinishedAt = agg.FinishedAt
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "refresh-history", Method: http.MethodGet, Path: "/api/v1/refresh/history", Summary: "Recent refresh attempts, newest first", Tags: []string{"Refresh"}},
		func(ctx context.Context, input *struct {
			Symbol string `query:"symbol" doc:"Only records for this symbol"`
			Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
		}) (*historyOutput, error) {
			records, err := d.Recorder.RecentRefreshes(input.Symbol, input.Limit)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &historyOutput{}
			out.Body.Records = records
			return out, nil
		})
}
