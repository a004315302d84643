package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"WatchDesk/internal/calculator"
	"WatchDesk/internal/model"
)

type symbolInput struct {
	Symbol string `path:"symbol" doc:"Ticker symbol, case-insensitive"`
}

type symbolView struct {
	Symbol             string                `json:"symbol"`
	News               []model.NewsItem      `json:"news"`
	Sentiment          model.SentimentReport `json:"sentiment"`
	LatestMSPR         *float64              `json:"latest_mspr"`
	Label              string                `json:"label,omitempty"`
	NewsUpdatedAt      time.Time             `json:"news_updated_at,omitzero"`
	SentimentUpdatedAt time.Time             `json:"sentiment_updated_at,omitzero"`
	OnWatchlist        bool                  `json:"on_watchlist"`
	InProgress         bool                  `json:"in_progress"`
	LastOutcome        *model.RefreshOutcome `json:"last_outcome,omitempty"`
}

type symbolOutput struct {
	Body symbolView
}

type newsOutput struct {
	Body struct {
		Symbol string           `json:"symbol"`
		News   []model.NewsItem `json:"news"`
	}
}

type sentimentOutput struct {
	Body struct {
		Symbol     string                `json:"symbol"`
		Sentiment  model.SentimentReport `json:"sentiment"`
		LatestMSPR *float64              `json:"latest_mspr"`
	}
}

func registerSymbolHandlers(api huma.API, d Deps) {
	huma.Register(api, huma.Operation{OperationID: "get-symbol", Method: http.MethodGet, Path: "/api/v1/symbols/{symbol}", Summary: "Cached news, sentiment and refresh state", Tags: []string{"Symbols"}},
		func(ctx context.Context, input *symbolInput) (*symbolOutput, error) {
			sym := model.NormalizeSymbol(input.Symbol)
			if sym == "" {
				return nil, mapErr(errInvalidSymbol)
			}
			return &symbolOutput{Body: buildSymbolView(d, sym)}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-symbol-news", Method: http.MethodGet, Path: "/api/v1/symbols/{symbol}/news", Summary: "Cached news", Tags: []string{"Symbols"}},
		func(ctx context.Context, input *symbolInput) (*newsOutput, error) {
			sym := model.NormalizeSymbol(input.Symbol)
			if sym == "" {
				return nil, mapErr(errInvalidSymbol)
			}
			out := &newsOutput{}
			out.Body.Symbol = sym
			out.Body.News = d.Cache.News(sym)
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-symbol-sentiment", Method: http.MethodGet, Path: "/api/v1/symbols/{symbol}/sentiment", Summary: "Cached insider sentiment", Tags: []string{"Symbols"}},
		func(ctx context.Context, input *symbolInput) (*sentimentOutput, error) {
			sym := model.NormalizeSymbol(input.Symbol)
			if sym == "" {
				return nil, mapErr(errInvalidSymbol)
			}
			out := &sentimentOutput{}
			out.Body.Symbol = sym
			out.Body.Sentiment = d.Cache.Sentiment(sym)
			if v, ok := d.Cache.LatestMSPR(sym); ok {
				out.Body.LatestMSPR = &v
			}
			return out, nil
		})
}

func buildSymbolView(d Deps, sym string) symbolView {
	e := d.Cache.Get(sym)
	v := symbolView{
		Symbol:             sym,
		News:               e.News,
		Sentiment:          e.Sentiment,
		NewsUpdatedAt:      e.NewsUpdatedAt,
		SentimentUpdatedAt: e.SentimentUpdatedAt,
		OnWatchlist:        d.Watchlist.Contains(sym),
		InProgress:         d.Refresher.InProgress(sym),
	}
	if mspr, ok := calculator.LatestMSPR(&e.Sentiment); ok {
		v.LatestMSPR = &mspr
		v.Label = calculator.SentimentLabel(mspr)
	}
	if last, ok := d.Refresher.LastOutcome(sym); ok {
		v.LastOutcome = &last
	}
	return v
}
