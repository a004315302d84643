package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"WatchDesk/internal/model"
)

// getJSON issues a GET and returns the raw body of a 200 response.
func getJSON(ctx context.Context, client *http.Client, endpoint string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}
	return body, nil
}

// decodeNews decodes a news list. A body that is valid JSON but not an array
// (an error object, null) yields an empty list.
func decodeNews(body []byte) ([]model.NewsItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if len(trimmed) > 0 && !json.Valid(trimmed) {
			return nil, fmt.Errorf("decode news: invalid JSON")
		}
		return []model.NewsItem{}, nil
	}
	var items []model.NewsItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}
	if items == nil {
		items = []model.NewsItem{}
	}
	return items, nil
}

// decodeSentiment decodes an insider sentiment report. null or an empty body
// yields an empty report.
func decodeSentiment(body []byte) (*model.SentimentReport, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &model.SentimentReport{}, nil
	}
	var report model.SentimentReport
	if err := json.Unmarshal(trimmed, &report); err != nil {
		return nil, fmt.Errorf("decode sentiment: %w", err)
	}
	return &report, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
