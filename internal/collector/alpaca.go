package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"StockPilot/internal/model"
)

// AlpacaFetcher implements PriceFetcher against the Alpaca market data API.
type AlpacaFetcher struct {
	BaseURL   string
	KeyID     string
	SecretKey string
	Timeframe string // e.g. "1Hour", "1Day"
	TPM       int    // bars per trading day for the configured timeframe
	Client    *http.Client

	limiter *rate.Limiter
}

// NewAlpacaFetcher creates a fetcher for the given data endpoint. Requests
// are rate limited to stay under the free-tier quota (200/min).
func NewAlpacaFetcher(baseURL, keyID, secretKey, timeframe string, tpm int) *AlpacaFetcher {
	return &AlpacaFetcher{
		BaseURL:   baseURL,
		KeyID:     keyID,
		SecretKey: secretKey,
		Timeframe: timeframe,
		TPM:       tpm,
		Client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(200.0/60.0), 5),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// alpacaBar is the bar shape returned by the Alpaca v2 bars endpoint.
type alpacaBar struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

type alpacaBarsResponse struct {
	Bars          []alpacaBar `json:"bars"`
	Symbol        string      `json:"symbol"`
	NextPageToken *string     `json:"next_page_token"`
}

// FetchBars retrieves raw bars for [start, end], following pagination until
// the range is exhausted. An empty result maps to model.ErrNoData.
func (f *AlpacaFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	var bars []model.OHLCV
	pageToken := ""

	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		q := url.Values{}
		q.Set("timeframe", f.Timeframe)
		q.Set("start", start.Format(time.RFC3339))
		q.Set("end", end.Format(time.RFC3339))
		q.Set("adjustment", "raw")
		q.Set("limit", "10000")
		if pageToken != "" {
			q.Set("page_token", pageToken)
		}
		endpoint := fmt.Sprintf("%s/v2/stocks/%s/bars?%s", f.BaseURL, url.PathEscape(symbol), q.Encode())

		var page alpacaBarsResponse
		if err := f.getJSON(ctx, endpoint, &page); err != nil {
			return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
		}
		for _, b := range page.Bars {
			bars = append(bars, model.OHLCV{
				Time:   b.Time,
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			})
		}
		if page.NextPageToken == nil || *page.NextPageToken == "" {
			break
		}
		pageToken = *page.NextPageToken
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("alpaca: %s: %w", symbol, model.ErrNoData)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return &model.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		TPM:       f.TPM,
		FetchedAt: time.Now(),
	}, nil
}

func (f *AlpacaFetcher) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("APCA-API-KEY-ID", f.KeyID)
	req.Header.Set("APCA-API-SECRET-KEY", f.SecretKey)

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
