package moex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/retvizor/invest-backend/internal/common/config"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/errs"
	"github.com/sethvargo/go-retry"
)

// Interval is a MOEX ISS candle interval code.
type Interval int

const (
	IntervalMinute Interval = 1
	IntervalDay    Interval = 24
)

const (
	candlesPathFormat = "/iss/engines/stock/markets/shares/securities/%s/candles.json"

	dateLayout = "2006-01-02"
)

type Client struct {
	httpClient *http.Client
	baseURL    string

	retryAttempts uint64
	retryBackoff  time.Duration
}

func NewClient(cfg *config.Moex) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.BaseURL,
		retryAttempts: cfg.RetryAttempts,
		retryBackoff:  cfg.RetryBackoff,
	}
}

// GetDailyCandles fetches daily candles for the ticker starting at the given
// calendar date.
func (c *Client) GetDailyCandles(ctx context.Context, ticker string, from time.Time) ([]*domain.Candle, error) {
	params := url.Values{}
	params.Set("from", from.Format(dateLayout))
	params.Set("interval", fmt.Sprintf("%d", IntervalDay))

	return c.getCandles(ctx, ticker, params)
}

// GetIntradayCandles fetches minute candles for the ticker covering the
// given calendar day.
func (c *Client) GetIntradayCandles(ctx context.Context, ticker string, day time.Time) ([]*domain.Candle, error) {
	params := url.Values{}
	params.Set("from", day.Format(dateLayout)+" 00:00:00")
	params.Set("till", day.Format(dateLayout)+" 23:59:59")
	params.Set("interval", fmt.Sprintf("%d", IntervalMinute))

	return c.getCandles(ctx, ticker, params)
}

func (c *Client) getCandles(ctx context.Context, ticker string, params url.Values) ([]*domain.Candle, error) {
	if ticker == "" {
		return nil, errs.NewStack(fmt.Errorf("empty ticker"))
	}

	uri := c.baseURL + fmt.Sprintf(candlesPathFormat, url.PathEscape(ticker)) + "?" + params.Encode()

	var res candlesResponse

	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewExponential(c.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("moex responded with status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("moex responded with status %d", resp.StatusCode)
		}

		res = candlesResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return fmt.Errorf("failed to decode candles response: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, errs.NewStack(err)
	}

	return res.CreateDomain(ticker)
}
