// Package backoffice reads trades and account records from the broker's
// back-office reporting API.
package backoffice

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"quickclose-report/internal/config"
	"quickclose-report/internal/models"
	"quickclose-report/internal/source"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxIDsPerRequest keeps query strings well under common URL limits.
const maxIDsPerRequest = 200

// Client is a client for the back-office reporting API.
// It implements source.Source.
type Client struct {
	client     *resty.Client
	apiKey     string
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
}

var _ source.Source = (*Client)(nil)

// NewClient creates a new back-office API client.
func NewClient(cfg *config.API, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		client:     client,
		apiKey:     cfg.ApiKey,
		logger:     logger.Named("backoffice"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		maxRetries: maxRetries,
	}
}

// doRequest executes req with rate limiting. 429 and 5xx responses, and
// transport errors, are retried with exponential backoff up to maxRetries attempts.
func (c *Client) doRequest(ctx context.Context, path string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	for i := 0; i < c.maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("url", c.client.BaseURL+path))
		resp, err = req.SetContext(ctx).SetHeader("X-API-Key", c.apiKey).Get(path)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
			err = fmt.Errorf("status %s: %s", resp.Status(), resp.String())
		} else {
			shouldRetry = true
		}

		if !shouldRetry || i == c.maxRetries-1 {
			break
		}

		if retryAfter == 0 {
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.String("path", path),
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("GET %s: %w: %w", path, source.ErrUnavailable, err)
}

// Trades fetches trades opened or closed within [start, end].
func (c *Client) Trades(ctx context.Context, start, end time.Time) ([]models.Trade, error) {
	req := c.client.R().
		SetQueryParam("from", strconv.FormatInt(start.Unix(), 10)).
		SetQueryParam("to", strconv.FormatInt(end.Unix(), 10)).
		SetResult(&[]models.Trade{})

	resp, err := c.doRequest(ctx, "/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}

	trades := *resp.Result().(*[]models.Trade)
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].ID < trades[j].ID })
	c.logger.Debug("Fetched trades", zap.Int("count", len(trades)))
	return trades, nil
}

// Accounts fetches the accounts of logins whose type matches types.
func (c *Client) Accounts(ctx context.Context, logins []int64, types []string) ([]models.Account, error) {
	var accounts []models.Account
	for _, batch := range source.Chunk(logins, maxIDsPerRequest) {
		params := idValues("login", batch)
		for _, t := range types {
			params.Add("type", t)
		}

		req := c.client.R().SetQueryParamsFromValues(params).SetResult(&[]models.Account{})
		resp, err := c.doRequest(ctx, "/accounts", req)
		if err != nil {
			return nil, fmt.Errorf("failed to get accounts: %w", err)
		}
		accounts = append(accounts, *resp.Result().(*[]models.Account)...)
	}
	return accounts, nil
}

// Customers fetches customers by id.
func (c *Client) Customers(ctx context.Context, ids []int64) ([]models.Customer, error) {
	var customers []models.Customer
	for _, batch := range source.Chunk(ids, maxIDsPerRequest) {
		req := c.client.R().SetQueryParamsFromValues(idValues("id", batch)).SetResult(&[]models.Customer{})
		resp, err := c.doRequest(ctx, "/customers", req)
		if err != nil {
			return nil, fmt.Errorf("failed to get customers: %w", err)
		}
		customers = append(customers, *resp.Result().(*[]models.Customer)...)
	}
	return customers, nil
}

// Countries fetches countries by id.
func (c *Client) Countries(ctx context.Context, ids []int64) ([]models.Country, error) {
	var countries []models.Country
	for _, batch := range source.Chunk(ids, maxIDsPerRequest) {
		req := c.client.R().SetQueryParamsFromValues(idValues("id", batch)).SetResult(&[]models.Country{})
		resp, err := c.doRequest(ctx, "/countries", req)
		if err != nil {
			return nil, fmt.Errorf("failed to get countries: %w", err)
		}
		countries = append(countries, *resp.Result().(*[]models.Country)...)
	}
	return countries, nil
}

func idValues(key string, ids []int64) url.Values {
	params := url.Values{}
	for _, id := range ids {
		params.Add(key, strconv.FormatInt(id, 10))
	}
	return params
}
