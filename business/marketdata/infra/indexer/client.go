package indexer

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/0xmoleclub/gSwap/business/marketdata/domain"
	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/httpclient"
	"github.com/0xmoleclub/gSwap/internal/logger"
)

const (
	tokensPath      = "/v1/tokens"
	poolsPath       = "/v1/pools"
	routeProfitPath = "/v1/route-profit"
)

// ClientConfig holds the indexer connection settings.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// Client queries the indexer's HTTP surface.
type Client struct {
	http httpclient.Client
	log  logger.LoggerInterface
}

// NewClient creates an indexer client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	http, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("indexer"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &Client{http: http, log: log}, nil
}

// ListTokens fetches the token catalog.
func (c *Client) ListTokens(ctx context.Context) ([]domain.TokenInfo, error) {
	var parsed tokenListResponse
	resp, err := c.http.NewRequest().SetResult(&parsed).Get(ctx, tokensPath)
	if err != nil {
		return nil, apperror.External(apperror.CodeProviderUnavailable, "token listing", err)
	}
	if resp.IsError() {
		return nil, apperror.External(apperror.CodeProviderUnavailable,
			fmt.Sprintf("token listing returned status %d", resp.StatusCode), nil)
	}

	out := make([]domain.TokenInfo, 0, len(parsed.Tokens))
	for _, t := range parsed.Tokens {
		out = append(out, t.toDomain())
	}
	return out, nil
}

// ListPools fetches all pool snapshots.
func (c *Client) ListPools(ctx context.Context) ([]domain.PoolSnapshot, error) {
	return c.fetchPools(ctx, c.http.NewRequest())
}

// PoolsForToken fetches the pools containing the given symbol.
func (c *Client) PoolsForToken(ctx context.Context, symbol string) ([]domain.PoolSnapshot, error) {
	return c.fetchPools(ctx, c.http.NewRequest().SetQueryParam("token", symbol))
}

func (c *Client) fetchPools(ctx context.Context, req httpclient.Request) ([]domain.PoolSnapshot, error) {
	var parsed poolListResponse
	resp, err := req.SetResult(&parsed).Get(ctx, poolsPath)
	if err != nil {
		return nil, apperror.External(apperror.CodeProviderUnavailable, "pool listing", err)
	}
	if resp.IsError() {
		return nil, apperror.External(apperror.CodeProviderUnavailable,
			fmt.Sprintf("pool listing returned status %d", resp.StatusCode), nil)
	}

	out := make([]domain.PoolSnapshot, 0, len(parsed.Pools))
	for _, p := range parsed.Pools {
		snap, err := p.toDomain()
		if err != nil {
			// One malformed pool must not hide the rest.
			c.log.Warn(ctx, "skipping malformed pool snapshot", "pair", p.Pair, "error", err)
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

// RouteProfit requests a server-side route estimate.
func (c *Client) RouteProfit(ctx context.Context, route []string, amountIn *big.Int) (*domain.RouteEstimate, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, apperror.Validation(apperror.CodeZeroAmount, "amountIn must be positive")
	}

	var parsed routeProfitResponse
	resp, err := c.http.NewRequest().
		SetBody(routeProfitRequest{Route: route, AmountIn: amountIn.String()}).
		SetResult(&parsed).
		Post(ctx, routeProfitPath)
	if err != nil {
		return nil, apperror.External(apperror.CodeProviderUnavailable, "route estimate", err)
	}
	if resp.IsError() {
		return nil, apperror.External(apperror.CodeProviderUnavailable,
			fmt.Sprintf("route estimate returned status %d", resp.StatusCode), nil)
	}

	return parsed.toDomain()
}
