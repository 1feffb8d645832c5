package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/httpclient"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/ratelimit"
	"github.com/0xmoleclub/gSwap/internal/token"
)

const decidePath = "/v1/decisions"

// Config holds the oracle client settings.
type Config struct {
	Endpoint       string
	APIKey         string
	RequestTimeout time.Duration
	MaxRetries     int
	InitialBackoff time.Duration

	RequestsPerMinute int
}

// Client consults the external decision service. Every failure path
// resolves to the conservative default decision: the client never
// returns an error from Decide and never blocks past its per-attempt
// timeout budget.
type Client struct {
	http    httpclient.Client
	breaker *gobreaker.CircuitBreaker[*httpclient.Response]
	limiter *ratelimit.Limiter
	cfg     Config

	pools  *ammapp.PoolRegistry
	tokens *token.Registry
	log    logger.LoggerInterface
}

// NewClient creates an oracle client.
func NewClient(cfg Config, pools *ammapp.PoolRegistry, tokens *token.Registry, log logger.LoggerInterface) (*Client, error) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}

	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	http, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("oracle"),
		httpclient.WithBaseURL(cfg.Endpoint),
		httpclient.WithHeaders(headers),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker[*httpclient.Response](gobreaker.Settings{
		Name:    "oracle",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		http:    http,
		breaker: breaker,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		cfg:     cfg,
		pools:   pools,
		tokens:  tokens,
		log:     log,
	}, nil
}

// Decide sends the opportunity summary and parses the structured
// decision. Transient failures are retried up to MaxRetries attempts
// with doubling backoff; exhausted retries, an open breaker or a
// malformed response all yield the conservative default.
func (c *Client) Decide(ctx context.Context, opp *domain.Opportunity) (domain.Decision, error) {
	request := c.buildRequest(opp)

	var lastErr error
	backoff := c.cfg.InitialBackoff

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.Conservative("oracle rate limiter interrupted: " + err.Error()), nil
		}

		decision, err := c.attempt(ctx, request)
		if err == nil {
			return decision, nil
		}
		lastErr = err

		if apperror.IsCode(err, apperror.CodeOracleParseError) {
			// Malformed output is not transient; fail closed now.
			c.log.Warn(ctx, "oracle response failed strict parse", "error", err)
			return domain.Conservative("oracle response unparseable: " + err.Error()), nil
		}

		c.log.Warn(ctx, "oracle attempt failed",
			"attempt", attempt,
			"maxRetries", c.cfg.MaxRetries,
			"error", err)

		if attempt < c.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return domain.Conservative("oracle query cancelled: " + ctx.Err().Error()), nil
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	reason := fmt.Sprintf("oracle retries exhausted after %d attempts: %v", c.cfg.MaxRetries, lastErr)
	c.log.Warn(ctx, "falling back to conservative decision", "reason", reason)
	return domain.Conservative(reason), nil
}

// attempt performs one bounded request/parse round trip.
func (c *Client) attempt(ctx context.Context, request decisionRequest) (domain.Decision, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	resp, err := c.breaker.Execute(func() (*httpclient.Response, error) {
		return c.http.NewRequest().
			SetBody(request).
			Post(attemptCtx, decidePath)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Decision{}, apperror.External(apperror.CodeCircuitOpen, "oracle breaker open", err)
	}
	if err != nil {
		return domain.Decision{}, apperror.External(apperror.CodeOracleUnavailable, "oracle request failed", err)
	}

	if resp.StatusCode == 429 {
		return domain.Decision{}, apperror.External(apperror.CodeOracleRateLimited, "oracle rate limited", nil)
	}
	if resp.IsError() {
		return domain.Decision{}, apperror.External(apperror.CodeOracleUnavailable,
			fmt.Sprintf("oracle returned status %d", resp.StatusCode), nil)
	}

	var parsed decisionResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return domain.Decision{}, apperror.External(apperror.CodeOracleParseError, "malformed oracle response", err)
	}
	decision, err := parsed.toDecision()
	if err != nil {
		return domain.Decision{}, apperror.External(apperror.CodeOracleParseError, err.Error(), err)
	}
	return decision, nil
}

// buildRequest summarizes the opportunity and its constituent pools.
func (c *Client) buildRequest(opp *domain.Opportunity) decisionRequest {
	routeIDs := opp.Route.Tokens()
	route := make([]string, 0, len(routeIDs))
	for _, id := range routeIDs {
		if t, ok := c.tokens.Get(id); ok {
			route = append(route, t.Symbol())
		} else {
			route = append(route, id.String())
		}
	}

	var snapshots []poolSnapshot
	for i := 0; i < opp.Route.Hops(); i++ {
		in, out := opp.Route.Hop(i)
		pool, ok := c.pools.Get(in, out)
		if !ok {
			continue
		}
		r0, r1 := pool.Reserves()
		snapshots = append(snapshots, poolSnapshot{
			Pair:     pool.Symbol(),
			Reserve0: r0.String(),
			Reserve1: r1.String(),
			FeeBps:   pool.FeeBps(),
		})
	}

	return decisionRequest{
		Route:         route,
		AmountIn:      opp.AmountIn.String(),
		AmountOut:     opp.AmountOut.String(),
		GrossProfit:   opp.GrossProfit.String(),
		NetProfit:     opp.NetProfit.String(),
		ProfitPercent: opp.ProfitPercent.StringFixed(6),
		EstimatedCost: opp.EstimatedCost.String(),
		Hops:          opp.Route.Hops(),
		Pools:         snapshots,
	}
}
