package indexer

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/business/marketdata/domain"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/token"
	"github.com/0xmoleclub/gSwap/internal/wsconn"
)

const meterName = "indexer_feed"

// FeedConfig holds the reserve feed settings.
type FeedConfig struct {
	WebSocketURL   string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// OnState, when set, is notified on every connection state change.
	OnState func(connected bool)
}

type feedMetrics struct {
	updatesApplied metric.Int64Counter
	updatesDropped metric.Int64Counter
	parseErrors    metric.Int64Counter
}

// Feed consumes live reserve updates over the websocket and applies
// them to the local pool registry, keeping cached reserves current
// between polls. Out-of-order frames are dropped by sequence.
type Feed struct {
	cfg    FeedConfig
	conn   *wsconn.Client
	pools  *ammapp.PoolRegistry
	tokens *token.Registry
	log    logger.LoggerInterface

	metrics  *feedMetrics
	lastSeen map[string]uint64
}

// NewFeed creates a reserve feed.
func NewFeed(cfg FeedConfig, pools *ammapp.PoolRegistry, tokens *token.Registry, log logger.LoggerInterface) (*Feed, error) {
	wsCfg := wsconn.DefaultConfig(cfg.WebSocketURL)
	if cfg.InitialBackoff > 0 {
		wsCfg.InitialBackoff = cfg.InitialBackoff
	}
	if cfg.MaxBackoff > 0 {
		wsCfg.MaxBackoff = cfg.MaxBackoff
	}

	f := &Feed{
		cfg:      cfg,
		conn:     wsconn.New(wsCfg),
		pools:    pools,
		tokens:   tokens,
		log:      log,
		lastSeen: make(map[string]uint64),
	}
	if err := f.initMetrics(); err != nil {
		return nil, err
	}

	f.conn.OnStateChange(func(state wsconn.State) {
		log.Info(context.Background(), "reserve feed state changed", "state", string(state))
		if cfg.OnState != nil {
			cfg.OnState(state == wsconn.StateConnected)
		}
	})

	return f, nil
}

func (f *Feed) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	f.metrics = &feedMetrics{}
	if f.metrics.updatesApplied, err = meter.Int64Counter(
		"reserve_updates_applied_total",
		metric.WithDescription("Reserve updates applied to the pool registry"),
	); err != nil {
		return err
	}
	if f.metrics.updatesDropped, err = meter.Int64Counter(
		"reserve_updates_dropped_total",
		metric.WithDescription("Reserve updates dropped as stale or unknown"),
	); err != nil {
		return err
	}
	if f.metrics.parseErrors, err = meter.Int64Counter(
		"reserve_feed_parse_errors_total",
		metric.WithDescription("Unparseable reserve feed frames"),
	); err != nil {
		return err
	}
	return nil
}

// Start connects and consumes updates until the context is cancelled.
func (f *Feed) Start(ctx context.Context) error {
	if err := f.conn.Connect(ctx); err != nil {
		return err
	}

	go f.consume(ctx)

	f.log.Info(ctx, "reserve feed started", "url", f.cfg.WebSocketURL)
	return nil
}

// Close shuts the feed down.
func (f *Feed) Close() error {
	return f.conn.Close()
}

func (f *Feed) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-f.conn.Messages():
			if !ok {
				return
			}
			f.handleFrame(ctx, data)
		}
	}
}

func (f *Feed) handleFrame(ctx context.Context, data []byte) {
	var msg reserveUpdateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		f.metrics.parseErrors.Add(ctx, 1)
		f.log.Debug(ctx, "unparseable reserve frame", "error", err)
		return
	}

	update, err := msg.toDomain()
	if err != nil {
		f.metrics.parseErrors.Add(ctx, 1)
		f.log.Debug(ctx, "malformed reserve update", "pair", msg.Pair, "error", err)
		return
	}

	f.apply(ctx, update)
}

// apply pushes one update into the matching pool. The feed is the only
// sequence consumer, so lastSeen needs no locking.
func (f *Feed) apply(ctx context.Context, update domain.ReserveUpdate) {
	if last, ok := f.lastSeen[update.Pair]; ok && update.Sequence <= last {
		f.metrics.updatesDropped.Add(ctx, 1)
		return
	}

	t0, ok0 := f.tokens.GetBySymbol(update.Token0)
	t1, ok1 := f.tokens.GetBySymbol(update.Token1)
	if !ok0 || !ok1 {
		f.metrics.updatesDropped.Add(ctx, 1)
		f.log.Debug(ctx, "reserve update for unknown tokens",
			"pair", update.Pair, "token0", update.Token0, "token1", update.Token1)
		return
	}

	pool, ok := f.pools.Get(t0.ID(), t1.ID())
	if !ok {
		f.metrics.updatesDropped.Add(ctx, 1)
		f.log.Debug(ctx, "reserve update for unknown pool", "pair", update.Pair)
		return
	}

	reserve0, reserve1 := update.Reserve0, update.Reserve1
	if !pool.Token0().ID().Equals(t0.ID()) {
		reserve0, reserve1 = reserve1, reserve0
	}
	if err := pool.SyncReserves(reserve0, reserve1); err != nil {
		f.metrics.updatesDropped.Add(ctx, 1)
		f.log.Warn(ctx, "reserve sync rejected", "pair", update.Pair, "error", err)
		return
	}

	f.lastSeen[update.Pair] = update.Sequence
	f.metrics.updatesApplied.Add(ctx, 1)
}
