// Package indexer implements the market data provider against the
// external indexer's HTTP query surface and websocket reserve feed.
package indexer

import (
	"math/big"
	"time"

	"github.com/0xmoleclub/gSwap/business/marketdata/domain"
	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/shopspring/decimal"
)

type tokenListResponse struct {
	Tokens []tokenMessage `json:"tokens"`
}

type tokenMessage struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

type poolListResponse struct {
	Pools []poolMessage `json:"pools"`
}

type poolMessage struct {
	Pair      string    `json:"pair"`
	Token0    string    `json:"token0"`
	Token1    string    `json:"token1"`
	Reserve0  string    `json:"reserve0"`
	Reserve1  string    `json:"reserve1"`
	FeeBps    int64     `json:"feeBps"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type routeProfitRequest struct {
	Route    []string `json:"route"`
	AmountIn string   `json:"amountIn"`
}

type routeProfitResponse struct {
	Route         []string `json:"route"`
	AmountIn      string   `json:"amountIn"`
	AmountOut     string   `json:"amountOut"`
	ProfitPercent string   `json:"profitPercent"`
}

// reserveUpdateMessage is one frame from the reserve feed.
type reserveUpdateMessage struct {
	Pair     string    `json:"pair"`
	Token0   string    `json:"token0"`
	Token1   string    `json:"token1"`
	Reserve0 string    `json:"reserve0"`
	Reserve1 string    `json:"reserve1"`
	Sequence uint64    `json:"sequence"`
	At       time.Time `json:"at"`
}

func (m tokenMessage) toDomain() domain.TokenInfo {
	return domain.TokenInfo{
		Symbol:   m.Symbol,
		Name:     m.Name,
		Address:  m.Address,
		Decimals: m.Decimals,
	}
}

func (m poolMessage) toDomain() (domain.PoolSnapshot, error) {
	r0, err := parseAmount(m.Reserve0)
	if err != nil {
		return domain.PoolSnapshot{}, err
	}
	r1, err := parseAmount(m.Reserve1)
	if err != nil {
		return domain.PoolSnapshot{}, err
	}
	return domain.PoolSnapshot{
		Pair:      m.Pair,
		Token0:    m.Token0,
		Token1:    m.Token1,
		Reserve0:  r0,
		Reserve1:  r1,
		FeeBps:    m.FeeBps,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (m routeProfitResponse) toDomain() (*domain.RouteEstimate, error) {
	amountIn, err := parseAmount(m.AmountIn)
	if err != nil {
		return nil, err
	}
	amountOut, err := parseAmount(m.AmountOut)
	if err != nil {
		return nil, err
	}
	pct, err := decimal.NewFromString(m.ProfitPercent)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidFormat, "profitPercent "+m.ProfitPercent)
	}
	return &domain.RouteEstimate{
		Route:         m.Route,
		AmountIn:      amountIn,
		AmountOut:     amountOut,
		ProfitPercent: pct,
	}, nil
}

func (m reserveUpdateMessage) toDomain() (domain.ReserveUpdate, error) {
	r0, err := parseAmount(m.Reserve0)
	if err != nil {
		return domain.ReserveUpdate{}, err
	}
	r1, err := parseAmount(m.Reserve1)
	if err != nil {
		return domain.ReserveUpdate{}, err
	}
	return domain.ReserveUpdate{
		Pair:     m.Pair,
		Token0:   m.Token0,
		Token1:   m.Token1,
		Reserve0: r0,
		Reserve1: r1,
		Sequence: m.Sequence,
		At:       m.At,
	}, nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, apperror.Validation(apperror.CodeInvalidFormat, "amount "+s)
	}
	return v, nil
}
