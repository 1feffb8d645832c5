package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilToken        = errors.New("token: nil token")
	ErrNilRaw          = errors.New("token: nil raw value")
	ErrNegativeAmount  = errors.New("token: negative amount")
	ErrTokenMismatch   = errors.New("token: cannot operate on different tokens")
	ErrNegativeResult  = errors.New("token: operation would result in negative amount")
	ErrTooManyDecimals = errors.New("token: too many decimal places for token")
	ErrDivisionByZero  = errors.New("token: division by zero")
)

// Amount is an immutable Value Object representing a quantity of a token.
// The raw value is always in the smallest native unit.
type Amount struct {
	raw   *big.Int
	token *Token
}

// NewAmount creates an Amount from a raw big.Int value in native units.
func NewAmount(tok *Token, raw *big.Int) Amount {
	if tok == nil {
		panic(ErrNilToken)
	}
	if raw == nil {
		panic(ErrNilRaw)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}

	return Amount{
		raw:   new(big.Int).Set(raw), // defensive copy
		token: tok,
	}
}

// Zero creates a zero Amount for the given token.
func Zero(tok *Token) Amount {
	return NewAmount(tok, big.NewInt(0))
}

// NewAmountFromInt64 creates an Amount from an int64 raw value.
func NewAmountFromInt64(tok *Token, raw int64) Amount {
	if raw < 0 {
		panic(ErrNegativeAmount)
	}
	return NewAmount(tok, big.NewInt(raw))
}

// NewAmountFromUint64 creates an Amount from a uint64 raw value.
func NewAmountFromUint64(tok *Token, raw uint64) Amount {
	return NewAmount(tok, new(big.Int).SetUint64(raw))
}

// Raw returns a copy of the raw big.Int value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.raw)
}

// Token returns the token this amount is denominated in.
func (a Amount) Token() *Token {
	return a.token
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.raw != nil && a.raw.Sign() > 0
}

// Add adds two amounts of the same token.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.checkSameToken(b); err != nil {
		return Amount{}, err
	}
	return NewAmount(a.token, new(big.Int).Add(a.raw, b.raw)), nil
}

// MustAdd adds two amounts, panics on error.
func (a Amount) MustAdd(b Amount) Amount {
	result, err := a.Add(b)
	if err != nil {
		panic(err)
	}
	return result
}

// Sub subtracts b from a (same token only).
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.checkSameToken(b); err != nil {
		return Amount{}, err
	}
	if a.raw.Cmp(b.raw) < 0 {
		return Amount{}, ErrNegativeResult
	}
	return NewAmount(a.token, new(big.Int).Sub(a.raw, b.raw)), nil
}

// MustSub subtracts b from a, panics on error.
func (a Amount) MustSub(b Amount) Amount {
	result, err := a.Sub(b)
	if err != nil {
		panic(err)
	}
	return result
}

// Cmp compares two amounts of the same token.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.checkSameToken(b); err != nil {
		return 0, err
	}
	return a.raw.Cmp(b.raw), nil
}

// Equals returns true if both amounts have the same token and value.
func (a Amount) Equals(b Amount) bool {
	if a.token == nil || b.token == nil {
		return a.token == b.token
	}
	if !a.token.ID().Equals(b.token.ID()) {
		return false
	}
	return a.raw.Cmp(b.raw) == 0
}

// GreaterThanOrEqual returns true if a >= b.
func (a Amount) GreaterThanOrEqual(b Amount) (bool, error) {
	cmp, err := a.Cmp(b)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

// LessThan returns true if a < b.
func (a Amount) LessThan(b Amount) (bool, error) {
	cmp, err := a.Cmp(b)
	if err != nil {
		return false, err
	}
	return cmp < 0, nil
}

// ToDecimal converts the amount to decimal.Decimal for display.
// Boundary function: use for UI and logging, not core math.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil || a.token == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -int32(a.token.Decimals()))
}

// ParseDecimal creates an Amount from a decimal value.
// Boundary function: use for parsing user or config input.
func ParseDecimal(tok *Token, d decimal.Decimal) (Amount, error) {
	if tok == nil {
		return Amount{}, ErrNilToken
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	scaled := d.Shift(int32(tok.Decimals()))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}

	return NewAmount(tok, scaled.BigInt()), nil
}

// ParseString creates an Amount from a string decimal value.
func ParseString(tok *Token, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("token: invalid decimal string: %w", err)
	}
	return ParseDecimal(tok, d)
}

// String returns a human-readable representation (e.g., "1.5 GALA").
func (a Amount) String() string {
	if a.token == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.ToDecimal().String(), a.token.Symbol())
}

func (a Amount) checkSameToken(b Amount) error {
	if a.token == nil || b.token == nil {
		return ErrNilToken
	}
	if !a.token.ID().Equals(b.token.ID()) {
		return fmt.Errorf("%w: %s vs %s", ErrTokenMismatch, a.token.Symbol(), b.token.Symbol())
	}
	return nil
}
