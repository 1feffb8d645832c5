package token

// Token holds the immutable metadata of a pool token.
// It is a reference entity with stable identity (ID).
type Token struct {
	id       ID
	symbol   string
	name     string
	decimals uint8
}

// New creates a Token with the given parameters.
func New(id ID, symbol string, decimals uint8) *Token {
	if symbol == "" {
		panic("token: empty symbol")
	}
	if decimals > 30 {
		panic("token: suspicious decimals (>30)")
	}

	return &Token{
		id:       id,
		symbol:   symbol,
		decimals: decimals,
	}
}

// NewWithName creates a Token with a human-readable name.
func NewWithName(id ID, symbol, name string, decimals uint8) *Token {
	t := New(id, symbol, decimals)
	t.name = name
	return t
}

// ID returns the unique identifier for this token.
func (t *Token) ID() ID {
	return t.id
}

// Symbol returns the ticker symbol (e.g., "GALA", "GUSDC").
func (t *Token) Symbol() string {
	return t.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (t *Token) Name() string {
	if t.name == "" {
		return t.symbol
	}
	return t.name
}

// Decimals returns the number of decimal places.
func (t *Token) Decimals() uint8 {
	return t.decimals
}

// String returns a human-readable representation.
func (t *Token) String() string {
	return t.symbol
}

// Equals compares two Tokens by their ID.
func (t *Token) Equals(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.id.Equals(other.id)
}
