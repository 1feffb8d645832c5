// Package token provides a type-safe model for pool tokens.
// The core uses big.Int for exact native-unit arithmetic;
// decimal.Decimal appears only at boundaries (parsing, display).
package token

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// ID uniquely identifies a token by its address-like key.
// The symbol is NOT identity, just display metadata.
type ID struct {
	address common.Address
}

// NewID creates an ID from an address.
func NewID(addr common.Address) ID {
	return ID{address: addr}
}

// IDFromHex creates an ID from a hex string. Panics on an invalid
// address, which indicates a programming or fixture error.
func IDFromHex(s string) ID {
	if !common.IsHexAddress(s) {
		panic("token: invalid address " + s)
	}
	return ID{address: common.HexToAddress(s)}
}

// Address returns the underlying address.
func (id ID) Address() common.Address {
	return id.address
}

// Less reports whether id orders before other under the byte-wise total
// order. Pools use this order to fix token0 < token1.
func (id ID) Less(other ID) bool {
	return bytes.Compare(id.address.Bytes(), other.address.Bytes()) < 0
}

// Equals compares two IDs for equality.
func (id ID) Equals(other ID) bool {
	return id.address == other.address
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id.address == (common.Address{})
}

// String returns the hex form of the key.
func (id ID) String() string {
	return id.address.Hex()
}
