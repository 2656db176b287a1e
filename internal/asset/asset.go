// Package asset models on-chain tokens and signed fixed-point quantities of them.
// Computation stays in big.Int; decimal.Decimal appears only at boundaries
// (parsing user input, display).
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AssetID identifies a token by chain and contract address.
// The symbol is display metadata, never identity.
type AssetID struct {
	chainID uint64
	address common.Address
}

// NewAssetID creates an AssetID for an ERC20 token.
func NewAssetID(chainID uint64, addr common.Address) AssetID {
	return AssetID{chainID: chainID, address: addr}
}

func (id AssetID) ChainID() uint64 {
	return id.chainID
}

func (id AssetID) Address() common.Address {
	return id.address
}

// IsZero reports whether the address is the zero address. Absent pools carry
// zero-address tokens.
func (id AssetID) IsZero() bool {
	return id.address == (common.Address{})
}

func (id AssetID) String() string {
	return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
}

// Equals compares two AssetIDs for equality.
func (id AssetID) Equals(other AssetID) bool {
	return id.chainID == other.chainID && id.address == other.address
}

// Asset is a token's identity plus display metadata.
type Asset struct {
	id       AssetID
	symbol   string
	name     string
	decimals uint8
}

// NewAsset creates a token asset. Decimals above 36 are rejected as
// implausible for an ERC20 and would break fixed-point scaling.
func NewAsset(id AssetID, symbol string, decimals uint8) (*Asset, error) {
	if decimals > 36 {
		return nil, fmt.Errorf("asset: suspicious decimals %d for %s", decimals, id)
	}
	if symbol == "" {
		symbol = shortAddress(id.address)
	}
	return &Asset{id: id, symbol: symbol, decimals: decimals}, nil
}

// MustNewToken creates a token asset and panics on invalid metadata.
// Intended for package-level well-known tokens and tests.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	a, err := NewAsset(NewAssetID(chainID, address), symbol, decimals)
	if err != nil {
		panic(err)
	}
	a.name = name
	return a
}

func (a *Asset) ID() AssetID {
	return a.id
}

func (a *Asset) Symbol() string {
	return a.symbol
}

// Name falls back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

func (a *Asset) Decimals() uint8 {
	return a.decimals
}

func (a *Asset) Address() common.Address {
	return a.id.address
}

func (a *Asset) ChainID() uint64 {
	return a.id.chainID
}

func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by their ID.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id.Equals(other.id)
}

func shortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + ".." + hex[len(hex)-4:]
}
