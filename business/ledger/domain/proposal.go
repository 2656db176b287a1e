// Package domain contains the ledger-side view of a futarchy proposal.
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	curve "github.com/futarchy-fi/futarchy-orchestrator/business/curve/domain"
)

// OutcomeIndex selects one of the proposal's wrapped conditional tokens.
type OutcomeIndex int64

const (
	YesCompany OutcomeIndex = iota
	NoCompany
	YesCurrency
	NoCurrency
)

func (i OutcomeIndex) String() string {
	switch i {
	case YesCompany:
		return "YES_COMPANY"
	case NoCompany:
		return "NO_COMPANY"
	case YesCurrency:
		return "YES_CURRENCY"
	case NoCurrency:
		return "NO_CURRENCY"
	}
	return "UNKNOWN"
}

// BigInt returns the index as a contract argument.
func (i OutcomeIndex) BigInt() *big.Int {
	return big.NewInt(int64(i))
}

// OutcomeTokens are the four conditional tokens wrapped by a proposal.
type OutcomeTokens struct {
	Proposal    common.Address
	YesCompany  common.Address
	NoCompany   common.Address
	YesCurrency common.Address
	NoCurrency  common.Address
}

// Pair returns the (company, currency) tokens for one side of the market.
func (t OutcomeTokens) Pair(yes bool) (company, currency common.Address) {
	if yes {
		return t.YesCompany, t.YesCurrency
	}
	return t.NoCompany, t.NoCurrency
}

// PoolState is the raw on-chain state of one pool at a block.
type PoolState struct {
	Address      common.Address
	Token0       common.Address
	Token1       common.Address
	SqrtPriceX96 *uint256.Int
	Tick         int32
	FeePips      uint32
	Liquidity    *uint256.Int
	Block        uint64
}

// ProposalPools holds the YES and NO pools of a proposal read at one block.
// A nil pool with a nil error means the factory has no pool for that pair.
// A side whose read failed keeps its error, and its pool (when the address
// is known) carries only that address.
type ProposalPools struct {
	Tokens OutcomeTokens
	Block  uint64
	Yes    *curve.CurvePool
	No     *curve.CurvePool
	YesErr error
	NoErr  error
}

// Pool returns the YES or NO pool.
func (p *ProposalPools) Pool(yes bool) *curve.CurvePool {
	if yes {
		return p.Yes
	}
	return p.No
}

// Err returns the read error of the YES or NO side.
func (p *ProposalPools) Err(yes bool) error {
	if yes {
		return p.YesErr
	}
	return p.NoErr
}
