package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDGnosis   = 100
)

// Collateral tokens futarchy markets are commonly split from on Gnosis Chain.
var (
	AddrSDAIGnosis  = common.HexToAddress("0xaf204776c7245bF4147c2612BF6e5972Ee483701")
	AddrGNOGnosis   = common.HexToAddress("0x9C58BAcC331c9aa871AFD802DB6379a98e80CEdb")
	AddrWXDAIGnosis = common.HexToAddress("0xe91D153E0b41518A2Ce8Dd3D7944Fa863463a97d")

	SDAI  = MustNewToken(ChainIDGnosis, AddrSDAIGnosis, "sDAI", "Savings xDAI", 18)
	GNO   = MustNewToken(ChainIDGnosis, AddrGNOGnosis, "GNO", "Gnosis", 18)
	WXDAI = MustNewToken(ChainIDGnosis, AddrWXDAIGnosis, "WXDAI", "Wrapped XDAI", 18)
)

// DefaultRegistry returns a registry pre-populated with well-known collateral.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SDAI)
	r.Register(GNO)
	r.Register(WXDAI)
	return r
}
