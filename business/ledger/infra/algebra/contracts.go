// Package algebra reads futarchy proposals and their Algebra pools over JSON-RPC.
package algebra

// ProposalABI covers the wrapped outcome token lookup on a futarchy proposal.
const ProposalABI = `[
	{
		"inputs": [{"internalType": "uint256", "name": "index", "type": "uint256"}],
		"name": "wrappedOutcome",
		"outputs": [
			{"internalType": "contract IERC20", "name": "wrapped1155", "type": "address"},
			{"internalType": "bytes", "name": "data", "type": "bytes"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// FactoryABI covers the pool lookup on the Algebra factory.
const FactoryABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "", "type": "address"},
			{"internalType": "address", "name": "", "type": "address"}
		],
		"name": "poolByPair",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// PoolABI covers the pool state reads.
const PoolABI = `[
	{
		"inputs": [],
		"name": "globalState",
		"outputs": [
			{"internalType": "uint160", "name": "price", "type": "uint160"},
			{"internalType": "int24", "name": "tick", "type": "int24"},
			{"internalType": "uint16", "name": "fee", "type": "uint16"},
			{"internalType": "uint16", "name": "timepointIndex", "type": "uint16"},
			{"internalType": "uint8", "name": "communityFeeToken0", "type": "uint8"},
			{"internalType": "uint8", "name": "communityFeeToken1", "type": "uint8"},
			{"internalType": "bool", "name": "unlocked", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "liquidity",
		"outputs": [{"internalType": "uint128", "name": "", "type": "uint128"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token0",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token1",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// ERC20ABI covers the metadata reads used for display.
const ERC20ABI = `[
	{
		"inputs": [],
		"name": "symbol",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "decimals",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	}
]`
