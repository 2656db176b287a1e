package asset

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry caches token metadata by AssetID. The first registration of an
// ID wins so every pool reading the same outcome token shares one *Asset.
type Registry struct {
	mu     sync.RWMutex
	tokens map[AssetID]*Asset
}

func NewRegistry() *Registry {
	return &Registry{tokens: make(map[AssetID]*Asset)}
}

// Register stores a unless its ID is already known and returns the stored asset.
func (r *Registry) Register(a *Asset) *Asset {
	r.mu.Lock()
	defer r.mu.Unlock()

	if known, ok := r.tokens[a.ID()]; ok {
		return known
	}
	r.tokens[a.ID()] = a
	return a
}

// GetToken looks a token up by chain and address.
func (r *Registry) GetToken(chainID uint64, address common.Address) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.tokens[NewAssetID(chainID, address)]
	return a, ok
}

// Resolve returns the known token or builds it with load and registers the
// result. load runs outside the lock; concurrent callers may both load but
// only the first registration is kept.
func (r *Registry) Resolve(chainID uint64, address common.Address, load func() (*Asset, error)) (*Asset, error) {
	if a, ok := r.GetToken(chainID, address); ok {
		return a, nil
	}
	a, err := load()
	if err != nil {
		return nil, err
	}
	return r.Register(a), nil
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
