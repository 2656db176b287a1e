// Package memory is an in-process registry store.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// Ensure Store implements app.Store.
var _ app.Store = (*Store)(nil)

type linkKey struct {
	kind   domain.LinkKind
	parent uuid.UUID
}

// Store keeps records in maps guarded by one RWMutex. Records are copied on
// the way in and out so callers never share state with the store.
type Store struct {
	mu            sync.RWMutex
	proposals     map[uuid.UUID]domain.ProposalMetadata
	organizations map[uuid.UUID]domain.Organization
	aggregators   map[uuid.UUID]domain.Aggregator
	links         map[linkKey][]uuid.UUID
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		proposals:     make(map[uuid.UUID]domain.ProposalMetadata),
		organizations: make(map[uuid.UUID]domain.Organization),
		aggregators:   make(map[uuid.UUID]domain.Aggregator),
		links:         make(map[linkKey][]uuid.UUID),
	}
}

func notFound(kind string, id uuid.UUID) error {
	return apperror.NotFound(apperror.CodeRegistryRecordNotFound, kind+" "+id.String())
}

func (s *Store) SaveProposal(_ context.Context, p *domain.ProposalMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[p.ID] = *p
	return nil
}

func (s *Store) Proposal(_ context.Context, id uuid.UUID) (*domain.ProposalMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, notFound("proposal", id)
	}
	return &p, nil
}

func (s *Store) Proposals(_ context.Context, ids []uuid.UUID) ([]*domain.ProposalMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ProposalMetadata, 0, len(ids))
	for _, id := range ids {
		p, ok := s.proposals[id]
		if !ok {
			return nil, notFound("proposal", id)
		}
		out = append(out, &p)
	}
	return out, nil
}

func (s *Store) SaveOrganization(_ context.Context, o *domain.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations[o.ID] = *o
	return nil
}

func (s *Store) Organization(_ context.Context, id uuid.UUID) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.organizations[id]
	if !ok {
		return nil, notFound("organization", id)
	}
	return &o, nil
}

func (s *Store) Organizations(_ context.Context, ids []uuid.UUID) ([]*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Organization, 0, len(ids))
	for _, id := range ids {
		o, ok := s.organizations[id]
		if !ok {
			return nil, notFound("organization", id)
		}
		out = append(out, &o)
	}
	return out, nil
}

func (s *Store) SaveAggregator(_ context.Context, a *domain.Aggregator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aggregators[a.ID] = *a
	return nil
}

func (s *Store) Aggregator(_ context.Context, id uuid.UUID) (*domain.Aggregator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.aggregators[id]
	if !ok {
		return nil, notFound("aggregator", id)
	}
	return &a, nil
}

func (s *Store) Link(_ context.Context, kind domain.LinkKind, parent, child uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := linkKey{kind: kind, parent: parent}
	for _, existing := range s.links[key] {
		if existing == child {
			return apperror.Conflict(apperror.CodeRegistryDuplicateLink, string(kind)+" "+child.String())
		}
	}
	s.links[key] = append(s.links[key], child)
	return nil
}

func (s *Store) Children(_ context.Context, kind domain.LinkKind, parent uuid.UUID, offset, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.links[linkKey{kind: kind, parent: parent}]
	start, end := domain.Window(offset, limit, len(all))
	out := make([]uuid.UUID, end-start)
	copy(out, all[start:end])
	return out, nil
}

func (s *Store) CountChildren(_ context.Context, kind domain.LinkKind, parent uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links[linkKey{kind: kind, parent: parent}]), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}
