// Package app contains the registry service and its storage port.
package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/domain"
)

// Store persists registry records. Missing records are reported with
// CodeRegistryRecordNotFound; a repeated link with CodeRegistryDuplicateLink.
type Store interface {
	SaveProposal(ctx context.Context, p *domain.ProposalMetadata) error
	Proposal(ctx context.Context, id uuid.UUID) (*domain.ProposalMetadata, error)
	Proposals(ctx context.Context, ids []uuid.UUID) ([]*domain.ProposalMetadata, error)

	SaveOrganization(ctx context.Context, o *domain.Organization) error
	Organization(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	Organizations(ctx context.Context, ids []uuid.UUID) ([]*domain.Organization, error)

	SaveAggregator(ctx context.Context, a *domain.Aggregator) error
	Aggregator(ctx context.Context, id uuid.UUID) (*domain.Aggregator, error)

	// Link appends child to parent's ordered list.
	Link(ctx context.Context, kind domain.LinkKind, parent, child uuid.UUID) error
	// Children returns child IDs in insertion order within [offset, offset+limit).
	Children(ctx context.Context, kind domain.LinkKind, parent uuid.UUID, offset, limit int) ([]uuid.UUID, error)
	CountChildren(ctx context.Context, kind domain.LinkKind, parent uuid.UUID) (int, error)

	Ping(ctx context.Context) error
	Close()
}
