package app

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

const tracerName = "github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"

// CreateProposalInput carries the fields of a new proposal record.
type CreateProposalInput struct {
	Proposal    common.Address `json:"proposal"`
	Question    string         `json:"displayNameQuestion"`
	Event       string         `json:"displayNameEvent"`
	Description string         `json:"description"`
	Metadata    string         `json:"metadata"`
	MetadataURI string         `json:"metadataURI"`
}

// CreateGroupInput carries the fields of a new organization or aggregator.
type CreateGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Metadata    string `json:"metadata"`
	MetadataURI string `json:"metadataURI"`
}

// RegistryService manages proposal, organization and aggregator metadata.
type RegistryService struct {
	store  Store
	logger logger.LoggerInterface
	tracer trace.Tracer
	now    func() time.Time
}

// NewRegistryService creates a RegistryService.
func NewRegistryService(store Store, log logger.LoggerInterface) *RegistryService {
	return &RegistryService{
		store:  store,
		logger: log,
		tracer: otel.Tracer(tracerName),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateProposalMetadata stores a new proposal record.
func (s *RegistryService) CreateProposalMetadata(ctx context.Context, in CreateProposalInput) (*domain.ProposalMetadata, error) {
	ctx, span := s.tracer.Start(ctx, "registry.create_proposal",
		trace.WithAttributes(attribute.String("proposal", in.Proposal.Hex())))
	defer span.End()

	p, err := domain.NewProposalMetadata(in.Proposal, in.Question, in.Event, in.Description, in.Metadata, in.MetadataURI, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveProposal(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info(ctx, "proposal metadata created", "id", p.ID, "proposal", p.Proposal.Hex())
	return p, nil
}

// ProposalMetadata returns one proposal record.
func (s *RegistryService) ProposalMetadata(ctx context.Context, id uuid.UUID) (*domain.ProposalMetadata, error) {
	return s.store.Proposal(ctx, id)
}

// UpdateExtendedMetadata replaces a proposal's metadata and URI.
func (s *RegistryService) UpdateExtendedMetadata(ctx context.Context, id uuid.UUID, metadata, metadataURI string) (*domain.ProposalMetadata, error) {
	ctx, span := s.tracer.Start(ctx, "registry.update_proposal",
		trace.WithAttributes(attribute.String("id", id.String())))
	defer span.End()

	p, err := s.store.Proposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateExtendedMetadata(metadata, metadataURI, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.SaveProposal(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}

// CreateOrganization stores a new organization record.
func (s *RegistryService) CreateOrganization(ctx context.Context, in CreateGroupInput) (*domain.Organization, error) {
	o, err := domain.NewOrganization(in.Name, in.Description, in.Metadata, in.MetadataURI, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveOrganization(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "organization created", "id", o.ID, "company", o.CompanyName)
	return o, nil
}

// Organization returns one organization record.
func (s *RegistryService) Organization(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return s.store.Organization(ctx, id)
}

// AddProposal links existing proposal metadata to an organization.
func (s *RegistryService) AddProposal(ctx context.Context, organization, proposal uuid.UUID) error {
	if _, err := s.store.Organization(ctx, organization); err != nil {
		return err
	}
	if _, err := s.store.Proposal(ctx, proposal); err != nil {
		return err
	}
	return s.store.Link(ctx, domain.OrganizationProposals, organization, proposal)
}

// OrganizationProposals lists an organization's proposals in insertion order.
func (s *RegistryService) OrganizationProposals(ctx context.Context, organization uuid.UUID, offset, limit int) (*domain.Page[*domain.ProposalMetadata], error) {
	if _, err := s.store.Organization(ctx, organization); err != nil {
		return nil, err
	}
	total, ids, err := s.children(ctx, domain.OrganizationProposals, organization, offset, limit)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Proposals(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &domain.Page[*domain.ProposalMetadata]{Items: items, Offset: offset, Limit: limit, Total: total}, nil
}

// CreateAggregator stores a new aggregator record.
func (s *RegistryService) CreateAggregator(ctx context.Context, in CreateGroupInput) (*domain.Aggregator, error) {
	a, err := domain.NewAggregator(in.Name, in.Description, in.Metadata, in.MetadataURI, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveAggregator(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "aggregator created", "id", a.ID, "name", a.Name)
	return a, nil
}

// Aggregator returns one aggregator record.
func (s *RegistryService) Aggregator(ctx context.Context, id uuid.UUID) (*domain.Aggregator, error) {
	return s.store.Aggregator(ctx, id)
}

// AddOrganization links an existing organization to an aggregator.
func (s *RegistryService) AddOrganization(ctx context.Context, aggregator, organization uuid.UUID) error {
	if _, err := s.store.Aggregator(ctx, aggregator); err != nil {
		return err
	}
	if _, err := s.store.Organization(ctx, organization); err != nil {
		return err
	}
	return s.store.Link(ctx, domain.AggregatorOrganizations, aggregator, organization)
}

// AggregatorOrganizations lists an aggregator's organizations in insertion order.
func (s *RegistryService) AggregatorOrganizations(ctx context.Context, aggregator uuid.UUID, offset, limit int) (*domain.Page[*domain.Organization], error) {
	if _, err := s.store.Aggregator(ctx, aggregator); err != nil {
		return nil, err
	}
	total, ids, err := s.children(ctx, domain.AggregatorOrganizations, aggregator, offset, limit)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Organizations(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &domain.Page[*domain.Organization]{Items: items, Offset: offset, Limit: limit, Total: total}, nil
}

// Ping checks the backing store.
func (s *RegistryService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the backing store.
func (s *RegistryService) Close() {
	s.store.Close()
}

func (s *RegistryService) children(ctx context.Context, kind domain.LinkKind, parent uuid.UUID, offset, limit int) (int, []uuid.UUID, error) {
	total, err := s.store.CountChildren(ctx, kind, parent)
	if err != nil {
		return 0, nil, err
	}
	start, end := domain.Window(offset, limit, total)
	if start == end {
		return total, nil, nil
	}
	ids, err := s.store.Children(ctx, kind, parent, start, end-start)
	if err != nil {
		return 0, nil, err
	}
	return total, ids, nil
}
