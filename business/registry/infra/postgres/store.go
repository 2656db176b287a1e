// Package postgres is the registry store backed by Postgres through pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Ensure Store implements app.Store.
var _ app.Store = (*Store)(nil)

// Store provides Postgres persistence for registry records.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn and applies the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, apperror.Validation(apperror.CodeConfigurationError, "postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, storeErr("connect", err)
	}
	s := &Store{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the registry tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return storeErr("migrate", err)
	}
	return nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return apperror.Internal(apperror.CodeRegistryStoreFailed, op, err)
}

func readErr(kind string, id uuid.UUID, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(apperror.CodeRegistryRecordNotFound, kind+" "+id.String())
	}
	return storeErr("read "+kind, err)
}

// SaveProposal inserts or updates proposal metadata.
func (s *Store) SaveProposal(ctx context.Context, p *domain.ProposalMetadata) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO proposal_metadata (
			id, proposal, question, event, description, metadata, metadata_uri, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			metadata = EXCLUDED.metadata,
			metadata_uri = EXCLUDED.metadata_uri,
			updated_at = EXCLUDED.updated_at
	`,
		p.ID,
		p.Proposal.Hex(),
		p.Question,
		p.Event,
		p.Description,
		p.Metadata,
		p.MetadataURI,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return storeErr("save proposal", err)
	}
	return nil
}

const proposalColumns = `id, proposal, question, event, description, metadata, metadata_uri, created_at, updated_at`

func scanProposal(row pgx.Row) (*domain.ProposalMetadata, error) {
	var (
		p        domain.ProposalMetadata
		proposal string
	)
	if err := row.Scan(&p.ID, &proposal, &p.Question, &p.Event, &p.Description, &p.Metadata, &p.MetadataURI, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Proposal = common.HexToAddress(proposal)
	return &p, nil
}

func (s *Store) Proposal(ctx context.Context, id uuid.UUID) (*domain.ProposalMetadata, error) {
	p, err := scanProposal(s.pool.QueryRow(ctx, `SELECT `+proposalColumns+` FROM proposal_metadata WHERE id = $1`, id))
	if err != nil {
		return nil, readErr("proposal", id, err)
	}
	return p, nil
}

// Proposals returns records in the order of ids.
func (s *Store) Proposals(ctx context.Context, ids []uuid.UUID) ([]*domain.ProposalMetadata, error) {
	out := make([]*domain.ProposalMetadata, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT `+proposalColumns+` FROM proposal_metadata WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, storeErr("list proposals", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*domain.ProposalMetadata, len(ids))
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, storeErr("scan proposal", err)
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list proposals", err)
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, readErr("proposal", id, pgx.ErrNoRows)
		}
		out = append(out, p)
	}
	return out, nil
}

// SaveOrganization inserts or updates an organization.
func (s *Store) SaveOrganization(ctx context.Context, o *domain.Organization) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organization_metadata (
			id, company_name, description, metadata, metadata_uri, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			description = EXCLUDED.description,
			metadata = EXCLUDED.metadata,
			metadata_uri = EXCLUDED.metadata_uri,
			updated_at = EXCLUDED.updated_at
	`, o.ID, o.CompanyName, o.Description, o.Metadata, o.MetadataURI, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return storeErr("save organization", err)
	}
	return nil
}

const organizationColumns = `id, company_name, description, metadata, metadata_uri, created_at, updated_at`

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var o domain.Organization
	if err := row.Scan(&o.ID, &o.CompanyName, &o.Description, &o.Metadata, &o.MetadataURI, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) Organization(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	o, err := scanOrganization(s.pool.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organization_metadata WHERE id = $1`, id))
	if err != nil {
		return nil, readErr("organization", id, err)
	}
	return o, nil
}

// Organizations returns records in the order of ids.
func (s *Store) Organizations(ctx context.Context, ids []uuid.UUID) ([]*domain.Organization, error) {
	out := make([]*domain.Organization, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT `+organizationColumns+` FROM organization_metadata WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, storeErr("list organizations", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*domain.Organization, len(ids))
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, storeErr("scan organization", err)
		}
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list organizations", err)
	}
	for _, id := range ids {
		o, ok := byID[id]
		if !ok {
			return nil, readErr("organization", id, pgx.ErrNoRows)
		}
		out = append(out, o)
	}
	return out, nil
}

// SaveAggregator inserts or updates an aggregator.
func (s *Store) SaveAggregator(ctx context.Context, a *domain.Aggregator) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO aggregator_metadata (
			id, name, description, metadata, metadata_uri, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			metadata = EXCLUDED.metadata,
			metadata_uri = EXCLUDED.metadata_uri,
			updated_at = EXCLUDED.updated_at
	`, a.ID, a.Name, a.Description, a.Metadata, a.MetadataURI, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return storeErr("save aggregator", err)
	}
	return nil
}

func (s *Store) Aggregator(ctx context.Context, id uuid.UUID) (*domain.Aggregator, error) {
	var a domain.Aggregator
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, metadata, metadata_uri, created_at, updated_at
		FROM aggregator_metadata WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Description, &a.Metadata, &a.MetadataURI, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, readErr("aggregator", id, err)
	}
	return &a, nil
}

// Link appends child to parent. The serial position keeps insertion order.
func (s *Store) Link(ctx context.Context, kind domain.LinkKind, parent, child uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO registry_links (kind, parent, child) VALUES ($1, $2, $3)`,
		string(kind), parent, child)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.Conflict(apperror.CodeRegistryDuplicateLink, fmt.Sprintf("%s %s", kind, child))
		}
		return storeErr("link", err)
	}
	return nil
}

func (s *Store) Children(ctx context.Context, kind domain.LinkKind, parent uuid.UUID, offset, limit int) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT child FROM registry_links
		WHERE kind = $1 AND parent = $2
		ORDER BY position
		OFFSET $3 LIMIT $4
	`, string(kind), parent, offset, limit)
	if err != nil {
		return nil, storeErr("children", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, storeErr("children", err)
	}
	return ids, nil
}

func (s *Store) CountChildren(ctx context.Context, kind domain.LinkKind, parent uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM registry_links WHERE kind = $1 AND parent = $2`,
		string(kind), parent).Scan(&n)
	if err != nil {
		return 0, storeErr("count children", err)
	}
	return n, nil
}
