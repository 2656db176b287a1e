// Package domain holds the metadata records that describe futarchy proposals
// and how they are grouped into organizations and aggregators.
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// ProposalMetadata labels one on-chain proposal for display.
type ProposalMetadata struct {
	ID          uuid.UUID      `json:"id"`
	Proposal    common.Address `json:"proposal"`
	Question    string         `json:"displayNameQuestion"`
	Event       string         `json:"displayNameEvent"`
	Description string         `json:"description"`
	Metadata    string         `json:"metadata"`
	MetadataURI string         `json:"metadataURI"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Organization groups the proposals of one company or DAO.
type Organization struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
	Description string    `json:"description"`
	Metadata    string    `json:"metadata"`
	MetadataURI string    `json:"metadataURI"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Aggregator groups organizations, e.g. everything one frontend lists.
type Aggregator struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"aggregatorName"`
	Description string    `json:"description"`
	Metadata    string    `json:"metadata"`
	MetadataURI string    `json:"metadataURI"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProposalMetadata validates and stamps a new proposal record.
func NewProposalMetadata(proposal common.Address, question, event, description, metadata, metadataURI string, now time.Time) (*ProposalMetadata, error) {
	if proposal == (common.Address{}) {
		return nil, apperror.Validation(apperror.CodeRequiredField, "proposal address is required")
	}
	if strings.TrimSpace(question) == "" {
		return nil, apperror.Validation(apperror.CodeRequiredField, "question is required")
	}
	if err := CheckMetadata(metadata); err != nil {
		return nil, err
	}
	return &ProposalMetadata{
		ID:          uuid.New(),
		Proposal:    proposal,
		Question:    question,
		Event:       event,
		Description: description,
		Metadata:    metadata,
		MetadataURI: metadataURI,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateExtendedMetadata replaces the free-form metadata and its URI.
func (p *ProposalMetadata) UpdateExtendedMetadata(metadata, metadataURI string, now time.Time) error {
	if err := CheckMetadata(metadata); err != nil {
		return err
	}
	p.Metadata = metadata
	p.MetadataURI = metadataURI
	p.UpdatedAt = now
	return nil
}

// NewOrganization validates and stamps a new organization record.
func NewOrganization(companyName, description, metadata, metadataURI string, now time.Time) (*Organization, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, apperror.Validation(apperror.CodeRequiredField, "company name is required")
	}
	if err := CheckMetadata(metadata); err != nil {
		return nil, err
	}
	return &Organization{
		ID:          uuid.New(),
		CompanyName: companyName,
		Description: description,
		Metadata:    metadata,
		MetadataURI: metadataURI,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewAggregator validates and stamps a new aggregator record.
func NewAggregator(name, description, metadata, metadataURI string, now time.Time) (*Aggregator, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.Validation(apperror.CodeRequiredField, "aggregator name is required")
	}
	if err := CheckMetadata(metadata); err != nil {
		return nil, err
	}
	return &Aggregator{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Metadata:    metadata,
		MetadataURI: metadataURI,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CheckMetadata accepts an empty string or a JSON document.
func CheckMetadata(metadata string) error {
	if metadata == "" || json.Valid([]byte(metadata)) {
		return nil
	}
	return apperror.Validation(apperror.CodeInvalidFormat, "metadata must be valid JSON")
}
