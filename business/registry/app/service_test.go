package app_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/infra/memory"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

func newService() *app.RegistryService {
	return app.NewRegistryService(memory.NewStore(), logger.NewNop())
}

func TestMetadataHierarchy(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	p, err := svc.CreateProposalMetadata(ctx, app.CreateProposalInput{
		Proposal:    common.HexToAddress("0x7e9Fc0C3d6C1619d4914556ad2dEe6051Ce68418"),
		Question:    "What will be the price of GNO",
		Event:       "if its price is >= 130 sDAI?",
		Description: "Will GNO price be at or above 130 sDAI at December 28, 2025 11:59 PM?",
		Metadata:    `{"category":"governance","tags":["gip","price-prediction"]}`,
	})
	if err != nil {
		t.Fatalf("CreateProposalMetadata: %v", err)
	}

	org, err := svc.CreateOrganization(ctx, app.CreateGroupInput{
		Name:     "GNOSIS DAO",
		Metadata: `{"website":"https://gnosis.io"}`,
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	if err := svc.AddProposal(ctx, org.ID, p.ID); err != nil {
		t.Fatalf("AddProposal: %v", err)
	}

	agg, err := svc.CreateAggregator(ctx, app.CreateGroupInput{
		Name:        "FutarchyFi",
		Description: "The premier aggregation layer for Futarchy markets.",
		Metadata:    `{"version":"1.0"}`,
	})
	if err != nil {
		t.Fatalf("CreateAggregator: %v", err)
	}
	if err := svc.AddOrganization(ctx, agg.ID, org.ID); err != nil {
		t.Fatalf("AddOrganization: %v", err)
	}

	props, err := svc.OrganizationProposals(ctx, org.ID, 0, 10)
	if err != nil {
		t.Fatalf("OrganizationProposals: %v", err)
	}
	if props.Total != 1 || len(props.Items) != 1 || props.Items[0].ID != p.ID {
		t.Errorf("unexpected proposals page %+v", props)
	}

	orgs, err := svc.AggregatorOrganizations(ctx, agg.ID, 0, 10)
	if err != nil {
		t.Fatalf("AggregatorOrganizations: %v", err)
	}
	if orgs.Total != 1 || orgs.Items[0].CompanyName != "GNOSIS DAO" {
		t.Errorf("unexpected organizations page %+v", orgs)
	}
}

func TestOrganizationProposals_Pagination(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	org, err := svc.CreateOrganization(ctx, app.CreateGroupInput{Name: "GnosisDAO"})
	if err != nil {
		t.Fatal(err)
	}
	var ids []uuid.UUID
	for i := range 5 {
		p, err := svc.CreateProposalMetadata(ctx, app.CreateProposalInput{
			Proposal: common.BigToAddress(big.NewInt(int64(i + 1))),
			Question: fmt.Sprintf("Q%d", i),
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.AddProposal(ctx, org.ID, p.ID); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}

	tests := []struct {
		offset, limit int
		want          []uuid.UUID
	}{
		{0, 2, ids[0:2]},
		{2, 2, ids[2:4]},
		{4, 2, ids[4:5]},
		{5, 2, nil},
		{9, 2, nil},
	}
	for _, tt := range tests {
		page, err := svc.OrganizationProposals(ctx, org.ID, tt.offset, tt.limit)
		if err != nil {
			t.Fatalf("OrganizationProposals(%d, %d): %v", tt.offset, tt.limit, err)
		}
		if page.Total != 5 {
			t.Errorf("total = %d, want 5", page.Total)
		}
		if len(page.Items) != len(tt.want) {
			t.Fatalf("OrganizationProposals(%d, %d) returned %d items, want %d", tt.offset, tt.limit, len(page.Items), len(tt.want))
		}
		for i, item := range page.Items {
			if item.ID != tt.want[i] {
				t.Errorf("item %d = %s, want %s", i, item.ID, tt.want[i])
			}
		}
	}
}

func TestUpdateExtendedMetadata(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	p, err := svc.CreateProposalMetadata(ctx, app.CreateProposalInput{
		Proposal: common.HexToAddress("0x01"),
		Question: "Question",
		Metadata: `{"old":"data"}`,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateExtendedMetadata(ctx, p.ID, `{"new":"data","large":true}`, "ipfs://QmNewHash"); err != nil {
		t.Fatalf("UpdateExtendedMetadata: %v", err)
	}
	got, err := svc.ProposalMetadata(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata != `{"new":"data","large":true}` || got.MetadataURI != "ipfs://QmNewHash" {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("updatedAt %s before createdAt %s", got.UpdatedAt, got.CreatedAt)
	}
}

func TestRegistryErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	org, err := svc.CreateOrganization(ctx, app.CreateGroupInput{Name: "Org2"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := svc.CreateProposalMetadata(ctx, app.CreateProposalInput{Proposal: common.HexToAddress("0x02"), Question: "Q2"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.AddProposal(ctx, org.ID, uuid.New()); apperror.GetCode(err) != apperror.CodeRegistryRecordNotFound {
		t.Errorf("unknown proposal: code = %s", apperror.GetCode(err))
	}
	if err := svc.AddProposal(ctx, uuid.New(), p.ID); apperror.GetCode(err) != apperror.CodeRegistryRecordNotFound {
		t.Errorf("unknown organization: code = %s", apperror.GetCode(err))
	}
	if err := svc.AddProposal(ctx, org.ID, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddProposal(ctx, org.ID, p.ID); apperror.GetCode(err) != apperror.CodeRegistryDuplicateLink {
		t.Errorf("duplicate: code = %s", apperror.GetCode(err))
	}
	if _, err := svc.AggregatorOrganizations(ctx, uuid.New(), 0, 10); apperror.GetCode(err) != apperror.CodeRegistryRecordNotFound {
		t.Errorf("unknown aggregator: code = %s", apperror.GetCode(err))
	}
	if _, err := svc.UpdateExtendedMetadata(ctx, p.ID, "not json", ""); apperror.GetCode(err) != apperror.CodeInvalidFormat {
		t.Errorf("bad metadata: code = %s", apperror.GetCode(err))
	}
}
