package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registryApp "github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// RegistryHandler exposes proposal, organization and aggregator metadata.
type RegistryHandler struct {
	Service *registryApp.RegistryService
}

func (h *RegistryHandler) Register(r gin.IRouter) {
	group := r.Group("/api/v1/registry")
	group.POST("/proposals", h.createProposal)
	group.GET("/proposals/:id", h.getProposal)
	group.PUT("/proposals/:id/metadata", h.updateProposalMetadata)

	group.POST("/organizations", h.createOrganization)
	group.GET("/organizations/:id", h.getOrganization)
	group.GET("/organizations/:id/proposals", h.listOrganizationProposals)
	group.POST("/organizations/:id/proposals", h.addProposal)

	group.POST("/aggregators", h.createAggregator)
	group.GET("/aggregators/:id", h.getAggregator)
	group.GET("/aggregators/:id/organizations", h.listAggregatorOrganizations)
	group.POST("/aggregators/:id/organizations", h.addOrganization)
}

func idParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, apperror.Validation(apperror.CodeInvalidFormat, name+" must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}

type createProposalRequest struct {
	Proposal    string `json:"proposal"`
	Question    string `json:"displayNameQuestion"`
	Event       string `json:"displayNameEvent"`
	Description string `json:"description"`
	Metadata    string `json:"metadata"`
	MetadataURI string `json:"metadataURI"`
}

func (h *RegistryHandler) createProposal(c *gin.Context) {
	var body createProposalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	addr, err := parseAddress("proposal", body.Proposal)
	if err != nil {
		fail(c, err)
		return
	}
	p, err := h.Service.CreateProposalMetadata(c.Request.Context(), registryApp.CreateProposalInput{
		Proposal:    addr,
		Question:    body.Question,
		Event:       body.Event,
		Description: body.Description,
		Metadata:    body.Metadata,
		MetadataURI: body.MetadataURI,
	})
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, p, nil)
}

func (h *RegistryHandler) getProposal(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Service.ProposalMetadata(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, p, nil)
}

type updateMetadataRequest struct {
	Metadata    string `json:"metadata"`
	MetadataURI string `json:"metadataURI"`
}

func (h *RegistryHandler) updateProposalMetadata(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body updateMetadataRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	p, err := h.Service.UpdateExtendedMetadata(c.Request.Context(), id, body.Metadata, body.MetadataURI)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, p, nil)
}

func (h *RegistryHandler) createOrganization(c *gin.Context) {
	var body registryApp.CreateGroupInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	o, err := h.Service.CreateOrganization(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, o, nil)
}

func (h *RegistryHandler) getOrganization(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	o, err := h.Service.Organization(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, o, nil)
}

type linkRequest struct {
	ID string `json:"id"`
}

func (h *RegistryHandler) childID(c *gin.Context) (uuid.UUID, bool) {
	var body linkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(body.ID)
	if err != nil {
		fail(c, apperror.Validation(apperror.CodeInvalidFormat, "id must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *RegistryHandler) addProposal(c *gin.Context) {
	org, ok := idParam(c, "id")
	if !ok {
		return
	}
	proposal, ok := h.childID(c)
	if !ok {
		return
	}
	if err := h.Service.AddProposal(c.Request.Context(), org, proposal); err != nil {
		fail(c, err)
		return
	}
	Ok(c, gin.H{"organization": org, "proposal": proposal}, nil)
}

func (h *RegistryHandler) listOrganizationProposals(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	page, err := h.Service.OrganizationProposals(c.Request.Context(), id, offset, limit)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, page.Items, paginationMeta(limit, offset, page.Total))
}

func (h *RegistryHandler) createAggregator(c *gin.Context) {
	var body registryApp.CreateGroupInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	a, err := h.Service.CreateAggregator(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, a, nil)
}

func (h *RegistryHandler) getAggregator(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	a, err := h.Service.Aggregator(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, a, nil)
}

func (h *RegistryHandler) addOrganization(c *gin.Context) {
	agg, ok := idParam(c, "id")
	if !ok {
		return
	}
	org, ok := h.childID(c)
	if !ok {
		return
	}
	if err := h.Service.AddOrganization(c.Request.Context(), agg, org); err != nil {
		fail(c, err)
		return
	}
	Ok(c, gin.H{"aggregator": agg, "organization": org}, nil)
}

func (h *RegistryHandler) listAggregatorOrganizations(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	page, err := h.Service.AggregatorOrganizations(c.Request.Context(), id, offset, limit)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, page.Items, paginationMeta(limit, offset, page.Total))
}
