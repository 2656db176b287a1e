package httpapi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	arbitrageApp "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/app"
	arbitrage "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
)

// ArbitrageHandler serves arbitrage simulations.
type ArbitrageHandler struct {
	Service *arbitrageApp.ArbitrageService
	ChainID uint64
}

func (h *ArbitrageHandler) Register(r gin.IRouter) {
	group := r.Group("/api/v1/arbitrage")
	group.POST("/simulate", h.simulateProposal)
	group.POST("/simulate/snapshot", h.simulateSnapshot)
}

// simulateRequest carries human decimal strings. An empty spotPrice asks the
// service to use its spot source.
type simulateRequest struct {
	Proposal    string   `json:"proposal"`
	SpotPrice   string   `json:"spotPrice"`
	Probability string   `json:"probability"`
	Impact      string   `json:"impact"`
	YesPool     *poolDTO `json:"yesPool,omitempty"`
	NoPool      *poolDTO `json:"noPool,omitempty"`
}

func parseSimulate(body simulateRequest, proposalRequired bool) (arbitrage.ArbitrageRequest, error) {
	var proposal common.Address
	if body.Proposal != "" || proposalRequired {
		var err error
		if proposal, err = parseAddress("proposal", body.Proposal); err != nil {
			return arbitrage.ArbitrageRequest{}, err
		}
	}
	return arbitrage.ParseRequest(proposal, body.SpotPrice, body.Probability, body.Impact)
}

func (h *ArbitrageHandler) simulateProposal(c *gin.Context) {
	var body simulateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	req, err := parseSimulate(body, true)
	if err != nil {
		fail(c, err)
		return
	}

	res, err := h.Service.SimulateProposal(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, viewArbitrage(res), nil)
}

func (h *ArbitrageHandler) simulateSnapshot(c *gin.Context) {
	var body simulateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	req, err := parseSimulate(body, false)
	if err != nil {
		fail(c, err)
		return
	}
	yes, err := body.YesPool.toPool(h.ChainID)
	if err != nil {
		fail(c, err)
		return
	}
	no, err := body.NoPool.toPool(h.ChainID)
	if err != nil {
		fail(c, err)
		return
	}

	res, err := h.Service.Simulate(c.Request.Context(), req, yes, no)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, viewArbitrage(res), nil)
}
