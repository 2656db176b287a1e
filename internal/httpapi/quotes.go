package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	pricingApp "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/app"
	pricing "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// QuoteHandler serves swap quotes.
type QuoteHandler struct {
	Service         *pricingApp.QuoteService
	ChainID         uint64
	DefaultSlippage decimal.Decimal
}

func (h *QuoteHandler) Register(r gin.IRouter) {
	group := r.Group("/api/v1/quotes")
	group.POST("", h.quoteProposal)
	group.POST("/snapshot", h.quoteSnapshot)
}

type quoteRequest struct {
	Proposal            string `json:"proposal"`
	IsYesPool           bool   `json:"isYesPool"`
	IsInputCompanyToken bool   `json:"isInputCompanyToken"`
	Amount              string `json:"amount"`
	// Slippage is a fraction; empty means the configured default.
	Slippage string   `json:"slippage"`
	Pool     *poolDTO `json:"pool,omitempty"`
}

func (h *QuoteHandler) parse(body quoteRequest) (pricing.QuoteRequest, error) {
	req := pricing.QuoteRequest{
		IsYesPool:           body.IsYesPool,
		IsInputCompanyToken: body.IsInputCompanyToken,
		Slippage:            h.DefaultSlippage,
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return req, apperror.Validation(apperror.CodeInvalidAmount, "amount: "+err.Error())
	}
	req.Amount = amount
	if body.Slippage != "" {
		s, err := decimal.NewFromString(body.Slippage)
		if err != nil {
			return req, apperror.Validation(apperror.CodeInvalidSlippage, "slippage: "+err.Error())
		}
		req.Slippage = s
	}
	return req, nil
}

func (h *QuoteHandler) quoteProposal(c *gin.Context) {
	var body quoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	proposal, err := parseAddress("proposal", body.Proposal)
	if err != nil {
		fail(c, err)
		return
	}
	req, err := h.parse(body)
	if err != nil {
		fail(c, err)
		return
	}
	req.Proposal = proposal

	res, err := h.Service.QuoteProposal(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, viewQuote(res), nil)
}

func (h *QuoteHandler) quoteSnapshot(c *gin.Context) {
	var body quoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	req, err := h.parse(body)
	if err != nil {
		fail(c, err)
		return
	}
	pool, err := body.Pool.toPool(h.ChainID)
	if err != nil {
		fail(c, err)
		return
	}

	res, err := h.Service.Quote(c.Request.Context(), pool, req)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, viewQuote(res), nil)
}
