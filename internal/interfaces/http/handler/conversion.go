package handler

import (
	"github.com/gin-gonic/gin"
	crmapp "github.com/salesdesk/backend/internal/application/crm"
	"github.com/salesdesk/backend/internal/interfaces/http/middleware"
)

// ConversionHandler handles the lead, pipeline deal, and quote lifecycle
// endpoints. Path identifiers are public identifiers (LED..., PIP..., QUO...)
// and are resolved within the caller's organization.
type ConversionHandler struct {
	BaseHandler
	conversions *crmapp.ConversionService
	resolver    *crmapp.ResolverService
}

// NewConversionHandler creates a new ConversionHandler
func NewConversionHandler(conversions *crmapp.ConversionService, resolver *crmapp.ResolverService) *ConversionHandler {
	return &ConversionHandler{
		conversions: conversions,
		resolver:    resolver,
	}
}

// RegisterRoutes registers conversion lifecycle routes
func (h *ConversionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	{
		leads.POST("", h.CreateLead)
		leads.POST("/convert", h.BulkConvertLeads)
		leads.DELETE("/:id", h.DeleteLead)
	}

	pipelines := rg.Group("/pipelines")
	{
		pipelines.POST("/:id/stage", h.TransitionStage)
		pipelines.GET("/:id/quote", h.GetQuoteByDeal)
	}

	quotes := rg.Group("/quotes")
	{
		quotes.POST("/:id/accept", h.AcceptQuote)
	}
}

// CreateLead creates a new lead with a freshly allocated public identifier
func (h *ConversionHandler) CreateLead(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing user ID")
		return
	}

	var req crmapp.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	lead, err := h.conversions.CreateLead(c.Request.Context(), orgID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, lead)
}

// BulkConvertLeads converts a batch of leads into pipeline deals
func (h *ConversionHandler) BulkConvertLeads(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing user ID")
		return
	}

	var req crmapp.BulkConvertLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.conversions.BulkConvertLeads(c.Request.Context(), orgID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteLead removes a lead and any pipeline deal generated from it
func (h *ConversionHandler) DeleteLead(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing user ID")
		return
	}

	lead, err := h.resolver.ResolveLead(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.conversions.DeleteLead(c.Request.Context(), orgID, actorID, lead.ID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// TransitionStage moves a pipeline deal to a new stage; terminal stages
// derive a quote as a one-time side effect.
func (h *ConversionHandler) TransitionStage(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing user ID")
		return
	}

	var req crmapp.TransitionStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	deal, err := h.resolver.ResolveDeal(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.conversions.TransitionStage(c.Request.Context(), orgID, actorID, deal.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetQuoteByDeal returns the quote derived from a pipeline deal, if any
func (h *ConversionHandler) GetQuoteByDeal(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	deal, err := h.resolver.ResolveDeal(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	quote, err := h.conversions.GetQuoteByDeal(c.Request.Context(), orgID, deal.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// AcceptQuote accepts a quote and feeds the customer ledger exactly once
func (h *ConversionHandler) AcceptQuote(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing user ID")
		return
	}

	quote, err := h.resolver.ResolveQuote(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.conversions.AcceptQuote(c.Request.Context(), orgID, actorID, quote.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
