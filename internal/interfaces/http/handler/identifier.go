package handler

import (
	"github.com/gin-gonic/gin"
	crmapp "github.com/salesdesk/backend/internal/application/crm"
	seqapp "github.com/salesdesk/backend/internal/application/sequence"
	"github.com/salesdesk/backend/internal/domain/sequence"
)

// IdentifierHandler handles identifier allocation and resolution endpoints
type IdentifierHandler struct {
	BaseHandler
	allocator *seqapp.AllocatorService
	resolver  *crmapp.ResolverService
}

// NewIdentifierHandler creates a new IdentifierHandler
func NewIdentifierHandler(allocator *seqapp.AllocatorService, resolver *crmapp.ResolverService) *IdentifierHandler {
	return &IdentifierHandler{
		allocator: allocator,
		resolver:  resolver,
	}
}

// RegisterRoutes registers identifier routes
func (h *IdentifierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	identifiers := rg.Group("/identifiers")
	{
		identifiers.POST("/:type", h.Allocate)
		identifiers.GET("/:type/current", h.Current)
	}
	rg.GET("/resolve/:type/:id", h.Resolve)
}

// AllocatedIDResponse reports a freshly allocated public identifier
type AllocatedIDResponse struct {
	EntityType string `json:"entity_type"`
	PublicID   string `json:"public_id"`
}

// CurrentValueResponse reports the last allocated counter value
type CurrentValueResponse struct {
	EntityType string `json:"entity_type"`
	Value      int64  `json:"value"`
}

// Allocate reserves the next public identifier for an entity type. Allocation
// is permanent; an identifier handed out here is never issued again.
func (h *IdentifierHandler) Allocate(c *gin.Context) {
	entityType := sequence.EntityType(c.Param("type"))

	publicID, err := h.allocator.AllocateID(c.Request.Context(), entityType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, AllocatedIDResponse{
		EntityType: entityType.String(),
		PublicID:   publicID,
	})
}

// Current returns the last allocated counter value without reserving one
func (h *IdentifierHandler) Current(c *gin.Context) {
	entityType := sequence.EntityType(c.Param("type"))

	value, err := h.allocator.CurrentValue(c.Request.Context(), entityType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CurrentValueResponse{
		EntityType: entityType.String(),
		Value:      value,
	})
}

// Resolve looks up an entity by its public identifier within the caller's
// organization. A foreign organization's identifier reads as not found.
func (h *IdentifierHandler) Resolve(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	ref, err := h.resolver.Resolve(c.Request.Context(), orgID, sequence.EntityType(c.Param("type")), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ref)
}
