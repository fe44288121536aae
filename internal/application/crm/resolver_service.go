package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/sequence"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// ResolvedReference is the outcome of resolving a public identifier
type ResolvedReference struct {
	EntityType sequence.EntityType `json:"entity_type"`
	ID         uuid.UUID           `json:"id"`
	PublicID   string              `json:"public_id"`
}

// ResolverService resolves public identifiers to records within one
// organization. A public identifier belonging to another organization
// resolves exactly like a nonexistent one: callers cannot distinguish the
// two cases, which keeps cross-organization probing blind.
type ResolverService struct {
	leads     crm.LeadRepository
	deals     crm.PipelineDealRepository
	quotes    crm.QuoteRepository
	customers crm.CustomerRepository
}

// NewResolverService creates a new ResolverService
func NewResolverService(
	leads crm.LeadRepository,
	deals crm.PipelineDealRepository,
	quotes crm.QuoteRepository,
	customers crm.CustomerRepository,
) *ResolverService {
	return &ResolverService{
		leads:     leads,
		deals:     deals,
		quotes:    quotes,
		customers: customers,
	}
}

// Resolve looks up a public identifier of the given entity type within the
// organization and returns the internal reference.
func (s *ResolverService) Resolve(ctx context.Context, orgID uuid.UUID, entityType sequence.EntityType, publicID string) (*ResolvedReference, error) {
	if publicID == "" {
		return nil, shared.NewDomainError("INVALID_PUBLIC_ID", "Public identifier cannot be empty")
	}

	var id uuid.UUID
	switch entityType {
	case sequence.EntityTypeLead:
		lead, err := s.leads.FindByPublicID(ctx, orgID, publicID)
		if err != nil {
			return nil, err
		}
		id = lead.ID
	case sequence.EntityTypePipelineDeal:
		deal, err := s.deals.FindByPublicID(ctx, orgID, publicID)
		if err != nil {
			return nil, err
		}
		id = deal.ID
	case sequence.EntityTypeQuote:
		quote, err := s.quotes.FindByPublicID(ctx, orgID, publicID)
		if err != nil {
			return nil, err
		}
		id = quote.ID
	case sequence.EntityTypeCustomer:
		customer, err := s.customers.FindByPublicID(ctx, orgID, publicID)
		if err != nil {
			return nil, err
		}
		id = customer.ID
	default:
		return nil, shared.NewDomainError("UNSUPPORTED_ENTITY_TYPE", "Entity type has no resolvable records")
	}

	return &ResolvedReference{
		EntityType: entityType,
		ID:         id,
		PublicID:   publicID,
	}, nil
}

// ResolveLead resolves a lead public identifier to the aggregate
func (s *ResolverService) ResolveLead(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.Lead, error) {
	return s.leads.FindByPublicID(ctx, orgID, publicID)
}

// ResolveDeal resolves a pipeline deal public identifier to the aggregate
func (s *ResolverService) ResolveDeal(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.PipelineDeal, error) {
	return s.deals.FindByPublicID(ctx, orgID, publicID)
}

// ResolveQuote resolves a quote public identifier to the aggregate
func (s *ResolverService) ResolveQuote(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.Quote, error) {
	return s.quotes.FindByPublicID(ctx, orgID, publicID)
}

// ResolveCustomer resolves a customer public identifier to the aggregate
func (s *ResolverService) ResolveCustomer(ctx context.Context, orgID uuid.UUID, publicID string) (*crm.Customer, error) {
	return s.customers.FindByPublicID(ctx, orgID, publicID)
}
