// Package crm holds the application services for the conversion lifecycle:
// resolving public identifiers and moving records through
// lead -> pipeline deal -> quote -> customer.
package crm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/sequence"
	"github.com/salesdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdentifierAllocator mints public identifiers for new records
type IdentifierAllocator interface {
	AllocateID(ctx context.Context, entityType sequence.EntityType) (string, error)
}

// QuoteRefreshPolicy controls what happens to an existing quote when its deal
// re-enters a terminal stage after the amount or products changed.
type QuoteRefreshPolicy string

const (
	// QuoteRefreshKeep leaves the previously derived quote untouched
	QuoteRefreshKeep QuoteRefreshPolicy = "keep"
	// QuoteRefreshUpdateAmounts re-prices the quote from the deal
	QuoteRefreshUpdateAmounts QuoteRefreshPolicy = "update-amounts"
)

// ConversionService drives the conversion lifecycle. Stage transitions derive
// at most one quote per deal, quote accepts feed the customer ledger at most
// once, and bulk conversion turns leads into deals with safe re-runs.
type ConversionService struct {
	leads          crm.LeadRepository
	deals          crm.PipelineDealRepository
	quotes         crm.QuoteRepository
	customers      crm.CustomerRepository
	allocator      IdentifierAllocator
	eventPublisher shared.EventPublisher
	refreshPolicy  QuoteRefreshPolicy
	logger         *zap.Logger
}

// NewConversionService creates a new ConversionService
func NewConversionService(
	leads crm.LeadRepository,
	deals crm.PipelineDealRepository,
	quotes crm.QuoteRepository,
	customers crm.CustomerRepository,
	allocator IdentifierAllocator,
	refreshPolicy QuoteRefreshPolicy,
	logger *zap.Logger,
) *ConversionService {
	if refreshPolicy == "" {
		refreshPolicy = QuoteRefreshKeep
	}
	return &ConversionService{
		leads:         leads,
		deals:         deals,
		quotes:        quotes,
		customers:     customers,
		allocator:     allocator,
		refreshPolicy: refreshPolicy,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ConversionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateLead creates a lead with a freshly allocated public identifier. The
// identifier is reserved before the lead is persisted; if allocation fails the
// lead is never written.
func (s *ConversionService) CreateLead(ctx context.Context, orgID, actorID uuid.UUID, req CreateLeadRequest) (*LeadResponse, error) {
	publicID, err := s.allocator.AllocateID(ctx, sequence.EntityTypeLead)
	if err != nil {
		return nil, err
	}

	lead, err := crm.NewLead(orgID, publicID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	lead.CreatedBy = &actorID
	lead.UpdatedBy = &actorID
	lead.Phone = req.Phone
	lead.Company = req.Company
	lead.Source = req.Source
	lead.SetIntake(req.Notes, req.Budget, req.ExpectedCloseDate, req.Tags, crm.LeadPriority(req.Priority))
	if req.AssigneeID != nil {
		lead.Assign(*req.AssigneeID)
	}

	if err := s.leads.Save(ctx, lead); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// TransitionStage moves a deal to a new stage. Entering a terminal stage
// derives the deal's quote as a one-time side effect: ClosedWon yields an
// Accepted quote, ClosedLost a Declined one, and a deal that already has a
// quote gets the existing quote back untouched (or re-priced, depending on
// the refresh policy). Moving away from a terminal stage never retracts the
// quote.
func (s *ConversionService) TransitionStage(ctx context.Context, orgID, actorID, dealID uuid.UUID, req TransitionStageRequest) (*TransitionStageResponse, error) {
	stage := crm.DealStage(req.Stage)
	if !stage.IsValid() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Invalid pipeline stage")
	}

	deal, err := s.deals.FindByIDForOrg(ctx, orgID, dealID)
	if err != nil {
		return nil, err
	}

	if err := deal.ChangeStage(stage, actorID); err != nil {
		return nil, err
	}
	if err := s.deals.Save(ctx, deal); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deal)

	response := &TransitionStageResponse{Deal: ToPipelineDealResponse(deal)}

	if stage.IsTerminal() {
		quote, err := s.ensureQuote(ctx, orgID, actorID, deal, stage)
		if err != nil {
			return nil, err
		}
		quoteResponse := ToQuoteResponse(quote)
		response.Quote = &quoteResponse
	}

	return response, nil
}

// ensureQuote returns the deal's quote, creating it when none exists yet.
// The unique index on the quote's deal reference closes the race between
// concurrent terminal transitions: the loser's insert fails with
// ErrAlreadyExists and falls back to fetching the winner's quote.
func (s *ConversionService) ensureQuote(ctx context.Context, orgID, actorID uuid.UUID, deal *crm.PipelineDeal, stage crm.DealStage) (*crm.Quote, error) {
	existing, err := s.quotes.FindByDealID(ctx, orgID, deal.ID)
	if err == nil {
		// An Accepted quote is frozen: its total already accrued to the
		// customer ledger, so re-pricing it would desync the two.
		if s.refreshPolicy == QuoteRefreshUpdateAmounts && existing.Status != crm.QuoteStatusAccepted {
			existing.RefreshFromDeal(deal, actorID)
			if err := s.quotes.Save(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	publicID, err := s.allocator.AllocateID(ctx, sequence.EntityTypeQuote)
	if err != nil {
		return nil, err
	}
	quote, err := crm.NewQuoteFromDeal(deal, publicID, stage, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.logger.Info("lost quote creation race, reusing existing quote",
				zap.String("deal_public_id", deal.PublicID))
			return s.quotes.FindByDealID(ctx, orgID, deal.ID)
		}
		return nil, err
	}
	s.publishEvents(ctx, quote)

	return quote, nil
}

// AcceptQuote flips a quote to Accepted and feeds the customer ledger. The
// flip is a conditional update on the previous status, so re-accepting an
// already accepted quote reports applied=false and adds nothing to the
// ledger. The ledger itself is an insert-or-increment upsert keyed by the
// organization and client email.
func (s *ConversionService) AcceptQuote(ctx context.Context, orgID, actorID, quoteID uuid.UUID) (*AcceptQuoteResponse, error) {
	quote, err := s.quotes.FindByIDForOrg(ctx, orgID, quoteID)
	if err != nil {
		return nil, err
	}

	applied, err := s.quotes.MarkAccepted(ctx, orgID, quoteID, actorID)
	if err != nil {
		return nil, err
	}
	if !applied {
		quote.Status = crm.QuoteStatusAccepted
		return &AcceptQuoteResponse{Quote: ToQuoteResponse(quote), Applied: false}, nil
	}

	if err := quote.Accept(actorID); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, quote)

	response := &AcceptQuoteResponse{Quote: ToQuoteResponse(quote), Applied: true}

	if quote.ClientEmail == "" {
		s.logger.Warn("accepted quote has no client email, ledger not updated",
			zap.String("quote_public_id", quote.PublicID))
		return response, nil
	}

	customer, err := s.recordPurchase(ctx, orgID, actorID, quote)
	if err != nil {
		return nil, err
	}
	customerResponse := ToCustomerResponse(customer)
	response.Customer = &customerResponse

	return response, nil
}

// recordPurchase adds the quote total to the client's ledger, creating the
// customer when the email is new to the organization. An identifier allocated
// for a customer that loses the insert race stays consumed; counter values
// are never returned to the pool.
func (s *ConversionService) recordPurchase(ctx context.Context, orgID, actorID uuid.UUID, quote *crm.Quote) (*crm.Customer, error) {
	now := time.Now()
	found, err := s.customers.AddPurchase(ctx, orgID, quote.ClientEmail, quote.Total(), now)
	if err != nil {
		return nil, err
	}
	if found {
		customer, err := s.customers.FindByEmail(ctx, orgID, quote.ClientEmail)
		if err != nil {
			return nil, err
		}
		// The repository applied the increment; raise the event here so
		// repeat purchases reach subscribers the same way first ones do.
		customer.AddDomainEvent(crm.NewCustomerPurchaseRecordedEvent(customer, quote.Total()))
		s.publishEvents(ctx, customer)
		return customer, nil
	}

	publicID, err := s.allocator.AllocateID(ctx, sequence.EntityTypeCustomer)
	if err != nil {
		return nil, err
	}
	customer, err := crm.NewCustomerFromQuote(quote, publicID, actorID)
	if err != nil {
		return nil, err
	}

	persisted, err := s.customers.UpsertPurchase(ctx, customer)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, customer)

	return persisted, nil
}

// BulkConvertLeads converts a batch of leads into pipeline deals. The batch
// is not transactional: the first failure surfaces and deals already created
// stay. Re-running a partially failed batch is safe because leads that
// already produced a deal, or are already Converted, are skipped. When the
// request names a client, every created deal is linked to that customer; the
// client is resolved up front so an unknown identifier fails the batch before
// any lead is converted.
func (s *ConversionService) BulkConvertLeads(ctx context.Context, orgID, actorID uuid.UUID, req BulkConvertLeadsRequest) (*BulkConvertLeadsResponse, error) {
	stage := crm.DealStage(req.Stage)
	if stage == "" {
		stage = crm.DealStageQualified
	}
	if !stage.IsValid() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Invalid pipeline stage")
	}

	var client *crm.Customer
	if req.ClientID != "" {
		resolved, err := s.customers.FindByPublicID(ctx, orgID, req.ClientID)
		if err != nil {
			return nil, err
		}
		client = resolved
	}

	response := &BulkConvertLeadsResponse{
		Results: make([]BulkConvertResultItem, 0, len(req.LeadIDs)),
	}
	converted := make([]*crm.Lead, 0, len(req.LeadIDs))

	for _, publicID := range req.LeadIDs {
		lead, err := s.leads.FindByPublicID(ctx, orgID, publicID)
		if err != nil {
			return nil, err
		}

		if lead.IsConverted() {
			response.Skipped++
			response.Results = append(response.Results, BulkConvertResultItem{
				LeadPublicID: lead.PublicID,
				Skipped:      true,
			})
			continue
		}
		if existing, err := s.deals.FindByLeadID(ctx, orgID, lead.ID); err == nil {
			s.logger.Info("lead already has a deal, skipping",
				zap.String("lead_public_id", lead.PublicID),
				zap.String("deal_public_id", existing.PublicID))
			response.Skipped++
			response.Results = append(response.Results, BulkConvertResultItem{
				LeadPublicID: lead.PublicID,
				DealPublicID: existing.PublicID,
				Skipped:      true,
			})
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		dealPublicID, err := s.allocator.AllocateID(ctx, sequence.EntityTypePipelineDeal)
		if err != nil {
			return nil, err
		}
		deal, err := crm.NewPipelineDealFromLead(lead, dealPublicID, stage, actorID)
		if err != nil {
			return nil, err
		}
		if client != nil {
			deal.SetClient(&client.ID, client.Name, client.Email)
		}
		if err := s.deals.Save(ctx, deal); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, deal)

		lead.MarkConverted(actorID)
		converted = append(converted, lead)

		response.Converted++
		response.Results = append(response.Results, BulkConvertResultItem{
			LeadPublicID: lead.PublicID,
			DealPublicID: deal.PublicID,
		})
	}

	if len(converted) > 0 {
		ids := make([]uuid.UUID, 0, len(converted))
		for _, lead := range converted {
			ids = append(ids, lead.ID)
		}
		if err := s.leads.UpdateStatusBatch(ctx, orgID, ids, crm.LeadStatusConverted, actorID); err != nil {
			return nil, err
		}
		for _, lead := range converted {
			s.publishEvents(ctx, lead)
		}
	}

	return response, nil
}

// DeleteLead removes a lead and every pipeline deal generated from it. Deals
// go first so a failure between the two deletes never leaves a deal pointing
// at a missing lead.
func (s *ConversionService) DeleteLead(ctx context.Context, orgID, actorID, leadID uuid.UUID) error {
	lead, err := s.leads.FindByIDForOrg(ctx, orgID, leadID)
	if err != nil {
		return err
	}

	if err := s.deals.DeleteByLeadID(ctx, orgID, lead.ID); err != nil {
		return err
	}
	if err := s.leads.DeleteForOrg(ctx, orgID, lead.ID); err != nil {
		return err
	}

	s.logger.Info("lead deleted with its generated deals",
		zap.String("lead_public_id", lead.PublicID),
		zap.String("actor_id", actorID.String()))

	return nil
}

// GetQuoteByDeal returns the quote derived for a deal, if any
func (s *ConversionService) GetQuoteByDeal(ctx context.Context, orgID, dealID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quotes.FindByDealID(ctx, orgID, dealID)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

func (s *ConversionService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		aggregate.ClearDomainEvents()
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}
