package crm

import (
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the crm context
const (
	EventTypeLeadCreated            = "crm.lead.created"
	EventTypeLeadConverted          = "crm.lead.converted"
	EventTypeDealCreatedFromLead    = "crm.deal.created_from_lead"
	EventTypeDealStageChanged       = "crm.deal.stage_changed"
	EventTypeQuoteCreated           = "crm.quote.created"
	EventTypeQuoteAccepted          = "crm.quote.accepted"
	EventTypeCustomerPurchaseLogged = "crm.customer.purchase_recorded"
)

// LeadCreatedEvent is raised when a lead enters the system
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(lead *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, "Lead", lead.ID, lead.OrgID),
		PublicID:        lead.PublicID,
		Name:            lead.Name,
		Email:           lead.Email,
	}
}

// LeadConvertedEvent is raised when a lead becomes a pipeline deal
type LeadConvertedEvent struct {
	shared.BaseDomainEvent
	PublicID string `json:"public_id"`
}

// NewLeadConvertedEvent creates a new LeadConvertedEvent
func NewLeadConvertedEvent(lead *Lead) *LeadConvertedEvent {
	return &LeadConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadConverted, "Lead", lead.ID, lead.OrgID),
		PublicID:        lead.PublicID,
	}
}

// DealCreatedFromLeadEvent is raised when bulk conversion produces a deal
type DealCreatedFromLeadEvent struct {
	shared.BaseDomainEvent
	DealPublicID string `json:"deal_public_id"`
	LeadPublicID string `json:"lead_public_id"`
}

// NewDealCreatedFromLeadEvent creates a new DealCreatedFromLeadEvent
func NewDealCreatedFromLeadEvent(deal *PipelineDeal, lead *Lead) *DealCreatedFromLeadEvent {
	return &DealCreatedFromLeadEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreatedFromLead, "PipelineDeal", deal.ID, deal.OrgID),
		DealPublicID:    deal.PublicID,
		LeadPublicID:    lead.PublicID,
	}
}

// DealStageChangedEvent is raised on every stage transition
type DealStageChangedEvent struct {
	shared.BaseDomainEvent
	PublicID      string    `json:"public_id"`
	PreviousStage DealStage `json:"previous_stage"`
	NewStage      DealStage `json:"new_stage"`
}

// NewDealStageChangedEvent creates a new DealStageChangedEvent
func NewDealStageChangedEvent(deal *PipelineDeal, previous, next DealStage) *DealStageChangedEvent {
	return &DealStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealStageChanged, "PipelineDeal", deal.ID, deal.OrgID),
		PublicID:        deal.PublicID,
		PreviousStage:   previous,
		NewStage:        next,
	}
}

// QuoteCreatedEvent is raised when a terminal stage derives a quote
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	PublicID string      `json:"public_id"`
	Status   QuoteStatus `json:"status"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(quote *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, "Quote", quote.ID, quote.OrgID),
		PublicID:        quote.PublicID,
		Status:          quote.Status,
	}
}

// QuoteAcceptedEvent is raised on the not-yet-accepted to accepted transition
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	PublicID string `json:"public_id"`
}

// NewQuoteAcceptedEvent creates a new QuoteAcceptedEvent
func NewQuoteAcceptedEvent(quote *Quote) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, "Quote", quote.ID, quote.OrgID),
		PublicID:        quote.PublicID,
	}
}

// CustomerPurchaseRecordedEvent is raised when the ledger accumulator grows
type CustomerPurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	PublicID string          `json:"public_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewCustomerPurchaseRecordedEvent creates a new CustomerPurchaseRecordedEvent
func NewCustomerPurchaseRecordedEvent(customer *Customer, amount decimal.Decimal) *CustomerPurchaseRecordedEvent {
	return &CustomerPurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerPurchaseLogged, "Customer", customer.ID, customer.OrgID),
		PublicID:        customer.PublicID,
		Amount:          amount,
	}
}
