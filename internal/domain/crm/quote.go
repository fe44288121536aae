package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "Pending"
	QuoteStatusAccepted QuoteStatus = "Accepted"
	QuoteStatusDeclined QuoteStatus = "Declined"
	QuoteStatusExpired  QuoteStatus = "Expired"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// QuoteValidity is how long a synthesized quote stays valid
const QuoteValidity = 30 * 24 * time.Hour

// LineItem is a priced line on a quote
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// NewLineItem builds a line item with its total computed
func NewLineItem(description string, quantity, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       quantity.Mul(unitPrice),
	}
}

// Quote is a priced offer derived from a pipeline deal. At most one quote
// references a given deal at any time; accepting a quote feeds the customer
// ledger exactly once.
type Quote struct {
	shared.OrgAggregateRoot
	PublicID       string
	Title          string
	Amount         decimal.Decimal
	Status         QuoteStatus
	PipelineDealID uuid.UUID
	ClientID       *uuid.UUID
	ClientName     string
	ClientEmail    string
	LineItems      []LineItem
	ValidUntil     time.Time
}

// NewQuoteFromDeal synthesizes the quote for a deal that reached a terminal
// stage: Accepted for ClosedWon, Declined for ClosedLost. Line items are
// copied from the deal's product list and the quote stays valid for 30 days.
func NewQuoteFromDeal(deal *PipelineDeal, publicID string, stage DealStage, actorID uuid.UUID) (*Quote, error) {
	if publicID == "" {
		return nil, shared.NewDomainError("INVALID_PUBLIC_ID", "Public identifier cannot be empty")
	}
	if !stage.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Quotes derive only from terminal stages")
	}

	status := QuoteStatusAccepted
	if stage == DealStageClosedLost {
		status = QuoteStatusDeclined
	}

	items := make([]LineItem, 0, len(deal.Products))
	for _, p := range deal.Products {
		items = append(items, NewLineItem(p.Name, p.Quantity, p.Price))
	}

	quote := &Quote{
		OrgAggregateRoot: shared.NewOrgAggregateRootWithActor(deal.OrgID, actorID),
		PublicID:         publicID,
		Title:            deal.Title,
		Amount:           deal.Amount,
		Status:           status,
		PipelineDealID:   deal.ID,
		ClientID:         deal.ClientID,
		ClientName:       deal.ClientName,
		ClientEmail:      deal.ClientEmail,
		LineItems:        items,
		ValidUntil:       time.Now().Add(QuoteValidity),
	}

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))

	return quote, nil
}

// Total returns the amount the customer ledger accrues when the quote is
// accepted: the sum of line item totals, or the quote amount when the quote
// carries no line items.
func (q *Quote) Total() decimal.Decimal {
	if len(q.LineItems) == 0 {
		return q.Amount
	}
	total := decimal.Zero
	for _, item := range q.LineItems {
		total = total.Add(item.Total)
	}
	return total
}

// Accept flips the quote to Accepted. The ledger-facing guard lives in the
// repository (conditional update on the previous status); this method only
// mutates the aggregate for callers that already hold the guard.
func (q *Quote) Accept(actorID uuid.UUID) error {
	if q.Status == QuoteStatusAccepted {
		return shared.ErrInvalidState
	}
	q.Status = QuoteStatusAccepted
	q.Touch(actorID)
	q.AddDomainEvent(NewQuoteAcceptedEvent(q))
	return nil
}

// SetStatus sets the quote status without ledger side effects
func (q *Quote) SetStatus(status QuoteStatus, actorID uuid.UUID) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid quote status")
	}
	q.Status = status
	q.Touch(actorID)
	return nil
}

// RefreshFromDeal re-prices the quote from the deal's current amount and
// product list. Used only when the quote refresh policy allows updating a
// previously derived quote after the deal re-closes with different numbers.
func (q *Quote) RefreshFromDeal(deal *PipelineDeal, actorID uuid.UUID) {
	q.Amount = deal.Amount
	items := make([]LineItem, 0, len(deal.Products))
	for _, p := range deal.Products {
		items = append(items, NewLineItem(p.Name, p.Quantity, p.Price))
	}
	q.LineItems = items
	q.Touch(actorID)
}
