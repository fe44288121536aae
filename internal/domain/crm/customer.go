package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer is the billing-side record created from accepted quotes. The
// (organization, email) pair is unique; each accepted quote adds its total to
// the customer's ledger accumulator.
type Customer struct {
	shared.OrgAggregateRoot
	PublicID     string
	Name         string
	Email        string
	Phone        string
	Company      string
	TotalValue   decimal.Decimal
	LastPurchase *time.Time
}

// NewCustomer creates a new customer
func NewCustomer(orgID uuid.UUID, publicID, name, email string) (*Customer, error) {
	if publicID == "" {
		return nil, shared.NewDomainError("INVALID_PUBLIC_ID", "Public identifier cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Customer email cannot be empty")
	}

	return &Customer{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		PublicID:         publicID,
		Name:             name,
		Email:            strings.ToLower(email),
		TotalValue:       decimal.Zero,
	}, nil
}

// NewCustomerFromQuote seeds a customer from an accepted quote's client
// fields, with the quote total as the opening ledger value.
func NewCustomerFromQuote(quote *Quote, publicID string, actorID uuid.UUID) (*Customer, error) {
	name := quote.ClientName
	if name == "" {
		name = quote.Title
	}
	customer, err := NewCustomer(quote.OrgID, publicID, name, quote.ClientEmail)
	if err != nil {
		return nil, err
	}
	customer.CreatedBy = &actorID
	customer.UpdatedBy = &actorID
	customer.RecordPurchase(quote.Total(), time.Now())
	return customer, nil
}

// RecordPurchase adds an accepted quote's total to the ledger accumulator
// and refreshes the last purchase timestamp.
func (c *Customer) RecordPurchase(amount decimal.Decimal, at time.Time) {
	c.TotalValue = c.TotalValue.Add(amount)
	c.LastPurchase = &at
	c.UpdatedAt = at
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerPurchaseRecordedEvent(c, amount))
}
