package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	// FindByIDForOrg finds a lead by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Lead, error)

	// FindByPublicID finds a lead by public identifier within an organization.
	// A public identifier that exists under a different organization resolves
	// the same as a nonexistent one.
	FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*Lead, error)

	// Save creates or updates a lead
	Save(ctx context.Context, lead *Lead) error

	// UpdateStatusBatch sets the status on every given lead in one statement
	UpdateStatusBatch(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID, status LeadStatus, actorID uuid.UUID) error

	// DeleteForOrg deletes a lead within an organization
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}

// PipelineDealRepository defines the interface for pipeline deal persistence
type PipelineDealRepository interface {
	// FindByIDForOrg finds a deal by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*PipelineDeal, error)

	// FindByPublicID finds a deal by public identifier within an organization
	FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*PipelineDeal, error)

	// FindByLeadID finds the deal generated from a lead, if any
	FindByLeadID(ctx context.Context, orgID, leadID uuid.UUID) (*PipelineDeal, error)

	// Save creates or updates a deal. Creating a second deal for the same
	// source lead returns ErrAlreadyExists.
	Save(ctx context.Context, deal *PipelineDeal) error

	// DeleteByLeadID removes every deal generated from the lead
	DeleteByLeadID(ctx context.Context, orgID, leadID uuid.UUID) error
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByIDForOrg finds a quote by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Quote, error)

	// FindByPublicID finds a quote by public identifier within an organization
	FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*Quote, error)

	// FindByDealID finds the quote referencing a pipeline deal, if any
	FindByDealID(ctx context.Context, orgID, dealID uuid.UUID) (*Quote, error)

	// Create persists a new quote. A concurrent quote for the same deal
	// surfaces as ErrAlreadyExists via the storage uniqueness constraint.
	Create(ctx context.Context, quote *Quote) error

	// Save updates an existing quote
	Save(ctx context.Context, quote *Quote) error

	// MarkAccepted flips the quote to Accepted only if it is not Accepted
	// already, in a single conditional update. It reports whether the
	// transition applied, so the caller accrues the ledger at most once.
	MarkAccepted(ctx context.Context, orgID, id, actorID uuid.UUID) (bool, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForOrg finds a customer by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Customer, error)

	// FindByPublicID finds a customer by public identifier within an organization
	FindByPublicID(ctx context.Context, orgID uuid.UUID, publicID string) (*Customer, error)

	// FindByEmail finds a customer by email within an organization
	FindByEmail(ctx context.Context, orgID uuid.UUID, email string) (*Customer, error)

	// AddPurchase atomically adds an amount to the ledger of the customer
	// with the given email and refreshes the last purchase timestamp. It
	// reports whether a matching customer row existed.
	AddPurchase(ctx context.Context, orgID uuid.UUID, email string, amount decimal.Decimal, at time.Time) (bool, error)

	// UpsertPurchase inserts the customer, or, when the (organization, email)
	// pair already exists, adds the customer's opening ledger value to the
	// existing row instead. Insert-or-increment happens in one atomic
	// statement so concurrent accepts never create duplicate customers.
	UpsertPurchase(ctx context.Context, customer *Customer) (*Customer, error)
}
