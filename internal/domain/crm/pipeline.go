package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DealStage represents the stage of a pipeline deal
type DealStage string

const (
	DealStageQualified   DealStage = "Qualified"
	DealStageProposal    DealStage = "Proposal"
	DealStageNegotiation DealStage = "Negotiation"
	DealStageContract    DealStage = "Contract"
	DealStageClosedWon   DealStage = "ClosedWon"
	DealStageClosedLost  DealStage = "ClosedLost"
)

// IsValid checks if the stage is a valid DealStage
func (s DealStage) IsValid() bool {
	switch s {
	case DealStageQualified, DealStageProposal, DealStageNegotiation,
		DealStageContract, DealStageClosedWon, DealStageClosedLost:
		return true
	}
	return false
}

// IsTerminal reports whether the stage triggers one-time quote creation.
// Terminal is about side effects only; the stage field itself stays mutable.
func (s DealStage) IsTerminal() bool {
	return s == DealStageClosedWon || s == DealStageClosedLost
}

// String returns the string representation of DealStage
func (s DealStage) String() string {
	return string(s)
}

// ProductItem is a product line on a pipeline deal
type ProductItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Total returns quantity multiplied by unit price
func (p ProductItem) Total() decimal.Decimal {
	return p.Quantity.Mul(p.Price)
}

// PipelineDeal represents a sales opportunity moving through the pipeline.
// A deal is created directly or generated from a lead; reaching a terminal
// stage derives a quote as a one-time side effect.
type PipelineDeal struct {
	shared.OrgAggregateRoot
	PublicID          string
	Title             string
	Amount            decimal.Decimal
	Stage             DealStage
	Probability       int
	Products          []ProductItem
	LeadID            *uuid.UUID // source lead when generated by bulk conversion
	ClientID          *uuid.UUID
	ClientName        string
	ClientEmail       string
	AssigneeID        *uuid.UUID
	ExpectedCloseDate *time.Time
	Notes             string
	Tags              []string
	Priority          LeadPriority
}

// NewPipelineDeal creates a new pipeline deal
func NewPipelineDeal(orgID uuid.UUID, publicID, title string, amount decimal.Decimal, stage DealStage) (*PipelineDeal, error) {
	if publicID == "" {
		return nil, shared.NewDomainError("INVALID_PUBLIC_ID", "Public identifier cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot exceed 200 characters")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deal amount cannot be negative")
	}
	if stage == "" {
		stage = DealStageQualified
	}
	if !stage.IsValid() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Invalid pipeline stage")
	}

	deal := &PipelineDeal{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		PublicID:         publicID,
		Title:            title,
		Amount:           amount,
		Stage:            stage,
		Probability:      defaultProbability(stage),
		Priority:         LeadPriorityMedium,
	}

	return deal, nil
}

// NewPipelineDealFromLead seeds a deal from a lead during bulk conversion.
// The created deal records the source lead so re-running a partially failed
// conversion can skip leads that already produced a deal.
func NewPipelineDealFromLead(lead *Lead, publicID string, stage DealStage, assigneeID uuid.UUID) (*PipelineDeal, error) {
	deal, err := NewPipelineDeal(lead.OrgID, publicID, lead.Name, lead.Budget, stage)
	if err != nil {
		return nil, err
	}

	leadID := lead.ID
	deal.LeadID = &leadID
	deal.ClientEmail = lead.Email
	deal.ClientName = lead.Name
	deal.Notes = lead.Notes
	deal.ExpectedCloseDate = lead.ExpectedCloseDate
	deal.Tags = lead.Tags
	deal.Priority = lead.Priority
	if lead.AssigneeID != nil {
		deal.AssigneeID = lead.AssigneeID
	} else {
		deal.AssigneeID = &assigneeID
	}

	deal.AddDomainEvent(NewDealCreatedFromLeadEvent(deal, lead))

	return deal, nil
}

// ChangeStage moves the deal to a new stage. Any valid stage is reachable
// from any non-terminal stage, and terminal stages remain mutable afterwards;
// quote side effects are handled by the caller exactly once per deal.
func (d *PipelineDeal) ChangeStage(stage DealStage, actorID uuid.UUID) error {
	if !stage.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Invalid pipeline stage")
	}

	previous := d.Stage
	d.Stage = stage
	d.Probability = defaultProbability(stage)
	d.Touch(actorID)

	d.AddDomainEvent(NewDealStageChangedEvent(d, previous, stage))

	return nil
}

// SetClient sets the client the deal is negotiated with
func (d *PipelineDeal) SetClient(clientID *uuid.UUID, name, email string) {
	d.ClientID = clientID
	if name != "" {
		d.ClientName = name
	}
	if email != "" {
		d.ClientEmail = email
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// AddProduct appends a product line to the deal
func (d *PipelineDeal) AddProduct(name string, quantity, price decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	item := ProductItem{Name: name, Quantity: quantity, Price: price}
	d.Products = append(d.Products, item)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

func defaultProbability(stage DealStage) int {
	switch stage {
	case DealStageQualified:
		return 20
	case DealStageProposal:
		return 40
	case DealStageNegotiation:
		return 60
	case DealStageContract:
		return 80
	case DealStageClosedWon:
		return 100
	case DealStageClosedLost:
		return 0
	}
	return 0
}
