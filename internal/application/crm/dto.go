package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/shopspring/decimal"
)

// CreateLeadRequest is the request to create a lead
type CreateLeadRequest struct {
	Name              string          `json:"name" binding:"required,max=200"`
	Email             string          `json:"email" binding:"omitempty,email"`
	Phone             string          `json:"phone"`
	Company           string          `json:"company"`
	Source            string          `json:"source"`
	Notes             string          `json:"notes"`
	Budget            decimal.Decimal `json:"budget"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	Tags              []string        `json:"tags"`
	Priority          string          `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	AssigneeID        *uuid.UUID      `json:"assignee_id"`
}

// TransitionStageRequest moves a pipeline deal to a new stage
type TransitionStageRequest struct {
	Stage string `json:"stage" binding:"required,dealstage"`
}

// BulkConvertLeadsRequest converts a batch of leads into pipeline deals.
// ClientID optionally names an existing customer by public identifier; when
// set, every deal created by the batch is linked to that customer.
type BulkConvertLeadsRequest struct {
	LeadIDs  []string `json:"lead_ids" binding:"required,min=1,dive,required"`
	Stage    string   `json:"stage" binding:"omitempty,dealstage"`
	ClientID string   `json:"client_id" binding:"omitempty"`
}

// LeadResponse is the stable outward projection of a lead
type LeadResponse struct {
	ID                uuid.UUID       `json:"id"`
	PublicID          string          `json:"public_id"`
	Name              string          `json:"name"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Company           string          `json:"company,omitempty"`
	Source            string          `json:"source,omitempty"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	Budget            decimal.Decimal `json:"budget"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	Priority          string          `json:"priority"`
	AssigneeID        *uuid.UUID      `json:"assignee_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToLeadResponse converts a lead to its response projection
func ToLeadResponse(lead *crm.Lead) LeadResponse {
	return LeadResponse{
		ID:                lead.ID,
		PublicID:          lead.PublicID,
		Name:              lead.Name,
		Email:             lead.Email,
		Phone:             lead.Phone,
		Company:           lead.Company,
		Source:            lead.Source,
		Status:            lead.Status.String(),
		Notes:             lead.Notes,
		Budget:            lead.Budget,
		ExpectedCloseDate: lead.ExpectedCloseDate,
		Tags:              lead.Tags,
		Priority:          string(lead.Priority),
		AssigneeID:        lead.AssigneeID,
		CreatedAt:         lead.CreatedAt,
		UpdatedAt:         lead.UpdatedAt,
	}
}

// ProductItemResponse is a product line on a deal response
type ProductItemResponse struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PipelineDealResponse is the stable outward projection of a pipeline deal
type PipelineDealResponse struct {
	ID                uuid.UUID             `json:"id"`
	PublicID          string                `json:"public_id"`
	Title             string                `json:"title"`
	Amount            decimal.Decimal       `json:"amount"`
	Stage             string                `json:"stage"`
	Probability       int                   `json:"probability"`
	Products          []ProductItemResponse `json:"products,omitempty"`
	LeadID            *uuid.UUID            `json:"lead_id,omitempty"`
	ClientID          *uuid.UUID            `json:"client_id,omitempty"`
	ClientName        string                `json:"client_name,omitempty"`
	ClientEmail       string                `json:"client_email,omitempty"`
	AssigneeID        *uuid.UUID            `json:"assignee_id,omitempty"`
	ExpectedCloseDate *time.Time            `json:"expected_close_date,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	Tags              []string              `json:"tags,omitempty"`
	Priority          string                `json:"priority"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ToPipelineDealResponse converts a deal to its response projection
func ToPipelineDealResponse(deal *crm.PipelineDeal) PipelineDealResponse {
	products := make([]ProductItemResponse, 0, len(deal.Products))
	for _, p := range deal.Products {
		products = append(products, ProductItemResponse{
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    p.Price,
		})
	}
	return PipelineDealResponse{
		ID:                deal.ID,
		PublicID:          deal.PublicID,
		Title:             deal.Title,
		Amount:            deal.Amount,
		Stage:             deal.Stage.String(),
		Probability:       deal.Probability,
		Products:          products,
		LeadID:            deal.LeadID,
		ClientID:          deal.ClientID,
		ClientName:        deal.ClientName,
		ClientEmail:       deal.ClientEmail,
		AssigneeID:        deal.AssigneeID,
		ExpectedCloseDate: deal.ExpectedCloseDate,
		Notes:             deal.Notes,
		Tags:              deal.Tags,
		Priority:          string(deal.Priority),
		CreatedAt:         deal.CreatedAt,
		UpdatedAt:         deal.UpdatedAt,
	}
}

// LineItemResponse is a priced line on a quote response
type LineItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteResponse is the stable outward projection of a quote
type QuoteResponse struct {
	ID             uuid.UUID          `json:"id"`
	PublicID       string             `json:"public_id"`
	Title          string             `json:"title"`
	Amount         decimal.Decimal    `json:"amount"`
	Status         string             `json:"status"`
	PipelineDealID uuid.UUID          `json:"pipeline_deal_id"`
	ClientID       *uuid.UUID         `json:"client_id,omitempty"`
	ClientName     string             `json:"client_name,omitempty"`
	ClientEmail    string             `json:"client_email,omitempty"`
	LineItems      []LineItemResponse `json:"line_items,omitempty"`
	ValidUntil     time.Time          `json:"valid_until"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ToQuoteResponse converts a quote to its response projection
func ToQuoteResponse(quote *crm.Quote) QuoteResponse {
	items := make([]LineItemResponse, 0, len(quote.LineItems))
	for _, item := range quote.LineItems {
		items = append(items, LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}
	return QuoteResponse{
		ID:             quote.ID,
		PublicID:       quote.PublicID,
		Title:          quote.Title,
		Amount:         quote.Amount,
		Status:         quote.Status.String(),
		PipelineDealID: quote.PipelineDealID,
		ClientID:       quote.ClientID,
		ClientName:     quote.ClientName,
		ClientEmail:    quote.ClientEmail,
		LineItems:      items,
		ValidUntil:     quote.ValidUntil,
		CreatedAt:      quote.CreatedAt,
		UpdatedAt:      quote.UpdatedAt,
	}
}

// CustomerResponse is the stable outward projection of a customer
type CustomerResponse struct {
	ID           uuid.UUID       `json:"id"`
	PublicID     string          `json:"public_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	Company      string          `json:"company,omitempty"`
	TotalValue   decimal.Decimal `json:"total_value"`
	LastPurchase *time.Time      `json:"last_purchase,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a customer to its response projection
func ToCustomerResponse(customer *crm.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           customer.ID,
		PublicID:     customer.PublicID,
		Name:         customer.Name,
		Email:        customer.Email,
		Phone:        customer.Phone,
		Company:      customer.Company,
		TotalValue:   customer.TotalValue,
		LastPurchase: customer.LastPurchase,
		CreatedAt:    customer.CreatedAt,
		UpdatedAt:    customer.UpdatedAt,
	}
}

// TransitionStageResponse reports a stage transition and the quote the
// transition derived, when a terminal stage created or reused one.
type TransitionStageResponse struct {
	Deal  PipelineDealResponse `json:"deal"`
	Quote *QuoteResponse       `json:"quote,omitempty"`
}

// AcceptQuoteResponse reports an accept and the customer the ledger fed
type AcceptQuoteResponse struct {
	Quote    QuoteResponse     `json:"quote"`
	Customer *CustomerResponse `json:"customer,omitempty"`
	Applied  bool              `json:"applied"`
}

// BulkConvertResultItem reports the outcome for one lead in a bulk conversion
type BulkConvertResultItem struct {
	LeadPublicID string `json:"lead_public_id"`
	DealPublicID string `json:"deal_public_id,omitempty"`
	Skipped      bool   `json:"skipped,omitempty"`
}

// BulkConvertLeadsResponse reports a bulk conversion run
type BulkConvertLeadsResponse struct {
	Converted int                     `json:"converted"`
	Skipped   int                     `json:"skipped"`
	Results   []BulkConvertResultItem `json:"results"`
}
