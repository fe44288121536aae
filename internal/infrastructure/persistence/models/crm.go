package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/shopspring/decimal"
)

// LeadModel is the persistence model for the Lead aggregate. Public
// identifiers are globally unique because the counter namespace is shared
// across organizations.
type LeadModel struct {
	OrgAggregateModel
	PublicID          string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_leads_public_id"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Email             string          `gorm:"type:varchar(200);index"`
	Phone             string          `gorm:"type:varchar(50)"`
	Company           string          `gorm:"type:varchar(200)"`
	Source            string          `gorm:"type:varchar(100)"`
	Status            crm.LeadStatus  `gorm:"type:varchar(20);not null;default:'New';index"`
	Notes             string          `gorm:"type:text"`
	Budget            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpectedCloseDate *time.Time
	Tags              []string         `gorm:"serializer:json;type:jsonb"`
	Priority          crm.LeadPriority `gorm:"type:varchar(20);not null;default:'Medium'"`
	AssigneeID        *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead
func (m *LeadModel) ToDomain() *crm.Lead {
	lead := &crm.Lead{
		PublicID:          m.PublicID,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Company:           m.Company,
		Source:            m.Source,
		Status:            m.Status,
		Notes:             m.Notes,
		Budget:            m.Budget,
		ExpectedCloseDate: m.ExpectedCloseDate,
		Tags:              m.Tags,
		Priority:          m.Priority,
		AssigneeID:        m.AssigneeID,
	}
	m.PopulateOrgAggregateRoot(&lead.OrgAggregateRoot)
	return lead
}

// FromDomain populates the persistence model from a domain Lead
func (m *LeadModel) FromDomain(l *crm.Lead) {
	m.FromDomainOrgAggregateRoot(l.OrgAggregateRoot)
	m.PublicID = l.PublicID
	m.Name = l.Name
	m.Email = l.Email
	m.Phone = l.Phone
	m.Company = l.Company
	m.Source = l.Source
	m.Status = l.Status
	m.Notes = l.Notes
	m.Budget = l.Budget
	m.ExpectedCloseDate = l.ExpectedCloseDate
	m.Tags = l.Tags
	m.Priority = l.Priority
	m.AssigneeID = l.AssigneeID
}

// LeadModelFromDomain creates a new persistence model from a domain Lead
func LeadModelFromDomain(l *crm.Lead) *LeadModel {
	m := &LeadModel{}
	m.FromDomain(l)
	return m
}

// PipelineDealModel is the persistence model for the PipelineDeal aggregate.
// The partial unique index on lead_id is the idempotency marker for bulk
// conversion: one generated deal per source lead.
type PipelineDealModel struct {
	OrgAggregateModel
	PublicID          string            `gorm:"type:varchar(20);not null;uniqueIndex:idx_deals_public_id"`
	Title             string            `gorm:"type:varchar(200);not null"`
	Amount            decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Stage             crm.DealStage     `gorm:"type:varchar(20);not null;default:'Qualified';index"`
	Probability       int               `gorm:"not null;default:0"`
	Products          []crm.ProductItem `gorm:"serializer:json;type:jsonb"`
	LeadID            *uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_deals_lead_id,where:lead_id IS NOT NULL"`
	ClientID          *uuid.UUID        `gorm:"type:uuid;index"`
	ClientName        string            `gorm:"type:varchar(200)"`
	ClientEmail       string            `gorm:"type:varchar(200)"`
	AssigneeID        *uuid.UUID        `gorm:"type:uuid;index"`
	ExpectedCloseDate *time.Time
	Notes             string           `gorm:"type:text"`
	Tags              []string         `gorm:"serializer:json;type:jsonb"`
	Priority          crm.LeadPriority `gorm:"type:varchar(20);not null;default:'Medium'"`
}

// TableName returns the table name for GORM
func (PipelineDealModel) TableName() string {
	return "pipeline_deals"
}

// ToDomain converts the persistence model to a domain PipelineDeal
func (m *PipelineDealModel) ToDomain() *crm.PipelineDeal {
	deal := &crm.PipelineDeal{
		PublicID:          m.PublicID,
		Title:             m.Title,
		Amount:            m.Amount,
		Stage:             m.Stage,
		Probability:       m.Probability,
		Products:          m.Products,
		LeadID:            m.LeadID,
		ClientID:          m.ClientID,
		ClientName:        m.ClientName,
		ClientEmail:       m.ClientEmail,
		AssigneeID:        m.AssigneeID,
		ExpectedCloseDate: m.ExpectedCloseDate,
		Notes:             m.Notes,
		Tags:              m.Tags,
		Priority:          m.Priority,
	}
	m.PopulateOrgAggregateRoot(&deal.OrgAggregateRoot)
	return deal
}

// FromDomain populates the persistence model from a domain PipelineDeal
func (m *PipelineDealModel) FromDomain(d *crm.PipelineDeal) {
	m.FromDomainOrgAggregateRoot(d.OrgAggregateRoot)
	m.PublicID = d.PublicID
	m.Title = d.Title
	m.Amount = d.Amount
	m.Stage = d.Stage
	m.Probability = d.Probability
	m.Products = d.Products
	m.LeadID = d.LeadID
	m.ClientID = d.ClientID
	m.ClientName = d.ClientName
	m.ClientEmail = d.ClientEmail
	m.AssigneeID = d.AssigneeID
	m.ExpectedCloseDate = d.ExpectedCloseDate
	m.Notes = d.Notes
	m.Tags = d.Tags
	m.Priority = d.Priority
}

// PipelineDealModelFromDomain creates a new persistence model from a domain deal
func PipelineDealModelFromDomain(d *crm.PipelineDeal) *PipelineDealModel {
	m := &PipelineDealModel{}
	m.FromDomain(d)
	return m
}

// QuoteModel is the persistence model for the Quote aggregate. The unique
// index on pipeline_deal_id enforces at most one quote per deal; concurrent
// terminal transitions race on it and the loser falls back to the winner's
// row.
type QuoteModel struct {
	OrgAggregateModel
	PublicID       string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_quotes_public_id"`
	Title          string          `gorm:"type:varchar(200);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         crm.QuoteStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	PipelineDealID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_quotes_deal_id"`
	ClientID       *uuid.UUID      `gorm:"type:uuid;index"`
	ClientName     string          `gorm:"type:varchar(200)"`
	ClientEmail    string          `gorm:"type:varchar(200)"`
	LineItems      []crm.LineItem  `gorm:"serializer:json;type:jsonb"`
	ValidUntil     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote
func (m *QuoteModel) ToDomain() *crm.Quote {
	quote := &crm.Quote{
		PublicID:       m.PublicID,
		Title:          m.Title,
		Amount:         m.Amount,
		Status:         m.Status,
		PipelineDealID: m.PipelineDealID,
		ClientID:       m.ClientID,
		ClientName:     m.ClientName,
		ClientEmail:    m.ClientEmail,
		LineItems:      m.LineItems,
		ValidUntil:     m.ValidUntil,
	}
	m.PopulateOrgAggregateRoot(&quote.OrgAggregateRoot)
	return quote
}

// FromDomain populates the persistence model from a domain Quote
func (m *QuoteModel) FromDomain(q *crm.Quote) {
	m.FromDomainOrgAggregateRoot(q.OrgAggregateRoot)
	m.PublicID = q.PublicID
	m.Title = q.Title
	m.Amount = q.Amount
	m.Status = q.Status
	m.PipelineDealID = q.PipelineDealID
	m.ClientID = q.ClientID
	m.ClientName = q.ClientName
	m.ClientEmail = q.ClientEmail
	m.LineItems = q.LineItems
	m.ValidUntil = q.ValidUntil
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote
func QuoteModelFromDomain(q *crm.Quote) *QuoteModel {
	m := &QuoteModel{}
	m.FromDomain(q)
	return m
}

// CustomerModel is the persistence model for the Customer aggregate. The
// (tenant_id, email) pair is unique; accepted quotes upsert against it. The
// composite index spans an embedded column, so it lives in the migrations
// rather than in a tag here.
type CustomerModel struct {
	OrgAggregateModel
	PublicID     string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_customers_public_id"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Email        string          `gorm:"type:varchar(200);not null;index"`
	Phone        string          `gorm:"type:varchar(50)"`
	Company      string          `gorm:"type:varchar(200)"`
	TotalValue   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastPurchase *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *crm.Customer {
	customer := &crm.Customer{
		PublicID:     m.PublicID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Company:      m.Company,
		TotalValue:   m.TotalValue,
		LastPurchase: m.LastPurchase,
	}
	m.PopulateOrgAggregateRoot(&customer.OrgAggregateRoot)
	return customer
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *crm.Customer) {
	m.FromDomainOrgAggregateRoot(c.OrgAggregateRoot)
	m.PublicID = c.PublicID
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Company = c.Company
	m.TotalValue = c.TotalValue
	m.LastPurchase = c.LastPurchase
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *crm.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
