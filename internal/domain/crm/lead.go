// Package crm holds the sales conversion domain: leads, pipeline deals,
// quotes, and the customer ledger they feed.
package crm

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeadStatus represents the lifecycle status of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusConverted LeadStatus = "Converted"
	LeadStatusLost      LeadStatus = "Lost"
)

// IsValid checks if the status is a valid LeadStatus
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// String returns the string representation of LeadStatus
func (s LeadStatus) String() string {
	return string(s)
}

// LeadPriority is the free-form priority label carried from intake
type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "Low"
	LeadPriorityMedium LeadPriority = "Medium"
	LeadPriorityHigh   LeadPriority = "High"
)

// Lead represents an unqualified sales contact. It is the entry point of the
// conversion lifecycle: bulk conversion turns a lead into a pipeline deal and
// marks the lead Converted.
type Lead struct {
	shared.OrgAggregateRoot
	PublicID          string
	Name              string
	Email             string
	Phone             string
	Company           string
	Source            string
	Status            LeadStatus
	Notes             string
	Budget            decimal.Decimal
	ExpectedCloseDate *time.Time
	Tags              []string
	Priority          LeadPriority
	AssigneeID        *uuid.UUID
}

var leadEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewLead creates a new lead with required fields
func NewLead(orgID uuid.UUID, publicID, name, email string) (*Lead, error) {
	if publicID == "" {
		return nil, shared.NewDomainError("INVALID_PUBLIC_ID", "Public identifier cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	if email != "" && !leadEmailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	lead := &Lead{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		PublicID:         publicID,
		Name:             name,
		Email:            email,
		Status:           LeadStatusNew,
		Budget:           decimal.Zero,
		Priority:         LeadPriorityMedium,
	}

	lead.AddDomainEvent(NewLeadCreatedEvent(lead))

	return lead, nil
}

// SetStatus sets the lead status
func (l *Lead) SetStatus(status LeadStatus, actorID uuid.UUID) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid lead status")
	}
	l.Status = status
	l.Touch(actorID)
	return nil
}

// MarkConverted transitions the lead to Converted. Converting an already
// converted lead is a no-op so that conversion re-runs stay safe.
func (l *Lead) MarkConverted(actorID uuid.UUID) {
	if l.Status == LeadStatusConverted {
		return
	}
	l.Status = LeadStatusConverted
	l.Touch(actorID)
	l.AddDomainEvent(NewLeadConvertedEvent(l))
}

// SetIntake sets the qualification fields captured at intake
func (l *Lead) SetIntake(notes string, budget decimal.Decimal, expectedClose *time.Time, tags []string, priority LeadPriority) {
	l.Notes = notes
	if !budget.IsNegative() {
		l.Budget = budget
	}
	l.ExpectedCloseDate = expectedClose
	l.Tags = tags
	if priority != "" {
		l.Priority = priority
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Assign sets the owning user
func (l *Lead) Assign(userID uuid.UUID) {
	l.AssigneeID = &userID
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsConverted returns true once the lead has produced a pipeline deal
func (l *Lead) IsConverted() bool {
	return l.Status == LeadStatusConverted
}
