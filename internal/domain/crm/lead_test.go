package crm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLead(t *testing.T) {
	orgID := uuid.New()

	t.Run("valid lead", func(t *testing.T) {
		lead, err := NewLead(orgID, "LED000000004", "Acme Corp", "contact@acme.test")

		assert.NoError(t, err)
		assert.NotNil(t, lead)
		assert.Equal(t, "LED000000004", lead.PublicID)
		assert.Equal(t, "Acme Corp", lead.Name)
		assert.Equal(t, LeadStatusNew, lead.Status)
		assert.Equal(t, LeadPriorityMedium, lead.Priority)
		assert.Equal(t, orgID, lead.OrgID)
		assert.True(t, lead.Budget.IsZero())
		assert.Len(t, lead.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeLeadCreated, lead.GetDomainEvents()[0].EventType())
	})

	t.Run("empty public identifier", func(t *testing.T) {
		lead, err := NewLead(orgID, "", "Acme Corp", "contact@acme.test")

		assert.Nil(t, lead)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PUBLIC_ID", domainErr.Code)
	})

	t.Run("empty name", func(t *testing.T) {
		lead, err := NewLead(orgID, "LED000000004", "", "contact@acme.test")

		assert.Nil(t, lead)
		assert.Error(t, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		lead, err := NewLead(orgID, "LED000000004", "Acme Corp", "not-an-email")

		assert.Nil(t, lead)
		assert.Error(t, err)
	})

	t.Run("email is optional", func(t *testing.T) {
		lead, err := NewLead(orgID, "LED000000004", "Acme Corp", "")

		assert.NoError(t, err)
		assert.NotNil(t, lead)
	})
}

func TestLeadSetStatus(t *testing.T) {
	orgID := uuid.New()
	actorID := uuid.New()

	t.Run("valid transition", func(t *testing.T) {
		lead, _ := NewLead(orgID, "LED000000004", "Acme Corp", "")

		err := lead.SetStatus(LeadStatusContacted, actorID)

		assert.NoError(t, err)
		assert.Equal(t, LeadStatusContacted, lead.Status)
		assert.Equal(t, &actorID, lead.UpdatedBy)
		assert.Equal(t, 2, lead.GetVersion())
	})

	t.Run("invalid status", func(t *testing.T) {
		lead, _ := NewLead(orgID, "LED000000004", "Acme Corp", "")

		err := lead.SetStatus("Frozen", actorID)

		assert.Error(t, err)
		assert.Equal(t, LeadStatusNew, lead.Status)
	})
}

func TestLeadMarkConverted(t *testing.T) {
	orgID := uuid.New()
	actorID := uuid.New()

	t.Run("converts once", func(t *testing.T) {
		lead, _ := NewLead(orgID, "LED000000004", "Acme Corp", "")
		lead.ClearDomainEvents()

		lead.MarkConverted(actorID)

		assert.True(t, lead.IsConverted())
		assert.Len(t, lead.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeLeadConverted, lead.GetDomainEvents()[0].EventType())
	})

	t.Run("second conversion is a no-op", func(t *testing.T) {
		lead, _ := NewLead(orgID, "LED000000004", "Acme Corp", "")
		lead.MarkConverted(actorID)
		version := lead.GetVersion()
		lead.ClearDomainEvents()

		lead.MarkConverted(actorID)

		assert.True(t, lead.IsConverted())
		assert.Equal(t, version, lead.GetVersion())
		assert.Empty(t, lead.GetDomainEvents())
	})
}

func TestLeadSetIntake(t *testing.T) {
	lead, _ := NewLead(uuid.New(), "LED000000004", "Acme Corp", "")
	close := time.Now().AddDate(0, 1, 0)

	lead.SetIntake("warm intro", decimal.NewFromInt(5000), &close, []string{"enterprise"}, LeadPriorityHigh)

	assert.Equal(t, "warm intro", lead.Notes)
	assert.True(t, lead.Budget.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, &close, lead.ExpectedCloseDate)
	assert.Equal(t, []string{"enterprise"}, lead.Tags)
	assert.Equal(t, LeadPriorityHigh, lead.Priority)
}

func TestLeadSetIntakeIgnoresNegativeBudget(t *testing.T) {
	lead, _ := NewLead(uuid.New(), "LED000000004", "Acme Corp", "")

	lead.SetIntake("", decimal.NewFromInt(-1), nil, nil, "")

	assert.True(t, lead.Budget.IsZero())
	assert.Equal(t, LeadPriorityMedium, lead.Priority)
}
