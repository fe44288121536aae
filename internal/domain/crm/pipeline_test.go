package crm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDeal(t *testing.T) {
	orgID := uuid.New()

	t.Run("valid deal", func(t *testing.T) {
		deal, err := NewPipelineDeal(orgID, "PIP0000012", "Enterprise rollout", decimal.NewFromInt(20000), DealStageProposal)

		assert.NoError(t, err)
		assert.Equal(t, "PIP0000012", deal.PublicID)
		assert.Equal(t, DealStageProposal, deal.Stage)
		assert.Equal(t, 40, deal.Probability)
	})

	t.Run("empty stage defaults to qualified", func(t *testing.T) {
		deal, err := NewPipelineDeal(orgID, "PIP0000012", "Enterprise rollout", decimal.Zero, "")

		assert.NoError(t, err)
		assert.Equal(t, DealStageQualified, deal.Stage)
		assert.Equal(t, 20, deal.Probability)
	})

	t.Run("unknown stage", func(t *testing.T) {
		deal, err := NewPipelineDeal(orgID, "PIP0000012", "Enterprise rollout", decimal.Zero, "Archived")

		assert.Nil(t, deal)
		assert.Error(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		deal, err := NewPipelineDeal(orgID, "PIP0000012", "Enterprise rollout", decimal.NewFromInt(-5), DealStageQualified)

		assert.Nil(t, deal)
		assert.Error(t, err)
	})
}

func TestNewPipelineDealFromLead(t *testing.T) {
	orgID := uuid.New()
	actorID := uuid.New()

	t.Run("seeds deal from lead fields", func(t *testing.T) {
		lead, _ := NewLead(orgID, "LED000000004", "Acme Corp", "contact@acme.test")
		lead.SetIntake("warm intro", decimal.NewFromInt(8000), nil, []string{"enterprise"}, LeadPriorityHigh)

		deal, err := NewPipelineDealFromLead(lead, "PIP0000012", DealStageQualified, actorID)

		assert.NoError(t, err)
		assert.Equal(t, "Acme Corp", deal.Title)
		assert.True(t, deal.Amount.Equal(decimal.NewFromInt(8000)))
		assert.Equal(t, &lead.ID, deal.LeadID)
		assert.Equal(t, "contact@acme.test", deal.ClientEmail)
		assert.Equal(t, LeadPriorityHigh, deal.Priority)
		assert.Equal(t, &actorID, deal.AssigneeID)
	})

	t.Run("keeps the lead assignee when set", func(t *testing.T) {
		assignee := uuid.New()
		lead, _ := NewLead(orgID, "LED000000004", "Acme Corp", "")
		lead.Assign(assignee)

		deal, err := NewPipelineDealFromLead(lead, "PIP0000012", DealStageQualified, actorID)

		assert.NoError(t, err)
		assert.Equal(t, &assignee, deal.AssigneeID)
	})

	t.Run("emits the conversion event", func(t *testing.T) {
		lead, _ := NewLead(orgID, "LED000000004", "Acme Corp", "")

		deal, err := NewPipelineDealFromLead(lead, "PIP0000012", DealStageQualified, actorID)

		assert.NoError(t, err)
		events := deal.GetDomainEvents()
		assert.Len(t, events, 1)
		assert.Equal(t, EventTypeDealCreatedFromLead, events[0].EventType())
	})
}

func TestPipelineDealChangeStage(t *testing.T) {
	actorID := uuid.New()

	t.Run("any stage is reachable", func(t *testing.T) {
		deal, _ := NewPipelineDeal(uuid.New(), "PIP0000012", "Enterprise rollout", decimal.Zero, DealStageQualified)

		err := deal.ChangeStage(DealStageClosedWon, actorID)

		assert.NoError(t, err)
		assert.Equal(t, DealStageClosedWon, deal.Stage)
		assert.Equal(t, 100, deal.Probability)
	})

	t.Run("terminal stages stay mutable", func(t *testing.T) {
		deal, _ := NewPipelineDeal(uuid.New(), "PIP0000012", "Enterprise rollout", decimal.Zero, DealStageClosedWon)

		err := deal.ChangeStage(DealStageNegotiation, actorID)

		assert.NoError(t, err)
		assert.Equal(t, DealStageNegotiation, deal.Stage)
	})

	t.Run("rejects unknown stage", func(t *testing.T) {
		deal, _ := NewPipelineDeal(uuid.New(), "PIP0000012", "Enterprise rollout", decimal.Zero, DealStageQualified)

		err := deal.ChangeStage("Paused", actorID)

		assert.Error(t, err)
		assert.Equal(t, DealStageQualified, deal.Stage)
	})
}

func TestDealStageIsTerminal(t *testing.T) {
	assert.True(t, DealStageClosedWon.IsTerminal())
	assert.True(t, DealStageClosedLost.IsTerminal())
	assert.False(t, DealStageQualified.IsTerminal())
	assert.False(t, DealStageContract.IsTerminal())
}

func TestPipelineDealAddProduct(t *testing.T) {
	t.Run("appends product line", func(t *testing.T) {
		deal, _ := NewPipelineDeal(uuid.New(), "PIP0000012", "Enterprise rollout", decimal.Zero, DealStageQualified)

		err := deal.AddProduct("Widget", decimal.NewFromInt(2), decimal.NewFromInt(100))

		assert.NoError(t, err)
		assert.Len(t, deal.Products, 1)
		assert.True(t, deal.Products[0].Total().Equal(decimal.NewFromInt(200)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		deal, _ := NewPipelineDeal(uuid.New(), "PIP0000012", "Enterprise rollout", decimal.Zero, DealStageQualified)

		err := deal.AddProduct("Widget", decimal.Zero, decimal.NewFromInt(100))

		assert.Error(t, err)
		assert.Empty(t, deal.Products)
	})
}
