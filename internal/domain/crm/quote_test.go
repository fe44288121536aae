package crm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func closedDeal(t *testing.T, stage DealStage) *PipelineDeal {
	t.Helper()
	deal, err := NewPipelineDeal(uuid.New(), "PIP0000012", "Enterprise rollout", decimal.NewFromInt(500), stage)
	assert.NoError(t, err)
	deal.ClientName = "Acme Corp"
	deal.ClientEmail = "billing@acme.test"
	return deal
}

func TestNewQuoteFromDeal(t *testing.T) {
	actorID := uuid.New()

	t.Run("closed won derives an accepted quote", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedWon)

		quote, err := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedWon, actorID)

		assert.NoError(t, err)
		assert.Equal(t, "QUO0000034", quote.PublicID)
		assert.Equal(t, QuoteStatusAccepted, quote.Status)
		assert.Equal(t, deal.ID, quote.PipelineDealID)
		assert.Equal(t, deal.OrgID, quote.OrgID)
		assert.Equal(t, "Acme Corp", quote.ClientName)
		assert.True(t, quote.Amount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("closed lost derives a declined quote", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedLost)

		quote, err := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedLost, actorID)

		assert.NoError(t, err)
		assert.Equal(t, QuoteStatusDeclined, quote.Status)
	})

	t.Run("copies product lines into line items", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedWon)
		assert.NoError(t, deal.AddProduct("Widget", decimal.NewFromInt(2), decimal.NewFromInt(100)))

		quote, err := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedWon, actorID)

		assert.NoError(t, err)
		assert.Len(t, quote.LineItems, 1)
		assert.Equal(t, "Widget", quote.LineItems[0].Description)
		assert.True(t, quote.LineItems[0].Total.Equal(decimal.NewFromInt(200)))
	})

	t.Run("valid for thirty days", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedWon)

		quote, err := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedWon, actorID)

		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(QuoteValidity), quote.ValidUntil, 5*time.Second)
	})

	t.Run("non-terminal stage is rejected", func(t *testing.T) {
		deal := closedDeal(t, DealStageNegotiation)

		quote, err := NewQuoteFromDeal(deal, "QUO0000034", DealStageNegotiation, actorID)

		assert.Nil(t, quote)
		assert.Error(t, err)
	})
}

func TestQuoteTotal(t *testing.T) {
	actorID := uuid.New()

	t.Run("sums line items", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedWon)
		assert.NoError(t, deal.AddProduct("Widget", decimal.NewFromInt(2), decimal.NewFromInt(100)))
		assert.NoError(t, deal.AddProduct("Gadget", decimal.NewFromInt(1), decimal.NewFromInt(50)))
		quote, _ := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedWon, actorID)

		assert.True(t, quote.Total().Equal(decimal.NewFromInt(250)))
	})

	t.Run("falls back to the amount without line items", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedWon)
		quote, _ := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedWon, actorID)

		assert.True(t, quote.Total().Equal(decimal.NewFromInt(500)))
	})
}

func TestQuoteAccept(t *testing.T) {
	actorID := uuid.New()

	t.Run("pending quote accepts", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedLost)
		quote, _ := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedLost, actorID)
		quote.ClearDomainEvents()

		err := quote.Accept(actorID)

		assert.NoError(t, err)
		assert.Equal(t, QuoteStatusAccepted, quote.Status)
		assert.Len(t, quote.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeQuoteAccepted, quote.GetDomainEvents()[0].EventType())
	})

	t.Run("accepted quote rejects a second accept", func(t *testing.T) {
		deal := closedDeal(t, DealStageClosedWon)
		quote, _ := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedWon, actorID)

		err := quote.Accept(actorID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestQuoteRefreshFromDeal(t *testing.T) {
	actorID := uuid.New()
	deal := closedDeal(t, DealStageClosedWon)
	quote, _ := NewQuoteFromDeal(deal, "QUO0000034", DealStageClosedWon, actorID)

	deal.Amount = decimal.NewFromInt(900)
	assert.NoError(t, deal.AddProduct("Widget", decimal.NewFromInt(3), decimal.NewFromInt(300)))
	quote.RefreshFromDeal(deal, actorID)

	assert.True(t, quote.Amount.Equal(decimal.NewFromInt(900)))
	assert.Len(t, quote.LineItems, 1)
	assert.True(t, quote.Total().Equal(decimal.NewFromInt(900)))
}
