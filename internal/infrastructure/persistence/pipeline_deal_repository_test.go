package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineDealRepositoryLeadLink(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	leads := NewGormLeadRepository(db)
	repo := NewGormPipelineDealRepository(db)
	orgID := uuid.New()
	actorID := uuid.New()

	lead := seedLead(t, leads, orgID, "LED000000030", "Acme Corp")

	deal, err := crm.NewPipelineDealFromLead(lead, "PIP0000012", crm.DealStageQualified, actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, deal))

	t.Run("finds the generated deal by source lead", func(t *testing.T) {
		found, err := repo.FindByLeadID(ctx, orgID, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, "PIP0000012", found.PublicID)
		require.NotNil(t, found.LeadID)
		assert.Equal(t, lead.ID, *found.LeadID)
	})

	t.Run("second deal for the same lead is rejected", func(t *testing.T) {
		second, err := crm.NewPipelineDealFromLead(lead, "PIP0000013", crm.DealStageQualified, actorID)
		require.NoError(t, err)

		err = repo.Save(ctx, second)
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("deals without a source lead do not collide", func(t *testing.T) {
		first, err := crm.NewPipelineDeal(orgID, "PIP0000014", "Direct deal", decimal.NewFromInt(100), crm.DealStageQualified)
		require.NoError(t, err)
		second, err := crm.NewPipelineDeal(orgID, "PIP0000015", "Another direct deal", decimal.NewFromInt(200), crm.DealStageQualified)
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))
	})

	t.Run("deleting by lead removes only generated deals", func(t *testing.T) {
		require.NoError(t, repo.DeleteByLeadID(ctx, orgID, lead.ID))

		_, err := repo.FindByLeadID(ctx, orgID, lead.ID)
		require.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByPublicID(ctx, orgID, "PIP0000014")
		assert.NoError(t, err)
	})
}

func TestPipelineDealRepositoryFinders(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPipelineDealRepository(newTestDB(t))
	orgID := uuid.New()

	deal, err := crm.NewPipelineDeal(orgID, "PIP0000020", "Enterprise rollout", decimal.NewFromInt(5000), crm.DealStageProposal)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, deal))

	t.Run("round-trips stage and probability", func(t *testing.T) {
		found, err := repo.FindByIDForOrg(ctx, orgID, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, crm.DealStageProposal, found.Stage)
		assert.Equal(t, 40, found.Probability)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("cross-organization read is a miss", func(t *testing.T) {
		_, err := repo.FindByPublicID(ctx, uuid.New(), "PIP0000020")
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("stage change persists through save", func(t *testing.T) {
		require.NoError(t, deal.ChangeStage(crm.DealStageClosedWon, uuid.New()))
		require.NoError(t, repo.Save(ctx, deal))

		found, err := repo.FindByPublicID(ctx, orgID, "PIP0000020")
		require.NoError(t, err)
		assert.Equal(t, crm.DealStageClosedWon, found.Stage)
		assert.Equal(t, 100, found.Probability)
	})
}
