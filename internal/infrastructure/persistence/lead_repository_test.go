package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLead(t *testing.T, repo *GormLeadRepository, orgID uuid.UUID, publicID, name string) *crm.Lead {
	t.Helper()
	lead, err := crm.NewLead(orgID, publicID, name, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), lead))
	return lead
}

func TestLeadRepositoryFindByPublicID(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))
	orgID := uuid.New()
	otherOrgID := uuid.New()

	seedLead(t, repo, orgID, "LED000000004", "Acme Corp")

	t.Run("finds a lead in its own organization", func(t *testing.T) {
		lead, err := repo.FindByPublicID(ctx, orgID, "LED000000004")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", lead.Name)
		assert.Equal(t, orgID, lead.OrgID)
	})

	t.Run("cross-organization read is indistinguishable from a miss", func(t *testing.T) {
		_, crossErr := repo.FindByPublicID(ctx, otherOrgID, "LED000000004")
		_, missErr := repo.FindByPublicID(ctx, orgID, "LED999999999")
		require.ErrorIs(t, crossErr, shared.ErrNotFound)
		require.ErrorIs(t, missErr, shared.ErrNotFound)
		assert.Equal(t, crossErr, missErr)
	})
}

func TestLeadRepositorySave(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))
	orgID := uuid.New()

	t.Run("round-trips intake fields", func(t *testing.T) {
		lead, err := crm.NewLead(orgID, "LED000000001", "Widgets Inc", "buyer@widgets.test")
		require.NoError(t, err)
		lead.Tags = []string{"inbound", "webinar"}
		lead.Priority = crm.LeadPriorityHigh
		require.NoError(t, repo.Save(ctx, lead))

		found, err := repo.FindByIDForOrg(ctx, orgID, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, "buyer@widgets.test", found.Email)
		assert.Equal(t, []string{"inbound", "webinar"}, found.Tags)
		assert.Equal(t, crm.LeadPriorityHigh, found.Priority)
		assert.Equal(t, crm.LeadStatusNew, found.Status)
	})

	t.Run("public identifiers are unique across organizations", func(t *testing.T) {
		seedLead(t, repo, orgID, "LED000000002", "First Org Lead")

		dup, err := crm.NewLead(uuid.New(), "LED000000002", "Second Org Lead", "")
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("saving an existing lead updates in place", func(t *testing.T) {
		lead := seedLead(t, repo, orgID, "LED000000003", "Before")
		lead.Name = "After"
		require.NoError(t, repo.Save(ctx, lead))

		found, err := repo.FindByIDForOrg(ctx, orgID, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", found.Name)
	})
}

func TestLeadRepositoryUpdateStatusBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))
	orgID := uuid.New()
	actorID := uuid.New()

	first := seedLead(t, repo, orgID, "LED000000010", "First")
	second := seedLead(t, repo, orgID, "LED000000011", "Second")
	untouched := seedLead(t, repo, orgID, "LED000000012", "Third")

	err := repo.UpdateStatusBatch(ctx, orgID, []uuid.UUID{first.ID, second.ID}, crm.LeadStatusConverted, actorID)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		found, err := repo.FindByIDForOrg(ctx, orgID, id)
		require.NoError(t, err)
		assert.Equal(t, crm.LeadStatusConverted, found.Status)
		require.NotNil(t, found.UpdatedBy)
		assert.Equal(t, actorID, *found.UpdatedBy)
	}

	found, err := repo.FindByIDForOrg(ctx, orgID, untouched.ID)
	require.NoError(t, err)
	assert.Equal(t, crm.LeadStatusNew, found.Status)

	assert.NoError(t, repo.UpdateStatusBatch(ctx, orgID, nil, crm.LeadStatusConverted, actorID))
}

func TestLeadRepositoryDeleteForOrg(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))
	orgID := uuid.New()

	lead := seedLead(t, repo, orgID, "LED000000020", "Doomed")

	t.Run("another organization cannot delete the lead", func(t *testing.T) {
		err := repo.DeleteForOrg(ctx, uuid.New(), lead.ID)
		require.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByIDForOrg(ctx, orgID, lead.ID)
		assert.NoError(t, err)
	})

	t.Run("owning organization deletes the lead", func(t *testing.T) {
		require.NoError(t, repo.DeleteForOrg(ctx, orgID, lead.ID))

		_, err := repo.FindByIDForOrg(ctx, orgID, lead.ID)
		require.ErrorIs(t, err, shared.ErrNotFound)

		err = repo.DeleteForOrg(ctx, orgID, lead.ID)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
