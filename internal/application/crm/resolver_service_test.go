package crm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/sequence"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	leads     *mockLeadRepository
	deals     *mockDealRepository
	quotes    *mockQuoteRepository
	customers *mockCustomerRepository
	service   *ResolverService
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		leads:     new(mockLeadRepository),
		deals:     new(mockDealRepository),
		quotes:    new(mockQuoteRepository),
		customers: new(mockCustomerRepository),
	}
	f.service = NewResolverService(f.leads, f.deals, f.quotes, f.customers)
	return f
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("resolves a lead within the organization", func(t *testing.T) {
		f := newResolverFixture()
		lead, _ := crm.NewLead(orgID, "LED000000004", "Acme Corp", "")

		f.leads.On("FindByPublicID", ctx, orgID, "LED000000004").Return(lead, nil)

		ref, err := f.service.Resolve(ctx, orgID, sequence.EntityTypeLead, "LED000000004")

		require.NoError(t, err)
		assert.Equal(t, lead.ID, ref.ID)
		assert.Equal(t, sequence.EntityTypeLead, ref.EntityType)
		assert.Equal(t, "LED000000004", ref.PublicID)
	})

	t.Run("resolves a deal", func(t *testing.T) {
		f := newResolverFixture()
		deal, _ := crm.NewPipelineDeal(orgID, "PIP0000012", "Enterprise rollout", decimal.Zero, crm.DealStageQualified)

		f.deals.On("FindByPublicID", ctx, orgID, "PIP0000012").Return(deal, nil)

		ref, err := f.service.Resolve(ctx, orgID, sequence.EntityTypePipelineDeal, "PIP0000012")

		require.NoError(t, err)
		assert.Equal(t, deal.ID, ref.ID)
	})

	t.Run("resolves a customer", func(t *testing.T) {
		f := newResolverFixture()
		customer, _ := crm.NewCustomer(orgID, "CUS000007", "Acme Corp", "billing@acme.test")

		f.customers.On("FindByPublicID", ctx, orgID, "CUS000007").Return(customer, nil)

		ref, err := f.service.Resolve(ctx, orgID, sequence.EntityTypeCustomer, "CUS000007")

		require.NoError(t, err)
		assert.Equal(t, customer.ID, ref.ID)
	})

	t.Run("wrong organization and true miss are indistinguishable", func(t *testing.T) {
		f := newResolverFixture()
		otherOrg := uuid.New()

		// the identifier exists under orgID but is asked for under otherOrg
		f.quotes.On("FindByPublicID", ctx, otherOrg, "QUO0000034").Return(nil, shared.ErrNotFound)
		f.quotes.On("FindByPublicID", ctx, otherOrg, "QUO9999999").Return(nil, shared.ErrNotFound)

		_, crossErr := f.service.Resolve(ctx, otherOrg, sequence.EntityTypeQuote, "QUO0000034")
		_, missErr := f.service.Resolve(ctx, otherOrg, sequence.EntityTypeQuote, "QUO9999999")

		assert.ErrorIs(t, crossErr, shared.ErrNotFound)
		assert.Equal(t, crossErr, missErr)
	})

	t.Run("unsupported entity type", func(t *testing.T) {
		f := newResolverFixture()

		ref, err := f.service.Resolve(ctx, orgID, sequence.EntityTypeProject, "PRJ000001")

		assert.Nil(t, ref)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNSUPPORTED_ENTITY_TYPE", domainErr.Code)
	})

	t.Run("empty public identifier", func(t *testing.T) {
		f := newResolverFixture()

		ref, err := f.service.Resolve(ctx, orgID, sequence.EntityTypeLead, "")

		assert.Nil(t, ref)
		assert.Error(t, err)
		f.leads.AssertNotCalled(t, "FindByPublicID")
	})
}
