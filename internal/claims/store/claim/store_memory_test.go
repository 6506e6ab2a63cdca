package claim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"reclaim/internal/claims/models"
	"reclaim/pkg/domain"
	"reclaim/pkg/platform/sentinel"
)

type ClaimStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ClaimStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestClaimStoreSuite(t *testing.T) {
	suite.Run(t, new(ClaimStoreSuite))
}

func (s *ClaimStoreSuite) newClaim(createdAt time.Time) *models.Claim {
	c, err := models.New(1, models.ClaimedFields{Category: "Electronics"}, 30, "alice", createdAt)
	s.Require().NoError(err)
	return c
}

func (s *ClaimStoreSuite) TestCreateAssignsSequentialIDs() {
	now := time.Now()
	first, err := s.store.Create(s.ctx, s.newClaim(now))
	s.Require().NoError(err)
	second, err := s.store.Create(s.ctx, s.newClaim(now))
	s.Require().NoError(err)
	s.Equal(domain.ClaimID(1), first)
	s.Equal(domain.ClaimID(2), second)
}

func (s *ClaimStoreSuite) TestFindByID() {
	s.Run("finds created claim", func() {
		id, err := s.store.Create(s.ctx, s.newClaim(time.Now()))
		s.Require().NoError(err)

		found, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Electronics", found.ClaimedCategory)
		s.Equal(models.StatusPending, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, domain.ClaimID(9999))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ClaimStoreSuite) TestFindReturnsCopy() {
	id, err := s.store.Create(s.ctx, s.newClaim(time.Now()))
	s.Require().NoError(err)

	found, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	found.ClaimedCategory = "mutated"

	again, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Electronics", again.ClaimedCategory)
}

func (s *ClaimStoreSuite) TestStatusLifecycle() {
	id, err := s.store.Create(s.ctx, s.newClaim(time.Now()))
	s.Require().NoError(err)

	status, err := s.store.StatusForUpdate(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, status)

	s.Require().NoError(s.store.UpdateStatus(s.ctx, id, models.StatusApproved))

	status, err = s.store.StatusForUpdate(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, status)

	s.Run("unknown claim", func() {
		_, err := s.store.StatusForUpdate(s.ctx, domain.ClaimID(404))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		s.Require().ErrorIs(s.store.UpdateStatus(s.ctx, domain.ClaimID(404), models.StatusApproved), sentinel.ErrNotFound)
	})
}

func (s *ClaimStoreSuite) TestListPendingOldestFirst() {
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	newest := s.newClaim(base.Add(2 * time.Hour))
	oldest := s.newClaim(base)
	middle := s.newClaim(base.Add(time.Hour))

	for _, c := range []*models.Claim{newest, oldest, middle} {
		_, err := s.store.Create(s.ctx, c)
		s.Require().NoError(err)
	}

	// Approved claims drop out of the pending list.
	s.Require().NoError(s.store.UpdateStatus(s.ctx, middle.ID, models.StatusApproved))

	pending, err := s.store.ListPending(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(oldest.ID, pending[0].ID)
	s.Equal(newest.ID, pending[1].ID)
}

func (s *ClaimStoreSuite) TestUpdateFields() {
	id, err := s.store.Create(s.ctx, s.newClaim(time.Now()))
	s.Require().NoError(err)

	claim, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	claim.ClaimedBrand = "Samsung"
	s.Require().NoError(s.store.Update(s.ctx, claim))

	updated, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Samsung", updated.ClaimedBrand)
}
