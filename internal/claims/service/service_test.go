package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"reclaim/internal/claims/models"
	"reclaim/internal/claims/store/claim"
	itemmodels "reclaim/internal/items/models"
	"reclaim/internal/scoring"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
	audit "reclaim/pkg/platform/audit"
	auditmemory "reclaim/pkg/platform/audit/store/memory"
	"reclaim/pkg/platform/sentinel"
)

type fakeItemReader struct {
	mu    sync.RWMutex
	items map[domain.ItemID]itemmodels.FoundItem
}

func newFakeItemReader() *fakeItemReader {
	return &fakeItemReader{items: make(map[domain.ItemID]itemmodels.FoundItem)}
}

func (f *fakeItemReader) add(item itemmodels.FoundItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ID] = item
}

func (f *fakeItemReader) FindFoundItem(_ context.Context, id domain.ItemID) (*itemmodels.FoundItem, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	item, ok := f.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &item, nil
}

type ServiceSuite struct {
	suite.Suite

	ctx        context.Context
	claims     *claim.InMemory
	items      *fakeItemReader
	auditStore *auditmemory.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.claims = claim.NewInMemory()
	s.items = newFakeItemReader()
	s.auditStore = auditmemory.NewInMemoryStore()
	trail := audit.NewTrail(s.auditStore)
	s.service = New(s.claims, s.items, NewShardedTx(s.claims), trail, nil, nil)
}

func (s *ServiceSuite) seedItem() domain.ItemID {
	item := itemmodels.FoundItem{
		ID:                7,
		Category:          "Electronics",
		ItemType:          "Phone",
		Brand:             "Apple",
		Color:             "Black",
		FoundLocation:     "Terminal 2",
		PublicDescription: "iPhone with a cracked screen corner",
		Status:            itemmodels.ItemStatusPublished,
	}
	s.items.add(item)
	return item.ID
}

func (s *ServiceSuite) submitClaim(itemID domain.ItemID) *SubmitResult {
	result, err := s.service.Submit(s.ctx, SubmitRequest{
		FoundItemID: itemID,
		Fields: models.ClaimedFields{
			Category:       "Electronics",
			ItemType:       "phone",
			Brand:          "apple",
			PrivateDetails: "cracked screen corner",
		},
	}, "owner@example.com")
	s.Require().NoError(err)
	return result
}

func (s *ServiceSuite) TestSubmitScoresAndAudits() {
	itemID := s.seedItem()

	result := s.submitClaim(itemID)

	// category exact (30) + item_type contains (25) + brand contains (20)
	// + private details against the public description (40)
	s.Equal(115, result.Score)
	s.Len(result.Breakdown, len(scoring.Rules))

	stored, err := s.claims.FindByID(s.ctx, result.ClaimID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, stored.Status)
	s.Equal(115, stored.Score)
	s.Equal("owner@example.com", stored.ClaimedBy)

	entries, err := s.auditStore.ListByEntity(s.ctx, audit.EntityTypeClaim, result.ClaimID.Int64())
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(audit.ActionCreate, entries[0].Action)
	s.Equal("owner@example.com", entries[0].PerformedBy)
}

func (s *ServiceSuite) TestSubmitMissingItemReference() {
	_, err := s.service.Submit(s.ctx, SubmitRequest{}, "owner@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	all, listErr := s.auditStore.ListAll(s.ctx)
	s.Require().NoError(listErr)
	s.Empty(all)
}

func (s *ServiceSuite) TestSubmitUnknownItem() {
	_, err := s.service.Submit(s.ctx, SubmitRequest{FoundItemID: 999}, "owner@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	pending, listErr := s.claims.ListPending(s.ctx)
	s.Require().NoError(listErr)
	s.Empty(pending)

	all, listErr := s.auditStore.ListAll(s.ctx)
	s.Require().NoError(listErr)
	s.Empty(all)
}

func (s *ServiceSuite) TestAdjudicateApprove() {
	itemID := s.seedItem()
	result := s.submitClaim(itemID)

	err := s.service.Adjudicate(s.ctx, result.ClaimID, models.StatusApproved, "admin-1")
	s.Require().NoError(err)

	stored, err := s.claims.FindByID(s.ctx, result.ClaimID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, stored.Status)

	entries, err := s.auditStore.ListByEntity(s.ctx, audit.EntityTypeClaim, result.ClaimID.Int64())
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionCreate, entries[0].Action)
	s.Equal(audit.ActionApproved, entries[1].Action)
	s.Equal("admin-1", entries[1].PerformedBy)
}

func (s *ServiceSuite) TestAdjudicateInvalidDecision() {
	itemID := s.seedItem()
	result := s.submitClaim(itemID)

	err := s.service.Adjudicate(s.ctx, result.ClaimID, models.StatusPending, "admin-1")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	stored, findErr := s.claims.FindByID(s.ctx, result.ClaimID)
	s.Require().NoError(findErr)
	s.Equal(models.StatusPending, stored.Status)
}

func (s *ServiceSuite) TestAdjudicateUnknownClaim() {
	err := s.service.Adjudicate(s.ctx, 404, models.StatusApproved, "admin-1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestAdjudicateTwiceConflicts() {
	itemID := s.seedItem()
	result := s.submitClaim(itemID)

	s.Require().NoError(s.service.Adjudicate(s.ctx, result.ClaimID, models.StatusRejected, "admin-1"))

	err := s.service.Adjudicate(s.ctx, result.ClaimID, models.StatusApproved, "admin-2")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal("claim already processed", dErrors.MessageOf(err))

	// The losing decision leaves no trace: status and trail are untouched.
	stored, findErr := s.claims.FindByID(s.ctx, result.ClaimID)
	s.Require().NoError(findErr)
	s.Equal(models.StatusRejected, stored.Status)

	entries, listErr := s.auditStore.ListByEntity(s.ctx, audit.EntityTypeClaim, result.ClaimID.Int64())
	s.Require().NoError(listErr)
	s.Len(entries, 2)
}

func (s *ServiceSuite) TestConcurrentAdjudicationSingleWinner() {
	itemID := s.seedItem()
	result := s.submitClaim(itemID)

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		decision := models.StatusApproved
		if i%2 == 1 {
			decision = models.StatusRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.service.Adjudicate(s.ctx, result.ClaimID, decision, "admin-1")
		}()
	}
	wg.Wait()
	close(errs)

	var won, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case dErrors.HasCode(err, dErrors.CodeConflict):
			conflicted++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, won)
	s.Equal(attempts-1, conflicted)

	entries, err := s.auditStore.ListByEntity(s.ctx, audit.EntityTypeClaim, result.ClaimID.Int64())
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *ServiceSuite) TestUpdateAllowListedFields() {
	itemID := s.seedItem()
	result := s.submitClaim(itemID)

	brand := "Samsung"
	err := s.service.Update(s.ctx, result.ClaimID, models.Patch{Brand: &brand}, "owner@example.com")
	s.Require().NoError(err)

	stored, err := s.claims.FindByID(s.ctx, result.ClaimID)
	s.Require().NoError(err)
	s.Equal("Samsung", stored.ClaimedBrand)
	// Score is fixed at submission and never recomputed.
	s.Equal(115, stored.Score)

	entries, err := s.auditStore.ListByEntity(s.ctx, audit.EntityTypeClaim, result.ClaimID.Int64())
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionUpdate, entries[1].Action)
}

func (s *ServiceSuite) TestUpdateWithoutFields() {
	itemID := s.seedItem()
	result := s.submitClaim(itemID)

	err := s.service.Update(s.ctx, result.ClaimID, models.Patch{}, "owner@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal("no valid fields to update", dErrors.MessageOf(err))
}

func (s *ServiceSuite) TestPendingJoinsItemsOldestFirst() {
	itemID := s.seedItem()
	first := s.submitClaim(itemID)
	second := s.submitClaim(itemID)

	s.Require().NoError(s.service.Adjudicate(s.ctx, first.ClaimID, models.StatusApproved, "admin-1"))

	pending, err := s.service.Pending(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(second.ClaimID, pending[0].Claim.ID)
	s.Equal(itemID, pending[0].Item.ID)
	s.Equal("Terminal 2", pending[0].Item.FoundLocation)
}

func (s *ServiceSuite) TestAuditTrailOrdering() {
	itemID := s.seedItem()
	result := s.submitClaim(itemID)
	s.Require().NoError(s.service.Adjudicate(s.ctx, result.ClaimID, models.StatusApproved, "admin-1"))

	entries, err := s.service.AuditTrail(s.ctx, result.ClaimID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionCreate, entries[0].Action)
	s.Equal(audit.ActionApproved, entries[1].Action)
}
