package models

import (
	"time"

	"reclaim/internal/scoring"
	"reclaim/internal/validate"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
)

// ClaimStatus is the adjudication state of a claim.
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "pending"
	StatusApproved ClaimStatus = "approved"
	StatusRejected ClaimStatus = "rejected"
)

func (s ClaimStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether no further transition is allowed from s.
func (s ClaimStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo restricts the state machine to pending → approved and
// pending → rejected. Everything else is a no-op error at the service layer.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	return s == StatusPending && next.Terminal()
}

// ParseDecision validates an adjudication decision. Only the two terminal
// states are decisions; anything else is a validation error.
func ParseDecision(raw string) (ClaimStatus, error) {
	if err := validate.RequireOneOf(raw, "decision", string(StatusApproved), string(StatusRejected)); err != nil {
		return "", err
	}
	return ClaimStatus(raw), nil
}

// Claim is a claimant's assertion of ownership over a found item.
//
// Invariants:
//   - Score is computed exactly once at creation and never recomputed
//   - Status starts at pending; approved and rejected are terminal
//   - FoundItemID references an existing found item at creation time
type Claim struct {
	ID                    domain.ClaimID `json:"claim_id"`
	FoundItemID           domain.ItemID  `json:"found_item_id"`
	ClaimedCategory       string         `json:"claimed_category,omitempty"`
	ClaimedItemType       string         `json:"claimed_item_type,omitempty"`
	ClaimedBrand          string         `json:"claimed_brand,omitempty"`
	ClaimedColor          string         `json:"claimed_color,omitempty"`
	ClaimedLocation       string         `json:"claimed_location,omitempty"`
	ClaimedPrivateDetails string         `json:"claimed_private_details,omitempty"`
	Score                 int            `json:"score"`
	Status                ClaimStatus    `json:"status"`
	ClaimedBy             string         `json:"claimed_by"`
	CreatedAt             time.Time      `json:"created_at"`
}

// ClaimedFields holds the attribute fields a claimant may assert. This is
// the allow-list: anything outside these fields is dropped before persistence.
type ClaimedFields struct {
	Category       string
	ItemType       string
	Brand          string
	Color          string
	Location       string
	PrivateDetails string
}

// ScoringFields converts the asserted attributes for the scoring engine.
func (f ClaimedFields) ScoringFields() scoring.ClaimFields {
	return scoring.ClaimFields(f)
}

// New constructs a pending claim with its score fixed at creation.
func New(foundItemID domain.ItemID, fields ClaimedFields, score int, claimedBy string, now time.Time) (*Claim, error) {
	if foundItemID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "claim requires a found item reference")
	}
	if claimedBy == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "claim requires a claimant identity")
	}
	return &Claim{
		FoundItemID:           foundItemID,
		ClaimedCategory:       fields.Category,
		ClaimedItemType:       fields.ItemType,
		ClaimedBrand:          fields.Brand,
		ClaimedColor:          fields.Color,
		ClaimedLocation:       fields.Location,
		ClaimedPrivateDetails: fields.PrivateDetails,
		Score:                 score,
		Status:                StatusPending,
		ClaimedBy:             claimedBy,
		CreatedAt:             now,
	}, nil
}

// CanAdjudicate checks that the claim still accepts a decision.
func (c *Claim) CanAdjudicate() error {
	if c.Status != StatusPending {
		return dErrors.New(dErrors.CodeConflict, "claim already processed")
	}
	return nil
}

// ApplyDecision transitions the claim to its terminal state. Call
// CanAdjudicate first.
func (c *Claim) ApplyDecision(decision ClaimStatus) {
	c.Status = decision
}

// Patch is an allow-listed partial update of the asserted attribute fields.
// Score and status are deliberately not patchable: score is immutable and
// status changes only through adjudication.
type Patch struct {
	Category       *string
	ItemType       *string
	Brand          *string
	Color          *string
	Location       *string
	PrivateDetails *string
}

// Empty reports whether no recognized field was supplied.
func (p Patch) Empty() bool {
	return p.Category == nil && p.ItemType == nil && p.Brand == nil &&
		p.Color == nil && p.Location == nil && p.PrivateDetails == nil
}

// Apply copies the supplied fields onto the claim.
func (p Patch) Apply(c *Claim) {
	if p.Category != nil {
		c.ClaimedCategory = *p.Category
	}
	if p.ItemType != nil {
		c.ClaimedItemType = *p.ItemType
	}
	if p.Brand != nil {
		c.ClaimedBrand = *p.Brand
	}
	if p.Color != nil {
		c.ClaimedColor = *p.Color
	}
	if p.Location != nil {
		c.ClaimedLocation = *p.Location
	}
	if p.PrivateDetails != nil {
		c.ClaimedPrivateDetails = *p.PrivateDetails
	}
}
