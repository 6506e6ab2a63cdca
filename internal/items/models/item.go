package models

import (
	"time"

	"reclaim/internal/scoring"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
)

// ItemStatus is the publication state of a reported item.
type ItemStatus string

const (
	ItemStatusPublished ItemStatus = "published"
	ItemStatusWithdrawn ItemStatus = "withdrawn"
)

func (s ItemStatus) Valid() bool {
	return s == ItemStatusPublished || s == ItemStatusWithdrawn
}

// FoundItem is a finder's report. Read-only to the claim core: claims
// reference it by ID and score against its recorded attributes.
//
// Invariants:
//   - Category and FoundLocation are non-empty
//   - Status transitions: published → withdrawn only
//   - Withdrawn items disappear from the public listing but stay resolvable
//     so existing claims keep scoring context
type FoundItem struct {
	ID                domain.ItemID `json:"id"`
	Category          string        `json:"category"`
	ItemType          string        `json:"item_type"`
	Color             string        `json:"color,omitempty"`
	Brand             string        `json:"brand,omitempty"`
	FoundLocation     string        `json:"found_location"`
	FoundAt           time.Time     `json:"found_datetime"`
	PublicDescription string        `json:"public_description,omitempty"`
	Status            ItemStatus    `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
}

// NewFoundItem constructs a published found item. ItemType defaults to
// "Unknown" when the finder could not classify the item.
func NewFoundItem(category, itemType, color, brand, location string, foundAt, now time.Time) (*FoundItem, error) {
	if category == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "found item category cannot be empty")
	}
	if location == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "found item location cannot be empty")
	}
	if itemType == "" {
		itemType = "Unknown"
	}
	return &FoundItem{
		Category:      category,
		ItemType:      itemType,
		Color:         color,
		Brand:         brand,
		FoundLocation: location,
		FoundAt:       foundAt,
		Status:        ItemStatusPublished,
		CreatedAt:     now,
	}, nil
}

func (i *FoundItem) IsPublished() bool { return i.Status == ItemStatusPublished }

// CanWithdraw checks the published → withdrawn transition.
func (i *FoundItem) CanWithdraw() error {
	if i.Status != ItemStatusPublished {
		return dErrors.New(dErrors.CodeInvariantViolation, "found item is already withdrawn")
	}
	return nil
}

// ApplyWithdrawal transitions the item to withdrawn. Call CanWithdraw first.
func (i *FoundItem) ApplyWithdrawal() {
	i.Status = ItemStatusWithdrawn
}

// ScoringFields exposes the attributes the scoring engine compares against.
func (i *FoundItem) ScoringFields() scoring.ItemFields {
	return scoring.ItemFields{
		Category:    i.Category,
		ItemType:    i.ItemType,
		Brand:       i.Brand,
		Color:       i.Color,
		Location:    i.FoundLocation,
		Description: i.PublicDescription,
	}
}

// LostItem is an owner's report. It never participates in scoring; it exists
// so staff can cross-reference reports during review.
type LostItem struct {
	ID                domain.ItemID `json:"id"`
	Category          string        `json:"category"`
	ItemType          string        `json:"item_type"`
	LastSeenLocation  string        `json:"last_seen_location"`
	LastSeenAt        time.Time     `json:"last_seen_datetime"`
	PublicDescription string        `json:"public_description,omitempty"`
	PrivateDetails    string        `json:"private_details,omitempty"`
	Status            ItemStatus    `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
}

// NewLostItem constructs a published lost item report.
func NewLostItem(category, itemType, location string, lastSeenAt, now time.Time) (*LostItem, error) {
	if category == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "lost item category cannot be empty")
	}
	if location == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "lost item location cannot be empty")
	}
	if itemType == "" {
		itemType = "Unknown"
	}
	return &LostItem{
		Category:         category,
		ItemType:         itemType,
		LastSeenLocation: location,
		LastSeenAt:       lastSeenAt,
		Status:           ItemStatusPublished,
		CreatedAt:        now,
	}, nil
}
