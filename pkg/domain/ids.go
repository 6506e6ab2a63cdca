// Package domain holds typed identifiers shared across modules.
//
// Claim and item identifiers are positive integers assigned by the store.
// Distinct types prevent cross-entity assignment at compile time; the Parse
// functions enforce the "valid, positive identifier" invariant at trust
// boundaries (URL parameters, payload fields).
package domain

import (
	"strconv"

	dErrors "reclaim/pkg/domain-errors"
)

// ClaimID identifies a claim record.
type ClaimID int64

// ItemID identifies a found or lost item record.
type ItemID int64

// ParseClaimID parses a claim identifier from its string form.
func ParseClaimID(s string) (ClaimID, error) {
	n, err := parseID(s, "claim_id")
	return ClaimID(n), err
}

// ParseItemID parses an item identifier from its string form.
func ParseItemID(s string) (ItemID, error) {
	n, err := parseID(s, "item_id")
	return ItemID(n), err
}

func parseID(s, field string) (int64, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" must be an integer")
	}
	if n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" must be positive")
	}
	return n, nil
}

func (id ClaimID) Int64() int64  { return int64(id) }
func (id ClaimID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id ItemID) Int64() int64  { return int64(id) }
func (id ItemID) String() string { return strconv.FormatInt(int64(id), 10) }
