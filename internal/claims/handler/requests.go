package handler

import (
	"strings"

	"reclaim/internal/claims/models"
	"reclaim/internal/validate"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
)

// maxFieldLength bounds free-text attribute fields.
const maxFieldLength = 500

// SubmitClaimRequest is the HTTP request body for POST /claims.
type SubmitClaimRequest struct {
	FoundItemID           int64  `json:"found_item_id"`
	ClaimedCategory       string `json:"claimed_category"`
	ClaimedItemType       string `json:"claimed_item_type"`
	ClaimedBrand          string `json:"claimed_brand"`
	ClaimedColor          string `json:"claimed_color"`
	ClaimedLocation       string `json:"claimed_location"`
	ClaimedPrivateDetails string `json:"claimed_private_details"`
}

// Validate validates and trims the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SubmitClaimRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.FoundItemID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "missing/invalid found_item_id")
	}

	for field, value := range map[string]*string{
		"claimed_category":        &r.ClaimedCategory,
		"claimed_item_type":       &r.ClaimedItemType,
		"claimed_brand":           &r.ClaimedBrand,
		"claimed_color":           &r.ClaimedColor,
		"claimed_location":        &r.ClaimedLocation,
		"claimed_private_details": &r.ClaimedPrivateDetails,
	} {
		*value = strings.TrimSpace(*value)
		if len(*value) > maxFieldLength {
			return dErrors.Newf(dErrors.CodeValidation, "%s must be at most %d characters", field, maxFieldLength)
		}
	}
	return nil
}

// FoundItem returns the validated found item reference.
func (r *SubmitClaimRequest) FoundItem() domain.ItemID {
	return domain.ItemID(r.FoundItemID)
}

// Fields returns the allow-listed claimed attributes. Unknown JSON keys were
// already dropped by decoding into this struct.
func (r *SubmitClaimRequest) Fields() models.ClaimedFields {
	return models.ClaimedFields{
		Category:       r.ClaimedCategory,
		ItemType:       r.ClaimedItemType,
		Brand:          r.ClaimedBrand,
		Color:          r.ClaimedColor,
		Location:       r.ClaimedLocation,
		PrivateDetails: r.ClaimedPrivateDetails,
	}
}

// VerifyClaimRequest is the HTTP request body for POST /admin/claims/{id}/verify.
type VerifyClaimRequest struct {
	Decision string `json:"decision"`

	parsedDecision models.ClaimStatus
}

// Validate validates and parses the decision.
func (r *VerifyClaimRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if validate.IsEmpty(r.Decision) {
		return dErrors.New(dErrors.CodeValidation, "missing required fields: decision")
	}
	decision, err := models.ParseDecision(strings.TrimSpace(r.Decision))
	if err != nil {
		return err
	}
	r.parsedDecision = decision
	return nil
}

// ParsedDecision returns the validated decision.
func (r *VerifyClaimRequest) ParsedDecision() models.ClaimStatus {
	return r.parsedDecision
}

// UpdateClaimRequest is the HTTP request body for PATCH /claims/{id}. All
// fields are optional; absent fields stay untouched. Status and score are not
// part of this surface at all.
type UpdateClaimRequest struct {
	ClaimedCategory       *string `json:"claimed_category"`
	ClaimedItemType       *string `json:"claimed_item_type"`
	ClaimedBrand          *string `json:"claimed_brand"`
	ClaimedColor          *string `json:"claimed_color"`
	ClaimedLocation       *string `json:"claimed_location"`
	ClaimedPrivateDetails *string `json:"claimed_private_details"`
}

// Validate trims and bounds the supplied fields.
func (r *UpdateClaimRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for field, value := range map[string]*string{
		"claimed_category":        r.ClaimedCategory,
		"claimed_item_type":       r.ClaimedItemType,
		"claimed_brand":           r.ClaimedBrand,
		"claimed_color":           r.ClaimedColor,
		"claimed_location":        r.ClaimedLocation,
		"claimed_private_details": r.ClaimedPrivateDetails,
	} {
		if value == nil {
			continue
		}
		*value = strings.TrimSpace(*value)
		if len(*value) > maxFieldLength {
			return dErrors.Newf(dErrors.CodeValidation, "%s must be at most %d characters", field, maxFieldLength)
		}
	}
	return nil
}

// Patch returns the allow-listed partial update.
func (r *UpdateClaimRequest) Patch() models.Patch {
	return models.Patch{
		Category:       r.ClaimedCategory,
		ItemType:       r.ClaimedItemType,
		Brand:          r.ClaimedBrand,
		Color:          r.ClaimedColor,
		Location:       r.ClaimedLocation,
		PrivateDetails: r.ClaimedPrivateDetails,
	}
}
