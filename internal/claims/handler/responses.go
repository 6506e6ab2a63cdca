package handler

import (
	"time"

	"reclaim/internal/claims/models"
	"reclaim/internal/claims/service"
	itemmodels "reclaim/internal/items/models"
	"reclaim/internal/scoring"
)

// SubmitClaimResponse is the HTTP response for POST /claims.
type SubmitClaimResponse struct {
	ClaimID   int64                `json:"claim_id"`
	Score     int                  `json:"score"`
	MaxScore  int                  `json:"max_score"`
	Status    string               `json:"status"`
	Breakdown []scoring.FieldScore `json:"breakdown"`
}

// FromSubmitResult converts a submission outcome to an HTTP response.
func FromSubmitResult(result *service.SubmitResult) *SubmitClaimResponse {
	return &SubmitClaimResponse{
		ClaimID:   result.ClaimID.Int64(),
		Score:     result.Score,
		MaxScore:  scoring.MaxTotal(),
		Status:    string(models.StatusPending),
		Breakdown: result.Breakdown,
	}
}

// PendingClaimResponse is one row of the admin review queue.
type PendingClaimResponse struct {
	Claim models.Claim         `json:"claim"`
	Item  itemmodels.FoundItem `json:"found_item"`
}

// PendingClaimsResponse is the HTTP response for GET /admin/claims.
type PendingClaimsResponse struct {
	Claims []PendingClaimResponse `json:"claims"`
	Count  int                    `json:"count"`
}

// FromPending converts the review queue to an HTTP response.
func FromPending(pending []service.PendingClaim) *PendingClaimsResponse {
	rows := make([]PendingClaimResponse, len(pending))
	for i, p := range pending {
		rows[i] = PendingClaimResponse{Claim: p.Claim, Item: p.Item}
	}
	return &PendingClaimsResponse{Claims: rows, Count: len(rows)}
}

// VerifyClaimResponse is the HTTP response for POST /admin/claims/{id}/verify.
type VerifyClaimResponse struct {
	ClaimID    int64     `json:"claim_id"`
	Status     string    `json:"status"`
	VerifiedBy string    `json:"verified_by"`
	VerifiedAt time.Time `json:"verified_at"`
}
