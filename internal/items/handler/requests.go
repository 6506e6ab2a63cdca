package handler

import (
	"strings"
	"time"

	"reclaim/internal/validate"
	dErrors "reclaim/pkg/domain-errors"
)

// maxFieldLength bounds free-text fields.
const maxFieldLength = 500

// ReportFoundRequest is the HTTP request body for POST /items/found.
type ReportFoundRequest struct {
	Category          string `json:"category"`
	ItemType          string `json:"item_type"`
	Color             string `json:"color"`
	Brand             string `json:"brand"`
	FoundLocation     string `json:"found_location"`
	FoundDatetime     string `json:"found_datetime"`
	PublicDescription string `json:"public_description"`

	parsedFoundAt time.Time
}

// Validate validates and parses the request, reporting every missing
// required field at once.
func (r *ReportFoundRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Category = strings.TrimSpace(r.Category)
	r.ItemType = strings.TrimSpace(r.ItemType)
	r.Color = strings.TrimSpace(r.Color)
	r.Brand = strings.TrimSpace(r.Brand)
	r.FoundLocation = strings.TrimSpace(r.FoundLocation)
	r.FoundDatetime = strings.TrimSpace(r.FoundDatetime)
	r.PublicDescription = strings.TrimSpace(r.PublicDescription)

	if err := validate.RequireFields(map[string]any{
		"category":       r.Category,
		"found_location": r.FoundLocation,
		"found_datetime": r.FoundDatetime,
	}, "category", "found_location", "found_datetime"); err != nil {
		return err
	}

	for field, value := range map[string]string{
		"category":           r.Category,
		"item_type":          r.ItemType,
		"color":              r.Color,
		"brand":              r.Brand,
		"found_location":     r.FoundLocation,
		"public_description": r.PublicDescription,
	} {
		if len(value) > maxFieldLength {
			return dErrors.Newf(dErrors.CodeValidation, "%s must be at most %d characters", field, maxFieldLength)
		}
	}

	foundAt, err := time.Parse(time.RFC3339, r.FoundDatetime)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "invalid found_datetime, expected RFC 3339")
	}
	r.parsedFoundAt = foundAt
	return nil
}

// ParsedFoundAt returns the validated found timestamp.
func (r *ReportFoundRequest) ParsedFoundAt() time.Time {
	return r.parsedFoundAt
}

// ReportLostRequest is the HTTP request body for POST /items/lost.
type ReportLostRequest struct {
	Category          string `json:"category"`
	ItemType          string `json:"item_type"`
	LastSeenLocation  string `json:"last_seen_location"`
	LastSeenDatetime  string `json:"last_seen_datetime"`
	PublicDescription string `json:"public_description"`
	PrivateDetails    string `json:"private_details"`

	parsedLastSeenAt time.Time
}

// Validate validates and parses the request.
func (r *ReportLostRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Category = strings.TrimSpace(r.Category)
	r.ItemType = strings.TrimSpace(r.ItemType)
	r.LastSeenLocation = strings.TrimSpace(r.LastSeenLocation)
	r.LastSeenDatetime = strings.TrimSpace(r.LastSeenDatetime)
	r.PublicDescription = strings.TrimSpace(r.PublicDescription)
	r.PrivateDetails = strings.TrimSpace(r.PrivateDetails)

	if err := validate.RequireFields(map[string]any{
		"category":           r.Category,
		"last_seen_location": r.LastSeenLocation,
		"last_seen_datetime": r.LastSeenDatetime,
	}, "category", "last_seen_location", "last_seen_datetime"); err != nil {
		return err
	}

	for field, value := range map[string]string{
		"category":           r.Category,
		"item_type":          r.ItemType,
		"last_seen_location": r.LastSeenLocation,
		"public_description": r.PublicDescription,
		"private_details":    r.PrivateDetails,
	} {
		if len(value) > maxFieldLength {
			return dErrors.Newf(dErrors.CodeValidation, "%s must be at most %d characters", field, maxFieldLength)
		}
	}

	lastSeenAt, err := time.Parse(time.RFC3339, r.LastSeenDatetime)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "invalid last_seen_datetime, expected RFC 3339")
	}
	r.parsedLastSeenAt = lastSeenAt
	return nil
}

// ParsedLastSeenAt returns the validated last-seen timestamp.
func (r *ReportLostRequest) ParsedLastSeenAt() time.Time {
	return r.parsedLastSeenAt
}

