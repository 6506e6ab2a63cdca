package handler

import (
	"time"

	"reclaim/internal/items/models"
)

// ListedItem is one row of the public listing. Only public fields appear.
type ListedItem struct {
	ID            int64     `json:"id"`
	Category      string    `json:"category"`
	ItemType      string    `json:"item_type"`
	Color         string    `json:"color,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	FoundLocation string    `json:"found_location"`
	FoundAt       time.Time `json:"found_datetime"`
	Description   string    `json:"public_description,omitempty"`
}

// ListingResponse is the HTTP response for GET /items/found.
type ListingResponse struct {
	Items []ListedItem `json:"items"`
	Count int          `json:"count"`
}

// FromListing converts published items to the public listing response.
func FromListing(items []models.FoundItem) *ListingResponse {
	rows := make([]ListedItem, len(items))
	for i, item := range items {
		rows[i] = ListedItem{
			ID:            item.ID.Int64(),
			Category:      item.Category,
			ItemType:      item.ItemType,
			Color:         item.Color,
			Brand:         item.Brand,
			FoundLocation: item.FoundLocation,
			FoundAt:       item.FoundAt,
			Description:   item.PublicDescription,
		}
	}
	return &ListingResponse{Items: rows, Count: len(rows)}
}
