package dto

import "time"

// ActivityFilter filtros de GET /api/activity.
type ActivityFilter struct {
	Module string `query:"module"`
	Kind   string `query:"kind"`
	Text   string `query:"text"`
}

// ActivityEntryResponse registro del historial.
type ActivityEntryResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Module      string    `json:"module"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}
