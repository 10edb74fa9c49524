package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// InteractionRequest is used for both create and update.
type InteractionRequest struct {
	CustomerID           *int64  `json:"customer_id"`
	WorkerID             *int64  `json:"worker_id"`
	InteractionType      *string `json:"interaction_type"`
	InteractionDate      *string `json:"interaction_date"`
	InteractionNotes     *string `json:"interaction_notes"`
	CommunicationSummary *string `json:"communication_summary"`
}

// InteractionResponse renders an interaction.
type InteractionResponse struct {
	ID                   int64     `json:"id"`
	CustomerID           int64     `json:"customer_id"`
	WorkerID             *int64    `json:"worker_id"`
	InteractionType      string    `json:"interaction_type"`
	InteractionDate      string    `json:"interaction_date"`
	InteractionNotes     *string   `json:"interaction_notes"`
	CommunicationSummary *string   `json:"communication_summary"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func NewInteractionResponse(i *domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:                   i.ID,
		CustomerID:           i.CustomerID,
		WorkerID:             i.WorkerID,
		InteractionType:      i.InteractionType,
		InteractionDate:      formatDate(i.InteractionDate),
		InteractionNotes:     i.InteractionNotes,
		CommunicationSummary: i.CommunicationSummary,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
}

func NewInteractionResponses(items []domain.Interaction) []InteractionResponse {
	resp := make([]InteractionResponse, 0, len(items))
	for i := range items {
		resp = append(resp, NewInteractionResponse(&items[i]))
	}
	return resp
}
