package dto

import (
	"time"

	"github.com/officefood/officefood/internal/entity"
)

// OrderSessionResponse represents an order session as exposed via transport layers.
type OrderSessionResponse struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     time.Time    `json:"endTime"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CreatedBy   *UserSummary `json:"createdBy,omitempty"`
	OrderCount  int          `json:"orderCount"`
}

// SessionSummary is the abbreviated session shape embedded in order payloads.
type SessionSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// OrderSessionFromEntity maps a session entity onto its transport representation.
func OrderSessionFromEntity(session *entity.OrderSession) OrderSessionResponse {
	return OrderSessionResponse{
		ID:          session.ID,
		Title:       session.Title,
		Description: session.Description,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		IsActive:    session.IsActive,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		CreatedBy:   UserSummaryFromEntity(session.CreatedBy),
		OrderCount:  session.OrderCount,
	}
}

// SessionSummaryFromEntity maps a session onto its abbreviated shape.
func SessionSummaryFromEntity(session *entity.OrderSession) *SessionSummary {
	if session == nil {
		return nil
	}
	return &SessionSummary{
		ID:        session.ID,
		Title:     session.Title,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
	}
}
