package dto

import (
	"time"

	"github.com/officefood/officefood/internal/entity"
)

// CompanyResponse represents a company as exposed via transport layers.
type CompanyResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UserResponse represents a user as exposed via transport layers.
type UserResponse struct {
	ID        int64            `json:"id"`
	Phone     string           `json:"phone"`
	Name      *string          `json:"name"`
	Email     *string          `json:"email"`
	Role      string           `json:"role"`
	CompanyID *int64           `json:"companyId"`
	IsActive  bool             `json:"isActive"`
	Company   *CompanyResponse `json:"company,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// UserSummary is the abbreviated user shape embedded in other payloads.
type UserSummary struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name"`
	Phone string  `json:"phone"`
}

// UserFromEntity maps a user entity onto its transport representation.
func UserFromEntity(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Phone:     user.Phone,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Company != nil {
		resp.Company = &CompanyResponse{
			ID:          user.Company.ID,
			Name:        user.Company.Name,
			Description: user.Company.Description,
		}
	}
	return resp
}

// UserSummaryFromEntity maps a user onto its abbreviated shape.
func UserSummaryFromEntity(user *entity.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{ID: user.ID, Name: user.Name, Phone: user.Phone}
}
