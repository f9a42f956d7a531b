package dto

import (
	"time"

	"camsapi/models"
)

// ApplicationCreateRequest is the payload for registering an application.
type ApplicationCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// ApplicationUpdateRequest overwrites the editable application fields.
type ApplicationUpdateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Active      *bool  `json:"active"`
}

// ApplicationResponse is the outward representation of an application.
type ApplicationResponse struct {
	ID              uint      `json:"id"`
	OwnerID         uint      `json:"owner_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Version         string    `json:"version"`
	Environment     string    `json:"environment"`
	Active          bool      `json:"active"`
	ConnectionCount int       `json:"connection_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromApplication maps an application entity to its response DTO.
func FromApplication(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		OwnerID:         a.OwnerID,
		Name:            a.Name,
		Description:     a.Description,
		Version:         a.Version,
		Environment:     a.Environment,
		Active:          a.Active,
		ConnectionCount: len(a.Connections),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ApplyApplicationUpdate copies editable fields from the update DTO onto the entity.
func ApplyApplicationUpdate(a *models.Application, req ApplicationUpdateRequest) {
	a.Name = req.Name
	a.Description = req.Description
	a.Version = req.Version
	a.Environment = req.Environment
	if req.Active != nil {
		a.Active = *req.Active
	}
}
