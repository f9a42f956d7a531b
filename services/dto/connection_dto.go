package dto

import (
	"time"

	"camsapi/models"
)

const secretMask = "********"

// ConnectionCreateRequest is the payload for registering a connection.
// Password, ConnectionString and APIKey are accepted here but never echoed
// back by any response.
type ConnectionCreateRequest struct {
	Name             string                `json:"name" validate:"required"`
	Type             models.ConnectionType `json:"type" validate:"required"`
	Host             string                `json:"host"`
	Port             int                   `json:"port"`
	DatabaseName     string                `json:"database_name"`
	Username         string                `json:"username"`
	Password         string                `json:"password"`
	ConnectionString string                `json:"connection_string"`
	APIKey           string                `json:"api_key"`
	UseSSL           bool                  `json:"use_ssl"`
}

// ConnectionUpdateRequest overwrites the editable connection fields. Empty
// secret fields mean "keep the stored secret".
type ConnectionUpdateRequest struct {
	Name             string                `json:"name" validate:"required"`
	Type             models.ConnectionType `json:"type" validate:"required"`
	Host             string                `json:"host"`
	Port             int                   `json:"port"`
	DatabaseName     string                `json:"database_name"`
	Username         string                `json:"username"`
	Password         string                `json:"password"`
	ConnectionString string                `json:"connection_string"`
	APIKey           string                `json:"api_key"`
	UseSSL           bool                  `json:"use_ssl"`
}

// ConnectionResponse is the outward representation of a connection. Secrets
// appear only as presence flags and masked placeholders.
type ConnectionResponse struct {
	ID                  uint                  `json:"id"`
	ApplicationID       uint                  `json:"application_id"`
	Name                string                `json:"name"`
	Type                models.ConnectionType `json:"type"`
	Host                string                `json:"host"`
	Port                int                   `json:"port"`
	DatabaseName        string                `json:"database_name"`
	Username            string                `json:"username"`
	HasPassword         bool                  `json:"has_password"`
	HasConnectionString bool                  `json:"has_connection_string"`
	ConnectionString    string                `json:"connection_string,omitempty"`
	HasAPIKey           bool                  `json:"has_api_key"`
	APIKey              string                `json:"api_key,omitempty"`
	UseSSL              bool                  `json:"use_ssl"`
	Status              string                `json:"status"`
	LastTestedAt        *time.Time            `json:"last_tested_at,omitempty"`
	LastTestSuccess     bool                  `json:"last_test_success"`
	LastTestMessage     string                `json:"last_test_message"`
	LastTestMillis      int64                 `json:"last_test_millis"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// ToConnection maps a create request to a new entity.
func ToConnection(appID uint, req ConnectionCreateRequest) models.DatabaseConnection {
	return models.DatabaseConnection{
		ApplicationID:    appID,
		Name:             req.Name,
		Type:             req.Type,
		Host:             req.Host,
		Port:             req.Port,
		DatabaseName:     req.DatabaseName,
		Username:         req.Username,
		Password:         req.Password,
		ConnectionString: req.ConnectionString,
		APIKey:           req.APIKey,
		UseSSL:           req.UseSSL,
		Status:           models.ConnectionStatusUntested,
	}
}

// ApplyConnectionUpdate copies editable fields onto the entity. Secrets are
// replaced only when the request supplies a non-empty value.
func ApplyConnectionUpdate(c *models.DatabaseConnection, req ConnectionUpdateRequest) {
	c.Name = req.Name
	c.Type = req.Type
	c.Host = req.Host
	c.Port = req.Port
	c.DatabaseName = req.DatabaseName
	c.Username = req.Username
	c.UseSSL = req.UseSSL
	if req.Password != "" {
		c.Password = req.Password
	}
	if req.ConnectionString != "" {
		c.ConnectionString = req.ConnectionString
	}
	if req.APIKey != "" {
		c.APIKey = req.APIKey
	}
}

// FromConnection maps a connection entity to its response DTO, masking secrets.
func FromConnection(c *models.DatabaseConnection) ConnectionResponse {
	resp := ConnectionResponse{
		ID:                  c.ID,
		ApplicationID:       c.ApplicationID,
		Name:                c.Name,
		Type:                c.Type,
		Host:                c.Host,
		Port:                c.Port,
		DatabaseName:        c.DatabaseName,
		Username:            c.Username,
		HasPassword:         c.Password != "",
		HasConnectionString: c.ConnectionString != "",
		HasAPIKey:           c.APIKey != "",
		UseSSL:              c.UseSSL,
		Status:              c.Status,
		LastTestedAt:        c.LastTestedAt,
		LastTestSuccess:     c.LastTestSuccess,
		LastTestMessage:     c.LastTestMessage,
		LastTestMillis:      c.LastTestMillis,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if resp.HasConnectionString {
		resp.ConnectionString = secretMask
	}
	if resp.HasAPIKey {
		resp.APIKey = secretMask
	}
	return resp
}
