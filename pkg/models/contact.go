// Package models contains domain types for agentbase-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents a client contact owned by an agent. All anchor-date
// fields hold canonical YYYY-MM-DD strings and are independently optional;
// FirstName is the only required field.
type Contact struct {
	ID      uuid.UUID `json:"id"`
	AgentID uuid.UUID `json:"agent_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	// Anchor dates for upcoming-event projection.
	Birthday           *string `json:"birthday,omitempty"`
	WeddingAnniversary *string `json:"wedding_anniversary,omitempty"`
	HomePurchaseDate   *string `json:"home_purchase_date,omitempty"`
	MoveInDate         *string `json:"move_in_date,omitempty"`

	Kid1Name     string  `json:"kid1_name,omitempty"`
	Kid1Birthday *string `json:"kid1_birthday,omitempty"`
	Kid2Name     string  `json:"kid2_name,omitempty"`
	Kid2Birthday *string `json:"kid2_birthday,omitempty"`
	Kid3Name     string  `json:"kid3_name,omitempty"`
	Kid3Birthday *string `json:"kid3_birthday,omitempty"`
	Kid4Name     string  `json:"kid4_name,omitempty"`
	Kid4Birthday *string `json:"kid4_birthday,omitempty"`

	PropertyAddress string `json:"property_address,omitempty"`
	PropertyCity    string `json:"property_city,omitempty"`
	PropertyState   string `json:"property_state,omitempty"`
	PropertyZip     string `json:"property_zip,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Provenance
	ImportSource  string     `json:"import_source,omitempty"`
	ImportBatchID *uuid.UUID `json:"import_batch_id,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact status constants. Inactive contacts are excluded from
// upcoming-event projection.
const (
	ContactStatusActive   = "active"
	ContactStatusInactive = "inactive"
)

// IsValidContactStatus checks if the given status is valid.
func IsValidContactStatus(status string) bool {
	return status == ContactStatusActive || status == ContactStatusInactive
}

// ImportSourceCSV marks contacts created by a CSV upload.
const ImportSourceCSV = "csv"
