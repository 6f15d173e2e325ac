package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NormalizedProperty is the canonical listing shape every MLS provider
// schema converges to. It is produced fresh on each provider fetch and
// persisted per agent keyed by (agent_id, mls_id).
type NormalizedProperty struct {
	MLSID string `json:"mls_id"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	Price     int     `json:"price"`
	Beds      int     `json:"beds"`
	Baths     float64 `json:"baths"` // half baths count as 0.5
	Sqft      int     `json:"sqft"`
	YearBuilt *int    `json:"year_built,omitempty"`
	LotSize   float64 `json:"lot_size"` // acres

	Photos      []string `json:"photos"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`

	PropertyType string `json:"property_type"`
	Status       string `json:"status"`

	ListingAgent  string `json:"listing_agent,omitempty"`
	ListingOffice string `json:"listing_office,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// RawData preserves the upstream record for source-specific passthrough.
	RawData json.RawMessage `json:"raw_data,omitempty"`
}

// Property is a NormalizedProperty persisted for an agent.
type Property struct {
	ID      uuid.UUID `json:"id"`
	AgentID uuid.UUID `json:"agent_id"`
	NormalizedProperty
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Canonical listing status values.
const (
	ListingStatusActive  = "active"
	ListingStatusPending = "pending"
	ListingStatusSold    = "sold"
)

// Canonical property type values. Unmapped upstream subtypes pass through
// as-is rather than erroring.
const (
	PropertyTypeSingleFamily = "single_family"
	PropertyTypeCondo        = "condo"
	PropertyTypeTownhouse    = "townhouse"
	PropertyTypeMultiFamily  = "multi_family"
	PropertyTypeLand         = "land"
)
