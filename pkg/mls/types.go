// Package mls contains the MLS provider adapters. Each adapter fetches raw
// listings from one upstream schema (SimplyRETS or Bridge/RESO) and
// normalizes them into the canonical models.NormalizedProperty shape.
package mls

import (
	"context"

	"github.com/agentbase-hq/agentbase-engine/pkg/models"
)

// SearchFilters is the provider-independent listing search filter. Each
// adapter translates it into its upstream query syntax.
type SearchFilters struct {
	MinPrice int `json:"min_price,omitempty"`
	MaxPrice int `json:"max_price,omitempty"`

	MinBeds  int     `json:"min_beds,omitempty"`
	MaxBeds  int     `json:"max_beds,omitempty"`
	MinBaths float64 `json:"min_baths,omitempty"`

	MinSqft int `json:"min_sqft,omitempty"`
	MaxSqft int `json:"max_sqft,omitempty"`

	MinYearBuilt int `json:"min_year_built,omitempty"`
	MaxYearBuilt int `json:"max_year_built,omitempty"`

	Cities   []string `json:"cities,omitempty"`
	Zips     []string `json:"zips,omitempty"`
	Counties []string `json:"counties,omitempty"`

	// Query is free-text search over listing remarks.
	Query string `json:"query,omitempty"`

	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
	SortBy string `json:"sort_by,omitempty"` // "price_asc", "price_desc"
}

// Provider is the common surface the search and import services consume.
// Search errors are returned to the caller rather than swallowed, so it
// can distinguish "no results" from "provider unreachable".
type Provider interface {
	Name() string
	Search(ctx context.Context, filters SearchFilters) ([]*models.NormalizedProperty, error)
}

// maxPhotos caps how many photo URLs a normalized listing carries.
const maxPhotos = 10

// maxHighlights caps how many derived highlights a normalized listing carries.
const maxHighlights = 6
