package mls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentbase-hq/agentbase-engine/pkg/jsonutil"
	"github.com/agentbase-hq/agentbase-engine/pkg/logging"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/retry"
)

// BridgeListing is the upstream Bridge Interactive (RESO Web API) listing
// entity, limited to the fields normalization reads. Raw is the untouched
// upstream JSON.
type BridgeListing struct {
	ListingID       string   `json:"ListingId"`
	ListPrice       float64  `json:"ListPrice"`
	BedroomsTotal   int      `json:"BedroomsTotal"`
	BathroomsFull   int      `json:"BathroomsFull"`
	BathroomsHalf   int      `json:"BathroomsHalf"`
	LivingArea      int      `json:"LivingArea"`
	YearBuilt       int      `json:"YearBuilt"`
	LotSizeAcres    float64  `json:"LotSizeAcres"`
	GarageSpaces    float64  `json:"GarageSpaces"`
	PoolPrivateYN   bool     `json:"PoolPrivateYN"`
	StoriesTotal    int      `json:"StoriesTotal"`
	View            []string `json:"View"`
	InteriorFeatures []string `json:"InteriorFeatures"`
	PropertySubType string   `json:"PropertySubType"`
	StandardStatus  string   `json:"StandardStatus"`

	UnparsedAddress string `json:"UnparsedAddress"`
	City            string `json:"City"`
	StateOrProvince string `json:"StateOrProvince"`
	// PostalCode is raw because some feeds send it as a bare number.
	PostalCode json.RawMessage `json:"PostalCode"`
	Latitude        *float64 `json:"Latitude"`
	Longitude       *float64 `json:"Longitude"`

	PublicRemarks     string `json:"PublicRemarks"`
	ListAgentFullName string `json:"ListAgentFullName"`
	ListOfficeName    string `json:"ListOfficeName"`

	Media []BridgeMedia `json:"Media"`

	Raw json.RawMessage `json:"-"`
}

// BridgeMedia is one photo entry on a Bridge listing.
type BridgeMedia struct {
	MediaURL string `json:"MediaURL"`
	Order    int    `json:"Order"`
}

// bridgeStatusMap maps RESO StandardStatus values to canonical listing
// statuses. Unmapped values fall back to active.
var bridgeStatusMap = map[string]string{
	"Active":                models.ListingStatusActive,
	"Active Under Contract": models.ListingStatusPending,
	"Pending":               models.ListingStatusPending,
	"Closed":                models.ListingStatusSold,
}

// bridgeTypeMap maps RESO property subtypes to canonical types. Unmapped
// subtypes pass through as-is.
var bridgeTypeMap = map[string]string{
	"Single Family Residence": models.PropertyTypeSingleFamily,
	"Condominium":             models.PropertyTypeCondo,
	"Townhouse":               models.PropertyTypeTownhouse,
	"Duplex":                  models.PropertyTypeMultiFamily,
	"Quadruplex":              models.PropertyTypeMultiFamily,
	"Unimproved Land":         models.PropertyTypeLand,
}

// BridgeClient talks to the Bridge Interactive RESO Web API (OData) using a
// server token.
type BridgeClient struct {
	baseURL     string
	dataset     string
	serverToken string
	httpClient  *http.Client
}

// NewBridgeClient creates a Bridge adapter for the given dataset.
func NewBridgeClient(baseURL, dataset, serverToken string) *BridgeClient {
	return &BridgeClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		dataset:     dataset,
		serverToken: serverToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the adapter.
func (c *BridgeClient) Name() string { return "bridge" }

// SearchRaw fetches raw upstream listings matching the filters.
func (c *BridgeClient) SearchRaw(ctx context.Context, filters SearchFilters) ([]*BridgeListing, error) {
	params := url.Values{}
	params.Set("access_token", c.serverToken)
	params.Set("$filter", BuildODataFilter(filters))
	params.Set("$expand", "Media")

	top := filters.Limit
	if top <= 0 {
		top = 20
	}
	params.Set("$top", strconv.Itoa(top))
	if filters.Offset > 0 {
		params.Set("$skip", strconv.Itoa(filters.Offset))
	}
	switch filters.SortBy {
	case "price_asc":
		params.Set("$orderby", "ListPrice asc")
	case "price_desc":
		params.Set("$orderby", "ListPrice desc")
	}

	endpoint := fmt.Sprintf("%s/%s/Property?%s", c.baseURL, c.dataset, params.Encode())

	// Transient provider failures are retried with backoff; auth and
	// malformed-filter errors fail fast.
	body, err := retry.DoWithResultIfRetryable(ctx, nil, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build Bridge request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("Bridge request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read Bridge response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("Bridge returned status %d: %s",
				resp.StatusCode, logging.SanitizeURL(string(body)))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Value []json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode Bridge response: %w", err)
	}

	listings := make([]*BridgeListing, 0, len(envelope.Value))
	for _, raw := range envelope.Value {
		var l BridgeListing
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("failed to decode Bridge listing: %w", err)
		}
		l.Raw = raw
		listings = append(listings, &l)
	}

	return listings, nil
}

// Search fetches and normalizes listings matching the filters.
func (c *BridgeClient) Search(ctx context.Context, filters SearchFilters) ([]*models.NormalizedProperty, error) {
	raw, err := c.SearchRaw(ctx, filters)
	if err != nil {
		return nil, err
	}

	normalized := make([]*models.NormalizedProperty, 0, len(raw))
	for _, l := range raw {
		normalized = append(normalized, NormalizeBridgeListing(l))
	}
	return normalized, nil
}

// BuildODataFilter translates the filters into an OData $filter expression.
// Clauses are joined by " and "; allow-list fields or-join their values in a
// parenthesized group. Single quotes in free-text search are escaped by
// doubling to prevent filter injection.
func BuildODataFilter(filters SearchFilters) string {
	clauses := []string{"StandardStatus eq 'Active'"}

	if filters.MinPrice > 0 {
		clauses = append(clauses, fmt.Sprintf("ListPrice ge %d", filters.MinPrice))
	}
	if filters.MaxPrice > 0 {
		clauses = append(clauses, fmt.Sprintf("ListPrice le %d", filters.MaxPrice))
	}
	if filters.MinBeds > 0 {
		clauses = append(clauses, fmt.Sprintf("BedroomsTotal ge %d", filters.MinBeds))
	}
	if filters.MaxBeds > 0 {
		clauses = append(clauses, fmt.Sprintf("BedroomsTotal le %d", filters.MaxBeds))
	}
	if filters.MinBaths > 0 {
		clauses = append(clauses, fmt.Sprintf("BathroomsTotalInteger ge %d", int(filters.MinBaths)))
	}
	if filters.MinSqft > 0 {
		clauses = append(clauses, fmt.Sprintf("LivingArea ge %d", filters.MinSqft))
	}
	if filters.MaxSqft > 0 {
		clauses = append(clauses, fmt.Sprintf("LivingArea le %d", filters.MaxSqft))
	}
	if filters.MinYearBuilt > 0 {
		clauses = append(clauses, fmt.Sprintf("YearBuilt ge %d", filters.MinYearBuilt))
	}
	if filters.MaxYearBuilt > 0 {
		clauses = append(clauses, fmt.Sprintf("YearBuilt le %d", filters.MaxYearBuilt))
	}
	if group := orGroup("City", filters.Cities); group != "" {
		clauses = append(clauses, group)
	}
	if group := orGroup("PostalCode", filters.Zips); group != "" {
		clauses = append(clauses, group)
	}
	if group := orGroup("CountyOrParish", filters.Counties); group != "" {
		clauses = append(clauses, group)
	}
	if filters.Query != "" {
		clauses = append(clauses, fmt.Sprintf("contains(PublicRemarks,'%s')", escapeODataString(filters.Query)))
	}

	return strings.Join(clauses, " and ")
}

// orGroup builds a parenthesized or-joined eq group for an allow-list field.
func orGroup(field string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s eq '%s'", field, escapeODataString(v)))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// escapeODataString doubles single quotes per the OData string literal rules.
func escapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// NormalizeBridgeListing transforms one upstream Bridge/RESO record into the
// canonical property shape.
func NormalizeBridgeListing(l *BridgeListing) *models.NormalizedProperty {
	p := &models.NormalizedProperty{
		MLSID:       l.ListingID,
		Address:     l.UnparsedAddress,
		City:        l.City,
		State:       l.StateOrProvince,
		Zip:         jsonutil.FlexibleStringValue(l.PostalCode),
		Price:       int(l.ListPrice),
		Beds:        l.BedroomsTotal,
		Baths:       float64(l.BathroomsFull) + 0.5*float64(l.BathroomsHalf),
		Sqft:        l.LivingArea,
		LotSize:     l.LotSizeAcres,
		Description: l.PublicRemarks,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		RawData:     l.Raw,
	}

	if l.YearBuilt > 0 {
		year := l.YearBuilt
		p.YearBuilt = &year
	}

	// Photos are ordered by the upstream Order field before truncation.
	media := make([]BridgeMedia, len(l.Media))
	copy(media, l.Media)
	sort.SliceStable(media, func(i, j int) bool { return media[i].Order < media[j].Order })
	for _, m := range media {
		if m.MediaURL == "" {
			continue
		}
		p.Photos = append(p.Photos, m.MediaURL)
		if len(p.Photos) == maxPhotos {
			break
		}
	}

	if status, ok := bridgeStatusMap[l.StandardStatus]; ok {
		p.Status = status
	} else {
		p.Status = models.ListingStatusActive
	}

	if propertyType, ok := bridgeTypeMap[l.PropertySubType]; ok {
		p.PropertyType = propertyType
	} else {
		p.PropertyType = l.PropertySubType
	}

	p.ListingAgent = l.ListAgentFullName
	p.ListingOffice = l.ListOfficeName

	p.Highlights = buildHighlights(highlightFacts{
		YearBuilt:        l.YearBuilt,
		GarageSpaces:     int(l.GarageSpaces),
		HasPool:          l.PoolPrivateYN,
		Stories:          l.StoriesTotal,
		View:             strings.Join(l.View, ", "),
		LotSizeAcres:     l.LotSizeAcres,
		InteriorFeatures: l.InteriorFeatures,
	})

	return p
}

// Ensure BridgeClient implements Provider at compile time.
var _ Provider = (*BridgeClient)(nil)
