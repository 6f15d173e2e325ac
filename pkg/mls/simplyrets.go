package mls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agentbase-hq/agentbase-engine/pkg/logging"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/retry"
)

// SimplyRETSListing is the upstream SimplyRETS listing schema, limited to
// the fields normalization reads. Raw is the untouched upstream JSON.
type SimplyRETSListing struct {
	MLSID     json.Number `json:"mlsId"`
	ListPrice float64     `json:"listPrice"`

	Property struct {
		Bedrooms         int     `json:"bedrooms"`
		BathsFull        int     `json:"bathsFull"`
		BathsHalf        int     `json:"bathsHalf"`
		Area             int     `json:"area"`
		YearBuilt        int     `json:"yearBuilt"`
		LotSizeArea      float64 `json:"lotSizeArea"`
		GarageSpaces     float64 `json:"garageSpaces"`
		Pool             string  `json:"pool"`
		Stories          int     `json:"stories"`
		View             string  `json:"view"`
		InteriorFeatures string  `json:"interiorFeatures"`
		SubType          string  `json:"subType"`
	} `json:"property"`

	Address struct {
		Full       string `json:"full"`
		City       string `json:"city"`
		State      string `json:"state"`
		PostalCode string `json:"postalCode"`
	} `json:"address"`

	Geo struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"geo"`

	MLS struct {
		Status string `json:"status"`
	} `json:"mls"`

	Agent struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"agent"`

	Office struct {
		Name string `json:"name"`
	} `json:"office"`

	Photos  []string `json:"photos"`
	Remarks string   `json:"remarks"`

	Raw json.RawMessage `json:"-"`
}

// simplyRETSStatusMap maps SimplyRETS MLS statuses to canonical listing
// statuses. Unmapped values fall back to active.
var simplyRETSStatusMap = map[string]string{
	"Active":              models.ListingStatusActive,
	"ActiveUnderContract": models.ListingStatusPending,
	"Pending":             models.ListingStatusPending,
	"Closed":              models.ListingStatusSold,
	"Sold":                models.ListingStatusSold,
}

// simplyRETSTypeMap maps SimplyRETS property subtypes to canonical types.
// Unmapped subtypes pass through as-is.
var simplyRETSTypeMap = map[string]string{
	"SingleFamilyResidence": models.PropertyTypeSingleFamily,
	"Condominium":           models.PropertyTypeCondo,
	"Townhouse":             models.PropertyTypeTownhouse,
	"MultiFamily":           models.PropertyTypeMultiFamily,
	"Duplex":                models.PropertyTypeMultiFamily,
	"Land":                  models.PropertyTypeLand,
}

// SimplyRETSClient talks to the SimplyRETS listings API using HTTP basic
// auth.
type SimplyRETSClient struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// NewSimplyRETSClient creates a SimplyRETS adapter with the given
// credentials.
func NewSimplyRETSClient(baseURL, apiKey, apiSecret string) *SimplyRETSClient {
	return &SimplyRETSClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the adapter.
func (c *SimplyRETSClient) Name() string { return "simplyrets" }

// SearchRaw fetches raw upstream listings matching the filters.
func (c *SimplyRETSClient) SearchRaw(ctx context.Context, filters SearchFilters) ([]*SimplyRETSListing, error) {
	endpoint := c.baseURL + "/properties?" + c.buildQuery(filters)

	// Transient provider failures are retried with backoff; credential
	// errors fail fast.
	body, err := retry.DoWithResultIfRetryable(ctx, nil, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build SimplyRETS request: %w", err)
		}
		req.SetBasicAuth(c.apiKey, c.apiSecret)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("SimplyRETS request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read SimplyRETS response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("SimplyRETS returned status %d: %s",
				resp.StatusCode, logging.SanitizeURL(string(body)))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	var rawListings []json.RawMessage
	if err := json.Unmarshal(body, &rawListings); err != nil {
		return nil, fmt.Errorf("failed to decode SimplyRETS response: %w", err)
	}

	listings := make([]*SimplyRETSListing, 0, len(rawListings))
	for _, raw := range rawListings {
		var l SimplyRETSListing
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("failed to decode SimplyRETS listing: %w", err)
		}
		l.Raw = raw
		listings = append(listings, &l)
	}

	return listings, nil
}

// Search fetches and normalizes listings matching the filters.
func (c *SimplyRETSClient) Search(ctx context.Context, filters SearchFilters) ([]*models.NormalizedProperty, error) {
	raw, err := c.SearchRaw(ctx, filters)
	if err != nil {
		return nil, err
	}

	normalized := make([]*models.NormalizedProperty, 0, len(raw))
	for _, l := range raw {
		normalized = append(normalized, NormalizeSimplyRETSListing(l))
	}
	return normalized, nil
}

// buildQuery translates the filters into SimplyRETS query parameters.
func (c *SimplyRETSClient) buildQuery(filters SearchFilters) string {
	params := url.Values{}

	if filters.MinPrice > 0 {
		params.Set("minprice", strconv.Itoa(filters.MinPrice))
	}
	if filters.MaxPrice > 0 {
		params.Set("maxprice", strconv.Itoa(filters.MaxPrice))
	}
	if filters.MinBeds > 0 {
		params.Set("minbeds", strconv.Itoa(filters.MinBeds))
	}
	if filters.MaxBeds > 0 {
		params.Set("maxbeds", strconv.Itoa(filters.MaxBeds))
	}
	if filters.MinBaths > 0 {
		params.Set("minbaths", strconv.FormatFloat(filters.MinBaths, 'f', -1, 64))
	}
	if filters.MinSqft > 0 {
		params.Set("minarea", strconv.Itoa(filters.MinSqft))
	}
	if filters.MaxSqft > 0 {
		params.Set("maxarea", strconv.Itoa(filters.MaxSqft))
	}
	if filters.MinYearBuilt > 0 {
		params.Set("minyear", strconv.Itoa(filters.MinYearBuilt))
	}
	if filters.MaxYearBuilt > 0 {
		params.Set("maxyear", strconv.Itoa(filters.MaxYearBuilt))
	}
	for _, city := range filters.Cities {
		params.Add("cities", city)
	}
	for _, zip := range filters.Zips {
		params.Add("postalCodes", zip)
	}
	for _, county := range filters.Counties {
		params.Add("counties", county)
	}
	if filters.Query != "" {
		params.Set("q", filters.Query)
	}
	if filters.Limit > 0 {
		params.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		params.Set("offset", strconv.Itoa(filters.Offset))
	}
	switch filters.SortBy {
	case "price_asc":
		params.Set("sort", "listprice")
	case "price_desc":
		params.Set("sort", "-listprice")
	}

	return params.Encode()
}

// NormalizeSimplyRETSListing transforms one upstream SimplyRETS record into
// the canonical property shape.
func NormalizeSimplyRETSListing(l *SimplyRETSListing) *models.NormalizedProperty {
	p := &models.NormalizedProperty{
		MLSID:       l.MLSID.String(),
		Address:     l.Address.Full,
		City:        l.Address.City,
		State:       l.Address.State,
		Zip:         l.Address.PostalCode,
		Price:       int(l.ListPrice),
		Beds:        l.Property.Bedrooms,
		Baths:       float64(l.Property.BathsFull) + 0.5*float64(l.Property.BathsHalf),
		Sqft:        l.Property.Area,
		LotSize:     l.Property.LotSizeArea,
		Description: l.Remarks,
		RawData:     l.Raw,
	}

	if l.Property.YearBuilt > 0 {
		year := l.Property.YearBuilt
		p.YearBuilt = &year
	}

	if l.Geo.Lat != 0 || l.Geo.Lng != 0 {
		lat, lng := l.Geo.Lat, l.Geo.Lng
		p.Latitude = &lat
		p.Longitude = &lng
	}

	p.Photos = l.Photos
	if len(p.Photos) > maxPhotos {
		p.Photos = p.Photos[:maxPhotos]
	}

	if status, ok := simplyRETSStatusMap[l.MLS.Status]; ok {
		p.Status = status
	} else {
		p.Status = models.ListingStatusActive
	}

	if propertyType, ok := simplyRETSTypeMap[l.Property.SubType]; ok {
		p.PropertyType = propertyType
	} else {
		p.PropertyType = l.Property.SubType
	}

	agentName := strings.TrimSpace(l.Agent.FirstName + " " + l.Agent.LastName)
	p.ListingAgent = agentName
	p.ListingOffice = l.Office.Name

	p.Highlights = buildHighlights(highlightFacts{
		YearBuilt:        l.Property.YearBuilt,
		GarageSpaces:     int(l.Property.GarageSpaces),
		HasPool:          strings.TrimSpace(l.Property.Pool) != "",
		Stories:          l.Property.Stories,
		View:             l.Property.View,
		LotSizeAcres:     l.Property.LotSizeArea,
		InteriorFeatures: splitFeatures(l.Property.InteriorFeatures),
	})

	return p
}

// splitFeatures breaks a comma-separated feature string into trimmed parts.
func splitFeatures(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	features := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	return features
}

// Ensure SimplyRETSClient implements Provider at compile time.
var _ Provider = (*SimplyRETSClient)(nil)
