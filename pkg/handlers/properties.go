package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/apperrors"
	"github.com/agentbase-hq/agentbase-engine/pkg/mls"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/repositories"
	"github.com/agentbase-hq/agentbase-engine/pkg/services"
)

// ImportListingsRequest is the request body for saving searched listings
// into an agent's portfolio.
type ImportListingsRequest struct {
	Listings []*models.NormalizedProperty `json:"listings"`
}

// PropertiesHandler handles MLS search and imported listing HTTP requests.
type PropertiesHandler struct {
	searchService services.ListingSearchService
	importService services.ListingImportService
	propertyRepo  repositories.PropertyRepository
	logger        *zap.Logger
}

// NewPropertiesHandler creates a new properties handler.
func NewPropertiesHandler(searchService services.ListingSearchService, importService services.ListingImportService, propertyRepo repositories.PropertyRepository, logger *zap.Logger) *PropertiesHandler {
	return &PropertiesHandler{
		searchService: searchService,
		importService: importService,
		propertyRepo:  propertyRepo,
		logger:        logger,
	}
}

// RegisterRoutes registers the properties handler's routes on the given mux.
func (h *PropertiesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/agents/{aid}/properties/search", h.Search)
	mux.HandleFunc("POST /api/agents/{aid}/properties/import", h.Import)
	mux.HandleFunc("GET /api/agents/{aid}/properties", h.List)
	mux.HandleFunc("DELETE /api/agents/{aid}/properties/{pid}", h.Delete)
}

// Search handles GET /api/agents/{aid}/properties/search
// Translates query parameters into provider-neutral search filters.
func (h *PropertiesHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.agentID(w, r); !ok {
		return
	}

	filters, err := parseSearchFilters(r)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_filters", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	listings, err := h.searchService.Search(r.Context(), filters)
	if err != nil {
		h.logger.Error("MLS search failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadGateway, "provider_error", "MLS provider request failed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"listings": listings}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Import handles POST /api/agents/{aid}/properties/import
// Saves previously searched listings into the agent's portfolio, skipping
// MLS IDs the agent already holds.
func (h *PropertiesHandler) Import(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	var req ImportListingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if len(req.Listings) == 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_listings", "At least one listing is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.importService.ImportListings(r.Context(), agentID, req.Listings)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusConflict, "listing_conflict", "One or more listings are already imported"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Listing import failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to import listings"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/agents/{aid}/properties
func (h *PropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	properties, err := h.propertyRepo.GetByAgent(r.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to list properties", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list properties"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"properties": properties}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/agents/{aid}/properties/{pid}
func (h *PropertiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	propertyID, err := uuid.Parse(r.PathValue("pid"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_property_id", "Invalid property ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.propertyRepo.Delete(r.Context(), agentID, propertyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "property_not_found", "Property not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to delete property", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to delete property"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// agentID parses the {aid} path value, writing a 400 on failure.
func (h *PropertiesHandler) agentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	agentID, err := uuid.Parse(r.PathValue("aid"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_agent_id", "Invalid agent ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return agentID, true
}

// parseSearchFilters builds SearchFilters from query parameters. List
// parameters (cities, zips, counties) are comma-separated.
func parseSearchFilters(r *http.Request) (mls.SearchFilters, error) {
	q := r.URL.Query()
	var filters mls.SearchFilters

	intParams := map[string]*int{
		"minPrice":     &filters.MinPrice,
		"maxPrice":     &filters.MaxPrice,
		"minBeds":      &filters.MinBeds,
		"maxBeds":      &filters.MaxBeds,
		"minSqft":      &filters.MinSqft,
		"maxSqft":      &filters.MaxSqft,
		"minYearBuilt": &filters.MinYearBuilt,
		"maxYearBuilt": &filters.MaxYearBuilt,
		"limit":        &filters.Limit,
		"offset":       &filters.Offset,
	}
	for name, dest := range intParams {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return filters, errors.New(name + " must be a non-negative integer")
		}
		*dest = value
	}

	if raw := q.Get("minBaths"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filters, errors.New("minBaths must be a non-negative number")
		}
		filters.MinBaths = value
	}

	filters.Cities = splitListParam(q.Get("cities"))
	filters.Zips = splitListParam(q.Get("zips"))
	filters.Counties = splitListParam(q.Get("counties"))
	filters.Query = strings.TrimSpace(q.Get("q"))

	switch sort := q.Get("sort"); sort {
	case "", "price_asc", "price_desc":
		filters.SortBy = sort
	default:
		return filters, errors.New("sort must be price_asc or price_desc")
	}

	return filters, nil
}

func splitListParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
