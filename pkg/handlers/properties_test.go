package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/apperrors"
	"github.com/agentbase-hq/agentbase-engine/pkg/mls"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/services"
)

type mockListingSearchService struct {
	listings []*models.NormalizedProperty
	err      error
	filters  mls.SearchFilters
}

func (m *mockListingSearchService) Search(ctx context.Context, filters mls.SearchFilters) ([]*models.NormalizedProperty, error) {
	m.filters = filters
	return m.listings, m.err
}

type mockListingImportService struct {
	result   *services.ListingImportResult
	err      error
	received []*models.NormalizedProperty
}

func (m *mockListingImportService) ImportListings(ctx context.Context, agentID uuid.UUID, listings []*models.NormalizedProperty) (*services.ListingImportResult, error) {
	m.received = listings
	return m.result, m.err
}

func (m *mockListingImportService) RefreshAll(ctx context.Context) error {
	return nil
}

type mockPropertyStore struct {
	properties []*models.Property
	getErr     error
	deleteErr  error
}

func (m *mockPropertyStore) ExistingMLSIDs(ctx context.Context, agentID uuid.UUID) (map[string]struct{}, error) {
	return nil, nil
}

func (m *mockPropertyStore) InsertBatch(ctx context.Context, agentID uuid.UUID, listings []*models.NormalizedProperty) error {
	return nil
}

func (m *mockPropertyStore) GetByAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Property, error) {
	return m.properties, m.getErr
}

func (m *mockPropertyStore) Delete(ctx context.Context, agentID, propertyID uuid.UUID) error {
	return m.deleteErr
}

func (m *mockPropertyStore) AgentIDs(ctx context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func newPropertiesHandler(searchSvc *mockListingSearchService, importSvc *mockListingImportService, store *mockPropertyStore) *PropertiesHandler {
	if searchSvc == nil {
		searchSvc = &mockListingSearchService{}
	}
	if importSvc == nil {
		importSvc = &mockListingImportService{result: &services.ListingImportResult{}}
	}
	if store == nil {
		store = &mockPropertyStore{}
	}
	return NewPropertiesHandler(searchSvc, importSvc, store, zap.NewNop())
}

func TestPropertiesHandler_Search_MapsQueryParams(t *testing.T) {
	searchSvc := &mockListingSearchService{
		listings: []*models.NormalizedProperty{{MLSID: "mls-1"}},
	}
	handler := newPropertiesHandler(searchSvc, nil, nil)
	agentID := uuid.New()

	url := "/api/agents/" + agentID.String() + "/properties/search" +
		"?minPrice=200000&maxPrice=500000&minBeds=3&minBaths=2.5&cities=Houston,Austin&sort=price_desc&q=pool"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.SetPathValue("aid", agentID.String())
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200000, searchSvc.filters.MinPrice)
	assert.Equal(t, 500000, searchSvc.filters.MaxPrice)
	assert.Equal(t, 3, searchSvc.filters.MinBeds)
	assert.Equal(t, 2.5, searchSvc.filters.MinBaths)
	assert.Equal(t, []string{"Houston", "Austin"}, searchSvc.filters.Cities)
	assert.Equal(t, "price_desc", searchSvc.filters.SortBy)
	assert.Equal(t, "pool", searchSvc.filters.Query)

	var response struct {
		Listings []*models.NormalizedProperty `json:"listings"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response.Listings, 1)
}

func TestPropertiesHandler_Search_InvalidParams(t *testing.T) {
	handler := newPropertiesHandler(nil, nil, nil)
	agentID := uuid.New()

	for _, query := range []string{"?minPrice=abc", "?minBeds=-1", "?sort=sideways", "?minBaths=x"} {
		req := httptest.NewRequest(http.MethodGet, "/api/agents/"+agentID.String()+"/properties/search"+query, nil)
		req.SetPathValue("aid", agentID.String())
		rec := httptest.NewRecorder()

		handler.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %s", query)
	}
}

func TestPropertiesHandler_Search_ProviderErrorIsBadGateway(t *testing.T) {
	searchSvc := &mockListingSearchService{err: errors.New("401 unauthorized")}
	handler := newPropertiesHandler(searchSvc, nil, nil)
	agentID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/agents/"+agentID.String()+"/properties/search", nil)
	req.SetPathValue("aid", agentID.String())
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPropertiesHandler_Import(t *testing.T) {
	importSvc := &mockListingImportService{
		result: &services.ListingImportResult{Imported: 2, Skipped: 1},
	}
	handler := newPropertiesHandler(nil, importSvc, nil)
	agentID := uuid.New()

	body := `{"listings":[{"mls_id":"a"},{"mls_id":"b"},{"mls_id":"c"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/agents/"+agentID.String()+"/properties/import", strings.NewReader(body))
	req.SetPathValue("aid", agentID.String())
	rec := httptest.NewRecorder()

	handler.Import(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, importSvc.received, 3)

	var result services.ListingImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestPropertiesHandler_Import_EmptyListings(t *testing.T) {
	handler := newPropertiesHandler(nil, nil, nil)
	agentID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/agents/"+agentID.String()+"/properties/import", strings.NewReader(`{"listings":[]}`))
	req.SetPathValue("aid", agentID.String())
	rec := httptest.NewRecorder()

	handler.Import(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropertiesHandler_Import_ConflictIs409(t *testing.T) {
	importSvc := &mockListingImportService{
		err: fmt.Errorf("listing a already imported: %w", apperrors.ErrConflict),
	}
	handler := newPropertiesHandler(nil, importSvc, nil)
	agentID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/agents/"+agentID.String()+"/properties/import", strings.NewReader(`{"listings":[{"mls_id":"a"}]}`))
	req.SetPathValue("aid", agentID.String())
	rec := httptest.NewRecorder()

	handler.Import(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPropertiesHandler_Delete_NotFound(t *testing.T) {
	store := &mockPropertyStore{deleteErr: apperrors.ErrNotFound}
	handler := newPropertiesHandler(nil, nil, store)
	agentID, propertyID := uuid.New(), uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/agents/"+agentID.String()+"/properties/"+propertyID.String(), nil)
	req.SetPathValue("aid", agentID.String())
	req.SetPathValue("pid", propertyID.String())
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPropertiesHandler_List(t *testing.T) {
	store := &mockPropertyStore{
		properties: []*models.Property{{ID: uuid.New()}},
	}
	handler := newPropertiesHandler(nil, nil, store)
	agentID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/agents/"+agentID.String()+"/properties", nil)
	req.SetPathValue("aid", agentID.String())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Properties []*models.Property `json:"properties"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response.Properties, 1)
}
