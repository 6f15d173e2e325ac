package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/mls"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/repositories"
)

// ListingImportResult reports how many listings were written and how many
// were already present for the agent.
type ListingImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ListingImportService saves normalized MLS listings into an agent's
// portfolio without ever duplicating an MLS ID.
type ListingImportService interface {
	ImportListings(ctx context.Context, agentID uuid.UUID, listings []*models.NormalizedProperty) (*ListingImportResult, error)
	// RefreshAll re-runs the provider's default active-listing search for
	// every agent with imported listings. Dedup makes it idempotent.
	RefreshAll(ctx context.Context) error
}

type listingImportService struct {
	propertyRepo repositories.PropertyRepository
	provider     mls.Provider
	logger       *zap.Logger
}

// NewListingImportService creates a new listing import service.
func NewListingImportService(propertyRepo repositories.PropertyRepository, provider mls.Provider, logger *zap.Logger) ListingImportService {
	return &listingImportService{
		propertyRepo: propertyRepo,
		provider:     provider,
		logger:       logger,
	}
}

// ImportListings inserts the listings the agent does not already have.
// Listings whose MLS ID is already present for the agent are counted as
// skipped, never re-written.
func (s *listingImportService) ImportListings(ctx context.Context, agentID uuid.UUID, listings []*models.NormalizedProperty) (*ListingImportResult, error) {
	existing, err := s.propertyRepo.ExistingMLSIDs(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing listings: %w", err)
	}

	result := &ListingImportResult{}
	var fresh []*models.NormalizedProperty
	for _, listing := range listings {
		if _, ok := existing[listing.MLSID]; ok {
			result.Skipped++
			continue
		}
		fresh = append(fresh, listing)
	}

	if len(fresh) > 0 {
		if err := s.propertyRepo.InsertBatch(ctx, agentID, fresh); err != nil {
			return nil, fmt.Errorf("failed to insert listings: %w", err)
		}
	}
	result.Imported = len(fresh)

	s.logger.Info("Listing import finished",
		zap.String("agent_id", agentID.String()),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// RefreshAll pulls the latest active listings from the MLS provider once
// and imports the new ones for every agent that has imported listings
// before. Per-agent failures are logged and skipped so one bad agent does
// not stall the whole run.
func (s *listingImportService) RefreshAll(ctx context.Context) error {
	agentIDs, err := s.propertyRepo.AgentIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list agents for refresh: %w", err)
	}

	if len(agentIDs) == 0 {
		return nil
	}

	listings, err := s.provider.Search(ctx, mls.SearchFilters{})
	if err != nil {
		return fmt.Errorf("failed to search provider %s: %w", s.provider.Name(), err)
	}

	for _, agentID := range agentIDs {
		if _, err := s.ImportListings(ctx, agentID, listings); err != nil {
			s.logger.Error("Listing refresh import failed",
				zap.String("agent_id", agentID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// Ensure listingImportService implements ListingImportService at compile time.
var _ ListingImportService = (*listingImportService)(nil)
