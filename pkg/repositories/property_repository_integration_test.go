//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbase-hq/agentbase-engine/pkg/apperrors"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/testhelpers"
)

func newTestListing(mlsID string) *models.NormalizedProperty {
	yearBuilt := 1998
	return &models.NormalizedProperty{
		MLSID:      mlsID,
		Address:    "123 Main St",
		City:       "Houston",
		State:      "TX",
		Zip:        "77002",
		Price:      450000,
		Beds:       3,
		Baths:      2.5,
		Sqft:       2100,
		YearBuilt:  &yearBuilt,
		LotSize:    0.25,
		Photos:     []string{"https://example.com/a.jpg"},
		Highlights: []string{"Built in 1998"},
		Status:     models.ListingStatusActive,
		RawData:    []byte(`{"mlsId":"` + mlsID + `"}`),
	}
}

func TestPropertyRepository_InsertBatchAndGet(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewPropertyRepository(db.DB)
	ctx := context.Background()
	agentID := uuid.New()

	listings := []*models.NormalizedProperty{newTestListing("mls-100"), newTestListing("mls-101")}
	require.NoError(t, repo.InsertBatch(ctx, agentID, listings))

	got, err := repo.GetByAgent(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byMLS := map[string]*models.Property{}
	for _, p := range got {
		byMLS[p.MLSID] = p
	}
	first := byMLS["mls-100"]
	require.NotNil(t, first)
	assert.Equal(t, 450000, first.Price)
	assert.Equal(t, 2.5, first.Baths)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, first.Photos)
	require.NotNil(t, first.YearBuilt)
	assert.Equal(t, 1998, *first.YearBuilt)
}

func TestPropertyRepository_ExistingMLSIDs(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewPropertyRepository(db.DB)
	ctx := context.Background()
	agentID := uuid.New()

	require.NoError(t, repo.InsertBatch(ctx, agentID, []*models.NormalizedProperty{newTestListing("mls-200")}))

	ids, err := repo.ExistingMLSIDs(ctx, agentID)
	require.NoError(t, err)
	_, ok := ids["mls-200"]
	assert.True(t, ok)

	// Another agent sees none of these
	other, err := repo.ExistingMLSIDs(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestPropertyRepository_DuplicateMLSIDRejected(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewPropertyRepository(db.DB)
	ctx := context.Background()
	agentID := uuid.New()

	require.NoError(t, repo.InsertBatch(ctx, agentID, []*models.NormalizedProperty{newTestListing("mls-300")}))

	err := repo.InsertBatch(ctx, agentID, []*models.NormalizedProperty{newTestListing("mls-300")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestPropertyRepository_FailedInsertReleasesConnection(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewPropertyRepository(db.DB)
	agentID := uuid.New()

	require.NoError(t, repo.InsertBatch(context.Background(), agentID, []*models.NormalizedProperty{newTestListing("mls-350")}))

	// Fail more batches than the pool has connections. If a failed batch
	// held its transaction open, Begin would block once the pool drained
	// and the deadline would fire instead of the conflict error.
	attempts := int(db.Cfg.MaxConnections) * 2
	for i := 0; i < attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := repo.InsertBatch(ctx, agentID, []*models.NormalizedProperty{newTestListing("mls-350")})
		cancel()
		require.True(t, errors.Is(err, apperrors.ErrConflict), "attempt %d: %v", i, err)
	}

	ids, err := repo.ExistingMLSIDs(context.Background(), agentID)
	require.NoError(t, err)
	_, ok := ids["mls-350"]
	assert.True(t, ok)
}

func TestPropertyRepository_DeleteAndAgentIDs(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewPropertyRepository(db.DB)
	ctx := context.Background()
	agentID := uuid.New()

	require.NoError(t, repo.InsertBatch(ctx, agentID, []*models.NormalizedProperty{newTestListing("mls-400")}))

	agents, err := repo.AgentIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, agents, agentID)

	got, err := repo.GetByAgent(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, repo.Delete(ctx, agentID, got[0].ID))

	err = repo.Delete(ctx, agentID, got[0].ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
