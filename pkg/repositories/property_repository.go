package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agentbase-hq/agentbase-engine/pkg/apperrors"
	"github.com/agentbase-hq/agentbase-engine/pkg/database"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
)

// PropertyRepository defines the interface for persisted listing data access.
type PropertyRepository interface {
	// ExistingMLSIDs returns the set of MLS IDs already imported for an
	// agent. Callers use it to dedup normalized batches before insert so
	// no duplicate (agent_id, mls_id) pair is ever written.
	ExistingMLSIDs(ctx context.Context, agentID uuid.UUID) (map[string]struct{}, error)
	InsertBatch(ctx context.Context, agentID uuid.UUID, listings []*models.NormalizedProperty) error
	GetByAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Property, error)
	Delete(ctx context.Context, agentID, propertyID uuid.UUID) error
	// AgentIDs returns every agent with at least one imported listing.
	// The scheduled refresh iterates this set.
	AgentIDs(ctx context.Context) ([]uuid.UUID, error)
}

// propertyRepository implements PropertyRepository using PostgreSQL.
type propertyRepository struct {
	db *database.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *database.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// ExistingMLSIDs returns the set of MLS IDs already imported for an agent.
func (r *propertyRepository) ExistingMLSIDs(ctx context.Context, agentID uuid.UUID) (map[string]struct{}, error) {
	query := `SELECT mls_id FROM properties WHERE agent_id = $1`

	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing MLS IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan MLS ID: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating MLS IDs: %w", err)
	}

	return ids, nil
}

// InsertBatch inserts normalized listings for an agent in one transaction.
func (r *propertyRepository) InsertBatch(ctx context.Context, agentID uuid.UUID, listings []*models.NormalizedProperty) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	query := `
		INSERT INTO properties (
			id, agent_id, mls_id, address, city, state, zip,
			price, beds, baths, sqft, year_built, lot_size,
			photos, description, highlights, property_type, status,
			listing_agent, listing_office, latitude, longitude, raw_data,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		          $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`

	now := time.Now()
	for _, l := range listings {
		photos, err := json.Marshal(l.Photos)
		if err != nil {
			return fmt.Errorf("failed to marshal photos: %w", err)
		}
		highlights, err := json.Marshal(l.Highlights)
		if err != nil {
			return fmt.Errorf("failed to marshal highlights: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			uuid.New(), agentID, l.MLSID, l.Address, l.City, l.State, l.Zip,
			l.Price, l.Beds, l.Baths, l.Sqft, l.YearBuilt, l.LotSize,
			photos, l.Description, highlights, l.PropertyType, l.Status,
			l.ListingAgent, l.ListingOffice, l.Latitude, l.Longitude, []byte(l.RawData),
			now, now,
		)
		if err != nil {
			// Unique constraint violation (PostgreSQL error code 23505)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("listing %s already imported: %w", l.MLSID, apperrors.ErrConflict)
			}
			return fmt.Errorf("failed to insert listing %s: %w", l.MLSID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit listing batch: %w", err)
	}

	return nil
}

// GetByAgent retrieves all imported listings for an agent, newest first.
func (r *propertyRepository) GetByAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Property, error) {
	query := `
		SELECT id, agent_id, mls_id, address, city, state, zip,
		       price, beds, baths, sqft, year_built, lot_size,
		       photos, description, highlights, property_type, status,
		       listing_agent, listing_office, latitude, longitude, raw_data,
		       created_at, updated_at
		FROM properties
		WHERE agent_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get properties: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		var (
			p          models.Property
			photos     []byte
			highlights []byte
			rawData    []byte
		)
		err := rows.Scan(
			&p.ID, &p.AgentID, &p.MLSID, &p.Address, &p.City, &p.State, &p.Zip,
			&p.Price, &p.Beds, &p.Baths, &p.Sqft, &p.YearBuilt, &p.LotSize,
			&photos, &p.Description, &highlights, &p.PropertyType, &p.Status,
			&p.ListingAgent, &p.ListingOffice, &p.Latitude, &p.Longitude, &rawData,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}

		if err := json.Unmarshal(photos, &p.Photos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal photos: %w", err)
		}
		if err := json.Unmarshal(highlights, &p.Highlights); err != nil {
			return nil, fmt.Errorf("failed to unmarshal highlights: %w", err)
		}
		p.RawData = rawData

		properties = append(properties, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	return properties, nil
}

// Delete removes an imported listing.
func (r *propertyRepository) Delete(ctx context.Context, agentID, propertyID uuid.UUID) error {
	query := `DELETE FROM properties WHERE agent_id = $1 AND id = $2`

	result, err := r.db.Exec(ctx, query, agentID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// AgentIDs returns every agent with at least one imported listing.
func (r *propertyRepository) AgentIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT agent_id FROM properties`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent IDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan agent ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agent IDs: %w", err)
	}

	return ids, nil
}

// Ensure propertyRepository implements PropertyRepository at compile time.
var _ PropertyRepository = (*propertyRepository)(nil)
