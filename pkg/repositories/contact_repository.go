// Package repositories contains the PostgreSQL data access layer.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentbase-hq/agentbase-engine/pkg/apperrors"
	"github.com/agentbase-hq/agentbase-engine/pkg/database"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
)

// ContactRepository defines the interface for contact data access.
type ContactRepository interface {
	// InsertBatch inserts a batch of contacts in a single transaction.
	// The batch either fully succeeds or fully fails.
	InsertBatch(ctx context.Context, contacts []*models.Contact) error
	GetByAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Contact, error)
	GetActiveByAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Contact, error)
	UpdateStatus(ctx context.Context, agentID, contactID uuid.UUID, status string) error
	Delete(ctx context.Context, agentID, contactID uuid.UUID) error
}

// contactRepository implements ContactRepository using PostgreSQL.
type contactRepository struct {
	db *database.DB
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *database.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `
	id, agent_id, first_name, last_name, email, phone,
	birthday, wedding_anniversary, home_purchase_date, move_in_date,
	kid1_name, kid1_birthday, kid2_name, kid2_birthday,
	kid3_name, kid3_birthday, kid4_name, kid4_birthday,
	property_address, property_city, property_state, property_zip,
	notes, import_source, import_batch_id, status, created_at, updated_at`

// InsertBatch inserts a batch of contacts in a single transaction.
func (r *contactRepository) InsertBatch(ctx context.Context, contacts []*models.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`

	now := time.Now()
	for _, c := range contacts {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.CreatedAt = now
		c.UpdatedAt = now

		_, err = tx.Exec(ctx, query,
			c.ID, c.AgentID, c.FirstName, c.LastName, c.Email, c.Phone,
			c.Birthday, c.WeddingAnniversary, c.HomePurchaseDate, c.MoveInDate,
			c.Kid1Name, c.Kid1Birthday, c.Kid2Name, c.Kid2Birthday,
			c.Kid3Name, c.Kid3Birthday, c.Kid4Name, c.Kid4Birthday,
			c.PropertyAddress, c.PropertyCity, c.PropertyState, c.PropertyZip,
			c.Notes, c.ImportSource, c.ImportBatchID, c.Status, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit contact batch: %w", err)
	}

	return nil
}

// GetByAgent retrieves all contacts for an agent, newest first.
func (r *contactRepository) GetByAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE agent_id = $1
		ORDER BY created_at DESC`

	return r.queryContacts(ctx, query, agentID)
}

// GetActiveByAgent retrieves active contacts for an agent. This is the set
// the upcoming-event projector reads.
func (r *contactRepository) GetActiveByAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE agent_id = $1 AND status = $2
		ORDER BY created_at DESC`

	return r.queryContacts(ctx, query, agentID, models.ContactStatusActive)
}

func (r *contactRepository) queryContacts(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		var c models.Contact
		err := rows.Scan(
			&c.ID, &c.AgentID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.Birthday, &c.WeddingAnniversary, &c.HomePurchaseDate, &c.MoveInDate,
			&c.Kid1Name, &c.Kid1Birthday, &c.Kid2Name, &c.Kid2Birthday,
			&c.Kid3Name, &c.Kid3Birthday, &c.Kid4Name, &c.Kid4Birthday,
			&c.PropertyAddress, &c.PropertyCity, &c.PropertyState, &c.PropertyZip,
			&c.Notes, &c.ImportSource, &c.ImportBatchID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// UpdateStatus sets a contact's status (active/inactive).
func (r *contactRepository) UpdateStatus(ctx context.Context, agentID, contactID uuid.UUID, status string) error {
	query := `
		UPDATE contacts
		SET status = $1, updated_at = $2
		WHERE agent_id = $3 AND id = $4`

	result, err := r.db.Exec(ctx, query, status, time.Now(), agentID, contactID)
	if err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a contact.
func (r *contactRepository) Delete(ctx context.Context, agentID, contactID uuid.UUID) error {
	query := `DELETE FROM contacts WHERE agent_id = $1 AND id = $2`

	result, err := r.db.Exec(ctx, query, agentID, contactID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure contactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*contactRepository)(nil)
