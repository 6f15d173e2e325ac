package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/apperrors"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/repositories"
)

// ContactService defines the interface for contact management.
type ContactService interface {
	List(ctx context.Context, agentID uuid.UUID) ([]*models.Contact, error)
	UpdateStatus(ctx context.Context, agentID, contactID uuid.UUID, status string) error
	Delete(ctx context.Context, agentID, contactID uuid.UUID) error
}

type contactService struct {
	contactRepo repositories.ContactRepository
	logger      *zap.Logger
}

// NewContactService creates a new contact service.
func NewContactService(contactRepo repositories.ContactRepository, logger *zap.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// List returns every contact belonging to the agent.
func (s *contactService) List(ctx context.Context, agentID uuid.UUID) ([]*models.Contact, error) {
	contacts, err := s.contactRepo.GetByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// UpdateStatus sets a contact's status after validating it.
func (s *contactService) UpdateStatus(ctx context.Context, agentID, contactID uuid.UUID, status string) error {
	if !models.IsValidContactStatus(status) {
		return fmt.Errorf("%w: invalid contact status %q", apperrors.ErrValidation, status)
	}
	if err := s.contactRepo.UpdateStatus(ctx, agentID, contactID, status); err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}
	return nil
}

// Delete removes a contact from the agent's book.
func (s *contactService) Delete(ctx context.Context, agentID, contactID uuid.UUID) error {
	if err := s.contactRepo.Delete(ctx, agentID, contactID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// Ensure contactService implements ContactService at compile time.
var _ ContactService = (*contactService)(nil)
