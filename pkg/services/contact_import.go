// Package services contains the business logic of agentbase-engine.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/importer"
	"github.com/agentbase-hq/agentbase-engine/pkg/logging"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/repositories"
)

// ImportResult summarizes one CSV upload: per-row and per-batch problems
// land in Errors, and Success reflects whether anything was imported at
// all. The import never returns a Go error to its caller.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ContactImportService defines the interface for contact CSV imports.
type ContactImportService interface {
	ImportCSV(ctx context.Context, agentID uuid.UUID, csvText string) *ImportResult
}

// contactImportService implements ContactImportService.
type contactImportService struct {
	contactRepo repositories.ContactRepository
	batchSize   int
	logger      *zap.Logger
}

// NewContactImportService creates a new contact import service. batchSize
// controls how many contacts are inserted per database batch.
func NewContactImportService(contactRepo repositories.ContactRepository, batchSize int, logger *zap.Logger) ContactImportService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &contactImportService{
		contactRepo: contactRepo,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// ImportCSV parses the uploaded CSV and inserts the valid rows for the
// agent in fixed-size batches. Rows without a first name are skipped, not
// fatal; a failed batch is reported but later batches still run. Every
// contact created by one upload shares the same import batch ID.
func (s *contactImportService) ImportCSV(ctx context.Context, agentID uuid.UUID, csvText string) *ImportResult {
	result := &ImportResult{Errors: []string{}}

	rows := importer.ParseCSV(csvText)
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "CSV file is empty or has no data rows")
		return result
	}

	batchID := uuid.New()

	var candidates []*models.Contact
	for i, row := range rows {
		contact := importer.BuildContact(row)
		if contact.FirstName == "" {
			result.Skipped++
			// Row numbers are 1-based and offset by the header line.
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing first name", i+2))
			continue
		}

		contact.AgentID = agentID
		contact.Status = models.ContactStatusActive
		contact.ImportSource = models.ImportSourceCSV
		contact.ImportBatchID = &batchID
		candidates = append(candidates, contact)
	}

	if len(candidates) == 0 {
		result.Errors = append(result.Errors, "No valid contacts found in CSV")
		return result
	}

	for start := 0; start < len(candidates); start += s.batchSize {
		end := start + s.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		if err := s.contactRepo.InsertBatch(ctx, batch); err != nil {
			s.logger.Error("Contact batch insert failed",
				zap.String("agent_id", agentID.String()),
				zap.String("import_batch_id", batchID.String()),
				zap.Int("batch_start", start),
				zap.Error(err))
			result.Errors = append(result.Errors,
				fmt.Sprintf("Failed to import batch starting at row %d: %s", start+2, logging.SanitizeError(err)))
			continue
		}

		result.Imported += len(batch)
	}

	result.Success = result.Imported > 0

	s.logger.Info("Contact import finished",
		zap.String("agent_id", agentID.String()),
		zap.String("import_batch_id", batchID.String()),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))

	return result
}

// Ensure contactImportService implements ContactImportService at compile time.
var _ ContactImportService = (*contactImportService)(nil)
