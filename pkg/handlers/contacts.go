package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/apperrors"
	"github.com/agentbase-hq/agentbase-engine/pkg/importer"
	"github.com/agentbase-hq/agentbase-engine/pkg/services"
)

// UpdateContactStatusRequest is the request body for changing a contact's status.
type UpdateContactStatusRequest struct {
	Status string `json:"status"`
}

// ContactsHandler handles contact-related HTTP requests.
type ContactsHandler struct {
	importService  services.ContactImportService
	eventService   services.UpcomingEventService
	contactService services.ContactService
	maxUploadSize  int64
	logger         *zap.Logger
}

// NewContactsHandler creates a new contacts handler.
func NewContactsHandler(importService services.ContactImportService, eventService services.UpcomingEventService, contactService services.ContactService, maxUploadSize int64, logger *zap.Logger) *ContactsHandler {
	return &ContactsHandler{
		importService:  importService,
		eventService:   eventService,
		contactService: contactService,
		maxUploadSize:  maxUploadSize,
		logger:         logger,
	}
}

// RegisterRoutes registers the contacts handler's routes on the given mux.
func (h *ContactsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/agents/{aid}/contacts/import", h.Import)
	mux.HandleFunc("GET /api/agents/{aid}/contacts", h.List)
	mux.HandleFunc("GET /api/agents/{aid}/contacts/upcoming-events", h.UpcomingEvents)
	mux.HandleFunc("PUT /api/agents/{aid}/contacts/{cid}/status", h.UpdateStatus)
	mux.HandleFunc("DELETE /api/agents/{aid}/contacts/{cid}", h.Delete)
	mux.HandleFunc("GET /api/contacts/import-template", h.Template)
}

// Import handles POST /api/agents/{aid}/contacts/import
// Accepts a CSV upload either as a multipart "file" part or as a raw
// text/csv body and runs the contact import.
func (h *ContactsHandler) Import(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	csvText, err := h.readCSVUpload(r)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_upload", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result := h.importService.ImportCSV(r.Context(), agentID, csvText)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	if err := WriteJSON(w, status, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// readCSVUpload extracts the CSV text from the request, enforcing the
// configured upload size limit.
func (h *ContactsHandler) readCSVUpload(r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadSize)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", errors.New("missing CSV file upload")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("failed to read CSV file upload")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.New("failed to read request body")
	}
	return string(data), nil
}

// List handles GET /api/agents/{aid}/contacts
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	contacts, err := h.contactService.List(r.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list contacts"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpcomingEvents handles GET /api/agents/{aid}/contacts/upcoming-events
// The optional days query parameter widens or narrows the lookahead window.
func (h *ContactsHandler) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	horizonDays := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_days", "days must be a positive integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		horizonDays = days
	}

	events, err := h.eventService.GetUpcomingEvents(r.Context(), agentID, horizonDays)
	if err != nil {
		h.logger.Error("Failed to get upcoming events", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get upcoming events"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateStatus handles PUT /api/agents/{aid}/contacts/{cid}/status
func (h *ContactsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	contactID, err := uuid.Parse(r.PathValue("cid"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_contact_id", "Invalid contact ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req UpdateContactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.contactService.UpdateStatus(r.Context(), agentID, contactID, req.Status); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_status", "Status must be active or inactive"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "contact_not_found", "Contact not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to update contact status", zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to update contact status"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/agents/{aid}/contacts/{cid}
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.agentID(w, r)
	if !ok {
		return
	}

	contactID, err := uuid.Parse(r.PathValue("cid"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_contact_id", "Invalid contact ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.contactService.Delete(r.Context(), agentID, contactID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "contact_not_found", "Contact not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to delete contact", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to delete contact"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Template handles GET /api/contacts/import-template
// Serves a starter CSV with every column the importer recognizes.
func (h *ContactsHandler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts-template.csv"`)
	if _, err := w.Write([]byte(strings.Join(importer.TemplateHeaders, ",") + "\n")); err != nil {
		h.logger.Error("Failed to write template response", zap.Error(err))
	}
}

// agentID parses the {aid} path value, writing a 400 on failure.
func (h *ContactsHandler) agentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	agentID, err := uuid.Parse(r.PathValue("aid"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_agent_id", "Invalid agent ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return agentID, true
}
