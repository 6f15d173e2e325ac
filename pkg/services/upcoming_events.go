package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/models"
	"github.com/agentbase-hq/agentbase-engine/pkg/repositories"
)

// DefaultEventHorizonDays is the lookahead window applied when the caller
// does not specify one.
const DefaultEventHorizonDays = 30

// UpcomingEventService projects contact anchor dates (birthdays and
// anniversaries) onto the calendar ahead.
type UpcomingEventService interface {
	GetUpcomingEvents(ctx context.Context, agentID uuid.UUID, horizonDays int) ([]*models.UpcomingEvent, error)
}

type upcomingEventService struct {
	contactRepo repositories.ContactRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewUpcomingEventService creates a new upcoming event service.
func NewUpcomingEventService(contactRepo repositories.ContactRepository, logger *zap.Logger) UpcomingEventService {
	return &upcomingEventService{
		contactRepo: contactRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// GetUpcomingEvents returns every birthday and anniversary occurrence for
// the agent's active contacts that falls within the next horizonDays,
// sorted by date ascending.
func (s *upcomingEventService) GetUpcomingEvents(ctx context.Context, agentID uuid.UUID, horizonDays int) ([]*models.UpcomingEvent, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultEventHorizonDays
	}

	contacts, err := s.contactRepo.GetActiveByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts for agent: %w", err)
	}

	today := s.now()
	events := ProjectEvents(contacts, today, horizonDays)

	s.logger.Debug("Projected upcoming events",
		zap.String("agent_id", agentID.String()),
		zap.Int("contacts", len(contacts)),
		zap.Int("horizon_days", horizonDays),
		zap.Int("events", len(events)))

	return events, nil
}

// anchorSource describes one date field on a contact and how to label its
// recurring occurrence. countYears is false for birthdays, where the age
// of the person is not the agent's business.
type anchorSource struct {
	eventType  string
	label      string
	date       *string
	countYears bool
}

func anchorsFor(contact *models.Contact) []anchorSource {
	anchors := []anchorSource{
		{models.EventTypeBirthday, "Birthday", contact.Birthday, false},
		{models.EventTypeWeddingAnniversary, "Wedding Anniversary", contact.WeddingAnniversary, true},
		{models.EventTypeHomePurchase, "Home Purchase Anniversary", contact.HomePurchaseDate, true},
		{models.EventTypeMoveIn, "Move-In Anniversary", contact.MoveInDate, true},
	}

	kids := []struct {
		name string
		date *string
	}{
		{contact.Kid1Name, contact.Kid1Birthday},
		{contact.Kid2Name, contact.Kid2Birthday},
		{contact.Kid3Name, contact.Kid3Birthday},
		{contact.Kid4Name, contact.Kid4Birthday},
	}
	for _, kid := range kids {
		label := "Child's Birthday"
		if kid.name != "" {
			label = kid.name + "'s Birthday"
		}
		anchors = append(anchors, anchorSource{models.EventTypeChildBirthday, label, kid.date, false})
	}

	return anchors
}

// ProjectEvents computes the calendar occurrences of every anchor date
// across the given contacts. An anchor's occurrence this year is rolled
// to next year when it has already passed, and kept only when it lands
// inside [today, today+horizonDays]. Unparseable anchors are skipped.
func ProjectEvents(contacts []*models.Contact, today time.Time, horizonDays int) []*models.UpcomingEvent {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := start.AddDate(0, 0, horizonDays)

	var events []*models.UpcomingEvent
	for _, contact := range contacts {
		for _, anchor := range anchorsFor(contact) {
			if anchor.date == nil || *anchor.date == "" {
				continue
			}

			parsed, err := time.Parse("2006-01-02", *anchor.date)
			if err != nil {
				continue
			}

			occurrence := time.Date(start.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			if occurrence.Before(start) {
				occurrence = time.Date(start.Year()+1, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			if occurrence.After(cutoff) {
				continue
			}

			event := &models.UpcomingEvent{
				Contact:   contact,
				EventType: anchor.eventType,
				Label:     anchor.label,
				EventDate: occurrence.Format("2006-01-02"),
			}
			if anchor.countYears {
				years := occurrence.Year() - parsed.Year()
				event.YearsSince = &years
			}
			events = append(events, event)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate < events[j].EventDate
	})

	return events
}

// Ensure upcomingEventService implements UpcomingEventService at compile time.
var _ UpcomingEventService = (*upcomingEventService)(nil)
