package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/models"
)

func strPtr(s string) *string { return &s }

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestProjectEvents_WithinHorizon(t *testing.T) {
	today := mustDate(t, "2024-06-01")
	contacts := []*models.Contact{
		{FirstName: "Alice", Birthday: strPtr("1990-06-10")},
		{FirstName: "Bob", Birthday: strPtr("1985-08-15")},
	}

	events := ProjectEvents(contacts, today, 30)

	require.Len(t, events, 1)
	assert.Equal(t, models.EventTypeBirthday, events[0].EventType)
	assert.Equal(t, "Birthday", events[0].Label)
	assert.Equal(t, "2024-06-10", events[0].EventDate)
	assert.Nil(t, events[0].YearsSince)
	assert.Equal(t, "Alice", events[0].Contact.FirstName)
}

func TestProjectEvents_RollsPassedDateToNextYear(t *testing.T) {
	today := mustDate(t, "2024-01-02")
	contacts := []*models.Contact{
		{FirstName: "Alice", Birthday: strPtr("1990-01-01")},
	}

	// Jan 1 already passed, so the next occurrence is Jan 1 next year.
	events := ProjectEvents(contacts, today, 400)

	require.Len(t, events, 1)
	assert.Equal(t, "2025-01-01", events[0].EventDate)
}

func TestProjectEvents_TodayCounts(t *testing.T) {
	today := mustDate(t, "2024-06-10")
	contacts := []*models.Contact{
		{FirstName: "Alice", Birthday: strPtr("1990-06-10")},
	}

	events := ProjectEvents(contacts, today, 30)

	require.Len(t, events, 1)
	assert.Equal(t, "2024-06-10", events[0].EventDate)
}

func TestProjectEvents_AnniversaryYearsSince(t *testing.T) {
	today := mustDate(t, "2024-06-01")
	contacts := []*models.Contact{
		{
			FirstName:          "Alice",
			WeddingAnniversary: strPtr("2010-06-15"),
			HomePurchaseDate:   strPtr("2019-06-20"),
			MoveInDate:         strPtr("2019-06-25"),
		},
	}

	events := ProjectEvents(contacts, today, 30)

	require.Len(t, events, 3)
	byType := map[string]*models.UpcomingEvent{}
	for _, e := range events {
		byType[e.EventType] = e
	}

	wedding := byType[models.EventTypeWeddingAnniversary]
	require.NotNil(t, wedding)
	assert.Equal(t, "Wedding Anniversary", wedding.Label)
	require.NotNil(t, wedding.YearsSince)
	assert.Equal(t, 14, *wedding.YearsSince)

	purchase := byType[models.EventTypeHomePurchase]
	require.NotNil(t, purchase)
	require.NotNil(t, purchase.YearsSince)
	assert.Equal(t, 5, *purchase.YearsSince)

	moveIn := byType[models.EventTypeMoveIn]
	require.NotNil(t, moveIn)
	assert.Equal(t, "Move-In Anniversary", moveIn.Label)
}

func TestProjectEvents_ChildBirthdayLabels(t *testing.T) {
	today := mustDate(t, "2024-06-01")
	contacts := []*models.Contact{
		{
			FirstName:    "Alice",
			Kid1Name:     "Maya",
			Kid1Birthday: strPtr("2015-06-05"),
			Kid2Birthday: strPtr("2018-06-06"),
		},
	}

	events := ProjectEvents(contacts, today, 30)

	require.Len(t, events, 2)
	assert.Equal(t, "Maya's Birthday", events[0].Label)
	assert.Equal(t, models.EventTypeChildBirthday, events[0].EventType)
	assert.Nil(t, events[0].YearsSince)
	assert.Equal(t, "Child's Birthday", events[1].Label)
}

func TestProjectEvents_SortedAscending(t *testing.T) {
	today := mustDate(t, "2024-06-01")
	contacts := []*models.Contact{
		{FirstName: "Late", Birthday: strPtr("1990-06-25")},
		{FirstName: "Early", Birthday: strPtr("1990-06-03")},
		{FirstName: "Mid", Birthday: strPtr("1990-06-14")},
	}

	events := ProjectEvents(contacts, today, 30)

	require.Len(t, events, 3)
	assert.True(t, sort.SliceIsSorted(events, func(i, j int) bool {
		return events[i].EventDate < events[j].EventDate
	}))
	assert.Equal(t, "Early", events[0].Contact.FirstName)
}

func TestProjectEvents_SkipsUnparseableAndEmptyDates(t *testing.T) {
	today := mustDate(t, "2024-06-01")
	contacts := []*models.Contact{
		{FirstName: "Alice", Birthday: strPtr("not-a-date"), WeddingAnniversary: strPtr("")},
	}

	events := ProjectEvents(contacts, today, 365)

	assert.Empty(t, events)
}

func TestGetUpcomingEvents_DefaultHorizon(t *testing.T) {
	repo := &mockContactRepository{
		active: []*models.Contact{
			{FirstName: "Near", Birthday: strPtr("1990-06-10")},
			{FirstName: "Far", Birthday: strPtr("1990-09-01")},
		},
	}
	svc := NewUpcomingEventService(repo, zap.NewNop()).(*upcomingEventService)
	svc.now = func() time.Time { return mustDate(t, "2024-06-01") }

	events, err := svc.GetUpcomingEvents(context.Background(), uuid.New(), 0)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Near", events[0].Contact.FirstName)
}

func TestGetUpcomingEvents_RepositoryError(t *testing.T) {
	repo := &mockContactRepository{getErr: errors.New("connection refused")}
	svc := NewUpcomingEventService(repo, zap.NewNop())

	_, err := svc.GetUpcomingEvents(context.Background(), uuid.New(), 30)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load contacts")
}
