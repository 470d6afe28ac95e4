package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
)

func TestComputeTicketStats(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, 6, 10, 8, 30, 0, 0, loc)
	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, loc)
	technical := uint64(1)
	removed := uint64(9)

	tickets := []models.Ticket{
		{ID: 1, Status: models.TicketStatusOpen, Priority: models.TicketPriorityHigh, CategoryID: &technical, CreatedAt: midnight, UpdatedAt: midnight},
		{ID: 2, Status: models.TicketStatusInProgress, Priority: models.TicketPriorityHigh, CategoryID: &technical, UpdatedAt: midnight},
		// resolved one minute after local midnight: today
		{ID: 3, Status: models.TicketStatusResolved, Priority: models.TicketPriorityMedium, UpdatedAt: midnight.Add(time.Minute)},
		// resolved one minute before local midnight: within 24h but yesterday
		{ID: 4, Status: models.TicketStatusResolved, Priority: models.TicketPriorityLow, CategoryID: &removed, UpdatedAt: midnight.Add(-time.Minute)},
		{ID: 5, Status: models.TicketStatusClosed, Priority: models.TicketPriorityLow, UpdatedAt: midnight},
	}
	categories := []models.Category{{ID: technical, Name: "Technical"}}

	stats := ComputeTicketStats(tickets, nil, categories, now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, 1, stats.InProgressTickets)
	assert.Equal(t, 1, stats.ResolvedTickets)
	assert.Equal(t, 1, stats.ClosedTickets)
	assert.Equal(t, 2, stats.HighPriorityCount)
	assert.Equal(t, 1, stats.MediumPriorityCount)
	assert.Equal(t, 2, stats.LowPriorityCount)
	assert.Equal(t, "N/A", stats.AvgResponseTime)

	sum := 0
	for _, n := range stats.TicketsByStatus {
		sum += n
	}
	assert.Equal(t, stats.Total, sum)
	assert.Equal(t, 2, stats.TicketsByStatus[models.TicketStatusResolved])
	assert.Equal(t, map[string]int{"Technical": 2, "Uncategorized": 3}, stats.TicketsByCategory)
}

func TestComputeTicketStats_Empty(t *testing.T) {
	stats := ComputeTicketStats(nil, nil, nil, time.Now())

	assert.Equal(t, 0, stats.Total)
	assert.Len(t, stats.TicketsByStatus, 4)
	assert.Len(t, stats.TicketsByPriority, 3)
	assert.Equal(t, "N/A", stats.AvgResponseTime)
}

func TestComputeTicketStats_AverageResponseTime(t *testing.T) {
	opened := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	tickets := []models.Ticket{
		{ID: 1, CreatedByID: 10, CreatedAt: opened, Status: models.TicketStatusOpen, Priority: models.TicketPriorityLow},
		{ID: 2, CreatedByID: 10, CreatedAt: opened, Status: models.TicketStatusOpen, Priority: models.TicketPriorityLow},
		{ID: 3, CreatedByID: 10, CreatedAt: opened, Status: models.TicketStatusOpen, Priority: models.TicketPriorityLow},
	}
	comments := []models.Comment{
		// creator's own comments never count as a response
		{TicketID: 1, UserID: 10, CreatedAt: opened.Add(time.Minute)},
		{TicketID: 1, UserID: 20, CreatedAt: opened.Add(3 * time.Hour)},
		{TicketID: 1, UserID: 20, CreatedAt: opened.Add(time.Hour)},
		{TicketID: 2, UserID: 30, CreatedAt: opened.Add(2 * time.Hour)},
		{TicketID: 3, UserID: 10, CreatedAt: opened.Add(time.Hour)},
		// comment on a deleted ticket
		{TicketID: 99, UserID: 20, CreatedAt: opened},
	}

	stats := ComputeTicketStats(tickets, comments, nil, opened)
	assert.Equal(t, "1.5h", stats.AvgResponseTime)
}

func TestStatsService_Stats(t *testing.T) {
	store := repository.NewMemoryStore()
	now := time.Date(2026, 6, 10, 15, 0, 0, 0, time.Local)
	for _, status := range []models.TicketStatus{models.TicketStatusOpen, models.TicketStatusResolved, models.TicketStatusClosed} {
		require.NoError(t, store.CreateTicket(&models.Ticket{
			Subject:   string(status),
			Status:    status,
			Priority:  models.TicketPriorityMedium,
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}

	service := NewStatsService(store)
	service.now = func() time.Time { return now }

	stats, err := service.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ResolvedTickets)
	assert.Equal(t, 3, stats.MediumPriorityCount)
}
