package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/helpdesk-api/internal/constants"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
)

// TicketStats summarises the full ticket set.
type TicketStats struct {
	Total               int    `json:"total"`
	OpenTickets         int    `json:"openTickets"`
	InProgressTickets   int    `json:"inProgressTickets"`
	ResolvedTickets     int    `json:"resolvedTickets"`
	ClosedTickets       int    `json:"closedTickets"`
	HighPriorityCount   int    `json:"highPriorityCount"`
	MediumPriorityCount int    `json:"mediumPriorityCount"`
	LowPriorityCount    int    `json:"lowPriorityCount"`
	AvgResponseTime     string `json:"avgResponseTime"`

	TicketsByStatus   map[models.TicketStatus]int   `json:"ticketsByStatus"`
	TicketsByPriority map[models.TicketPriority]int `json:"ticketsByPriority"`
	TicketsByCategory map[string]int                `json:"ticketsByCategory"`
}

// StatsService computes dashboard statistics.
type StatsService struct {
	store repository.Store
	now   func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(store repository.Store) *StatsService {
	return &StatsService{store: store, now: time.Now}
}

// Stats loads the current tickets, comments and categories and aggregates them.
func (s *StatsService) Stats() (*TicketStats, error) {
	tickets, err := s.store.ListTickets(models.TicketFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	comments, err := s.store.ListComments()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	categories, err := s.store.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	stats := ComputeTicketStats(tickets, comments, categories, s.now())
	return &stats, nil
}

// ComputeTicketStats aggregates tickets as seen at now.
//
// ResolvedTickets only counts tickets resolved during now's calendar day in
// now's location, from local midnight up to the next one. TicketsByStatus
// counts every resolved ticket, so its values sum to Total.
func ComputeTicketStats(tickets []models.Ticket, comments []models.Comment, categories []models.Category, now time.Time) TicketStats {
	stats := TicketStats{
		Total:             len(tickets),
		TicketsByStatus:   make(map[models.TicketStatus]int, len(models.TicketStatuses)),
		TicketsByPriority: make(map[models.TicketPriority]int, len(models.TicketPriorities)),
		TicketsByCategory: make(map[string]int),
	}
	for _, status := range models.TicketStatuses {
		stats.TicketsByStatus[status] = 0
	}
	for _, priority := range models.TicketPriorities {
		stats.TicketsByPriority[priority] = 0
	}

	categoryNames := make(map[uint64]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	for _, t := range tickets {
		stats.TicketsByStatus[t.Status]++
		stats.TicketsByPriority[t.Priority]++

		switch t.Status {
		case models.TicketStatusOpen:
			stats.OpenTickets++
		case models.TicketStatusInProgress:
			stats.InProgressTickets++
		case models.TicketStatusClosed:
			stats.ClosedTickets++
		case models.TicketStatusResolved:
			if !t.UpdatedAt.Before(dayStart) && t.UpdatedAt.Before(dayEnd) {
				stats.ResolvedTickets++
			}
		}

		switch t.Priority {
		case models.TicketPriorityHigh:
			stats.HighPriorityCount++
		case models.TicketPriorityMedium:
			stats.MediumPriorityCount++
		case models.TicketPriorityLow:
			stats.LowPriorityCount++
		}

		label := constants.UncategorizedLabel
		if t.CategoryID != nil {
			if name, ok := categoryNames[*t.CategoryID]; ok {
				label = name
			}
		}
		stats.TicketsByCategory[label]++
	}

	stats.AvgResponseTime = averageResponseTime(tickets, comments)
	return stats
}

// averageResponseTime is the mean delay between a ticket being opened and
// the first comment from someone other than its creator.
func averageResponseTime(tickets []models.Ticket, comments []models.Comment) string {
	firstResponse := make(map[uint64]time.Time)
	ticketsByID := make(map[uint64]models.Ticket, len(tickets))
	for _, t := range tickets {
		ticketsByID[t.ID] = t
	}
	for _, c := range comments {
		t, ok := ticketsByID[c.TicketID]
		if !ok || c.UserID == t.CreatedByID {
			continue
		}
		if seen, ok := firstResponse[c.TicketID]; !ok || c.CreatedAt.Before(seen) {
			firstResponse[c.TicketID] = c.CreatedAt
		}
	}

	if len(firstResponse) == 0 {
		return constants.AvgResponseTimeUnavailable
	}

	var total time.Duration
	for ticketID, respondedAt := range firstResponse {
		if delay := respondedAt.Sub(ticketsByID[ticketID].CreatedAt); delay > 0 {
			total += delay
		}
	}
	avg := total / time.Duration(len(firstResponse))
	return fmt.Sprintf("%.1fh", avg.Hours())
}
