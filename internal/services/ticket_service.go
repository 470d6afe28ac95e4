package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
)

// TicketService handles tickets, their comments and their history.
//
// Mutations and the notifications derived from them run under one lock, so
// the before/after state a notification is keyed on cannot interleave with
// another writer.
type TicketService struct {
	mu            sync.Mutex
	store         repository.Store
	notifications *NotificationService
	logger        *slog.Logger
	now           func() time.Time
}

// NewTicketService creates a new TicketService
func NewTicketService(store repository.Store, notifications *NotificationService, log *slog.Logger) *TicketService {
	return &TicketService{
		store:         store,
		notifications: notifications,
		logger:        logger.WithComponent(log, "tickets"),
		now:           time.Now,
	}
}

// CreateTicketInput represents input for creating a ticket
type CreateTicketInput struct {
	Subject      string
	Description  string
	Status       models.TicketStatus
	Priority     models.TicketPriority
	CategoryID   *uint64
	CreatedByID  uint64
	AssignedToID *uint64
}

// TicketDetails is a ticket with its related records resolved. Any relation
// whose record no longer exists is left nil.
type TicketDetails struct {
	models.Ticket
	CreatedBy  *models.User
	AssignedTo *models.User
	Category   *models.Category
}

// ListTickets returns the tickets matching filter
func (s *TicketService) ListTickets(filter models.TicketFilter) ([]models.Ticket, error) {
	tickets, err := s.store.ListTickets(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// GetTicket returns a ticket by ID
func (s *TicketService) GetTicket(id uint64) (*models.Ticket, error) {
	ticket, err := s.store.FindTicketByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return ticket, nil
}

// CreateTicket stores a ticket and notifies its assignee, if any.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := input.Status
	if status == "" {
		status = models.TicketStatusOpen
	}
	priority := input.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}

	now := s.now()
	ticket := &models.Ticket{
		Subject:      input.Subject,
		Description:  input.Description,
		Status:       status,
		Priority:     priority,
		CategoryID:   input.CategoryID,
		CreatedByID:  input.CreatedByID,
		AssignedToID: input.AssignedToID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateTicket(ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if ticket.AssignedToID != nil {
		s.notifications.Emit(ctx, CreateNotificationInput{
			UserID:   *ticket.AssignedToID,
			TicketID: &ticket.ID,
			Type:     models.NotificationInfo,
			Message:  fmt.Sprintf("New ticket assigned to you: %s", ticket.Subject),
		})
	}

	s.logger.Info("ticket created", "ticket_id", ticket.ID, "created_by", ticket.CreatedByID)
	return ticket, nil
}

// UpdateTicket merges patch onto a ticket, records one history entry per
// changed field and notifies on reassignment and on a transition into
// resolved. Only those two changes notify.
func (s *TicketService) UpdateTicket(ctx context.Context, id, actorID uint64, patch models.TicketPatch) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.store.FindTicketByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	next := *prev
	patch.Apply(&next)
	next.UpdatedAt = s.now()
	if next.UpdatedAt.Before(next.CreatedAt) {
		next.UpdatedAt = next.CreatedAt
	}

	if err := s.store.UpdateTicket(&next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	if entries := diffTicket(*prev, next, actorID, next.UpdatedAt); len(entries) > 0 {
		if err := s.store.CreateTicketHistory(entries); err != nil {
			s.logger.Warn("ticket history not recorded", "ticket_id", id, "error", err)
		}
	}

	if patch.AssignedToID.Set && patch.AssignedToID.Value != nil && !sameID(prev.AssignedToID, patch.AssignedToID.Value) {
		s.notifications.Emit(ctx, CreateNotificationInput{
			UserID:   *patch.AssignedToID.Value,
			TicketID: &next.ID,
			Type:     models.NotificationInfo,
			Message:  fmt.Sprintf("Ticket #%d has been assigned to you", next.ID),
		})
	}

	if patch.Status != nil && *patch.Status == models.TicketStatusResolved && prev.Status != models.TicketStatusResolved {
		s.notifications.Emit(ctx, CreateNotificationInput{
			UserID:   prev.CreatedByID,
			TicketID: &next.ID,
			Type:     models.NotificationSuccess,
			Message:  fmt.Sprintf("Ticket #%d has been resolved", next.ID),
		})
	}

	return &next, nil
}

// DeleteTicket removes a ticket with its comments, notifications and history.
func (s *TicketService) DeleteTicket(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteTicket(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	s.logger.Info("ticket deleted", "ticket_id", id)
	return nil
}

// WithDetails resolves the creator, assignee and category of each ticket.
// Dangling references come back as nil rather than an error.
func (s *TicketService) WithDetails(tickets ...models.Ticket) ([]TicketDetails, error) {
	users, err := s.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	categories, err := s.store.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	usersByID := make(map[uint64]*models.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}
	categoriesByID := make(map[uint64]*models.Category, len(categories))
	for i := range categories {
		categoriesByID[categories[i].ID] = &categories[i]
	}

	details := make([]TicketDetails, 0, len(tickets))
	for _, ticket := range tickets {
		d := TicketDetails{Ticket: ticket, CreatedBy: usersByID[ticket.CreatedByID]}
		if ticket.AssignedToID != nil {
			d.AssignedTo = usersByID[*ticket.AssignedToID]
		}
		if ticket.CategoryID != nil {
			d.Category = categoriesByID[*ticket.CategoryID]
		}
		details = append(details, d)
	}
	return details, nil
}

// ListComments returns a ticket's comments, oldest first.
func (s *TicketService) ListComments(ticketID uint64) ([]models.Comment, error) {
	if _, err := s.GetTicket(ticketID); err != nil {
		return nil, err
	}
	comments, err := s.store.ListCommentsByTicket(ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CreateComment adds a comment to an existing ticket and notifies the
// ticket's creator and assignee, skipping whichever of them wrote it.
func (s *TicketService) CreateComment(ctx context.Context, ticketID, userID uint64, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.store.FindTicketByID(ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	comment := &models.Comment{
		Content:   content,
		TicketID:  ticketID,
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if ticket.CreatedByID != userID {
		s.notifications.Emit(ctx, CreateNotificationInput{
			UserID:   ticket.CreatedByID,
			TicketID: &ticket.ID,
			Type:     models.NotificationInfo,
			Message:  fmt.Sprintf("New comment on your ticket: %s", ticket.Subject),
		})
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID != userID {
		s.notifications.Emit(ctx, CreateNotificationInput{
			UserID:   *ticket.AssignedToID,
			TicketID: &ticket.ID,
			Type:     models.NotificationInfo,
			Message:  fmt.Sprintf("New comment on ticket #%d", ticket.ID),
		})
	}

	return comment, nil
}

// DeleteComment removes a comment
func (s *TicketService) DeleteComment(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteComment(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ListHistory returns a ticket's change history, newest first.
func (s *TicketService) ListHistory(ticketID uint64) ([]models.TicketHistory, error) {
	if _, err := s.GetTicket(ticketID); err != nil {
		return nil, err
	}
	entries, err := s.store.ListTicketHistory(ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket history: %w", err)
	}
	return entries, nil
}

func diffTicket(prev, next models.Ticket, actorID uint64, at time.Time) []models.TicketHistory {
	var entries []models.TicketHistory
	record := func(field string, oldValue, newValue *string) {
		if equalValue(oldValue, newValue) {
			return
		}
		entry := models.TicketHistory{
			TicketID:  next.ID,
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
			CreatedAt: at,
		}
		if actorID != 0 {
			actor := actorID
			entry.UserID = &actor
		}
		entries = append(entries, entry)
	}

	record("subject", &prev.Subject, &next.Subject)
	record("description", &prev.Description, &next.Description)
	record("status", stringValue(string(prev.Status)), stringValue(string(next.Status)))
	record("priority", stringValue(string(prev.Priority)), stringValue(string(next.Priority)))
	record("categoryId", idValue(prev.CategoryID), idValue(next.CategoryID))
	record("assignedToId", idValue(prev.AssignedToID), idValue(next.AssignedToID))
	return entries
}

func stringValue(s string) *string { return &s }

func idValue(id *uint64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatUint(*id, 10)
	return &s
}

func equalValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
