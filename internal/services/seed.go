package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/helpdesk-api/internal/models"
)

// Seeder loads the demo data set through the regular services, so the
// notifications a real user would trigger are produced as well.
type Seeder struct {
	Users         *UserService
	Categories    *CategoryService
	Tickets       *TicketService
	Notifications *NotificationService
}

const seedPassword = "password123"

func avatar(photo string) *string {
	url := "https://images.unsplash.com/" + photo + "?w=256&h=256&fit=crop"
	return &url
}

// Seed populates an empty store. It reports false without changes when any
// user already exists.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	existing, err := s.Users.ListUsers()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	users := make(map[string]*models.User)
	for _, in := range []CreateUserInput{
		{Username: "admin", Name: "John Doe", Email: "admin@example.com", Role: models.RoleAdmin, Avatar: avatar("photo-1472099645785-5658abf4ff4e")},
		{Username: "agent", Name: "Jane Smith", Email: "agent@example.com", Role: models.RoleAgent, Avatar: avatar("photo-1494790108377-be9c29b29330")},
		{Username: "support", Name: "Alex Johnson", Email: "support@example.com", Role: models.RoleAgent, Avatar: avatar("photo-1507003211169-0a1dd7228f2d")},
		{Username: "user", Name: "Mike Wilson", Email: "user@example.com", Role: models.RoleUser, Avatar: avatar("photo-1500648767791-00dcc994a43e")},
	} {
		in.Password = seedPassword
		user, err := s.Users.CreateUser(in)
		if err != nil {
			return false, fmt.Errorf("seed user %s: %w", in.Username, err)
		}
		users[in.Username] = user
	}

	categories := make(map[string]*models.Category)
	for _, c := range []struct{ name, description string }{
		{"Technical", "Technical issues with the platform"},
		{"Billing", "Payment and subscription issues"},
		{"Account", "Account management issues"},
		{"Feature Request", "Requests for new features"},
	} {
		description := c.description
		category, err := s.Categories.CreateCategory(c.name, &description)
		if err != nil {
			return false, fmt.Errorf("seed category %s: %w", c.name, err)
		}
		categories[c.name] = category
	}

	type seedTicket struct {
		subject, description string
		status               models.TicketStatus
		priority             models.TicketPriority
		category             string
		creator, assignee    string
	}
	tickets := make([]*models.Ticket, 0, 5)
	for _, t := range []seedTicket{
		{"Unable to access customer portal", "I'm getting an error when trying to log in to the customer portal. It says 'Invalid credentials' but I'm sure my password is correct.", models.TicketStatusInProgress, models.TicketPriorityHigh, "Technical", "user", "admin"},
		{"System throwing error during checkout", "Customers are reporting an error page when they try to complete their purchase.", models.TicketStatusOpen, models.TicketPriorityHigh, "Technical", "user", "agent"},
		{"Need to update billing information", "I need to change the credit card on file for my subscription.", models.TicketStatusResolved, models.TicketPriorityMedium, "Billing", "user", "support"},
		{"Feature request: Dark mode", "It would be great to have a dark mode option for the dashboard.", models.TicketStatusOpen, models.TicketPriorityLow, "Feature Request", "user", "support"},
		{"Integration with third-party API failing", "Our webhook integration stopped receiving events since yesterday.", models.TicketStatusInProgress, models.TicketPriorityMedium, "Technical", "agent", "admin"},
	} {
		ticket, err := s.Tickets.CreateTicket(ctx, CreateTicketInput{
			Subject:      t.subject,
			Description:  t.description,
			Status:       t.status,
			Priority:     t.priority,
			CategoryID:   &categories[t.category].ID,
			CreatedByID:  users[t.creator].ID,
			AssignedToID: &users[t.assignee].ID,
		})
		if err != nil {
			return false, fmt.Errorf("seed ticket %q: %w", t.subject, err)
		}
		tickets = append(tickets, ticket)
	}

	for _, c := range []struct {
		author, content string
	}{
		{"user", "I've tried clearing my cache and cookies, but still having the same issue."},
		{"admin", "Have you tried using a different browser? Let me know if that works."},
	} {
		if _, err := s.Tickets.CreateComment(ctx, tickets[0].ID, users[c.author].ID, c.content); err != nil {
			return false, fmt.Errorf("seed comment: %w", err)
		}
	}

	admin := users["admin"].ID
	for _, n := range []CreateNotificationInput{
		{UserID: admin, TicketID: &tickets[0].ID, Type: models.NotificationWarning, Message: "New high priority ticket assigned to you"},
		{UserID: admin, TicketID: &tickets[2].ID, Type: models.NotificationSuccess, Message: fmt.Sprintf("Ticket #%d has been resolved", tickets[2].ID)},
		{UserID: admin, TicketID: &tickets[0].ID, Type: models.NotificationInfo, Message: fmt.Sprintf("New comment on ticket #%d", tickets[0].ID)},
	} {
		if _, err := s.Notifications.Create(ctx, n); err != nil {
			return false, fmt.Errorf("seed notification: %w", err)
		}
	}

	return true, nil
}
