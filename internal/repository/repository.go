package repository

import (
	"errors"

	"github.com/yukikurage/helpdesk-api/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique field already exists.
	ErrDuplicate = errors.New("repository: duplicate record")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateUser assigns the next user ID and stores the user
	CreateUser(user *models.User) error

	// FindUserByID finds a user by ID
	FindUserByID(id uint64) (*models.User, error)

	// FindUserByUsername finds a user by username
	FindUserByUsername(username string) (*models.User, error)

	// FindUserByEmail finds a user by email
	FindUserByEmail(email string) (*models.User, error)

	// ListUsers returns all users in insertion order
	ListUsers() ([]models.User, error)

	// UpdateUser replaces a stored user
	UpdateUser(user *models.User) error

	// DeleteUser removes a user; tickets and comments referencing it are kept
	DeleteUser(id uint64) error
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	CreateCategory(category *models.Category) error
	FindCategoryByID(id uint64) (*models.Category, error)
	FindCategoryByName(name string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uint64) error
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// CreateTicket assigns the next ticket ID and stores the ticket
	CreateTicket(ticket *models.Ticket) error

	// FindTicketByID finds a ticket by ID
	FindTicketByID(id uint64) (*models.Ticket, error)

	// ListTickets returns the tickets matching filter in insertion order
	ListTickets(filter models.TicketFilter) ([]models.Ticket, error)

	// UpdateTicket replaces a stored ticket
	UpdateTicket(ticket *models.Ticket) error

	// DeleteTicket removes a ticket together with its comments,
	// notifications and history
	DeleteTicket(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	FindCommentByID(id uint64) (*models.Comment, error)

	// ListCommentsByTicket returns comments oldest first
	ListCommentsByTicket(ticketID uint64) ([]models.Comment, error)

	// ListComments returns every comment in insertion order
	ListComments() ([]models.Comment, error)

	DeleteComment(id uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	FindNotificationByID(id uint64) (*models.Notification, error)

	// ListNotificationsByUser returns a user's notifications newest first
	ListNotificationsByUser(userID uint64, unreadOnly bool) ([]models.Notification, error)

	// MarkNotificationRead sets read on one notification
	MarkNotificationRead(id uint64) error

	// MarkAllNotificationsRead sets read on every unread notification of a
	// user and returns how many changed
	MarkAllNotificationsRead(userID uint64) (int64, error)

	DeleteNotification(id uint64) error
}

// TicketHistoryRepository defines the interface for ticket history data access
type TicketHistoryRepository interface {
	CreateTicketHistory(entries []models.TicketHistory) error

	// ListTicketHistory returns a ticket's history newest first
	ListTicketHistory(ticketID uint64) ([]models.TicketHistory, error)
}

// Store is the full persistence contract. MemoryStore and GormStore both
// implement it, so services never depend on a concrete backend.
type Store interface {
	UserRepository
	CategoryRepository
	TicketRepository
	CommentRepository
	NotificationRepository
	TicketHistoryRepository
}
